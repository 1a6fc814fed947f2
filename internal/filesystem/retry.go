package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"image-manager/internal/logging"
)

// RetryConfig configures retry behavior for filesystem operations
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the defaults used for image directories that may
// live on network shares.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isNFSStaleError checks if an error is an NFS stale file handle error
func isNFSStaleError(err error) bool {
	if err == nil {
		return false
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ESTALE
	}
	return false
}

// withRetry runs fn, retrying with capped exponential backoff while it fails
// with ESTALE. Any other error is returned immediately.
func withRetry(op, path string, config RetryConfig, fn func() error) error {
	start := time.Now()
	obs := observe()
	backoff := config.InitialBackoff
	var lastErr error

	defer func() {
		if obs != nil {
			obs.ObserveOperation(op, time.Since(start).Seconds(), lastErr)
		}
	}()

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			if attempt > 0 {
				logging.Info("%s succeeded on retry %d for %s", op, attempt, path)
				if obs != nil {
					obs.ObserveRetrySuccess(op)
				}
			}
			return nil
		}

		if !isNFSStaleError(lastErr) {
			return lastErr
		}

		if obs != nil {
			obs.ObserveStaleError(op)
		}

		if attempt < config.MaxRetries {
			if obs != nil {
				obs.ObserveRetryAttempt(op)
			}
			logging.Debug("%s stale file handle for %s, retrying in %v (attempt %d/%d)",
				op, path, backoff, attempt+1, config.MaxRetries)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	logging.Warn("%s failed after %d retries for %s: %v", op, config.MaxRetries, path, lastErr)
	if obs != nil {
		obs.ObserveRetryFailure(op)
	}
	return lastErr
}

// StatWithRetry performs os.Stat with retry logic for NFS stale file handle errors
func StatWithRetry(path string, config RetryConfig) (os.FileInfo, error) {
	var info os.FileInfo
	err := withRetry("stat", path, config, func() error {
		var err error
		info, err = os.Stat(path)
		return err
	})
	return info, err
}

// OpenWithRetry performs os.Open with retry logic for NFS stale file handle errors
func OpenWithRetry(path string, config RetryConfig) (*os.File, error) {
	var file *os.File
	err := withRetry("open", path, config, func() error {
		var err error
		file, err = os.Open(path)
		return err
	})
	return file, err
}

// ReadDirWithRetry performs os.ReadDir with retry logic. Entries come back
// sorted by filename, as os.ReadDir guarantees.
func ReadDirWithRetry(path string, config RetryConfig) ([]os.DirEntry, error) {
	var entries []os.DirEntry
	err := withRetry("readdir", path, config, func() error {
		var err error
		entries, err = os.ReadDir(path)
		return err
	})
	return entries, err
}

// RenameWithRetry performs os.Rename with retry logic. A retried rename whose
// first attempt actually landed surfaces as a not-exist error on oldPath.
func RenameWithRetry(oldPath, newPath string, config RetryConfig) error {
	return withRetry("rename", oldPath, config, func() error {
		return os.Rename(oldPath, newPath)
	})
}
