package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"sort"

	"image-manager/internal/imgerr"
	"image-manager/internal/mediatypes"
)

// Exists reports whether path is present. Errors other than not-exist are
// returned so callers never mistake an unreadable entry for a free name.
func Exists(path string, config RetryConfig) (bool, error) {
	_, err := StatWithRetry(path, config)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, imgerr.IO("stat", err)
}

// RequireDir returns ErrNotFound unless dir exists and is a directory.
func RequireDir(dir string, config RetryConfig) error {
	info, err := StatWithRetry(dir, config)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return imgerr.NotFound("directory does not exist: %s", dir)
		}
		return imgerr.IO("stat", err)
	}
	if !info.IsDir() {
		return imgerr.NotFound("not a directory: %s", dir)
	}
	return nil
}

// ListEntries returns every entry name in dir, sorted lexicographically.
func ListEntries(dir string, config RetryConfig) ([]string, error) {
	if err := RequireDir(dir, config); err != nil {
		return nil, err
	}
	entries, err := ReadDirWithRetry(dir, config)
	if err != nil {
		return nil, imgerr.IO("read directory", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ListImages returns the names in dir with a recognized image extension,
// sorted lexicographically. Extension matching ignores case; names are
// returned as stored.
func ListImages(dir string, config RetryConfig) ([]string, error) {
	names, err := ListEntries(dir, config)
	if err != nil {
		return nil, err
	}

	images := names[:0]
	for _, name := range names {
		if mediatypes.IsImageFile(name) {
			images = append(images, name)
		}
	}
	return images, nil
}

// FileSize returns the size of the regular file at path.
func FileSize(path string, config RetryConfig) (int64, error) {
	info, err := StatWithRetry(path, config)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, imgerr.NotFound("file not found: %s", path)
		}
		return 0, imgerr.IO("stat", err)
	}
	return info.Size(), nil
}

// Mode returns the permission bits of path, or fallback if it cannot be read.
func Mode(path string, fallback os.FileMode) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return info.Mode().Perm()
}
