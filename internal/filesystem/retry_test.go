package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"
)

// recordingObserver counts observer callbacks per operation.
type recordingObserver struct {
	mu       sync.Mutex
	ops      map[string]int
	errors   map[string]int
	attempts map[string]int
	success  map[string]int
	failures map[string]int
	stale    map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		ops:      map[string]int{},
		errors:   map[string]int{},
		attempts: map[string]int{},
		success:  map[string]int{},
		failures: map[string]int{},
		stale:    map[string]int{},
	}
}

func (r *recordingObserver) ObserveOperation(op string, _ float64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[op]++
	if err != nil {
		r.errors[op]++
	}
}

func (r *recordingObserver) ObserveRetryAttempt(op string) { r.inc(r.attempts, op) }
func (r *recordingObserver) ObserveRetrySuccess(op string) { r.inc(r.success, op) }
func (r *recordingObserver) ObserveRetryFailure(op string) { r.inc(r.failures, op) }
func (r *recordingObserver) ObserveStaleError(op string)   { r.inc(r.stale, op) }

func (r *recordingObserver) inc(m map[string]int, op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m[op]++
}

func withObserver(t *testing.T) *recordingObserver {
	t.Helper()
	original := defaultObserver
	obs := newRecordingObserver()
	SetObserver(obs)
	t.Cleanup(func() { SetObserver(original) })
	return obs
}

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     4 * time.Millisecond,
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ESTALE error", syscall.ESTALE, true},
		{"wrapped ESTALE", &os.PathError{Op: "stat", Path: "/x", Err: syscall.ESTALE}, true},
		{"ENOENT error", syscall.ENOENT, false},
		{"generic error", os.ErrNotExist, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNFSStaleError(tt.err); got != tt.want {
				t.Errorf("isNFSStaleError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithRetry_RecoversFromStaleHandle(t *testing.T) {
	obs := withObserver(t)

	calls := 0
	err := withRetry("stat", "/nfs/a.png", fastRetryConfig(), func() error {
		calls++
		if calls < 3 {
			return syscall.ESTALE
		}
		return nil
	})

	if err != nil {
		t.Fatalf("withRetry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if obs.stale["stat"] != 2 || obs.attempts["stat"] != 2 || obs.success["stat"] != 1 {
		t.Errorf("unexpected observer counts: stale=%d attempts=%d success=%d",
			obs.stale["stat"], obs.attempts["stat"], obs.success["stat"])
	}
	if obs.ops["stat"] != 1 || obs.errors["stat"] != 0 {
		t.Errorf("operation recorded %d times with %d errors, want 1 and 0", obs.ops["stat"], obs.errors["stat"])
	}
}

func TestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	obs := withObserver(t)

	calls := 0
	err := withRetry("open", "/nfs/a.png", fastRetryConfig(), func() error {
		calls++
		return syscall.ESTALE
	})

	if !errors.Is(err, syscall.ESTALE) {
		t.Fatalf("withRetry() error = %v, want ESTALE", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (1 + 3 retries)", calls)
	}
	if obs.failures["open"] != 1 {
		t.Errorf("failures = %d, want 1", obs.failures["open"])
	}
	if obs.errors["open"] != 1 {
		t.Errorf("errors = %d, want 1", obs.errors["open"])
	}
}

func TestWithRetry_DoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	err := withRetry("rename", "/x", fastRetryConfig(), func() error {
		calls++
		return os.ErrPermission
	})
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("error = %v, want ErrPermission", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestStatAndOpenWithRetry(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	info, err := StatWithRetry(testFile, fastRetryConfig())
	if err != nil {
		t.Fatalf("StatWithRetry() error = %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("Size() = %d, want 4", info.Size())
	}

	f, err := OpenWithRetry(testFile, fastRetryConfig())
	if err != nil {
		t.Fatalf("OpenWithRetry() error = %v", err)
	}
	f.Close()

	if _, err := StatWithRetry(filepath.Join(tmpDir, "missing"), fastRetryConfig()); !os.IsNotExist(err) {
		t.Errorf("StatWithRetry(missing) error = %v, want not-exist", err)
	}
}

func TestRenameWithRetry(t *testing.T) {
	tmpDir := t.TempDir()
	oldPath := filepath.Join(tmpDir, "a.png")
	newPath := filepath.Join(tmpDir, "b.png")
	if err := os.WriteFile(oldPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RenameWithRetry(oldPath, newPath, fastRetryConfig()); err != nil {
		t.Fatalf("RenameWithRetry() error = %v", err)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
	if err := RenameWithRetry(oldPath, newPath, fastRetryConfig()); !os.IsNotExist(err) {
		t.Errorf("second rename error = %v, want not-exist", err)
	}
}
