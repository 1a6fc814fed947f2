package startup

import (
	"path/filepath"
	"sync"

	"image-manager/internal/logging"
)

// Launch describes a file the application was asked to open.
type Launch struct {
	Path      string `json:"path"`
	Directory string `json:"directory"`
	Filename  string `json:"filename"`
}

// LaunchConfig holds the most recent open-file request: the path given on
// the command line at startup, replaced whenever another instance forwards
// its own path. It is created once in main and handed to the HTTP layer.
type LaunchConfig struct {
	mu      sync.RWMutex
	current *Launch
}

// NewLaunchConfig returns a LaunchConfig seeded with path, which may be
// empty.
func NewLaunchConfig(path string) *LaunchConfig {
	lc := &LaunchConfig{}
	if path != "" {
		lc.Set(path)
	}
	return lc
}

// Set records path as the file to open.
func (lc *LaunchConfig) Set(path string) Launch {
	abs := absPath(path)
	l := Launch{
		Path:      abs,
		Directory: filepath.Dir(abs),
		Filename:  filepath.Base(abs),
	}

	lc.mu.Lock()
	lc.current = &l
	lc.mu.Unlock()

	logging.Info("Open-file request: %s", abs)
	return l
}

// Get returns the current request and whether there is one.
func (lc *LaunchConfig) Get() (Launch, bool) {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	if lc.current == nil {
		return Launch{}, false
	}
	return *lc.current, true
}
