package media

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"image-manager/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// VipsConfig tunes libvips at startup.
type VipsConfig struct {
	ConcurrencyLevel int
	MaxCacheMem      int
	MaxCacheSize     int
}

// DefaultVipsConfig keeps libvips memory use small; batch parallelism comes
// from the worker pool, not from libvips threads.
func DefaultVipsConfig() VipsConfig {
	return VipsConfig{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	}
}

// vipsLogSettings returns a handler that forwards libvips messages to our
// logger and the libvips threshold matching the application log level.
func vipsLogSettings(level logging.LogLevel) (vips.LoggingHandlerFunction, vips.LogLevel) {
	forward := func(domain string, level vips.LogLevel, msg string) {
		switch {
		case level >= vips.LogLevelError:
			logging.Error("[%s] %s", domain, msg)
		case level == vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}

	switch level {
	case logging.LevelDebug:
		return forward, vips.LogLevelInfo
	case logging.LevelInfo:
		return forward, vips.LogLevelWarning
	case logging.LevelWarn:
		return forward, vips.LogLevelError
	default:
		return forward, vips.LogLevelCritical
	}
}

// InitVips starts libvips. It is safe to call more than once; only the first
// call has an effect. libvips cannot be restarted after ShutdownVips.
func InitVips(cfg VipsConfig) error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	vips.LoggingSettings(vipsLogSettings(logging.GetLevel()))

	vips.Startup(&vips.Config{
		ConcurrencyLevel: cfg.ConcurrencyLevel,
		MaxCacheMem:      cfg.MaxCacheMem,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips releases libvips resources.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// VipsResizer resamples through libvips with the Lanczos3 kernel. When
// libvips was not started it hands the work to its fallback.
type VipsResizer struct {
	fallback Resizer
}

// Name implements Resizer.
func (r *VipsResizer) Name() string { return BackendVips }

// Resize implements Resizer.
func (r *VipsResizer) Resize(h *Handle, width, height int) (*Handle, error) {
	if err := checkTarget(width, height); err != nil {
		return nil, err
	}
	if !IsVipsAvailable() {
		logging.Debug("libvips not available, resizing with %s", r.fallback.Name())
		return r.fallback.Resize(h, width, height)
	}
	defer observeResize(BackendVips, time.Now())

	// Lossless hand-off so the only resampling is the one libvips does.
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, h.img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("vips hand-off encode failed: %w", err)
	}

	ref, err := vips.NewImageFromBuffer(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	hscale := float64(width) / float64(ref.Width())
	vscale := float64(height) / float64(ref.Height())
	if err := ref.ResizeWithVScale(hscale, vscale, vips.KernelLanczos3); err != nil {
		return nil, fmt.Errorf("vips resize failed: %w", err)
	}

	out, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("failed to decode vips output: %w", err)
	}

	// libvips rounds scaled edges; snap to the exact plan.
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	return &Handle{img: img, format: h.format}, nil
}
