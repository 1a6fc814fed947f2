// Package processor implements the operations the host application calls:
// directory listing, metadata, thumbnails, rotation, upscaling and bulk
// renames. Every operation takes a directory and plain filenames inside it.
package processor

import (
	"fmt"
	"path/filepath"

	"image-manager/internal/filesystem"
	"image-manager/internal/imgerr"
	"image-manager/internal/logging"
	"image-manager/internal/media"
	"image-manager/internal/metrics"
	"image-manager/internal/rename"
	"image-manager/internal/workers"
)

// Config holds the tunables of a Processor.
type Config struct {
	// Workers bounds batch thumbnail parallelism. Values below 1 size the
	// pool from the available CPUs.
	Workers int
	// ResizeBackend selects the Resizer ("imaging", "nfnt" or "vips").
	ResizeBackend string
	// ThumbnailQuality is the JPEG quality of thumbnails.
	ThumbnailQuality int
	// SaveQuality is the JPEG quality of rotated and upscaled files.
	SaveQuality int
	// AutoOrient applies EXIF orientation when decoding.
	AutoOrient bool
	// MaxUpscaleDimension caps either edge of an upscaled image.
	MaxUpscaleDimension int
	// MaxThumbnailEdge caps the edge a thumbnail may be requested at.
	MaxThumbnailEdge int
	// MaxPixels caps the area of any raster the pipeline plans to allocate.
	MaxPixels int
	Retry               filesystem.RetryConfig
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Workers:             0,
		ResizeBackend:       media.BackendImaging,
		ThumbnailQuality:    media.DefaultThumbnailQuality,
		SaveQuality:         media.DefaultSaveQuality,
		AutoOrient:          true,
		MaxUpscaleDimension: media.DefaultMaxDimension,
		MaxThumbnailEdge:    media.DefaultMaxThumbnailEdge,
		MaxPixels:           media.DefaultMaxPixels,
		Retry:               filesystem.DefaultRetryConfig(),
	}
}

// Processor runs image operations. It holds no per-directory state and is
// safe for concurrent use.
type Processor struct {
	cfg     Config
	resizer media.Resizer
	thumbs  *media.ThumbnailEncoder
	decode  media.DecodeOptions
	encode  media.EncodeOptions
}

// New builds a Processor from cfg.
func New(cfg Config) (*Processor, error) {
	resizer, err := media.NewResizer(cfg.ResizeBackend)
	if err != nil {
		return nil, fmt.Errorf("resize backend: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = workers.ForCPU(0)
	}
	if cfg.MaxUpscaleDimension < 1 {
		cfg.MaxUpscaleDimension = media.DefaultMaxDimension
	}
	if cfg.MaxThumbnailEdge < 1 {
		cfg.MaxThumbnailEdge = media.DefaultMaxThumbnailEdge
	}
	if cfg.MaxPixels < 1 {
		cfg.MaxPixels = media.DefaultMaxPixels
	}

	metrics.SetResizeBackend(resizer.Name())
	logging.Debug("Processor: backend=%s workers=%d thumbnail_quality=%d auto_orient=%v",
		resizer.Name(), cfg.Workers, cfg.ThumbnailQuality, cfg.AutoOrient)

	return &Processor{
		cfg:     cfg,
		resizer: resizer,
		thumbs:  media.NewThumbnailEncoder(cfg.ThumbnailQuality),
		decode:  media.DecodeOptions{AutoOrient: cfg.AutoOrient, Retry: cfg.Retry},
		encode:  media.EncodeOptions{JPEGQuality: cfg.SaveQuality},
	}, nil
}

// Workers returns the batch pool size.
func (p *Processor) Workers() int { return p.cfg.Workers }

// ResizeBackend returns the name of the active resizer.
func (p *Processor) ResizeBackend() string { return p.resizer.Name() }

// ListImages returns the image filenames in dir, sorted.
func (p *Processor) ListImages(dir string) ([]string, error) {
	return filesystem.ListImages(dir, p.cfg.Retry)
}

// ListEntries returns every entry name in dir, sorted.
func (p *Processor) ListEntries(dir string) ([]string, error) {
	return filesystem.ListEntries(dir, p.cfg.Retry)
}

// FullPath joins dir and name with the platform separator.
func (p *Processor) FullPath(dir, name string) string {
	return filepath.Join(dir, name)
}

// RenameBatch applies mappings in order inside dir. Per-mapping failures are
// reported in the outcomes; only a missing directory fails the call.
func (p *Processor) RenameBatch(dir string, mappings []rename.Mapping) ([]rename.Outcome, error) {
	if err := filesystem.RequireDir(dir, p.cfg.Retry); err != nil {
		return nil, err
	}
	return rename.Apply(dir, mappings, p.cfg.Retry), nil
}

// requireFile returns the path of name in dir, or ErrNotFound naming the
// file when it is absent.
func (p *Processor) requireFile(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	ok, err := filesystem.Exists(path, p.cfg.Retry)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", imgerr.NotFound("file not found: %s", name)
	}
	return path, nil
}

func statusLabel(err error) string {
	if err == nil {
		return "success"
	}
	return imgerr.Kind(err)
}
