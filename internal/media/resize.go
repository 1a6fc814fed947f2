package media

import (
	"strings"
	"time"

	"image-manager/internal/imgerr"
	"image-manager/internal/metrics"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Resize backend names accepted by NewResizer.
const (
	BackendImaging = "imaging"
	BackendNfnt    = "nfnt"
	BackendVips    = "vips"
)

// Resizer produces a new raster of exactly width x height from a handle.
// The aspect ratio is not adjusted; callers plan it with PlanMaxEdge or
// PlanFactor. The source handle is left untouched.
type Resizer interface {
	Name() string
	Resize(h *Handle, width, height int) (*Handle, error)
}

// NewResizer returns the resize backend registered under name. An empty name
// selects the imaging backend.
func NewResizer(name string) (Resizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendImaging:
		return ImagingResizer{}, nil
	case BackendNfnt:
		return NfntResizer{}, nil
	case BackendVips:
		return &VipsResizer{fallback: ImagingResizer{}}, nil
	default:
		return nil, imgerr.Invalid("unknown resize backend %q", name)
	}
}

func checkTarget(width, height int) error {
	if width < 1 || height < 1 {
		return imgerr.Invalid("resize target must be at least 1x1, got %dx%d", width, height)
	}
	return nil
}

func observeResize(backend string, start time.Time) {
	metrics.TransformDuration.WithLabelValues("resize_" + backend).Observe(time.Since(start).Seconds())
}

// ImagingResizer resamples with the Lanczos filter from disintegration/imaging.
type ImagingResizer struct{}

// Name implements Resizer.
func (ImagingResizer) Name() string { return BackendImaging }

// Resize implements Resizer.
func (ImagingResizer) Resize(h *Handle, width, height int) (*Handle, error) {
	if err := checkTarget(width, height); err != nil {
		return nil, err
	}
	defer observeResize(BackendImaging, time.Now())

	return &Handle{img: imaging.Resize(h.img, width, height, imaging.Lanczos), format: h.format}, nil
}

// NfntResizer resamples with nfnt/resize's Lanczos3 interpolation.
type NfntResizer struct{}

// Name implements Resizer.
func (NfntResizer) Name() string { return BackendNfnt }

// Resize implements Resizer.
func (NfntResizer) Resize(h *Handle, width, height int) (*Handle, error) {
	if err := checkTarget(width, height); err != nil {
		return nil, err
	}
	defer observeResize(BackendNfnt, time.Now())

	img := resize.Resize(uint(width), uint(height), h.img, resize.Lanczos3)
	return &Handle{img: img, format: h.format}, nil
}
