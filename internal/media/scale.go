package media

import (
	"image-manager/internal/imgerr"
)

const (
	// DefaultMaxDimension bounds either edge of a planned upscale.
	DefaultMaxDimension = 65535
	// DefaultMaxThumbnailEdge bounds the requested edge of a thumbnail.
	DefaultMaxThumbnailEdge = 16384
	// DefaultMaxPixels bounds the area of any planned raster. At four bytes
	// per pixel this is 512 MiB.
	DefaultMaxPixels = 1 << 27
)

// Limits bounds a planned output size. Zero fields select the defaults.
type Limits struct {
	MaxDimension int
	MaxPixels    int
}

func (l Limits) normalized(defaultDimension int) Limits {
	if l.MaxDimension < 1 {
		l.MaxDimension = defaultDimension
	}
	if l.MaxPixels < 1 {
		l.MaxPixels = DefaultMaxPixels
	}
	return l
}

func (l Limits) checkArea(w, h int64) error {
	if w*h > int64(l.MaxPixels) {
		return imgerr.Invalid("planned size %dx%d exceeds the %d pixel budget", w, h, l.MaxPixels)
	}
	return nil
}

// PlanMaxEdge fits a width x height image inside a square of side maxEdge
// while keeping its aspect ratio. The longer edge becomes maxEdge and the
// shorter one is floored, never below 1. Square images take the height
// branch, which yields (maxEdge, maxEdge) either way. The planned size may
// be larger than the source.
//
// maxEdge may not exceed limits.MaxDimension (DefaultMaxThumbnailEdge when
// unset) and the planned area may not exceed limits.MaxPixels.
func PlanMaxEdge(width, height, maxEdge int, limits Limits) (int, int, error) {
	limits = limits.normalized(DefaultMaxThumbnailEdge)
	if maxEdge <= 0 {
		return 0, 0, imgerr.Invalid("max edge must be positive, got %d", maxEdge)
	}
	if maxEdge > limits.MaxDimension {
		return 0, 0, imgerr.Invalid("max edge %d exceeds maximum %d", maxEdge, limits.MaxDimension)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, imgerr.Invalid("source dimensions must be positive, got %dx%d", width, height)
	}

	w, h := int64(width), int64(height)
	edge := int64(maxEdge)

	var pw, ph int64
	if w > h {
		pw, ph = edge, max(edge*h/w, 1)
	} else {
		pw, ph = max(edge*w/h, 1), edge
	}
	if err := limits.checkArea(pw, ph); err != nil {
		return 0, 0, err
	}
	return int(pw), int(ph), nil
}

// PlanFactor multiplies both dimensions by factor. limits.MaxDimension caps
// either resulting edge (DefaultMaxDimension when unset) and
// limits.MaxPixels caps the area.
func PlanFactor(width, height, factor int, limits Limits) (int, int, error) {
	limits = limits.normalized(DefaultMaxDimension)
	if factor <= 0 {
		return 0, 0, imgerr.Invalid("scale factor must be positive, got %d", factor)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, imgerr.Invalid("source dimensions must be positive, got %dx%d", width, height)
	}
	if factor > limits.MaxDimension {
		return 0, 0, imgerr.Invalid("scale factor %d exceeds maximum dimension %d", factor, limits.MaxDimension)
	}

	w := int64(width) * int64(factor)
	h := int64(height) * int64(factor)
	if w > int64(limits.MaxDimension) || h > int64(limits.MaxDimension) {
		return 0, 0, imgerr.Invalid("upscaled size %dx%d exceeds maximum dimension %d", w, h, limits.MaxDimension)
	}
	if err := limits.checkArea(w, h); err != nil {
		return 0, 0, err
	}
	return int(w), int(h), nil
}
