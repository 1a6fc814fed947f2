package processor

import (
	"path/filepath"
	"strings"
	"time"

	"image-manager/internal/imgerr"
	"image-manager/internal/logging"
	"image-manager/internal/media"
	"image-manager/internal/metrics"
	"image-manager/internal/naming"
)

// Rotate turns dir/name a quarter turn in place: 90 is clockwise, -90
// counter-clockwise. The file is replaced atomically in its original format.
func (p *Processor) Rotate(dir, name string, degrees int) (err error) {
	start := time.Now()
	defer func() {
		metrics.TransformsTotal.WithLabelValues("rotate", statusLabel(err)).Inc()
		metrics.TransformDuration.WithLabelValues("rotate").Observe(time.Since(start).Seconds())
	}()

	if degrees != 90 && degrees != -90 {
		return imgerr.ErrUnsupportedRotation
	}

	path, err := p.requireFile(dir, name)
	if err != nil {
		return err
	}
	src, err := media.Open(path, p.decode)
	if err != nil {
		return err
	}
	rotated, err := media.Rotate(src, degrees)
	if err != nil {
		return err
	}
	if err := media.Save(rotated, path, p.encode); err != nil {
		return err
	}

	logging.Info("Rotated %s by %d degrees", name, degrees)
	return nil
}

// Upscale writes a copy of dir/name enlarged by factor next to the original
// and returns the new filename. The copy is opaque RGB, keeps the original
// extension and never overwrites an existing file.
func (p *Processor) Upscale(dir, name string, factor int) (newName string, err error) {
	start := time.Now()
	defer func() {
		metrics.TransformsTotal.WithLabelValues("upscale", statusLabel(err)).Inc()
		metrics.TransformDuration.WithLabelValues("upscale").Observe(time.Since(start).Seconds())
	}()

	if factor <= 0 {
		return "", imgerr.Invalid("scale factor must be positive, got %d", factor)
	}
	ext := filepath.Ext(name)
	if ext == "" || ext == "." {
		return "", imgerr.Invalid("cannot choose an output format for %s: no extension", name)
	}
	stem := strings.TrimSuffix(name, ext)

	path, err := p.requireFile(dir, name)
	if err != nil {
		return "", err
	}
	src, err := media.Open(path, p.decode)
	if err != nil {
		return "", err
	}
	w, h, err := media.PlanFactor(src.Width(), src.Height(), factor, media.Limits{
		MaxDimension: p.cfg.MaxUpscaleDimension,
		MaxPixels:    p.cfg.MaxPixels,
	})
	if err != nil {
		return "", err
	}
	scaled, err := p.resizer.Resize(src, w, h)
	if err != nil {
		return "", err
	}

	newName, err = naming.UniqueName(dir, stem, factor, ext[1:], p.cfg.Retry)
	if err != nil {
		return "", err
	}
	if err := media.Save(media.ToRGB8(scaled), filepath.Join(dir, newName), p.encode); err != nil {
		return "", err
	}

	logging.Info("Upscaled %s by %dx to %s (%dx%d)", name, factor, newName, w, h)
	return newName, nil
}
