package processor

import (
	"time"

	"image-manager/internal/filesystem"
	"image-manager/internal/imgerr"
	"image-manager/internal/logging"
	"image-manager/internal/media"
	"image-manager/internal/metrics"
	"image-manager/internal/workers"
)

// ThumbnailData is one generated thumbnail. Width and Height are those
// stored in the original file's header, matching GetMetadata, even when the
// thumbnail itself was rotated upright from EXIF orientation.
type ThumbnailData struct {
	Filename  string `json:"filename"`
	Thumbnail string `json:"thumbnail"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FileSize  int64  `json:"file_size"`
}

// ThumbnailOutcome is one entry of a partial batch: Data is set on success,
// Error and Kind otherwise.
type ThumbnailOutcome struct {
	Filename string         `json:"filename"`
	Data     *ThumbnailData `json:"data,omitempty"`
	Error    string         `json:"error,omitempty"`
	Kind     string         `json:"kind,omitempty"`
}

// GenerateThumbnail returns the base64 JPEG thumbnail of dir/name, scaled so
// its longer edge equals maxEdge.
func (p *Processor) GenerateThumbnail(dir, name string, maxEdge int) (string, error) {
	if err := p.checkMaxEdge(maxEdge); err != nil {
		return "", err
	}
	data, err := p.thumbnail(dir, name, maxEdge)
	metrics.ThumbnailGenerationsTotal.WithLabelValues("single", statusLabel(err)).Inc()
	if err != nil {
		return "", err
	}
	return data.Thumbnail, nil
}

// GenerateThumbnailsBatch builds thumbnails for names in parallel and returns
// them in input order. Every item is attempted; if any fails, the call
// returns the first error and no results.
func (p *Processor) GenerateThumbnailsBatch(dir string, names []string, maxEdge int) ([]ThumbnailData, error) {
	if err := p.checkMaxEdge(maxEdge); err != nil {
		return nil, err
	}
	if err := filesystem.RequireDir(dir, p.cfg.Retry); err != nil {
		return nil, err
	}

	done := p.observeBatch(len(names))
	results, err := workers.Run(len(names), p.cfg.Workers, func(i int) (ThumbnailData, error) {
		data, err := p.batchItem(dir, names[i], maxEdge)
		if err != nil {
			return ThumbnailData{}, err
		}
		return *data, nil
	})

	if err != nil {
		done("error")
		logging.Warn("Thumbnail batch in %s failed: %v", dir, err)
		return nil, err
	}
	done("success")
	return results, nil
}

// GenerateThumbnailsPartial is like GenerateThumbnailsBatch but reports one
// outcome per input instead of failing the whole batch.
func (p *Processor) GenerateThumbnailsPartial(dir string, names []string, maxEdge int) ([]ThumbnailOutcome, error) {
	if err := p.checkMaxEdge(maxEdge); err != nil {
		return nil, err
	}
	if err := filesystem.RequireDir(dir, p.cfg.Retry); err != nil {
		return nil, err
	}

	done := p.observeBatch(len(names))
	results := workers.Collect(len(names), p.cfg.Workers, func(i int) (*ThumbnailData, error) {
		return p.batchItem(dir, names[i], maxEdge)
	})

	outcomes := make([]ThumbnailOutcome, len(results))
	failed := 0
	for i, r := range results {
		outcomes[i] = ThumbnailOutcome{Filename: names[i]}
		if r.Err != nil {
			failed++
			outcomes[i].Error = r.Err.Error()
			outcomes[i].Kind = imgerr.Kind(r.Err)
			continue
		}
		outcomes[i].Data = r.Value
	}

	switch {
	case failed == 0:
		done("success")
	case failed == len(names):
		done("error")
	default:
		done("partial")
	}
	if failed > 0 {
		logging.Warn("Thumbnail batch in %s: %d of %d items failed", dir, failed, len(names))
	}
	return outcomes, nil
}

// checkMaxEdge rejects a requested thumbnail edge before any file is read.
func (p *Processor) checkMaxEdge(maxEdge int) error {
	if maxEdge <= 0 {
		return imgerr.Invalid("max edge must be positive, got %d", maxEdge)
	}
	if maxEdge > p.cfg.MaxThumbnailEdge {
		return imgerr.Invalid("max edge %d exceeds maximum %d", maxEdge, p.cfg.MaxThumbnailEdge)
	}
	return nil
}

func (p *Processor) observeBatch(n int) func(status string) {
	start := time.Now()
	metrics.BatchSize.Observe(float64(n))
	metrics.BatchWorkers.Set(float64(min(p.cfg.Workers, max(n, 1))))
	logging.Debug("Thumbnail batch: %d items, %d workers", n, p.cfg.Workers)

	return func(status string) {
		metrics.BatchRunsTotal.WithLabelValues(status).Inc()
		metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}
}

func (p *Processor) batchItem(dir, name string, maxEdge int) (*ThumbnailData, error) {
	metrics.BatchItemsInFlight.Inc()
	defer metrics.BatchItemsInFlight.Dec()

	data, err := p.thumbnail(dir, name, maxEdge)
	metrics.ThumbnailGenerationsTotal.WithLabelValues("batch", statusLabel(err)).Inc()
	return data, err
}

// thumbnail runs decode, plan, resize and encode for one file.
func (p *Processor) thumbnail(dir, name string, maxEdge int) (*ThumbnailData, error) {
	path, err := p.requireFile(dir, name)
	if err != nil {
		return nil, err
	}
	size, err := filesystem.FileSize(path, p.cfg.Retry)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	src, err := media.Open(path, p.decode)
	if err != nil {
		return nil, err
	}
	metrics.ThumbnailPhaseDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())

	w, h, err := media.PlanMaxEdge(src.Width(), src.Height(), maxEdge, media.Limits{
		MaxDimension: p.cfg.MaxThumbnailEdge,
		MaxPixels:    p.cfg.MaxPixels,
	})
	if err != nil {
		return nil, err
	}

	start = time.Now()
	thumb, err := p.resizer.Resize(src, w, h)
	if err != nil {
		return nil, err
	}
	metrics.ThumbnailPhaseDuration.WithLabelValues("resize").Observe(time.Since(start).Seconds())

	start = time.Now()
	text, err := p.thumbs.Encode(thumb)
	if err != nil {
		return nil, err
	}
	metrics.ThumbnailPhaseDuration.WithLabelValues("encode").Observe(time.Since(start).Seconds())
	metrics.ThumbnailPayloadBytes.Observe(float64(len(text)))

	width, height := src.HeaderSize()
	return &ThumbnailData{
		Filename:  name,
		Thumbnail: text,
		Width:     width,
		Height:    height,
		FileSize:  size,
	}, nil
}
