package metrics

import "image-manager/internal/mediatypes"

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
func InitializeMetrics() {
	for _, mode := range []string{"single", "batch"} {
		for _, status := range []string{"success", "not_found", "invalid_parameter", "decode_failed", "encode_failed", "io_error", "error"} {
			ThumbnailGenerationsTotal.WithLabelValues(mode, status)
		}
	}

	for _, phase := range []string{"decode", "resize", "encode"} {
		ThumbnailPhaseDuration.WithLabelValues(phase)
	}

	for _, status := range []string{"success", "error", "partial"} {
		BatchRunsTotal.WithLabelValues(status)
	}

	for _, op := range []string{"rotate", "upscale"} {
		TransformDuration.WithLabelValues(op)
		for _, status := range []string{"success", "error"} {
			TransformsTotal.WithLabelValues(op, status)
		}
	}

	for _, f := range mediatypes.AllFormats {
		ImageDecodeByFormat.WithLabelValues(string(f))
	}

	for _, status := range []string{"renamed", "skipped", "not_found", "target_exists", "io_error"} {
		RenameOutcomesTotal.WithLabelValues(status)
	}

	for _, op := range []string{"stat", "open", "readdir", "rename"} {
		FilesystemOperationDuration.WithLabelValues(op)
		FilesystemOperationErrors.WithLabelValues(op)
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}
}

// SetResizeBackend marks backend as the active resizer.
func SetResizeBackend(backend string) {
	ResizeBackend.Reset()
	ResizeBackend.WithLabelValues(backend).Set(1)
}
