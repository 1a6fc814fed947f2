package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_manager_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_manager_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_manager_thumbnail_generations_total",
			Help: "Total number of thumbnails generated, by request mode and outcome",
		},
		[]string{"mode", "status"}, // mode: single, batch
	)

	ThumbnailPhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_manager_thumbnail_phase_duration_seconds",
			Help:    "Time spent in each thumbnail pipeline phase",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"phase"}, // decode, resize, encode
	)

	ThumbnailPayloadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_manager_thumbnail_payload_bytes",
			Help:    "Size of the base64 thumbnail payloads returned to the host",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 10),
		},
	)
)

// Batch executor metrics
var (
	BatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_manager_batch_runs_total",
			Help: "Total number of batch runs by outcome",
		},
		[]string{"status"}, // success, error, partial
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_manager_batch_size_items",
			Help:    "Number of items submitted per batch",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_manager_batch_duration_seconds",
			Help:    "Wall time of a whole batch",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	BatchWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_manager_batch_workers",
			Help: "Worker count used by the most recent batch",
		},
	)

	BatchItemsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_manager_batch_items_in_flight",
			Help: "Batch items currently being processed",
		},
	)
)

// Transform metrics
var (
	TransformsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_manager_transforms_total",
			Help: "Rotate and upscale operations by outcome",
		},
		[]string{"operation", "status"},
	)

	TransformDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_manager_transform_duration_seconds",
			Help:    "Duration of rotate and upscale operations",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	ImageDecodeByFormat = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_manager_image_decode_total",
			Help: "Decoded images by sniffed source format",
		},
		[]string{"format"},
	)

	ResizeBackend = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "image_manager_resize_backend",
			Help: "Active resize backend (1 = active)",
		},
		[]string{"backend"},
	)
)

// Rename metrics
var (
	RenameOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_manager_rename_outcomes_total",
			Help: "Rename mapping outcomes",
		},
		[]string{"status"},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_manager_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_manager_filesystem_operation_errors_total",
			Help: "Filesystem operations that ended in an error",
		},
		[]string{"operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_manager_filesystem_retry_attempts_total",
			Help: "Retries issued after a stale file handle",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_manager_filesystem_retry_success_total",
			Help: "Operations that succeeded after at least one retry",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_manager_filesystem_retry_failures_total",
			Help: "Operations that exhausted their retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_manager_filesystem_stale_errors_total",
			Help: "ESTALE errors observed",
		},
		[]string{"operation"},
	)
)

// AppInfo exposes build information as labels on a constant gauge.
var AppInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "image_manager_app_info",
		Help: "Application build information",
	},
	[]string{"version", "commit", "go_version"},
)
