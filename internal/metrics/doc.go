// Package metrics provides Prometheus instrumentation for the image manager.
//
// All metrics are prefixed with "image_manager_" and registered on the default
// registry through promauto.
//
// # Metric Categories
//
//   - HTTP: request counts and latency by route
//   - Thumbnails: generations by mode (single, batch) and outcome, per-phase
//     latency (decode, resize, encode), payload sizes
//   - Batches: runs by outcome, size, wall time, worker count, items in flight
//   - Transforms: rotate and upscale counts and latency, decodes by format,
//     active resize backend
//   - Renames: outcomes by status
//   - Filesystem: operation latency, errors and ESTALE retry counters, fed by
//     the filesystem.Observer returned from NewFilesystemObserver
//
// Call InitializeMetrics once at startup so every label combination is
// exported from the first scrape.
package metrics
