// Package logging provides the leveled logger used across the image manager.
//
// Levels, from most to least verbose:
//   - DEBUG: per-file decode, resize and encode steps
//   - INFO: startup configuration and batch summaries
//   - WARN: recoverable problems (extension/content mismatch, retries)
//   - ERROR: failed operations
//
// The level comes from DEBUG (any truthy value forces debug) or LOG_LEVEL and
// can be overridden at runtime with SetLevel.
package logging
