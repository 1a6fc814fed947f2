package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride is the environment variable that pins the batch pool size.
const EnvOverride = "BATCH_WORKERS"

// Count returns the number of workers for a task type. It respects container
// CPU limits via GOMAXPROCS.
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks (decode and resample)
//   - 2.0 for I/O-bound tasks
//
// The limit parameter caps the worker count; 0 means no cap.
// BATCH_WORKERS overrides the computed value (still subject to limit).
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}
	return workers
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}
