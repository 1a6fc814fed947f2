package startup

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"image-manager/internal/logging"
)

// DefaultMemoryRatio is the share of MEMORY_LIMIT given to the Go heap. The
// remainder covers libvips buffers and goroutine stacks.
const DefaultMemoryRatio = 0.85

// MemoryResult reports what ConfigureMemory did.
type MemoryResult struct {
	// Configured indicates whether GOMEMLIMIT is in effect
	Configured bool
	// Source is "GOMEMLIMIT", "MEMORY_LIMIT" or "none"
	Source string
	// Limit is the MEMORY_LIMIT value in bytes (0 if not set)
	Limit int64
	// GoMemLimit is the effective GOMEMLIMIT in bytes (0 if not set)
	GoMemLimit int64
	// Ratio is the ratio applied to Limit (0 if not applicable)
	Ratio float64
}

// ConfigureMemory sets the Go soft memory limit from the environment. Large
// thumbnail batches hold many decoded rasters at once, so a limit keeps the
// collector ahead of them. Call it before the first batch runs.
//
// Environment variables:
//   - GOMEMLIMIT: If set, it takes precedence and is left alone
//   - MEMORY_LIMIT: Memory available to the process in bytes
//   - MEMORY_RATIO: Share of MEMORY_LIMIT for the Go heap (default: 0.85)
func ConfigureMemory() MemoryResult {
	result := MemoryResult{Source: "none"}

	if goMemLimitEnv := os.Getenv("GOMEMLIMIT"); goMemLimitEnv != "" {
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.Source = "GOMEMLIMIT"
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", goMemLimitEnv)
		return result
	}

	memLimitStr := os.Getenv("MEMORY_LIMIT")
	if memLimitStr == "" {
		logging.Debug("MEMORY_LIMIT not set, GOMEMLIMIT will not be configured automatically")
		return result
	}

	memLimit, err := strconv.ParseInt(memLimitStr, 10, 64)
	if err != nil || memLimit <= 0 {
		logging.Warn("Invalid MEMORY_LIMIT %q, GOMEMLIMIT not configured", memLimitStr)
		return result
	}
	result.Limit = memLimit

	ratio := DefaultMemoryRatio
	if ratioStr := os.Getenv("MEMORY_RATIO"); ratioStr != "" {
		parsed, err := strconv.ParseFloat(ratioStr, 64)
		switch {
		case err != nil:
			logging.Warn("Failed to parse MEMORY_RATIO %q: %v, using default %.2f", ratioStr, err, DefaultMemoryRatio)
		case parsed <= 0 || parsed > 1.0:
			logging.Warn("MEMORY_RATIO %q out of range (0.0-1.0], using default %.2f", ratioStr, DefaultMemoryRatio)
		default:
			ratio = parsed
		}
	}
	result.Ratio = ratio

	goMemLimit := int64(float64(memLimit) * ratio)
	debug.SetMemoryLimit(goMemLimit)

	result.Configured = true
	result.Source = "MEMORY_LIMIT"
	result.GoMemLimit = goMemLimit

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s)",
		FormatBytes(goMemLimit), ratio*100, FormatBytes(memLimit))

	return result
}

// FormatBytes formats bytes into a human-readable IEC string.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
