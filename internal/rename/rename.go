// Package rename applies ordered batches of file renames inside a single
// directory and reports a per-mapping outcome.
package rename

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"image-manager/internal/filesystem"
	"image-manager/internal/logging"
	"image-manager/internal/metrics"
)

// Mapping renames Old to New. Both are plain filenames inside the batch
// directory and are used exactly as given.
type Mapping struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Status classifies the result of one mapping.
type Status int

const (
	StatusRenamed Status = iota
	StatusSkipped
	StatusNotFound
	StatusTargetExists
	StatusIOError
)

var statusNames = map[Status]string{
	StatusRenamed:      "renamed",
	StatusSkipped:      "skipped",
	StatusNotFound:     "not_found",
	StatusTargetExists: "target_exists",
	StatusIOError:      "io_error",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Failed reports whether the mapping was not applied for an error reason.
func (s Status) Failed() bool {
	return s == StatusNotFound || s == StatusTargetExists || s == StatusIOError
}

// Outcome is the result of applying one Mapping.
type Outcome struct {
	Old    string `json:"old"`
	New    string `json:"new"`
	Status Status `json:"status"`
	// Detail carries the underlying error text for StatusIOError.
	Detail string `json:"detail,omitempty"`
}

// String renders the outcome as a one-line, human-readable report.
func (o Outcome) String() string {
	switch o.Status {
	case StatusRenamed:
		return fmt.Sprintf("✅ %s → %s", o.Old, o.New)
	case StatusSkipped:
		return fmt.Sprintf("⏭️ %s - No change needed", o.Old)
	case StatusNotFound:
		return fmt.Sprintf("❌ %s - File not found", o.Old)
	case StatusTargetExists:
		return fmt.Sprintf("❌ %s → %s - Target file already exists", o.Old, o.New)
	default:
		return fmt.Sprintf("❌ %s → %s - Error: %s", o.Old, o.New, o.Detail)
	}
}

// MarshalJSON adds the rendered report as "message".
func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome
	return json.Marshal(struct {
		plain
		Message string `json:"message"`
	}{plain: plain(o), Message: o.String()})
}

// Apply executes mappings in order against dir and returns one outcome per
// mapping in the same order. Mappings are applied one at a time, so a later
// mapping sees the effect of earlier ones. A failed mapping never stops the
// batch.
func Apply(dir string, mappings []Mapping, retry filesystem.RetryConfig) []Outcome {
	outcomes := make([]Outcome, 0, len(mappings))
	renamed := 0

	for _, m := range mappings {
		o := applyOne(dir, m, retry)
		metrics.RenameOutcomesTotal.WithLabelValues(o.Status.String()).Inc()
		if o.Status.Failed() {
			logging.Warn("Rename %s", o)
		} else {
			logging.Debug("Rename %s", o)
		}
		if o.Status == StatusRenamed {
			renamed++
		}
		outcomes = append(outcomes, o)
	}

	logging.Info("Rename batch in %s: %d/%d renamed", dir, renamed, len(mappings))
	return outcomes
}

func applyOne(dir string, m Mapping, retry filesystem.RetryConfig) Outcome {
	o := Outcome{Old: m.Old, New: m.New}
	oldPath := filepath.Join(dir, m.Old)
	newPath := filepath.Join(dir, m.New)

	exists, err := filesystem.Exists(oldPath, retry)
	if err != nil {
		o.Status, o.Detail = StatusIOError, err.Error()
		return o
	}
	if !exists {
		o.Status = StatusNotFound
		return o
	}

	if newPath != oldPath {
		taken, err := filesystem.Exists(newPath, retry)
		if err != nil {
			o.Status, o.Detail = StatusIOError, err.Error()
			return o
		}
		if taken {
			o.Status = StatusTargetExists
			return o
		}
	}

	if m.Old == m.New {
		o.Status = StatusSkipped
		return o
	}

	if err := filesystem.RenameWithRetry(oldPath, newPath, retry); err != nil {
		o.Status, o.Detail = StatusIOError, err.Error()
		return o
	}
	o.Status = StatusRenamed
	return o
}
