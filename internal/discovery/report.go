package discovery

import (
	"log/slog"
	"time"
)

// Report aggregates the failures of one discovery pass so the operator sees
// every skipped file in one place.
type Report struct {
	Registry string
	Root     string
	Loaded   int
	Failures []*Failure
	Duration time.Duration
}

// NewReport starts an empty report for the named registry.
func NewReport(registry, root string) *Report {
	return &Report{Registry: registry, Root: root}
}

// Add records a failure and logs it with its file identity.
func (r *Report) Add(f *Failure) {
	r.Failures = append(r.Failures, f)

	attrs := []any{"registry", r.Registry, "kind", f.Kind, "path", f.Path}
	if f.Cause != nil {
		attrs = append(attrs, "error", f.Cause)
	}
	if f.Severity == SeverityWarn {
		slog.Warn(f.Message, attrs...)
		return
	}
	slog.Error(f.Message, attrs...)
}

// Count returns the number of failures of the given kind.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, f := range r.Failures {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// OK reports whether the pass finished without failures.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Summary logs a one-line outcome of the pass.
func (r *Report) Summary() {
	slog.Info("Discovery complete",
		"registry", r.Registry,
		"root", r.Root,
		"loaded", r.Loaded,
		"failures", len(r.Failures),
		"duration", r.Duration,
	)
}

// Merge combines finished reports into one without logging their failures again.
func Merge(registry string, reports ...*Report) *Report {
	merged := &Report{Registry: registry}
	for _, r := range reports {
		if r == nil {
			continue
		}
		merged.Loaded += r.Loaded
		merged.Failures = append(merged.Failures, r.Failures...)
		merged.Duration += r.Duration
	}
	return merged
}

// Errors returns the failures of error severity.
func (r *Report) Errors() []*Failure {
	var out []*Failure
	for _, f := range r.Failures {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}
