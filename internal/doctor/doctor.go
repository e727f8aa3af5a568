// Package doctor provides configuration preflight checks for numveil.
package doctor

import (
	"fmt"
	"io"

	"github.com/example/go-numveil/internal/mask"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// SampleFunc draws one replacement value or returns an error when the
// generator cannot produce one.
type SampleFunc func() (string, error)

// Config holds the configuration values and probes for each doctor check.
type Config struct {
	// Keywords is the raw comma-separated keyword configuration.
	Keywords string
	// WindowSize is the configured matching window.
	WindowSize int
	// FixedValue is the configured fixed replacement. When set, the value
	// generator check is skipped.
	FixedValue string
	// ValueKind and Locale label the value generator check output.
	ValueKind string
	Locale    string
	// SampleValue draws one value from the configured generator. Must be
	// set when FixedValue is empty.
	SampleValue SampleFunc
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- keywords ---------------------------------------------------------
	set, err := mask.ParseKeywords(cfg.Keywords)
	if err != nil {
		res.fail(fmt.Sprintf("keywords: %v", err))
		fmt.Fprintf(w, "%s keywords: %v\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s keywords: %d configured\n", PassMark, set.Len())
	}

	// ---- window size ------------------------------------------------------
	if cfg.WindowSize < 0 {
		res.fail(fmt.Sprintf("window size: %d is negative", cfg.WindowSize))
		fmt.Fprintf(w, "%s window size: %d is negative\n", FailMark, cfg.WindowSize)
	} else {
		fmt.Fprintf(w, "%s window size: %d\n", PassMark, cfg.WindowSize)
	}

	// ---- value generator --------------------------------------------------
	if cfg.FixedValue != "" {
		fmt.Fprintf(w, "%s value generator: skipped (fixed replacement configured)\n", PassMark)
	} else {
		val, err := cfg.SampleValue()
		if err != nil {
			res.fail(fmt.Sprintf("value generator: %v", err))
			fmt.Fprintf(w, "%s value generator (%s, %s): %v\n", FailMark, cfg.ValueKind, cfg.Locale, err)
		} else {
			fmt.Fprintf(w, "%s value generator (%s, %s): sample %s\n", PassMark, cfg.ValueKind, cfg.Locale, val)
		}
	}

	return res
}
