// Package bench provides benchmarking primitives for the numveil bench command.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing and masking metadata for a single run.
type RunResult struct {
	Index      int
	Cold       bool // true for the first run (cold-start)
	Duration   time.Duration
	InputBytes int
	Matches    int
	MBPerSec   float64
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// The slice must be non-empty.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// ---------------------------------------------------------------------------
// Throughput helpers
// ---------------------------------------------------------------------------

// CalcThroughput returns megabytes of input processed per second of wall time.
// Returns 0 if d is zero to avoid division by zero.
func CalcThroughput(inputBytes int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(inputBytes) / d.Seconds() / 1e6
}

// ms converts a duration to fractional milliseconds. Masking runs are often
// sub-millisecond, so integer milliseconds would round everything to zero.
func ms(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// ---------------------------------------------------------------------------
// Synthetic corpus
// ---------------------------------------------------------------------------

// Corpus builds a synthetic workload of n sentences mixing salary phrases,
// plain prose and numeric noise, so a bench run exercises both matching and
// skipping paths. A non-zero seed makes the corpus reproducible across runs.
func Corpus(n int, seed uint64) string {
	faker := gofakeit.New(seed)

	var sb strings.Builder
	for i := range n {
		switch i % 4 {
		case 0:
			fmt.Fprintf(&sb, "%s earns a salary of %d per year. ",
				faker.Name(), faker.Number(20000, 200000))
		case 1:
			fmt.Fprintf(&sb, "The bonus pool at %s reached %d last quarter. ",
				faker.Company(), faker.Number(10000, 500000))
		case 2:
			sb.WriteString(faker.Sentence(10))
			sb.WriteString(" ")
		default:
			fmt.Fprintf(&sb, "Invoice %d shipped to %s with reference %d. ",
				faker.Number(1000, 9999), faker.City(), faker.Number(100000, 999999))
		}
	}
	return strings.TrimSpace(sb.String())
}

// ---------------------------------------------------------------------------
// Throughput floor gate
// ---------------------------------------------------------------------------

// CheckThroughputFloor returns an error if meanMBps is below floor.
// A floor of 0 disables the gate.
func CheckThroughputFloor(meanMBps, floor float64) error {
	if floor <= 0 {
		return nil
	}
	if meanMBps < floor {
		return fmt.Errorf("mean throughput %.2f MB/s below floor %.2f MB/s", meanMBps, floor)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %10s  %8s  %8s\n", "Run", "Cold", "MS", "Bytes", "Matches", "MB/s")
	fmt.Fprintln(sb, strings.Repeat("-", 56))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10.3f  %10d  %8d  %8.2f\n",
			r.Index+1,
			cold,
			ms(r.Duration),
			r.InputBytes,
			r.Matches,
			r.MBPerSec,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 56))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  %10s  %8s  %8s  (min)\n", "", "", ms(stats.Min), "", "", "")
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  %10s  %8s  %8s  (mean)\n", "", "", ms(stats.Mean), "", "", "")
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  %10s  %8s  %8s  (max)\n", "", "", ms(stats.Max), "", "", "")

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index      int     `json:"index"`
	Cold       bool    `json:"cold"`
	DurationMS float64 `json:"duration_ms"`
	InputBytes int     `json:"input_bytes"`
	Matches    int     `json:"matches"`
	MBPerSec   float64 `json:"mb_per_sec"`
}

type jsonStats struct {
	MinMS  float64 `json:"min_ms"`
	MeanMS float64 `json:"mean_ms"`
	MaxMS  float64 `json:"max_ms"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:  ms(stats.Min),
			MeanMS: ms(stats.Mean),
			MaxMS:  ms(stats.Max),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:      r.Index,
			Cold:       r.Cold,
			DurationMS: ms(r.Duration),
			InputBytes: r.InputBytes,
			Matches:    r.Matches,
			MBPerSec:   r.MBPerSec,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}
