package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/go-numveil/internal/bench"
	"github.com/example/go-numveil/internal/mask"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		text            string
		runs            int
		sentences       int
		seed            uint64
		format          string
		throughputFloor float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark masking throughput",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			input := text
			if strings.TrimSpace(input) == "" {
				input = bench.Corpus(sentences, seed)
			}

			eng, err := mask.NewFromConfig(cfg.Mask)
			if err != nil {
				return mapMaskError(fmt.Errorf("configure mask engine: %w", err))
			}

			results, err := runBench(eng, input, runs)
			if err != nil {
				return err
			}

			durations := make([]time.Duration, len(results))
			for i, r := range results {
				durations[i] = r.Duration
			}
			stats := bench.ComputeStats(durations)

			switch format {
			case "json":
				bench.FormatJSON(results, stats, os.Stdout)
			default:
				bench.FormatTable(results, stats, os.Stdout)
			}

			// Compute mean throughput across all runs.
			var totalMBps float64
			for _, r := range results {
				totalMBps += r.MBPerSec
			}
			meanMBps := totalMBps / float64(len(results))

			return bench.CheckThroughputFloor(meanMBps, throughputFloor)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to mask for each run (default: synthetic corpus)")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of masking runs")
	cmd.Flags().IntVar(&sentences, "corpus-sentences", 200, "Synthetic corpus size in sentences when --text is empty")
	cmd.Flags().Uint64Var(&seed, "corpus-seed", 1, "Synthetic corpus seed (0 = random)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&throughputFloor, "throughput-floor", 0,
		"Exit non-zero if mean MB/s falls below this value (0 = disabled)")

	return cmd
}

func runBench(eng *mask.Engine, input string, runs int) ([]bench.RunResult, error) {
	results := make([]bench.RunResult, 0, runs)

	for i := range runs {
		start := time.Now()
		res, err := eng.Mask(input)
		if err != nil {
			return nil, fmt.Errorf("run %d failed: %w", i+1, err)
		}
		dur := time.Since(start)

		results = append(results, bench.RunResult{
			Index:      i,
			Cold:       i == 0,
			Duration:   dur,
			InputBytes: len(input),
			Matches:    res.Matches,
			MBPerSec:   bench.CalcThroughput(len(input), dur),
		})
	}

	return results, nil
}
