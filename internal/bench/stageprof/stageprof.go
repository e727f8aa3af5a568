// Package stageprof profiles the masking pipeline stage by stage. Each stage
// runs under a pprof label so CPU profiles can be broken down into tokenize,
// match and replace time.
package stageprof

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	"github.com/example/go-numveil/internal/bench"
	"github.com/example/go-numveil/internal/mask"
	textpkg "github.com/example/go-numveil/internal/text"
)

type timings struct {
	tokenize time.Duration
	match    time.Duration
	replace  time.Duration
	total    time.Duration
	tokens   int
	matches  int
}

func Main() {
	var (
		input      string
		keywords   string
		window     int
		runs       int
		warmup     int
		sentences  int
		seed       uint64
		cpuprofile string
		debugLogs  bool
	)
	flag.StringVar(&input, "text", "", "input text (empty = synthetic corpus)")
	flag.StringVar(&keywords, "keywords", "salary, bonus", "comma-separated keywords")
	flag.IntVar(&window, "window-size", 5, "max word distance between keyword and number")
	flag.IntVar(&runs, "runs", 5, "number of profiled runs")
	flag.IntVar(&warmup, "warmup", 1, "number of warmup runs")
	flag.IntVar(&sentences, "corpus-sentences", 500, "synthetic corpus size when -text is empty")
	flag.Uint64Var(&seed, "corpus-seed", 1, "synthetic corpus seed")
	flag.StringVar(&cpuprofile, "cpuprofile", "", "write cpu profile")
	flag.BoolVar(&debugLogs, "debug-logs", false, "enable debug logs")
	flag.Parse()

	if debugLogs {
		slog.SetDefault(
			slog.New(
				slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
			),
		)
	}

	if runs < 1 {
		fatalf("--runs must be >= 1")
	}

	if input == "" {
		input = bench.Corpus(sentences, seed)
	}

	set, err := mask.ParseKeywords(keywords)
	if err != nil {
		fatalf("parse keywords: %v", err)
	}

	// A fixed replacement keeps the profile free of generator noise.
	policy := mask.FixedPolicy{Value: "000000"}

	ctx := context.Background()

	for i := range warmup {
		_, err := runOnce(ctx, input, set, window, policy)
		if err != nil {
			fatalf("warmup run %d failed: %v", i+1, err)
		}
	}

	if cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			fatalf("create cpuprofile: %v", err)
		}
		defer f.Close()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			fatalf("start cpuprofile: %v", err)
		}

		defer pprof.StopCPUProfile()
	}

	var agg timings

	for i := range runs {
		t, err := runOnce(ctx, input, set, window, policy)
		if err != nil {
			fatalf("profiled run %d failed: %v", i+1, err)
		}

		agg.tokenize += t.tokenize
		agg.match += t.match
		agg.replace += t.replace
		agg.total += t.total
		agg.tokens = t.tokens
		agg.matches = t.matches
	}

	div := float64(runs)
	avgTokenize := agg.tokenize.Seconds() * 1000 / div
	avgMatch := agg.match.Seconds() * 1000 / div
	avgReplace := agg.replace.Seconds() * 1000 / div
	avgTotal := agg.total.Seconds() * 1000 / div

	mbps := bench.CalcThroughput(len(input), agg.total/time.Duration(runs))

	fmt.Printf("text_bytes: %d\n", len(input))
	fmt.Printf("runs: %d (warmup %d)\n", runs, warmup)
	fmt.Printf("window_size: %d\n", window)
	fmt.Printf("tokens: %d\n", agg.tokens)
	fmt.Printf("matches: %d\n", agg.matches)
	fmt.Printf("avg_tokenize_ms: %.3f\n", avgTokenize)
	fmt.Printf("avg_match_ms: %.3f\n", avgMatch)
	fmt.Printf("avg_replace_ms: %.3f\n", avgReplace)
	fmt.Printf("avg_total_ms: %.3f\n", avgTotal)
	fmt.Printf("mb_per_sec: %.2f\n", mbps)

	if avgTotal > 0 {
		fmt.Printf("share_tokenize_pct: %.2f\n", 100*avgTokenize/avgTotal)
		fmt.Printf("share_match_pct: %.2f\n", 100*avgMatch/avgTotal)
		fmt.Printf("share_replace_pct: %.2f\n", 100*avgReplace/avgTotal)
	}
}

func runOnce(ctx context.Context, input string, set mask.KeywordSet, window int, policy mask.Policy) (timings, error) {
	var out timings
	startTotal := time.Now()

	var tokens []textpkg.Token

	pprof.Do(ctx, pprof.Labels("stage", "tokenize"), func(context.Context) {
		start := time.Now()
		tokens = textpkg.Tokenize(input)
		out.tokenize = time.Since(start)
	})

	var spans []mask.Span

	pprof.Do(ctx, pprof.Labels("stage", "match"), func(context.Context) {
		start := time.Now()
		spans = mask.FindMatches(tokens, set, window)
		out.match = time.Since(start)
	})

	var repErr error

	pprof.Do(ctx, pprof.Labels("stage", "replace"), func(context.Context) {
		start := time.Now()
		_, repErr = mask.Apply(input, spans, policy)
		out.replace = time.Since(start)
	})

	if repErr != nil {
		return out, fmt.Errorf("apply replacements: %w", repErr)
	}

	out.total = time.Since(startTotal)
	out.tokens = len(tokens)
	out.matches = len(spans)

	return out, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
