package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	crfseg "github.com/jamesainslie/go-crfseg"
	"github.com/jamesainslie/go-crfseg/corpus"
	"github.com/jamesainslie/go-crfseg/dataset"
	"github.com/jamesainslie/go-crfseg/internal/bench"
)

func main() {
	var (
		modelPath  = flag.String("model", "", "Path to trained model file")
		corpusPath = flag.String("corpus", "", "Path to gold corpus (required)")
		format     = flag.String("format", "dir", "Corpus format: opencorpora or dir")
		tolerance  = flag.Int("tolerance", 3, "Character tolerance for boundary matching")
		wp         = flag.Float64("wp", 1.0, "Precision weight")
		wr         = flag.Float64("wr", 1.0, "Recall weight")
		sweep      = flag.Bool("sweep", false, "Run hyperparameter sweep instead of evaluation")
		sweepL1    = flag.String("sweep-l1", "0.1,1.0,10.0", "Comma-separated L1 values for sweep")
		sweepL2    = flag.String("sweep-l2", "0.0001,0.001,0.01", "Comma-separated L2 values for sweep")
		sweepIter  = flag.Int("sweep-iter", 100, "Training iterations per sweep point")
		testSize   = flag.Float64("test-size", 0.2, "Held-out fraction for sweep")
		seed       = flag.Uint64("seed", 1, "Random seed for the sweep split")
	)
	flag.Parse()

	if *corpusPath == "" {
		fmt.Fprintln(os.Stderr, "error: -corpus required")
		flag.Usage()
		os.Exit(1)
	}
	if !*sweep && *modelPath == "" {
		fmt.Fprintln(os.Stderr, "error: -model required unless -sweep")
		flag.Usage()
		os.Exit(1)
	}

	var c dataset.Corpus
	switch *format {
	case "opencorpora":
		c = corpus.NewOpenCorpora(*corpusPath)
	case "dir":
		c = corpus.NewDir(*corpusPath)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown format %q\n", *format)
		os.Exit(1)
	}

	cfg := bench.Config{
		Tolerance:       *tolerance,
		PrecisionWeight: *wp,
		RecallWeight:    *wr,
	}

	ctx := context.Background()

	if *sweep {
		runSweep(ctx, c, cfg, *sweepL1, *sweepL2, *sweepIter, *testSize, *seed)
		return
	}
	runSingle(ctx, *modelPath, c, cfg)
}

func runSingle(ctx context.Context, modelPath string, c dataset.Corpus, cfg bench.Config) {
	seg, err := crfseg.New(modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating segmenter: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = seg.Close() }()

	m, skipped, err := bench.EvaluateCorpus(ctx, seg, c, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error evaluating: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Precision: %.2f  Recall: %.2f  F1: %.2f  Weighted: %.2f\n",
		m.Precision, m.Recall, m.F1, m.WeightedScore)
	fmt.Printf("(TP: %d, FP: %d, FN: %d, skipped documents: %d)\n",
		m.TruePositives, m.FalsePositives, m.FalseNegatives, skipped)
}

func runSweep(ctx context.Context, c dataset.Corpus, cfg bench.Config, l1s, l2s string, iters int, testSize float64, seed uint64) {
	points := bench.GridPoints(parseFloats(l1s), parseFloats(l2s))
	sc := bench.SweepConfig{
		Config:        cfg,
		TestFraction:  testSize,
		Seed:          seed,
		MaxIterations: iters,
	}

	fmt.Printf("Hyperparameter Sweep (wp=%.1f, wr=%.1f)\n", cfg.PrecisionWeight, cfg.RecallWeight)
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("%-10s %-10s %-8s %-8s %-8s\n", "L1", "L2", "Prec", "Rec", "Weighted")

	results, err := bench.Sweep(ctx, c, points, sc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error during sweep: %v\n", err)
		os.Exit(1)
	}

	for _, r := range results {
		fmt.Printf("%-10.4f %-10.4f %-8.2f %-8.2f %-8.2f\n",
			r.Point.L1, r.Point.L2, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.WeightedScore)
	}

	fmt.Println(strings.Repeat("-", 50))
	if len(results) > 0 {
		best := results[0]
		fmt.Printf("Optimal: l1=%.4f l2=%.4f (Weighted: %.2f)\n",
			best.Point.L1, best.Point.L2, best.Metrics.WeightedScore)
	}
}

func parseFloats(s string) []float64 {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var v float64
		if _, err := fmt.Sscanf(part, "%g", &v); err != nil {
			fmt.Fprintf(os.Stderr, "error: bad float %q\n", part)
			os.Exit(1)
		}
		out = append(out, v)
	}
	return out
}
