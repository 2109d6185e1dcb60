package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	crfseg "github.com/jamesainslie/go-crfseg"
	"github.com/jamesainslie/go-crfseg/corpus"
	"github.com/jamesainslie/go-crfseg/dataset"
	"github.com/jamesainslie/go-crfseg/tagger"
)

func main() {
	var (
		corpusPath = flag.String("corpus", "", "Path to corpus (required)")
		format     = flag.String("format", "opencorpora", "Corpus format: opencorpora or dir")
		modelPath  = flag.String("model", "model.crfseg", "Output model file")
		testSize   = flag.Float64("test-size", 0.2, "Held-out fraction of documents")
		seed       = flag.Uint64("seed", 1, "Random seed for the train/test split")
		l1         = flag.Float64("l1", 1.0, "L1 penalty weight")
		l2         = flag.Float64("l2", 0.001, "L2 penalty weight")
		maxIter    = flag.Int("max-iter", 200, "Maximum training iterations")
	)
	flag.Parse()

	if *corpusPath == "" {
		fmt.Fprintln(os.Stderr, "error: -corpus required")
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

	ctx := context.Background()

	builder := dataset.NewBuilder(
		dataset.WithTestFraction(*testSize),
		dataset.WithSeed(*seed),
	)
	split, err := builder.Build(ctx, c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building dataset: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Dataset: %d train, %d test, %d skipped\n",
		len(split.TrainFeatures), len(split.TestFeatures), split.Skipped)

	hp := crfseg.Hyperparameters{
		L1Penalty:     *l1,
		L2Penalty:     *l2,
		MaxIterations: *maxIter,
	}
	if err := crfseg.Train(ctx, split.TrainFeatures, split.TrainLabels, *modelPath, hp); err != nil {
		fmt.Fprintf(os.Stderr, "error training: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Model written to %s\n", *modelPath)

	if len(split.TestFeatures) > 0 {
		acc, err := heldOutAccuracy(ctx, *modelPath, split)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error evaluating: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Held-out label accuracy: %.4f\n", acc)
	}
}

// heldOutAccuracy reloads the persisted model and scores per-character
// label agreement on the test split.
func heldOutAccuracy(ctx context.Context, modelPath string, split *dataset.Split) (float64, error) {
	model, err := tagger.Load(modelPath)
	if err != nil {
		return 0, err
	}

	var correct, total int
	for i := range split.TestFeatures {
		predicted, err := model.Predict(ctx, split.TestFeatures[i])
		if err != nil {
			return 0, err
		}
		gold := split.TestLabels[i].Strings()
		for j := range gold {
			if predicted[j] == gold[j] {
				correct++
			}
			total++
		}
	}

	if total == 0 {
		return 0, nil
	}
	return float64(correct) / float64(total), nil
}
