package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	crfseg "github.com/jamesainslie/go-crfseg"
	"github.com/jamesainslie/go-crfseg/dataset"
	"github.com/jamesainslie/go-crfseg/tagger"
)

// SweepPoint is one hyperparameter combination to evaluate.
type SweepPoint struct {
	L1 float64
	L2 float64
}

// SweepResult holds metrics for one hyperparameter combination.
type SweepResult struct {
	Point   SweepPoint
	Metrics Metrics
}

// SweepConfig controls a hyperparameter sweep.
type SweepConfig struct {
	Config
	TestFraction  float64
	Seed          uint64
	MaxIterations int
}

// GridPoints builds the cross product of the given penalty values.
func GridPoints(l1s, l2s []float64) []SweepPoint {
	var points []SweepPoint
	for _, l1 := range l1s {
		for _, l2 := range l2s {
			points = append(points, SweepPoint{L1: l1, L2: l2})
		}
	}
	return points
}

// Sweep trains one model per point on the corpus's train split, scores it
// on the held-out split, and returns results sorted by weighted score
// descending. Models are written to a temporary directory and removed.
func Sweep(ctx context.Context, c dataset.Corpus, points []SweepPoint, sc SweepConfig) ([]SweepResult, error) {
	builder := dataset.NewBuilder(
		dataset.WithTestFraction(sc.TestFraction),
		dataset.WithSeed(sc.Seed),
	)
	split, err := builder.Build(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(split.TestFeatures) == 0 {
		return nil, fmt.Errorf("bench: empty held-out split (%d documents)", split.Documents)
	}

	dir, err := os.MkdirTemp("", "crfseg-sweep-")
	if err != nil {
		return nil, fmt.Errorf("creating sweep dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	var results []SweepResult
	for i, point := range points {
		modelPath := filepath.Join(dir, fmt.Sprintf("model-%d.crfseg", i))

		hp := crfseg.Hyperparameters{
			L1Penalty:     point.L1,
			L2Penalty:     point.L2,
			MaxIterations: sc.MaxIterations,
		}
		if err := crfseg.Train(ctx, split.TrainFeatures, split.TrainLabels, modelPath, hp); err != nil {
			return nil, fmt.Errorf("training point %+v: %w", point, err)
		}

		model, err := tagger.Load(modelPath)
		if err != nil {
			return nil, fmt.Errorf("loading point %+v: %w", point, err)
		}

		m, err := evaluateSplit(ctx, model, split, sc.Config)
		if err != nil {
			return nil, fmt.Errorf("evaluating point %+v: %w", point, err)
		}

		results = append(results, SweepResult{Point: point, Metrics: m})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Metrics.WeightedScore > results[j].Metrics.WeightedScore
	})

	return results, nil
}

// evaluateSplit scores predicted run ends against gold run ends over the
// held-out pairs.
func evaluateSplit(ctx context.Context, model tagger.Model, split *dataset.Split, cfg Config) (Metrics, error) {
	var tp, fp, fn int

	for i := range split.TestFeatures {
		raw, err := model.Predict(ctx, split.TestFeatures[i])
		if err != nil {
			return Metrics{}, err
		}
		predicted, err := crfseg.ParseLabels(raw)
		if err != nil {
			return Metrics{}, err
		}

		m := Evaluate(RunEnds(predicted), RunEnds(split.TestLabels[i]), cfg)
		tp += m.TruePositives
		fp += m.FalsePositives
		fn += m.FalseNegatives
	}

	return Compute(tp, fp, fn, cfg), nil
}
