package bench

import (
	"math"
	"testing"
)

func TestEvaluate_ExactMatches(t *testing.T) {
	cfg := DefaultConfig()
	m := Evaluate([]int{10, 25, 40}, []int{10, 25, 40}, cfg)

	if m.TruePositives != 3 || m.FalsePositives != 0 || m.FalseNegatives != 0 {
		t.Errorf("counts: tp=%d fp=%d fn=%d", m.TruePositives, m.FalsePositives, m.FalseNegatives)
	}
	if m.Precision != 1.0 || m.Recall != 1.0 || m.F1 != 1.0 {
		t.Errorf("expected perfect scores, got %+v", m)
	}
}

func TestEvaluate_WithinTolerance(t *testing.T) {
	cfg := Config{Tolerance: 3, PrecisionWeight: 1, RecallWeight: 1}
	m := Evaluate([]int{12, 27}, []int{10, 25}, cfg)

	if m.TruePositives != 2 {
		t.Errorf("expected 2 matches within tolerance, got %d", m.TruePositives)
	}
}

func TestEvaluate_BeyondTolerance(t *testing.T) {
	cfg := Config{Tolerance: 3, PrecisionWeight: 1, RecallWeight: 1}
	m := Evaluate([]int{20}, []int{10}, cfg)

	if m.TruePositives != 0 || m.FalsePositives != 1 || m.FalseNegatives != 1 {
		t.Errorf("counts: tp=%d fp=%d fn=%d", m.TruePositives, m.FalsePositives, m.FalseNegatives)
	}
}

func TestEvaluate_GreedyMatchingConsumesTruth(t *testing.T) {
	// Two predictions near one truth: only one may match.
	cfg := Config{Tolerance: 3, PrecisionWeight: 1, RecallWeight: 1}
	m := Evaluate([]int{9, 11}, []int{10}, cfg)

	if m.TruePositives != 1 || m.FalsePositives != 1 {
		t.Errorf("counts: tp=%d fp=%d", m.TruePositives, m.FalsePositives)
	}
}

func TestEvaluate_EmptyInputs(t *testing.T) {
	cfg := DefaultConfig()

	m := Evaluate(nil, nil, cfg)
	if m.Precision != 0 || m.Recall != 0 || m.F1 != 0 {
		t.Errorf("expected zero metrics for empty inputs, got %+v", m)
	}

	m = Evaluate(nil, []int{5}, cfg)
	if m.FalseNegatives != 1 {
		t.Errorf("expected 1 false negative, got %d", m.FalseNegatives)
	}

	m = Evaluate([]int{5}, nil, cfg)
	if m.FalsePositives != 1 {
		t.Errorf("expected 1 false positive, got %d", m.FalsePositives)
	}
}

func TestCompute_WeightedScore(t *testing.T) {
	cfg := Config{Tolerance: 0, PrecisionWeight: 3, RecallWeight: 1}
	m := Compute(1, 0, 1, cfg) // precision 1.0, recall 0.5

	want := (3*1.0 + 1*0.5) / 4
	if math.Abs(m.WeightedScore-want) > 1e-9 {
		t.Errorf("weighted score: got %f, want %f", m.WeightedScore, want)
	}
}
