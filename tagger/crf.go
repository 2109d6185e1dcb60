package tagger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// CRF is a linear-chain conditional random field over string features.
// It is immutable after training or loading and safe for concurrent use.
type CRF struct {
	labels   []string
	labelIdx map[string]int
	state    map[string][]float64 // feature -> per-label weight
	trans    [][]float64          // trans[prev][next]
}

// Trainer accumulates training sequences and fits a CRF by stochastic
// gradient ascent on the conditional log-likelihood, with L2 shrinkage and
// L1 clipping applied per step.
type Trainer struct {
	params Params
	logger *slog.Logger

	xs [][][]string
	ys [][]string
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithTrainerLogger sets the training progress logger (default: slog.Default()).
func WithTrainerLogger(l *slog.Logger) TrainerOption {
	return func(t *Trainer) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTrainer creates a Trainer with the given parameters.
func NewTrainer(params Params, opts ...TrainerOption) (*Trainer, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	t := &Trainer{
		params: params,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Append adds one matched (features, labels) sequence pair.
func (t *Trainer) Append(features [][]string, labels []string) error {
	if len(features) != len(labels) {
		return fmt.Errorf("tagger: %d feature vectors for %d labels", len(features), len(labels))
	}
	if len(features) == 0 {
		return nil
	}
	t.xs = append(t.xs, features)
	t.ys = append(t.ys, labels)
	return nil
}

// Sequences returns the number of appended training sequences.
func (t *Trainer) Sequences() int {
	return len(t.xs)
}

const (
	sgdInitialRate = 0.1
	sgdRateDecay   = 0.05
	sgdTolerance   = 1e-4
)

// Train fits the model on the appended sequences and persists it to
// modelPath. Training is deterministic: sequences are visited in append
// order, no shuffling.
func (t *Trainer) Train(ctx context.Context, modelPath string) (Model, error) {
	crf, err := t.fit(ctx)
	if err != nil {
		return nil, err
	}
	if err := crf.Save(modelPath); err != nil {
		return nil, fmt.Errorf("persisting model: %w", err)
	}
	return crf, nil
}

// fit runs the optimization without persistence.
func (t *Trainer) fit(ctx context.Context) (*CRF, error) {
	if len(t.xs) == 0 {
		return nil, fmt.Errorf("tagger: no training sequences appended")
	}

	crf := &CRF{
		labelIdx: make(map[string]int),
		state:    make(map[string][]float64),
	}

	// Label alphabet in order of first appearance (deterministic).
	for _, seq := range t.ys {
		for _, y := range seq {
			if _, ok := crf.labelIdx[y]; !ok {
				crf.labelIdx[y] = len(crf.labels)
				crf.labels = append(crf.labels, y)
			}
		}
	}
	nLabels := len(crf.labels)
	crf.trans = make([][]float64, nLabels)
	for i := range crf.trans {
		crf.trans[i] = make([]float64, nLabels)
	}

	// Per-update penalty strength, scaled so one epoch applies the full
	// regularization weight once.
	l1 := t.params.L1Penalty / float64(len(t.xs))
	l2 := t.params.L2Penalty / float64(len(t.xs))

	prevLoglik := math.Inf(-1)
	for epoch := 0; epoch < t.params.MaxIterations; epoch++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rate := sgdInitialRate / (1.0 + sgdRateDecay*float64(epoch))
		loglik := 0.0
		for i := range t.xs {
			loglik += crf.update(t.xs[i], t.ys[i], rate, l1, l2)
		}

		t.logger.Debug("training epoch complete",
			"epoch", epoch,
			"loglik", loglik,
			"rate", rate)

		// Relative-improvement early out once past the first epoch.
		if epoch > 0 {
			if delta := math.Abs(loglik - prevLoglik); delta < sgdTolerance*(math.Abs(prevLoglik)+1) {
				t.logger.Info("training converged", "epoch", epoch, "loglik", loglik)
				break
			}
		}
		prevLoglik = loglik
	}

	return crf, nil
}

// update performs one gradient step for a single sequence and returns the
// sequence's conditional log-likelihood before the step.
func (c *CRF) update(xs [][]string, ys []string, rate, l1, l2 float64) float64 {
	n := len(xs)
	nLabels := len(c.labels)

	emit := c.emitScores(xs)
	alpha, beta, logZ := c.forwardBackward(emit)

	// Gold-path score for the reported log-likelihood.
	gold := make([]int, n)
	score := 0.0
	for i, y := range ys {
		gold[i] = c.labelIdx[y]
		score += emit[i][gold[i]]
		if i > 0 {
			score += c.trans[gold[i-1]][gold[i]]
		}
	}
	loglik := score - logZ

	// State features: empirical minus expected counts.
	for i := 0; i < n; i++ {
		for y := 0; y < nLabels; y++ {
			p := math.Exp(alpha[i][y] + beta[i][y] - logZ)
			g := -p
			if y == gold[i] {
				g++
			}
			if g == 0 {
				continue
			}
			for _, f := range xs[i] {
				c.stateWeights(f)[y] += rate * g
			}
		}
	}

	// Transitions.
	for i := 1; i < n; i++ {
		for p := 0; p < nLabels; p++ {
			for y := 0; y < nLabels; y++ {
				pe := math.Exp(alpha[i-1][p] + c.trans[p][y] + emit[i][y] + beta[i][y] - logZ)
				g := -pe
				if p == gold[i-1] && y == gold[i] {
					g++
				}
				c.trans[p][y] += rate * g
			}
		}
	}

	// Regularize the weights this sequence touched: L2 shrinkage, then
	// L1 clipping toward zero.
	for i := 0; i < n; i++ {
		for _, f := range xs[i] {
			w := c.state[f]
			for y := range w {
				w[y] -= rate * l2 * w[y]
				w[y] = clipL1(w[y], rate*l1)
			}
		}
	}
	for p := range c.trans {
		for y := range c.trans[p] {
			c.trans[p][y] -= rate * l2 * c.trans[p][y]
			c.trans[p][y] = clipL1(c.trans[p][y], rate*l1)
		}
	}

	return loglik
}

// clipL1 shrinks w toward zero by at most penalty.
func clipL1(w, penalty float64) float64 {
	switch {
	case w > penalty:
		return w - penalty
	case w < -penalty:
		return w + penalty
	default:
		return 0
	}
}

// stateWeights returns the per-label weight row for feature f, allocating
// it on first touch.
func (c *CRF) stateWeights(f string) []float64 {
	w, ok := c.state[f]
	if !ok {
		w = make([]float64, len(c.labels))
		c.state[f] = w
	}
	return w
}

// emitScores computes per-position per-label state scores.
func (c *CRF) emitScores(xs [][]string) [][]float64 {
	emit := make([][]float64, len(xs))
	for i, fs := range xs {
		row := make([]float64, len(c.labels))
		for _, f := range fs {
			if w, ok := c.state[f]; ok {
				for y, v := range w {
					row[y] += v
				}
			}
		}
		emit[i] = row
	}
	return emit
}

// forwardBackward computes log-space forward and backward tables and the
// log partition function for the given emission scores.
func (c *CRF) forwardBackward(emit [][]float64) (alpha, beta [][]float64, logZ float64) {
	n := len(emit)
	nLabels := len(c.labels)

	alpha = make([][]float64, n)
	alpha[0] = append([]float64(nil), emit[0]...)
	for i := 1; i < n; i++ {
		alpha[i] = make([]float64, nLabels)
		for y := 0; y < nLabels; y++ {
			acc := math.Inf(-1)
			for p := 0; p < nLabels; p++ {
				acc = logSumExp(acc, alpha[i-1][p]+c.trans[p][y])
			}
			alpha[i][y] = acc + emit[i][y]
		}
	}

	beta = make([][]float64, n)
	beta[n-1] = make([]float64, nLabels)
	for i := n - 2; i >= 0; i-- {
		beta[i] = make([]float64, nLabels)
		for y := 0; y < nLabels; y++ {
			acc := math.Inf(-1)
			for q := 0; q < nLabels; q++ {
				acc = logSumExp(acc, c.trans[y][q]+emit[i+1][q]+beta[i+1][q])
			}
			beta[i][y] = acc
		}
	}

	logZ = math.Inf(-1)
	for y := 0; y < nLabels; y++ {
		logZ = logSumExp(logZ, alpha[n-1][y])
	}

	return alpha, beta, logZ
}

// logSumExp returns log(exp(a) + exp(b)) without overflow.
func logSumExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}
	return a + math.Log1p(math.Exp(b-a))
}

// Labels returns the model's label alphabet in training order.
func (c *CRF) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Predict returns the Viterbi-optimal label sequence for the feature
// sequence. Output length equals input length; ties break toward the
// lower label index, so output is deterministic.
func (c *CRF) Predict(ctx context.Context, features [][]string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	n := len(features)
	if n == 0 {
		return nil, nil
	}
	nLabels := len(c.labels)
	if nLabels == 0 {
		return nil, fmt.Errorf("tagger: model has no labels")
	}

	emit := c.emitScores(features)

	// best[y] = score of the best path ending at the current position
	// with label y; backp records the chosen predecessors.
	best := append([]float64(nil), emit[0]...)
	backp := make([][]int, n)

	for i := 1; i < n; i++ {
		next := make([]float64, nLabels)
		backp[i] = make([]int, nLabels)
		for y := 0; y < nLabels; y++ {
			bestScore := math.Inf(-1)
			bestPrev := 0
			for p := 0; p < nLabels; p++ {
				if s := best[p] + c.trans[p][y]; s > bestScore {
					bestScore = s
					bestPrev = p
				}
			}
			next[y] = bestScore + emit[i][y]
			backp[i][y] = bestPrev
		}
		best = next
	}

	last := 0
	for y := 1; y < nLabels; y++ {
		if best[y] > best[last] {
			last = y
		}
	}

	path := make([]string, n)
	for i := n - 1; i >= 0; i-- {
		path[i] = c.labels[last]
		if i > 0 {
			last = backp[i][last]
		}
	}

	return path, nil
}
