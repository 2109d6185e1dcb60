// Package tagger provides generic sequence taggers: models that map a
// sequence of string feature vectors to a sequence of string labels.
//
// Nothing in this package knows about sentences or characters; the label
// alphabet is whatever the training data contains. Two backends are
// provided: a trainable linear-chain CRF and an inference-only ONNX
// runtime wrapper for models trained elsewhere.
package tagger

import (
	"context"
	"errors"
	"fmt"
)

// Model predicts a label sequence for a feature sequence. Output length
// always equals input length, and output is deterministic for a given
// model and input.
type Model interface {
	Predict(ctx context.Context, features [][]string) ([]string, error)
}

// SequenceTrainer accumulates matched (features, labels) sequence pairs
// and trains a model persisted to a file path.
type SequenceTrainer interface {
	Append(features [][]string, labels []string) error
	Train(ctx context.Context, modelPath string) (Model, error)
}

// ErrBadModel indicates a model file that is not in a recognized format.
var ErrBadModel = errors.New("tagger: unrecognized model format")

// Params configures CRF training.
type Params struct {
	L1Penalty     float64 // L1 regularization strength
	L2Penalty     float64 // L2 regularization strength
	MaxIterations int     // training epoch cap
}

// DefaultParams returns the stock training configuration.
func DefaultParams() Params {
	return Params{
		L1Penalty:     1.0,
		L2Penalty:     0.001,
		MaxIterations: 200,
	}
}

func (p Params) validate() error {
	if p.L1Penalty < 0 || p.L2Penalty < 0 {
		return fmt.Errorf("tagger: negative penalty (l1=%v, l2=%v)", p.L1Penalty, p.L2Penalty)
	}
	if p.MaxIterations <= 0 {
		return fmt.Errorf("tagger: max iterations must be positive, got %d", p.MaxIterations)
	}
	return nil
}
