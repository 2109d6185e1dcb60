package crfseg

import (
	"context"
	"fmt"

	"github.com/jamesainslie/go-crfseg/feature"
	"github.com/jamesainslie/go-crfseg/tagger"
)

// Hyperparameters controls CRF training.
type Hyperparameters struct {
	L1Penalty     float64 // L1 regularization strength
	L2Penalty     float64 // L2 regularization strength
	MaxIterations int     // training iteration cap
}

// DefaultHyperparameters returns the stock training configuration.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		L1Penalty:     1.0,
		L2Penalty:     0.001,
		MaxIterations: 200,
	}
}

// Train fits a sequence tagger on matched feature/label sequence pairs and
// persists it to modelPath. Pairs are submitted in the order given; the
// model path is explicit, never ambient state.
func Train(ctx context.Context, features [][]feature.Vector, labels []Labels, modelPath string, hp Hyperparameters, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(features) != len(labels) {
		return fmt.Errorf("crfseg: %d feature sequences for %d label sequences", len(features), len(labels))
	}

	trainer, err := tagger.NewTrainer(tagger.Params{
		L1Penalty:     hp.L1Penalty,
		L2Penalty:     hp.L2Penalty,
		MaxIterations: hp.MaxIterations,
	}, tagger.WithTrainerLogger(cfg.logger))
	if err != nil {
		return err
	}

	return TrainWith(ctx, trainer, features, labels, modelPath)
}

// TrainWith is Train with an injected trainer collaborator.
func TrainWith(ctx context.Context, trainer tagger.SequenceTrainer, features [][]feature.Vector, labels []Labels, modelPath string) error {
	if len(features) != len(labels) {
		return fmt.Errorf("crfseg: %d feature sequences for %d label sequences", len(features), len(labels))
	}

	for i := range features {
		if err := trainer.Append(features[i], labels[i].Strings()); err != nil {
			return fmt.Errorf("appending sequence %d: %w", i, err)
		}
	}

	// Trainer failures surface unchanged.
	if _, err := trainer.Train(ctx, modelPath); err != nil {
		return err
	}
	return nil
}
