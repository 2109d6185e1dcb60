package crfseg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jamesainslie/go-crfseg/feature"
	"github.com/jamesainslie/go-crfseg/tagger"
)

// Segmenter splits raw text into sentences using a trained sequence
// tagger. It is safe for concurrent use if the underlying tagger is.
type Segmenter struct {
	tagger tagger.Model
	logger *slog.Logger
}

// New creates a Segmenter backed by a CRF model file produced by Train.
func New(modelPath string, opts ...Option) (*Segmenter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}

	model, err := tagger.Load(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	return &Segmenter{
		tagger: model,
		logger: cfg.logger,
	}, nil
}

// NewWithTagger creates a Segmenter around any sequence-tagger
// collaborator, such as an inference-only ONNX model.
func NewWithTagger(model tagger.Model, opts ...Option) *Segmenter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Segmenter{
		tagger: model,
		logger: cfg.logger,
	}
}

// Segment splits text into sentences: characters are featurized, the
// tagger labels each one, and maximal in-sentence runs become sentences.
func (s *Segmenter) Segment(ctx context.Context, text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	labels, err := s.Labels(ctx, text)
	if err != nil {
		return nil, err
	}
	return Decode(text, labels)
}

// Labels returns the raw per-character labeling of text. Tagger failures
// are surfaced unchanged.
func (s *Segmenter) Labels(ctx context.Context, text string) (Labels, error) {
	if text == "" {
		return nil, nil
	}

	raw, err := s.tagger.Predict(ctx, feature.Extract(text))
	if err != nil {
		return nil, err
	}
	return ParseLabels(raw)
}

// Close releases tagger resources if the tagger holds any.
func (s *Segmenter) Close() error {
	if c, ok := s.tagger.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
