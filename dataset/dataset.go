// Package dataset turns a corpus of documents into parallel feature/label
// sequence lists partitioned into train and test splits.
package dataset

import (
	"context"
	"iter"
	"log/slog"
	"math/rand/v2"

	crfseg "github.com/jamesainslie/go-crfseg"
	"github.com/jamesainslie/go-crfseg/feature"
)

// Document is one corpus entry: raw text plus the ground-truth sentence
// list whose elements occur in order as substrings of the text.
type Document interface {
	ID() string
	Text() string
	Sentences() []string
}

// Corpus yields documents one at a time. A yielded error stands for a
// document that failed to load or parse; iteration continues after it.
type Corpus interface {
	Documents(ctx context.Context) iter.Seq2[Document, error]
}

// Split holds the partitioned training data. Features and labels stay
// paired: TrainFeatures[i] and TrainLabels[i] come from the same document.
type Split struct {
	TrainFeatures [][]feature.Vector
	TestFeatures  [][]feature.Vector
	TrainLabels   []crfseg.Labels
	TestLabels    []crfseg.Labels

	Documents int // documents successfully processed
	Skipped   int // documents dropped due to load or encode failures
}

// Builder configures corpus-to-dataset conversion.
type Builder struct {
	testFraction  float64
	seed          uint64
	logger        *slog.Logger
	progressEvery int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTestFraction sets the share of documents held out for testing
// (default: 0.2).
func WithTestFraction(f float64) BuilderOption {
	return func(b *Builder) {
		if f >= 0 && f <= 1 {
			b.testFraction = f
		}
	}
}

// WithSeed sets the random seed for the train/test partition (default: 1).
func WithSeed(seed uint64) BuilderOption {
	return func(b *Builder) {
		b.seed = seed
	}
}

// WithLogger sets the progress and skip logger (default: slog.Default()).
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithProgressEvery sets how many documents pass between progress log
// lines (default: 1000).
func WithProgressEvery(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.progressEvery = n
		}
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		testFraction:  0.2,
		seed:          1,
		logger:        slog.Default(),
		progressEvery: 1000,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build encodes labels and extracts features for every document, in corpus
// order, then partitions the parallel lists with a seeded shuffle. A
// document that fails to load or encode is logged and skipped; the rest of
// the corpus is still processed.
func (b *Builder) Build(ctx context.Context, corpus Corpus) (*Split, error) {
	var features [][]feature.Vector
	var labels []crfseg.Labels
	skipped := 0
	seen := 0

	for doc, err := range corpus.Documents(ctx) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		seen++
		if err != nil {
			b.logger.Warn("skipping document", "error", err)
			skipped++
			continue
		}

		text := doc.Text()
		ls, err := crfseg.Encode(text, doc.Sentences())
		if err != nil {
			b.logger.Warn("skipping document", "document", doc.ID(), "error", err)
			skipped++
			continue
		}

		// Features span the whole raw text: the context window crosses
		// sentence boundaries.
		features = append(features, feature.Extract(text))
		labels = append(labels, ls)

		if seen%b.progressEvery == 0 {
			b.logger.Info("building dataset", "documents", seen, "skipped", skipped)
		}
	}

	split := &Split{
		Documents: len(features),
		Skipped:   skipped,
	}

	trainIdx, testIdx := partition(len(features), b.testFraction, b.seed)
	for _, i := range trainIdx {
		split.TrainFeatures = append(split.TrainFeatures, features[i])
		split.TrainLabels = append(split.TrainLabels, labels[i])
	}
	for _, i := range testIdx {
		split.TestFeatures = append(split.TestFeatures, features[i])
		split.TestLabels = append(split.TestLabels, labels[i])
	}

	b.logger.Info("dataset built",
		"train", len(split.TrainFeatures),
		"test", len(split.TestFeatures),
		"skipped", skipped)

	return split, nil
}

// partition returns a seeded random split of [0, n) into train and test
// index sets. The same n, fraction, and seed always produce the same split.
func partition(n int, testFraction float64, seed uint64) (train, test []int) {
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)

	nTest := int(float64(n)*testFraction + 0.5)
	if nTest > n {
		nTest = n
	}
	return perm[nTest:], perm[:nTest]
}
