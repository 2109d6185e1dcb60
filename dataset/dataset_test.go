package dataset

import (
	"context"
	"errors"
	"iter"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDoc struct {
	id        string
	text      string
	sentences []string
}

func (d stubDoc) ID() string          { return d.id }
func (d stubDoc) Text() string        { return d.text }
func (d stubDoc) Sentences() []string { return d.sentences }

// stubCorpus yields documents and injected per-document errors in order.
type stubCorpus struct {
	docs []stubDoc
	errs map[int]error // index -> error yielded instead of the document
}

func (c stubCorpus) Documents(_ context.Context) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		for i, d := range c.docs {
			if err, ok := c.errs[i]; ok {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(d, nil) {
				return
			}
		}
	}
}

func goodDocs() []stubDoc {
	return []stubDoc{
		{"d1", "ab. cd.", []string{"ab.", "cd."}},
		{"d2", "ef gh. ij.", []string{"ef gh.", "ij."}},
		{"d3", "привет. пока.", []string{"привет.", "пока."}},
		{"d4", "one two.", []string{"one two."}},
		{"d5", "x. y. z.", []string{"x.", "y.", "z."}},
	}
}

func TestBuild_PairingAndLengths(t *testing.T) {
	b := NewBuilder(WithTestFraction(0.4), WithSeed(7))
	split, err := b.Build(context.Background(), stubCorpus{docs: goodDocs()})
	require.NoError(t, err)

	assert.Equal(t, 5, split.Documents)
	assert.Zero(t, split.Skipped)
	assert.Len(t, split.TrainFeatures, 3)
	assert.Len(t, split.TestFeatures, 2)
	require.Len(t, split.TrainLabels, len(split.TrainFeatures))
	require.Len(t, split.TestLabels, len(split.TestFeatures))

	// Pairing: a document's feature and label sequences have equal length.
	for i := range split.TrainFeatures {
		assert.Len(t, split.TrainLabels[i], len(split.TrainFeatures[i]), "train pair %d", i)
	}
	for i := range split.TestFeatures {
		assert.Len(t, split.TestLabels[i], len(split.TestFeatures[i]), "test pair %d", i)
	}
}

func TestBuild_LengthInvariantPerDocument(t *testing.T) {
	docs := goodDocs()
	b := NewBuilder(WithTestFraction(0), WithSeed(1))
	split, err := b.Build(context.Background(), stubCorpus{docs: docs})
	require.NoError(t, err)

	// With no test fraction and seed-determined order, every document is
	// in the train set; each sequence covers its text rune for rune.
	lengths := map[int]int{}
	for _, d := range docs {
		lengths[utf8.RuneCountInString(d.text)]++
	}
	for i := range split.TrainFeatures {
		lengths[len(split.TrainFeatures[i])]--
		if lengths[len(split.TrainFeatures[i])] == 0 {
			delete(lengths, len(split.TrainFeatures[i]))
		}
	}
	assert.Empty(t, lengths, "every document length accounted for")
}

func TestBuild_SkipsFailingDocuments(t *testing.T) {
	docs := goodDocs()
	docs[1].sentences = []string{"not in the text"}
	c := stubCorpus{
		docs: docs,
		errs: map[int]error{3: errors.New("parse failure")},
	}

	split, err := NewBuilder(WithTestFraction(0)).Build(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 3, split.Documents)
	assert.Equal(t, 2, split.Skipped)
	assert.Len(t, split.TrainFeatures, 3)
}

func TestBuild_SeedDeterminism(t *testing.T) {
	c := stubCorpus{docs: goodDocs()}

	first, err := NewBuilder(WithTestFraction(0.4), WithSeed(42)).Build(context.Background(), c)
	require.NoError(t, err)
	second, err := NewBuilder(WithTestFraction(0.4), WithSeed(42)).Build(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, first.TrainLabels, second.TrainLabels)
	assert.Equal(t, first.TestLabels, second.TestLabels)
}

func TestBuild_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder().Build(ctx, stubCorpus{docs: goodDocs()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPartition(t *testing.T) {
	train, test := partition(10, 0.3, 5)
	assert.Len(t, test, 3)
	assert.Len(t, train, 7)

	seen := map[int]bool{}
	for _, i := range append(append([]int{}, train...), test...) {
		assert.False(t, seen[i], "index %d appears twice", i)
		seen[i] = true
	}
	assert.Len(t, seen, 10)

	// Degenerate fractions.
	train, test = partition(4, 0, 1)
	assert.Empty(t, test)
	assert.Len(t, train, 4)

	train, test = partition(4, 1, 1)
	assert.Len(t, test, 4)
	assert.Empty(t, train)
}
