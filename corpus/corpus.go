// Package corpus provides dataset.Corpus implementations: a streaming
// OpenCorpora XML reader, a plain-text directory reader, and an in-memory
// corpus for tests and small experiments.
package corpus

import (
	"context"
	"iter"

	"github.com/jamesainslie/go-crfseg/dataset"
)

// doc is the concrete dataset.Document used by all readers here.
type doc struct {
	id        string
	text      string
	sentences []string
}

func (d doc) ID() string          { return d.id }
func (d doc) Text() string        { return d.text }
func (d doc) Sentences() []string { return d.sentences }

// NewDoc builds an in-memory document.
func NewDoc(id, text string, sentences []string) dataset.Document {
	return doc{id: id, text: text, sentences: sentences}
}

// Slice is an in-memory corpus.
type Slice []dataset.Document

// Documents yields the documents in order.
func (s Slice) Documents(ctx context.Context) iter.Seq2[dataset.Document, error] {
	return func(yield func(dataset.Document, error) bool) {
		for _, d := range s {
			if ctx.Err() != nil {
				return
			}
			if !yield(d, nil) {
				return
			}
		}
	}
}
