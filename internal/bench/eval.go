package bench

import (
	"context"
	"fmt"

	crfseg "github.com/jamesainslie/go-crfseg"
	"github.com/jamesainslie/go-crfseg/dataset"
)

// RunEnds converts a label sequence into sentence-end offsets: the
// character position just past the last in-sentence character of each run.
func RunEnds(labels crfseg.Labels) []int {
	var ends []int
	inRun := false
	for i, l := range labels {
		if l == crfseg.InSentence {
			inRun = true
			continue
		}
		if inRun {
			ends = append(ends, i)
			inRun = false
		}
	}
	if inRun {
		ends = append(ends, len(labels))
	}
	return ends
}

// EvaluateDocument scores the segmenter's labeling of one document against
// its ground-truth sentence list.
func EvaluateDocument(ctx context.Context, seg *crfseg.Segmenter, d dataset.Document, cfg Config) (Metrics, error) {
	text := d.Text()

	predicted, err := seg.Labels(ctx, text)
	if err != nil {
		return Metrics{}, fmt.Errorf("labeling document %s: %w", d.ID(), err)
	}
	truth, err := crfseg.Encode(text, d.Sentences())
	if err != nil {
		return Metrics{}, fmt.Errorf("encoding document %s: %w", d.ID(), err)
	}

	return Evaluate(RunEnds(predicted), RunEnds(truth), cfg), nil
}

// EvaluateCorpus aggregates counts over all documents in the corpus.
// Documents that fail to load or evaluate are skipped and counted.
func EvaluateCorpus(ctx context.Context, seg *crfseg.Segmenter, c dataset.Corpus, cfg Config) (Metrics, int, error) {
	var tp, fp, fn, skipped int

	for d, err := range c.Documents(ctx) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Metrics{}, skipped, ctxErr
		}
		if err != nil {
			skipped++
			continue
		}

		m, err := EvaluateDocument(ctx, seg, d, cfg)
		if err != nil {
			skipped++
			continue
		}
		tp += m.TruePositives
		fp += m.FalsePositives
		fn += m.FalseNegatives
	}

	return Compute(tp, fp, fn, cfg), skipped, nil
}
