package corpus

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/jamesainslie/go-crfseg/dataset"
)

// OpenCorpora streams documents from an OpenCorpora annotation file
// (annot.opcorpora.xml). Each <text> element becomes one document; its raw
// text is the sentence sources joined with single spaces within a
// paragraph and newlines between paragraphs.
type OpenCorpora struct {
	path string
}

// NewOpenCorpora creates a reader for the given annotation file.
func NewOpenCorpora(path string) *OpenCorpora {
	return &OpenCorpora{path: path}
}

// xmlText mirrors one <text> element of the annotation format.
type xmlText struct {
	ID         string `xml:"id,attr"`
	Paragraphs []struct {
		Sentences []struct {
			Source string `xml:"source"`
		} `xml:"sentence"`
	} `xml:"paragraphs>paragraph"`
}

// Documents decodes <text> elements one at a time. A document that fails
// to decode is yielded as an error; a broken XML stream ends iteration
// after yielding the failure.
func (c *OpenCorpora) Documents(ctx context.Context) iter.Seq2[dataset.Document, error] {
	return func(yield func(dataset.Document, error) bool) {
		f, err := os.Open(c.path)
		if err != nil {
			yield(nil, fmt.Errorf("opening corpus: %w", err))
			return
		}
		defer func() { _ = f.Close() }()

		dec := xml.NewDecoder(f)
		for {
			if ctx.Err() != nil {
				return
			}

			tok, err := dec.Token()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("reading corpus: %w", err))
				return
			}

			start, ok := tok.(xml.StartElement)
			if !ok || start.Name.Local != "text" {
				continue
			}

			var xt xmlText
			if err := dec.DecodeElement(&xt, &start); err != nil {
				yield(nil, fmt.Errorf("decoding document: %w", err))
				return
			}

			d, ok := xt.document()
			if !ok {
				continue // empty placeholder texts are common
			}
			if !yield(d, nil) {
				return
			}
		}
	}
}

// document assembles the raw text and sentence list; ok is false when the
// text element holds no sentences.
func (xt xmlText) document() (dataset.Document, bool) {
	var sentences []string
	var text strings.Builder

	for pi, p := range xt.Paragraphs {
		if len(p.Sentences) == 0 {
			continue
		}
		if pi > 0 && text.Len() > 0 {
			text.WriteByte('\n')
		}
		for si, s := range p.Sentences {
			if si > 0 {
				text.WriteByte(' ')
			}
			text.WriteString(s.Source)
			sentences = append(sentences, s.Source)
		}
	}

	if len(sentences) == 0 {
		return nil, false
	}
	return doc{id: xt.ID, text: text.String(), sentences: sentences}, true
}
