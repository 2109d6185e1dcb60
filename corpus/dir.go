package corpus

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/go-crfseg/dataset"
)

// Dir reads a directory of .txt files, one document per file, one sentence
// per line. The raw text is the non-blank lines joined with single spaces.
type Dir struct {
	path string
}

// NewDir creates a reader for the given directory.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Documents yields one document per .txt file in lexical order. A file
// that cannot be read is yielded as an error and iteration continues with
// the next file.
func (c *Dir) Documents(ctx context.Context) iter.Seq2[dataset.Document, error] {
	return func(yield func(dataset.Document, error) bool) {
		entries, err := os.ReadDir(c.path)
		if err != nil {
			yield(nil, fmt.Errorf("reading corpus dir: %w", err))
			return
		}

		for _, entry := range entries {
			if ctx.Err() != nil {
				return
			}
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
				continue
			}

			path := filepath.Join(c.path, entry.Name())
			d, err := loadTextFile(path)
			if err != nil {
				if !yield(nil, fmt.Errorf("loading %s: %w", entry.Name(), err)) {
					return
				}
				continue
			}
			if d == nil {
				continue // blank file
			}
			if !yield(d, nil) {
				return
			}
		}
	}
}

func loadTextFile(path string) (dataset.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sentences []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			sentences = append(sentences, line)
		}
	}
	if len(sentences) == 0 {
		return nil, nil
	}

	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	return doc{
		id:        id,
		text:      strings.Join(sentences, " "),
		sentences: sentences,
	}, nil
}
