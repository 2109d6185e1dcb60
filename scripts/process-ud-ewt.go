//go:build ignore

// Process UD English Web Treebank CoNLL-U files into the dir corpus
// format: one .txt file per split, one sentence per line.
// Usage: go run ./scripts/process-ud-ewt.go
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	inDir := "testdata/ud-ewt"
	outDir := "testdata/gold"

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", outDir, err)
		os.Exit(1)
	}

	for _, split := range []string{"train", "dev", "test"} {
		inFile := filepath.Join(inDir, fmt.Sprintf("en_ewt-ud-%s.conllu", split))
		outFile := filepath.Join(outDir, fmt.Sprintf("%s.txt", split))

		fmt.Printf("Processing %s...\n", split)
		sentences, err := readSentences(inFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inFile, err)
			continue
		}

		if err := os.WriteFile(outFile, []byte(strings.Join(sentences, "\n")+"\n"), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outFile, err)
			continue
		}

		fmt.Printf("  -> %s (%d sentences)\n", outFile, len(sentences))
	}

	fmt.Println("Done! Corpus files created in", outDir)
}

// readSentences pulls the `# text = ...` metadata lines out of a CoNLL-U
// file, one per sentence.
func readSentences(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	var sentences []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if text, ok := strings.CutPrefix(line, "# text = "); ok {
			sentences = append(sentences, text)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning file: %w", err)
	}

	return sentences, nil
}
