package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	crfseg "github.com/jamesainslie/go-crfseg"
)

func main() {
	modelPath := flag.String("model", "", "Path to trained model file")
	showLabels := flag.Bool("labels", false, "Print the raw per-character labels")

	flag.Parse()

	if *modelPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: crfseg-cli -model MODEL [OPTIONS] TEXT")
		flag.PrintDefaults()
		os.Exit(1)
	}

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		fmt.Fprintln(os.Stderr, "Error: no text provided")
		os.Exit(1)
	}

	seg, err := crfseg.New(*modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating segmenter: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = seg.Close() }() // Cleanup error ignored in CLI

	ctx := context.Background()

	if *showLabels {
		labels, err := seg.Labels(ctx, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Text:   %s\n", text)
		fmt.Printf("Labels: %s\n", labels)
		return
	}

	sentences, err := seg.Segment(ctx, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for i, s := range sentences {
		fmt.Printf("%d: %s\n", i+1, s)
	}
}
