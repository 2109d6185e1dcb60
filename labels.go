package crfseg

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Label classifies one character of a text.
type Label byte

const (
	// InSentence marks a character inside a sentence.
	InSentence Label = '0'

	// Boundary marks a separator character between sentences.
	Boundary Label = '1'
)

// Labels is a per-character label sequence; its length equals the character
// (rune) count of the text it describes.
type Labels []Label

// String renders the sequence in the compact '0'/'1' form.
func (ls Labels) String() string {
	return string(ls)
}

// Strings returns one single-character string per label, the form the
// sequence-tagger collaborators speak.
func (ls Labels) Strings() []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = string(rune(l))
	}
	return out
}

// ParseLabels converts tagger output back into a Labels sequence. Any
// string other than "0" or "1" is rejected.
func ParseLabels(raw []string) (Labels, error) {
	ls := make(Labels, len(raw))
	for i, s := range raw {
		switch s {
		case "0":
			ls[i] = InSentence
		case "1":
			ls[i] = Boundary
		default:
			return nil, fmt.Errorf("crfseg: unrecognized label %q at position %d", s, i)
		}
	}
	return ls, nil
}

// Encode labels every character of text: characters covered by one of the
// ground-truth sentences are InSentence, everything else is Boundary.
//
// Sentences are located in list order with a moving search cursor that
// advances past each matched span, so a sentence repeated later in the
// document matches its own occurrence rather than the first one. A sentence
// absent from the remaining text fails with *MissingSentenceError.
func Encode(text string, sentences []string) (Labels, error) {
	labels := make(Labels, utf8.RuneCountInString(text))
	for i := range labels {
		labels[i] = Boundary
	}

	byteCursor := 0
	runeCursor := 0
	for _, sent := range sentences {
		off := strings.Index(text[byteCursor:], sent)
		if off < 0 {
			return nil, &MissingSentenceError{Sentence: sent}
		}

		start := runeCursor + utf8.RuneCountInString(text[byteCursor:byteCursor+off])
		span := utf8.RuneCountInString(sent)
		for i := start; i < start+span; i++ {
			labels[i] = InSentence
		}

		byteCursor += off + len(sent)
		runeCursor = start + span
	}

	return labels, nil
}

// Decode reconstructs sentence strings from a labeled text: each maximal
// run of InSentence characters becomes one sentence, in text order.
// Boundary characters are dropped. Decode retains no state between calls;
// labels must cover text exactly or it fails with *LengthMismatchError.
func Decode(text string, labels Labels) ([]string, error) {
	if n := utf8.RuneCountInString(text); n != len(labels) {
		return nil, &LengthMismatchError{TextLen: n, LabelsLen: len(labels)}
	}

	var sentences []string
	var pending strings.Builder

	i := 0
	for _, r := range text {
		if labels[i] == Boundary {
			if pending.Len() > 0 {
				sentences = append(sentences, pending.String())
				pending.Reset()
			}
		} else {
			pending.WriteRune(r)
		}
		i++
	}
	if pending.Len() > 0 {
		sentences = append(sentences, pending.String())
	}

	return sentences, nil
}
