package crfseg

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrModelNotFound indicates the model file does not exist.
	ErrModelNotFound = errors.New("crfseg: model file not found")

	// ErrInvalidModel indicates the model file exists but is malformed.
	ErrInvalidModel = errors.New("crfseg: invalid model format")
)

// MissingSentenceError reports a ground-truth sentence that does not occur
// in the unconsumed remainder of its document's text during label encoding.
type MissingSentenceError struct {
	Sentence string
}

func (e *MissingSentenceError) Error() string {
	return fmt.Sprintf("crfseg: sentence %q not found in text", e.Sentence)
}

// LengthMismatchError reports a decode call where the label sequence does
// not cover the text character for character.
type LengthMismatchError struct {
	TextLen   int // characters in the text
	LabelsLen int // labels supplied
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("crfseg: %d labels for %d characters", e.LabelsLen, e.TextLen)
}
