package crfseg

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestEncode_ConcreteScenario(t *testing.T) {
	text := "привет. меня зовут аня."
	sentences := []string{"привет.", "меня зовут аня."}

	labels, err := Encode(text, sentences)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := strings.Repeat("0", 7) + "1" + strings.Repeat("0", 15)
	if labels.String() != want {
		t.Errorf("labels:\ngot:  %s\nwant: %s", labels, want)
	}
	if len(labels) != 23 {
		t.Errorf("expected 23 labels, got %d", len(labels))
	}

	decoded, err := Decode(text, labels)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !slices.Equal(decoded, sentences) {
		t.Errorf("decoded:\ngot:  %q\nwant: %q", decoded, sentences)
	}
}

func TestEncode_LengthInvariant(t *testing.T) {
	tests := []struct {
		text      string
		sentences []string
	}{
		{"", nil},
		{"one. two.", []string{"one.", "two."}},
		{"привет. пока.", []string{"привет.", "пока."}},
		{"no boundaries", []string{"no boundaries"}},
		{"   ", nil},
	}

	for _, tt := range tests {
		labels, err := Encode(tt.text, tt.sentences)
		if err != nil {
			t.Fatalf("Encode(%q) failed: %v", tt.text, err)
		}
		if want := utf8.RuneCountInString(tt.text); len(labels) != want {
			t.Errorf("Encode(%q): got %d labels, want %d", tt.text, len(labels), want)
		}
	}
}

func TestEncode_MissingSentence(t *testing.T) {
	_, err := Encode("abc", []string{"xyz"})
	if err == nil {
		t.Fatal("expected error for missing sentence")
	}

	var missing *MissingSentenceError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingSentenceError, got: %v", err)
	}
	if missing.Sentence != "xyz" {
		t.Errorf("expected sentence %q in error, got %q", "xyz", missing.Sentence)
	}
}

func TestEncode_CursorAdvancesPastMatches(t *testing.T) {
	// The second "go." must label its own occurrence, not re-match the
	// first one.
	text := "go. go."
	labels, err := Encode(text, []string{"go.", "go."})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got, want := labels.String(), "0001000"; got != want {
		t.Errorf("labels: got %s, want %s", got, want)
	}

	decoded, err := Decode(text, labels)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !slices.Equal(decoded, []string{"go.", "go."}) {
		t.Errorf("decoded: got %q", decoded)
	}
}

func TestEncode_SentenceBeforeCursorIsMissing(t *testing.T) {
	// "b." was consumed inside the span of "a. b." and cannot match again.
	_, err := Encode("a. b. c.", []string{"a. b.", "b."})
	var missing *MissingSentenceError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingSentenceError, got: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		sentences []string
	}{
		{"two ascii sentences", "Hello there. How are you?", []string{"Hello there.", "How are you?"}},
		{"trailing separator", "One. Two. ", []string{"One.", "Two."}},
		{"leading separator", "  One. Two.", []string{"One.", "Two."}},
		{"multi-char separators", "a.\n\n b.", []string{"a.", "b."}},
		{"single sentence", "Just one sentence", []string{"Just one sentence"}},
		{"cyrillic", "привет. меня зовут аня.", []string{"привет.", "меня зовут аня."}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels, err := Encode(tt.text, tt.sentences)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := Decode(tt.text, labels)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !slices.Equal(got, tt.sentences) {
				t.Errorf("round trip:\ngot:  %q\nwant: %q", got, tt.sentences)
			}
		})
	}
}

func TestDecode_BoundaryOnly(t *testing.T) {
	text := "     "
	labels := Labels(strings.Repeat("1", 5))

	got, err := Decode(text, labels)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no sentences, got %q", got)
	}
}

func TestDecode_Idempotent(t *testing.T) {
	text := "ab cd"
	labels := Labels("00100")

	first, err := Decode(text, labels)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	second, err := Decode(text, labels)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !slices.Equal(first, second) {
		t.Errorf("decode not idempotent: %q vs %q", first, second)
	}
}

func TestDecode_NeverInventsCharacters(t *testing.T) {
	text := "Яблоко. Груша!"
	labels, err := Encode(text, []string{"Яблоко.", "Груша!"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	sentences, err := Decode(text, labels)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	// Concatenated sentences equal the in-sentence subsequence of text.
	var want strings.Builder
	i := 0
	for _, r := range text {
		if labels[i] == InSentence {
			want.WriteRune(r)
		}
		i++
	}
	if got := strings.Join(sentences, ""); got != want.String() {
		t.Errorf("decoded characters diverge:\ngot:  %q\nwant: %q", got, want.String())
	}
}

func TestDecode_LengthMismatch(t *testing.T) {
	_, err := Decode("abc", Labels("00"))
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}

	var mismatch *LengthMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *LengthMismatchError, got: %v", err)
	}
	if mismatch.TextLen != 3 || mismatch.LabelsLen != 2 {
		t.Errorf("unexpected error fields: %+v", mismatch)
	}

	// Rune count, not byte count, is what must match.
	if _, err := Decode("яя", Labels("00")); err != nil {
		t.Errorf("two runes with two labels should decode: %v", err)
	}
}

func TestParseLabels(t *testing.T) {
	labels, err := ParseLabels([]string{"0", "1", "0"})
	if err != nil {
		t.Fatalf("ParseLabels failed: %v", err)
	}
	if labels.String() != "010" {
		t.Errorf("got %s, want 010", labels)
	}

	if _, err := ParseLabels([]string{"0", "2"}); err == nil {
		t.Error("expected error for unrecognized label")
	}

	got := labels.Strings()
	if !slices.Equal(got, []string{"0", "1", "0"}) {
		t.Errorf("Strings(): got %q", got)
	}
}
