// Package feature converts text into per-character feature vectors for
// sequence tagging.
//
// Each character contributes three observations (its lower-cased form, an
// uppercase flag, a numeric flag). Up to two characters of context on each
// side contribute the same three observations, prefixed with a signed
// offset marker. Near the ends of the text the out-of-range context groups
// are omitted rather than padded.
package feature

import (
	"strconv"
	"unicode"
)

// Vector is the ordered set of feature tokens describing one character.
// It is an alias so feature sequences satisfy the generic [][]string
// tagger contract without conversion.
type Vector = []string

// Extract returns one Vector per character (rune) of text. It is a pure
// function; an empty input yields a nil sequence.
func Extract(text string) []Vector {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	vectors := make([]Vector, n)

	for i := range runes {
		// 3 own tokens plus up to 4 context groups of 3.
		v := make(Vector, 0, 15)
		v = appendCharFeatures(v, "", runes[i])

		if i > 0 {
			v = appendCharFeatures(v, "-1:", runes[i-1])
		}
		if i > 1 {
			v = appendCharFeatures(v, "-2:", runes[i-2])
		}
		if i < n-1 {
			v = appendCharFeatures(v, "+1:", runes[i+1])
		}
		if i < n-2 {
			v = appendCharFeatures(v, "+2:", runes[i+2])
		}

		vectors[i] = v
	}

	return vectors
}

// appendCharFeatures appends the three observations for r, each key
// prefixed with the offset marker (empty for the character itself).
func appendCharFeatures(v Vector, prefix string, r rune) Vector {
	return append(v,
		prefix+"lower="+string(unicode.ToLower(r)),
		prefix+"isupper="+strconv.FormatBool(unicode.IsUpper(r)),
		prefix+"isnumeric="+strconv.FormatBool(unicode.IsNumber(r)),
	)
}
