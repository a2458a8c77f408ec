// ABOUTME: Length functions measuring formatted text against the token budget
// ABOUTME: Rune count default, grapheme clusters via uniseg, chars/4 estimate

package reduce

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// LengthFunc measures formatted text. The Reducer compares its result
// against the token budget; any token-aware counter exposed by a model
// client can be plugged in directly.
//
// The partitioner only assumes that appending a document to a group cannot
// decrease the measured length of the group's formatted text.
type LengthFunc func(text string) int

// RuneLength counts Unicode code points. This is the default when no length
// function is configured.
func RuneLength(text string) int {
	return utf8.RuneCountInString(text)
}

// GraphemeLength counts user-perceived characters (grapheme clusters).
// Slower than RuneLength but stable for text heavy in combining marks or
// emoji sequences.
func GraphemeLength(text string) int {
	return uniseg.GraphemeClusterCount(text)
}

// TokenEstimate approximates a model token count with the chars/4 heuristic
// (ceiling division), accurate within roughly 10% for English prose. Use a
// real tokenizer-backed LengthFunc when exact budgets matter.
func TokenEstimate(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
