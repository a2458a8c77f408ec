// ABOUTME: Greedy order-preserving partitioner over a length budget
// ABOUTME: Single pass; a lone document over budget is a fatal condition

package reduce

import (
	"errors"
	"fmt"
)

// ErrDocumentTooLarge reports that a single document's formatted length
// alone exceeds the budget, so no amount of further collapsing can make
// progress. It is fatal for the whole reduction; there is no retry.
var ErrDocumentTooLarge = errors.New("document exceeds length budget")

// TooLargeError carries diagnostics for the offending document. It unwraps
// to ErrDocumentTooLarge.
type TooLargeError struct {
	Index  int // position of the document in the input sequence
	Length int // measured length of the document on its own
	Budget int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("document %d exceeds length budget: %d > %d", e.Index, e.Length, e.Budget)
}

func (e *TooLargeError) Unwrap() error { return ErrDocumentTooLarge }

// SplitByLength partitions an ordered document sequence into contiguous
// groups whose measured length stays within tokenMax. The pass is greedy:
// each group grows until adding one more document would push it over budget,
// then the group is closed and the overflowing document starts the next one.
//
// Greedy splitting can emit more groups than optimal bin-packing would;
// callers depend on the deterministic grouping, so that behavior is part of
// the contract. Concatenating the returned groups in order reproduces the
// input exactly. The trailing group is always emitted, even when the input
// is empty (one empty group).
//
// measure is called on each candidate group; it is expected to format the
// group's documents and measure the result.
func SplitByLength(docs []Document, measure func([]Document) int, tokenMax int) ([][]Document, error) {
	var groups [][]Document
	var current []Document

	for i, doc := range docs {
		current = append(current, doc)
		cost := measure(current)
		if cost <= tokenMax {
			continue
		}
		if len(current) == 1 {
			return nil, &TooLargeError{Index: i, Length: cost, Budget: tokenMax}
		}
		groups = append(groups, current[:len(current)-1])
		current = []Document{doc}
	}

	return append(groups, current), nil
}
