// ABOUTME: Tests for the greedy partitioner: coverage, budget, fatal cases
// ABOUTME: Pins exact group boundaries for concrete budgets

package reduce

import (
	"errors"
	"strings"
	"testing"
)

// measureByRunes formats groups with the zero-value Formatter and counts runes.
func measureByRunes(group []Document) int {
	var f Formatter
	return RuneLength(f.FormatAll(group))
}

func contentsOf(groups [][]Document) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = make([]string, len(g))
		for j, d := range g {
			out[i][j] = d.Content
		}
	}
	return out
}

func TestSplitByLength_CoverageAndOrder(t *testing.T) {
	t.Parallel()

	docs := []Document{
		{Content: strings.Repeat("a", 20)},
		{Content: strings.Repeat("b", 20)},
		{Content: strings.Repeat("c", 20)},
		{Content: strings.Repeat("d", 20)},
		{Content: strings.Repeat("e", 20)},
	}

	groups, err := SplitByLength(docs, measureByRunes, 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Concatenating groups in order must reproduce the input exactly.
	var flat []Document
	for _, g := range groups {
		flat = append(flat, g...)
	}
	if len(flat) != len(docs) {
		t.Fatalf("flattened %d docs, want %d", len(flat), len(docs))
	}
	for i := range docs {
		if flat[i].Content != docs[i].Content {
			t.Errorf("doc %d reordered or lost: %q", i, flat[i].Content)
		}
	}
}

func TestSplitByLength_BudgetRespected(t *testing.T) {
	t.Parallel()

	docs := []Document{
		{Content: strings.Repeat("a", 30)},
		{Content: strings.Repeat("b", 30)},
		{Content: strings.Repeat("c", 30)},
	}

	groups, err := SplitByLength(docs, measureByRunes, 70)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, g := range groups {
		if len(g) > 1 && measureByRunes(g) > 70 {
			t.Errorf("group %d over budget: %d", i, measureByRunes(g))
		}
	}
	// 30+2+30 = 62 fits; adding the third (94) does not.
	want := [][]string{
		{strings.Repeat("a", 30), strings.Repeat("b", 30)},
		{strings.Repeat("c", 30)},
	}
	got := contentsOf(groups)
	if len(got) != 2 || len(got[0]) != 2 || len(got[1]) != 1 {
		t.Fatalf("groups = %v, want shape %v", got, want)
	}
}

func TestSplitByLength_TwoFortyCharDocsBudgetFifty(t *testing.T) {
	t.Parallel()

	docs := []Document{
		{Content: strings.Repeat("y", 40)}, // "I love yellow." stand-in
		{Content: strings.Repeat("g", 40)},
	}

	groups, err := SplitByLength(docs, measureByRunes, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Each document fits alone (40 <= 50) but not together (82 > 50):
	// exactly two single-document groups.
	if len(groups) != 2 || len(groups[0]) != 1 || len(groups[1]) != 1 {
		t.Fatalf("groups = %v, want two singleton groups", contentsOf(groups))
	}
}

func TestSplitByLength_FirstDocOverBudgetFatal(t *testing.T) {
	t.Parallel()

	docs := []Document{{Content: strings.Repeat("x", 100)}}

	_, err := SplitByLength(docs, measureByRunes, 50)
	if !errors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("err = %v, want ErrDocumentTooLarge", err)
	}

	var tle *TooLargeError
	if !errors.As(err, &tle) {
		t.Fatalf("err = %T, want *TooLargeError", err)
	}
	if tle.Index != 0 || tle.Length != 100 || tle.Budget != 50 {
		t.Errorf("diagnostics = %+v", tle)
	}
}

func TestSplitByLength_OversizeDocMidSequenceIsolated(t *testing.T) {
	t.Parallel()

	// An oversized document after the first position is carried into a
	// fresh accumulator when the group before it closes, so it ends up
	// isolated in its own group and its neighbors regroup around it.
	docs := []Document{
		{Content: strings.Repeat("a", 40)},
		{Content: strings.Repeat("x", 100)},
		{Content: strings.Repeat("b", 10)},
	}

	groups, err := SplitByLength(docs, measureByRunes, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := contentsOf(groups)
	if len(got) != 3 || len(got[0]) != 1 || len(got[1]) != 1 || len(got[2]) != 1 {
		t.Fatalf("groups = %v, want three singleton groups", got)
	}
	if got[1][0] != strings.Repeat("x", 100) {
		t.Errorf("middle group = %q", got[1][0])
	}
}

func TestSplitByLength_CarriedOversizeBecomesSingletonGroup(t *testing.T) {
	t.Parallel()

	// A document that exceeds the budget only in company is carried into
	// its own group without error; the singleton check fires only when the
	// accumulator holds exactly one document at append time.
	docs := []Document{
		{Content: strings.Repeat("a", 40)},
		{Content: strings.Repeat("x", 100)},
	}

	groups, err := SplitByLength(docs, measureByRunes, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 || len(groups[1]) != 1 {
		t.Fatalf("groups = %v, want oversize doc in its own trailing group", contentsOf(groups))
	}
	if measureByRunes(groups[1]) != 100 {
		t.Errorf("trailing group length = %d", measureByRunes(groups[1]))
	}
}

func TestSplitByLength_EmptyInputEmitsOneEmptyGroup(t *testing.T) {
	t.Parallel()

	groups, err := SplitByLength(nil, measureByRunes, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 || len(groups[0]) != 0 {
		t.Fatalf("groups = %v, want single empty group", groups)
	}
}

func TestSplitByLength_AllFitSingleGroup(t *testing.T) {
	t.Parallel()

	docs := []Document{{Content: "a"}, {Content: "b"}, {Content: "c"}}

	groups, err := SplitByLength(docs, measureByRunes, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 || len(groups[0]) != 3 {
		t.Fatalf("groups = %v, want one group of three", contentsOf(groups))
	}
}
