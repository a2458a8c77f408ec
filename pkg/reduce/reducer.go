// ABOUTME: Reduction driver: split into budget-bounded groups, collapse,
// ABOUTME: repeat until everything fits, then run the final combine once

package reduce

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultTokenMax is the budget used when Reducer.TokenMax is unset,
// matching the conventional 3000-token grouping threshold.
const DefaultTokenMax = 3000

// ErrNoFinalize reports a Reduce call on a Reducer with no final combine
// capability configured.
var ErrNoFinalize = errors.New("reduce: no finalize capability configured")

// ErrNoCollapse reports a collapse with neither a collapse nor a finalize
// capability to fall back on.
var ErrNoCollapse = errors.New("reduce: no collapse capability configured")

// ErrBadBudget reports a non-positive token budget.
var ErrBadBudget = errors.New("reduce: token budget must be positive")

// Reducer drives recursive, length-bounded reduction of a document list.
//
// The outer loop is strictly sequential: each round re-measures the fully
// collapsed result of the previous round before splitting again. Within a
// round the groups are independent and collapse concurrently.
//
// Termination: every group of two or more documents collapses to one, so a
// round in which all groups hold at least two documents at least halves the
// document count (rounds <= ceil(log2 N)). A group may come out of the
// greedy split as a lone over-budget document carried over from a closed
// group; such a group relies on the combine capability shrinking its
// content. A document that exceeds the budget at the head of a split is
// fatal (ErrDocumentTooLarge) — without that check the loop could spin
// forever.
type Reducer struct {
	// Collapse reduces one group to one string during intermediate rounds.
	// When nil, Finalize's string output serves as the collapse capability.
	Collapse CombineFunc

	// Finalize is invoked exactly once on the fully collapsed list.
	Finalize FinalizeFunc

	// Length measures formatted text. Defaults to RuneLength.
	Length LengthFunc

	// Format renders document groups to the measured/combined string.
	Format Formatter

	// TokenMax is the length budget per group and for the final combine
	// trigger. Defaults to DefaultTokenMax.
	TokenMax int

	// Concurrency caps in-flight collapse calls within a round.
	// Zero means no cap.
	Concurrency int

	// Trace receives lifecycle events when non-nil. Observers never affect
	// the reduction.
	Trace *TraceBus
}

// Cost measures the documents as one formatted string against the
// configured length function. An empty list costs 0.
func (r *Reducer) Cost(docs []Document) int {
	if len(docs) == 0 {
		return 0
	}
	return r.length()(r.Format.FormatAll(docs))
}

// Reduce collapses docs until they fit the configured budget, then invokes
// the final combine capability once, returning its string output and
// auxiliary mapping. extra is forwarded verbatim to every combine call.
//
// An empty docs list is defined behavior: its cost is 0, no collapse round
// runs, and the final combine receives the empty list.
func (r *Reducer) Reduce(ctx context.Context, docs []Document, extra map[string]any) (string, map[string]any, error) {
	return r.ReduceWithBudget(ctx, docs, r.budget(), extra)
}

// ReduceWithBudget is Reduce with a per-call budget override.
func (r *Reducer) ReduceWithBudget(ctx context.Context, docs []Document, tokenMax int, extra map[string]any) (string, map[string]any, error) {
	if r.Finalize == nil {
		return "", nil, ErrNoFinalize
	}
	if tokenMax <= 0 {
		return "", nil, ErrBadBudget
	}

	runID := uuid.New()
	result, err := r.collapseAll(ctx, runID, docs, tokenMax, extra)
	if err != nil {
		return "", nil, err
	}

	r.Trace.publish(Event{
		RunID: runID, Type: EventFinalize,
		Documents: len(result), Cost: r.Cost(result), Preview: preview(result),
	})
	return r.Finalize(ctx, result, extra)
}

// CollapseAll collapses docs until their cost fits the configured budget
// and returns the resulting document list without running the final
// combine. This is the terminal artifact of the collapse-only portion, for
// composition with a separate final stage.
func (r *Reducer) CollapseAll(ctx context.Context, docs []Document, extra map[string]any) ([]Document, error) {
	if r.Collapse == nil && r.Finalize == nil {
		return nil, ErrNoCollapse
	}
	return r.collapseAll(ctx, uuid.New(), docs, r.budget(), extra)
}

// collapseAll is the imperative collapse loop shared by Reduce and Chain.
func (r *Reducer) collapseAll(ctx context.Context, runID uuid.UUID, docs []Document, tokenMax int, extra map[string]any) ([]Document, error) {
	result := docs
	measure := func(group []Document) int { return r.Cost(group) }

	for round := 0; ; round++ {
		cost := r.Cost(result)
		if cost <= tokenMax {
			return result, nil
		}

		r.Trace.publish(Event{
			RunID: runID, Type: EventRoundStart,
			Round: round, Documents: len(result), Cost: cost,
		})

		groups, err := SplitByLength(result, measure, tokenMax)
		if err != nil {
			return nil, err
		}

		result, err = r.collapseRound(ctx, runID, round, groups, extra)
		if err != nil {
			return nil, err
		}

		r.Trace.publish(Event{
			RunID: runID, Type: EventRoundEnd,
			Round: round, Groups: len(groups), Documents: len(result), Cost: r.Cost(result),
		})
	}
}

// collapseRound collapses every group of one round. Groups are mutually
// independent, so they fan out on an errgroup; the first failure cancels
// the round's remaining collapse calls and discards partial results.
func (r *Reducer) collapseRound(ctx context.Context, runID uuid.UUID, round int, groups [][]Document, extra map[string]any) ([]Document, error) {
	combine := r.collapseFn()
	collapsed := make([]Document, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}

	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			r.Trace.publish(Event{
				RunID: runID, Type: EventGroupStart,
				Round: round, Group: i, Groups: len(groups),
				Documents: len(group), Preview: preview(group),
			})

			doc, err := CollapseGroup(gctx, group, combine, extra)
			if err != nil {
				return err
			}
			collapsed[i] = doc

			r.Trace.publish(Event{
				RunID: runID, Type: EventGroupEnd,
				Round: round, Group: i, Groups: len(groups), Documents: 1,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return collapsed, nil
}

// collapseFn returns the intermediate collapse capability, falling back to
// the finalizer's string output when none is configured.
func (r *Reducer) collapseFn() CombineFunc {
	if r.Collapse != nil {
		return r.Collapse
	}
	return func(ctx context.Context, docs []Document, extra map[string]any) (string, error) {
		content, _, err := r.Finalize(ctx, docs, extra)
		return content, err
	}
}

func (r *Reducer) length() LengthFunc {
	if r.Length != nil {
		return r.Length
	}
	return RuneLength
}

func (r *Reducer) budget() int {
	if r.TokenMax > 0 {
		return r.TokenMax
	}
	return DefaultTokenMax
}

// previewRunes bounds the content excerpt carried on trace events.
const previewRunes = 80

// preview returns the leading content of the first document, for display.
func preview(docs []Document) string {
	if len(docs) == 0 {
		return ""
	}
	runes := []rune(docs[0].Content)
	if len(runes) <= previewRunes {
		return docs[0].Content
	}
	return string(runes[:previewRunes]) + "…"
}
