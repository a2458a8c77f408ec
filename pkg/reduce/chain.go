// ABOUTME: Declarative collapse chain: self-referential step + trampoline
// ABOUTME: Observably equivalent to the imperative loop in Reducer

package reduce

import (
	"context"

	"github.com/google/uuid"
)

// Chain is the composed-pipeline formulation of the collapse loop: a
// "collapse if too big, else done" stage that re-appends itself while the
// documents exceed the budget. Given the same input and capabilities it
// performs the same collapse invocations, with the same groupings and in
// the same order, as Reducer.CollapseAll; only the execution mechanics
// differ. Its terminal artifact is the reduced document list, for
// composition with a separate final stage.
type Chain struct {
	reducer *Reducer
}

// NewChain wraps a Reducer's configuration in the declarative form.
func NewChain(r *Reducer) *Chain {
	return &Chain{reducer: r}
}

// step is a tagged continuation: a terminal step carries the result docs,
// a continuing step carries the next stage to evaluate.
type step struct {
	docs []Document
	next func(context.Context) (step, error)
}

// Invoke evaluates the chain with a trampoline, so inputs needing many
// rounds never grow the call stack.
func (c *Chain) Invoke(ctx context.Context, docs []Document, extra map[string]any) ([]Document, error) {
	if c.reducer.Collapse == nil && c.reducer.Finalize == nil {
		return nil, ErrNoCollapse
	}

	st, err := c.eval(uuid.New(), 0, docs, c.reducer.budget(), extra)
	for err == nil && st.next != nil {
		st, err = st.next(ctx)
	}
	if err != nil {
		return nil, err
	}
	return st.docs, nil
}

// eval builds the step for the current document list: terminal when the
// cost fits the budget, otherwise one partition+collapse round whose
// continuation re-evaluates the reduced list.
func (c *Chain) eval(runID uuid.UUID, round int, docs []Document, tokenMax int, extra map[string]any) (step, error) {
	r := c.reducer
	cost := r.Cost(docs)
	if cost <= tokenMax {
		return step{docs: docs}, nil
	}

	return step{next: func(ctx context.Context) (step, error) {
		r.Trace.publish(Event{
			RunID: runID, Type: EventRoundStart,
			Round: round, Documents: len(docs), Cost: cost,
		})

		measure := func(group []Document) int { return r.Cost(group) }
		groups, err := SplitByLength(docs, measure, tokenMax)
		if err != nil {
			return step{}, err
		}

		reduced, err := r.collapseRound(ctx, runID, round, groups, extra)
		if err != nil {
			return step{}, err
		}

		r.Trace.publish(Event{
			RunID: runID, Type: EventRoundEnd,
			Round: round, Groups: len(groups), Documents: len(reduced), Cost: r.Cost(reduced),
		})
		return c.eval(runID, round+1, reduced, tokenMax, extra)
	}}, nil
}
