// ABOUTME: Adapts the chat client into reduce combine/finalize capabilities
// ABOUTME: Formats the group, sends one completion, tallies token usage

package llm

import (
	"context"
	"sync/atomic"

	"github.com/mauromedda/docreduce-go/pkg/reduce"
)

// Summarizer bundles the model client with a combine instruction and the
// formatter the reducer measures with, so the model sees exactly the text
// that was budgeted.
type Summarizer struct {
	client      *Client
	instruction string
	format      reduce.Formatter
	usedTokens  atomic.Int64
}

// NewSummarizer creates a Summarizer. instruction becomes the system prompt
// of every combine call.
func NewSummarizer(client *Client, instruction string, format reduce.Formatter) *Summarizer {
	return &Summarizer{client: client, instruction: instruction, format: format}
}

// UsedTokens reports the cumulative token usage across all calls so far.
func (s *Summarizer) UsedTokens() int64 {
	return s.usedTokens.Load()
}

// Combine is the collapse capability: one model call per document group.
func (s *Summarizer) Combine(ctx context.Context, docs []reduce.Document, extra map[string]any) (string, error) {
	out, used, err := s.client.Complete(ctx, s.prompt(extra), s.format.FormatAll(docs))
	if err != nil {
		return "", err
	}
	s.usedTokens.Add(int64(used))
	return out, nil
}

// Finalize is the terminal capability: the same call shape, plus an
// auxiliary mapping describing the run.
func (s *Summarizer) Finalize(ctx context.Context, docs []reduce.Document, extra map[string]any) (string, map[string]any, error) {
	out, err := s.Combine(ctx, docs, extra)
	if err != nil {
		return "", nil, err
	}
	aux := map[string]any{
		"model":       s.client.Model(),
		"used_tokens": s.UsedTokens(),
	}
	return out, aux, nil
}

// prompt derives the system prompt for one call. A "question" extra is
// appended so callers can steer every combine toward what they are asking.
func (s *Summarizer) prompt(extra map[string]any) string {
	instruction := s.instruction
	if q, ok := extra["question"].(string); ok && q != "" {
		instruction += "\n\nFocus on answering: " + q
	}
	return instruction
}
