// ABOUTME: Collapses one document group into a single combined document
// ABOUTME: Combine capability produces the content; metadata is merged

package reduce

import "context"

// CombineFunc is the external collapse capability: it turns a group of
// documents into one string. It typically wraps a model call, so it may
// block; implementations must honor ctx cancellation. extra is forwarded
// verbatim from the caller of the reduction.
//
// Failures are propagated unchanged to the reduction's caller. Retry policy,
// if any, belongs inside the capability's own adapter.
type CombineFunc func(ctx context.Context, docs []Document, extra map[string]any) (string, error)

// FinalizeFunc is the terminal combine capability, invoked exactly once on
// the fully collapsed document list. It returns the overall string output
// plus an auxiliary mapping of any other values the capability produced.
type FinalizeFunc func(ctx context.Context, docs []Document, extra map[string]any) (string, map[string]any, error)

// CollapseGroup reduces one group of documents to a single document. The
// combine capability supplies the content; the group members' metadata is
// merged per MergeMetadata. A group of size 1 still goes through the
// capability: whether to short-circuit an already-fitting list is the
// driver's decision, not this layer's.
func CollapseGroup(ctx context.Context, docs []Document, combine CombineFunc, extra map[string]any) (Document, error) {
	content, err := combine(ctx, docs, extra)
	if err != nil {
		return Document{}, err
	}
	return Document{Content: content, Metadata: MergeMetadata(docs)}, nil
}
