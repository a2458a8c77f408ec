// ABOUTME: Core document type and metadata merge for recursive reduction
// ABOUTME: Documents are immutable values; merge produces a flat audit trail

package reduce

import "fmt"

// Document is the unit of reduction: a text payload plus free-form metadata.
// Documents are treated as immutable values; collapsing a group produces a
// fresh Document rather than mutating any input.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewDocument creates a Document with a copy of the given metadata, so the
// caller's map cannot alias the stored one.
func NewDocument(content string, metadata map[string]any) Document {
	var md map[string]any
	if len(metadata) > 0 {
		md = make(map[string]any, len(metadata))
		for k, v := range metadata {
			md[k] = v
		}
	}
	return Document{Content: content, Metadata: md}
}

// MergeMetadata combines the metadata of an ordered group of documents into
// a single record. The first document's values seed the result (stringified);
// for each later document, values under an already-present key are appended
// with a ", " join and new keys are inserted. Keys are never dropped and
// values are never overwritten.
//
// The result is a lossy, human-readable audit trail of where a combined
// document came from, not a structured re-aggregation: "3" joined with "4"
// is the string "3, 4", not the number 7.
func MergeMetadata(docs []Document) map[string]any {
	merged := make(map[string]any)
	if len(docs) == 0 {
		return merged
	}
	for k, v := range docs[0].Metadata {
		merged[k] = stringify(v)
	}
	for _, doc := range docs[1:] {
		for k, v := range doc.Metadata {
			if existing, ok := merged[k]; ok {
				merged[k] = existing.(string) + ", " + stringify(v)
			} else {
				merged[k] = stringify(v)
			}
		}
	}
	return merged
}

// stringify renders a metadata value the way fmt would print it.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
