// ABOUTME: Document-to-string formatting with {placeholder} templates
// ABOUTME: Explicit configuration; zero value behaves like the defaults

package reduce

import "strings"

// Default formatting used when a Formatter field is left zero.
const (
	DefaultDocumentTemplate = "{content}"
	DefaultSeparator        = "\n\n"
)

// Formatter renders documents into the single string whose length is
// measured against the token budget and which is handed to combine
// capabilities. It is plain configuration passed into the Reducer; there are
// no package-level mutable defaults.
type Formatter struct {
	// DocumentTemplate formats one document. "{content}" expands to the
	// document content; any other "{key}" expands to the stringified
	// metadata value under that key, or empty when absent.
	DocumentTemplate string

	// Separator joins formatted documents.
	Separator string
}

// Format renders a single document through the template.
func (f Formatter) Format(doc Document) string {
	tmpl := f.DocumentTemplate
	if tmpl == "" {
		tmpl = DefaultDocumentTemplate
	}
	return expand(tmpl, doc)
}

// FormatAll renders every document and joins them with the separator.
func (f Formatter) FormatAll(docs []Document) string {
	sep := f.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = f.Format(doc)
	}
	return strings.Join(parts, sep)
}

// expand substitutes {name} placeholders. Unterminated braces and unknown
// keys degrade gracefully: the former is kept verbatim, the latter expands
// to the empty string.
func expand(tmpl string, doc Document) string {
	var b strings.Builder
	b.Grow(len(tmpl) + len(doc.Content))
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end := strings.IndexByte(tmpl[open:], '}')
		if end < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		b.WriteString(tmpl[:open])
		name := tmpl[open+1 : open+end]
		switch {
		case name == "content":
			b.WriteString(doc.Content)
		default:
			if v, ok := doc.Metadata[name]; ok {
				b.WriteString(stringify(v))
			}
		}
		tmpl = tmpl[open+end+1:]
	}
}
