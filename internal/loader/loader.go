// ABOUTME: Builds reduce.Document values from input files
// ABOUTME: HTML is flattened to readable text; all content is NFC-normalized

package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mauromedda/docreduce-go/pkg/reduce"
)

// Load reads every path into a Document, in argument order. Plain text and
// Markdown pass through as-is; .html/.htm files are flattened to readable
// text. Content is normalized to NFC so length measurement does not depend
// on how the source file encoded its accents.
func Load(paths []string) ([]reduce.Document, error) {
	docs := make([]reduce.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadFile reads a single file into a Document. Metadata carries the source
// path and, for HTML inputs with a <title>, the document title.
func LoadFile(path string) (reduce.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return reduce.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	metadata := map[string]any{"source": path}
	content := string(data)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, title := FlattenHTML(content)
		content = text
		if title != "" {
			metadata["title"] = title
		}
	}

	content = norm.NFC.String(strings.TrimSpace(content))
	return reduce.NewDocument(content, metadata), nil
}
