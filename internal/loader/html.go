// ABOUTME: HTML flattening: strips non-content elements, keeps text flow
// ABOUTME: Headings and list items become plain lines; title is extracted

package loader

import (
	"strings"

	"golang.org/x/net/html"
)

// FlattenHTML reduces an HTML document to readable text plus its <title>.
// Script, style, and chrome elements (nav, header, footer) are dropped;
// block elements break paragraphs and list items become dashed lines.
// Unparseable input comes back verbatim.
func FlattenHTML(raw string) (text, title string) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw, ""
	}

	var b strings.Builder
	flatten(doc, &b, &title)
	return collapseBlankLines(strings.TrimSpace(b.String())), title
}

// flatten walks the tree appending readable text to b.
func flatten(n *html.Node, b *strings.Builder, title *string) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "nav", "footer", "header", "iframe", "noscript":
			return
		case "title":
			if *title == "" {
				*title = strings.TrimSpace(textContent(n))
			}
			return
		case "p", "div", "section", "article", "h1", "h2", "h3", "h4", "h5", "h6", "tr":
			b.WriteString("\n\n")
		case "br":
			b.WriteString("\n")
		case "li":
			b.WriteString("\n- ")
		}
	}

	if n.Type == html.TextNode {
		text := strings.Join(strings.Fields(n.Data), " ")
		if text != "" {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") && !strings.HasSuffix(b.String(), " ") && !strings.HasSuffix(b.String(), "- ") {
				b.WriteString(" ")
			}
			b.WriteString(text)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(c, b, title)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n")
		}
	}
}

// textContent concatenates all text nodes beneath n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// collapseBlankLines squeezes runs of blank lines down to one.
func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
