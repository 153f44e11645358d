// Package search provides evidence backends over external search APIs.
// Backends are best-effort: they return what they can and report errors
// for the caller to degrade on, never to abort a pipeline run.
package search

import (
	"context"
	"strings"

	"github.com/ppiankov/claimguard/internal/model"
	"golang.org/x/net/html"
)

// Searcher defines the interface for an evidence search backend
type Searcher interface {
	// Name returns the backend name
	Name() string

	// Search returns up to limit evidence snippets for the query
	Search(ctx context.Context, query string, limit int) ([]model.Evidence, error)
}

// stripMarkup removes HTML tags from a snippet, keeping visible text.
// Wikipedia search results wrap matched terms in span elements.
func stripMarkup(snippet string) string {
	doc, err := html.Parse(strings.NewReader(snippet))
	if err != nil {
		return snippet
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}
