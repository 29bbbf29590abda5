package middleware

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/traildex/docindex/pipeline"
)

// HtmlMetadataExtractor sets metadata.title from the document's <title>,
// falling back to the first <h1>, falling back to "Untitled" (spec §4.C).
type HtmlMetadataExtractor struct{}

func (HtmlMetadataExtractor) Name() string { return "HtmlMetadataExtractor" }

func (m HtmlMetadataExtractor) Process(ctx *pipeline.ProcessingContext, next func(*pipeline.ProcessingContext) error) error {
	if ctx.DOM == nil {
		return next(ctx)
	}

	title := collapseWhitespace(firstText(ctx.DOM, atom.Title))
	if title == "" {
		title = collapseWhitespace(firstText(ctx.DOM, atom.H1))
	}
	if title == "" {
		title = "Untitled"
	}
	ctx.Metadata["title"] = title

	return next(ctx)
}

// firstText returns the concatenated text content of the first element
// with the given tag, or "" if none is found.
func firstText(root *html.Node, tag atom.Atom) string {
	var result string
	var found bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == tag {
			result = collectText(n)
			found = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.TrimSpace(result)
}

// collectText concatenates all text-node descendants of n.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collapseWhitespace trims and collapses runs of internal whitespace to a
// single space, per the HtmlMetadataExtractor contract.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
