package middleware

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/traildex/docindex/pipeline"
)

// HtmlLinkExtractor collects every <a href> in the DOM, resolves it against
// ctx.Source, filters to http(s), and deduplicates into ctx.Links (spec
// §4.C). Ported from extract/css.go's DOM-walking idiom.
type HtmlLinkExtractor struct{}

func (HtmlLinkExtractor) Name() string { return "HtmlLinkExtractor" }

func (m HtmlLinkExtractor) Process(ctx *pipeline.ProcessingContext, next func(*pipeline.ProcessingContext) error) error {
	if ctx.DOM == nil {
		return next(ctx)
	}

	base, err := url.Parse(ctx.Source)
	if err != nil {
		ctx.AddError(m.Name(), err)
		return next(ctx)
	}

	seen := make(map[string]bool, len(ctx.Links))
	for _, l := range ctx.Links {
		seen[l] = true
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			href, ok := findAttr(n, "href")
			if ok {
				href = strings.TrimSpace(href)
				if href != "" && !strings.HasPrefix(href, "#") {
					if resolved, ok := resolveHTTPLink(base, href); ok && !seen[resolved] {
						seen[resolved] = true
						ctx.Links = append(ctx.Links, resolved)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(ctx.DOM)

	return next(ctx)
}

// resolveHTTPLink resolves href against base and reports whether the
// result is an http(s) absolute URL.
func resolveHTTPLink(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	resolved.Fragment = ""
	return resolved.String(), true
}
