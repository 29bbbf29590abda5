package middleware

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/traildex/docindex/pipeline"
)

// sanitizePolicy is a defense-in-depth allowlist: fetched HTML is untrusted
// input, so before any selector-based removal or Markdown conversion runs,
// bluemonday strips <script>/<style> content and any event-handler or
// javascript: attribute outright. The allowlist is deliberately broad
// (every tag a documentation page plausibly uses) since the goal here is
// dropping dangerous content, not reformatting — HtmlToMarkdown does the
// actual structural transform downstream.
var sanitizePolicy = newSanitizePolicy()

func newSanitizePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"html", "head", "body", "title", "meta",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr", "div", "span", "section", "article", "main", "nav", "aside",
		"header", "footer", "figure", "figcaption",
		"strong", "b", "em", "i", "u", "s", "del", "ins", "sup", "sub", "mark", "small",
		"ul", "ol", "li", "dl", "dt", "dd",
		"blockquote", "pre", "code", "kbd", "samp",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
		"a", "img",
	)
	p.AllowAttrs("id", "class", "lang").Globally()
	p.AllowAttrs("href", "title", "rel").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	p.AllowAttrs("data-language").OnElements("pre", "code")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// HtmlSanitizer removes script/style/event-handler content via bluemonday,
// then removes every element matching an options.ExcludeSelectors entry
// (spec §4.C).
type HtmlSanitizer struct{}

func (HtmlSanitizer) Name() string { return "HtmlSanitizer" }

func (m HtmlSanitizer) Process(ctx *pipeline.ProcessingContext, next func(*pipeline.ProcessingContext) error) error {
	if ctx.DOM == nil {
		return next(ctx)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, ctx.DOM); err != nil {
		ctx.AddError(m.Name(), fmt.Errorf("render before sanitize: %w", err))
		return next(ctx)
	}
	clean := sanitizePolicy.SanitizeReader(&buf).String()

	doc, err := html.Parse(strings.NewReader(clean))
	if err != nil {
		ctx.AddError(m.Name(), fmt.Errorf("reparse after sanitize: %w", err))
		return next(ctx)
	}
	ctx.DOM = doc

	for _, sel := range ctx.Options.ExcludeSelectors {
		for _, n := range querySelectorAll(ctx.DOM, sel) {
			removeNode(n)
		}
	}

	return next(ctx)
}
