package middleware

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/traildex/docindex/pipeline"
)

// mdLinkRe matches Markdown inline links: [text](url). Reference-style
// links ([text][ref]) and their separate definition lines are not matched.
var mdLinkRe = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)

// MarkdownLinkExtractor extracts [text](url) occurrences from ctx.Text
// into ctx.Links (spec §4.C resolves the Open Question in favor of
// extracting: Markdown-origin sources like npm/PyPI READMEs need their
// links discovered the same way HTML sources do).
type MarkdownLinkExtractor struct{}

func (MarkdownLinkExtractor) Name() string { return "MarkdownLinkExtractor" }

func (m MarkdownLinkExtractor) Process(ctx *pipeline.ProcessingContext, next func(*pipeline.ProcessingContext) error) error {
	if ctx.ContentType != "text/markdown" {
		return next(ctx)
	}
	if ctx.Links == nil {
		ctx.Links = []string{}
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

	for _, match := range mdLinkRe.FindAllStringSubmatch(ctx.Text, -1) {
		href := strings.TrimSpace(match[1])
		if href == "" || strings.HasPrefix(href, "#") {
			continue
		}
		if resolved, ok := resolveHTTPLink(base, href); ok && !seen[resolved] {
			seen[resolved] = true
			ctx.Links = append(ctx.Links, resolved)
		}
	}

	return next(ctx)
}
