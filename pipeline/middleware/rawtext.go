package middleware

import (
	"strings"

	"github.com/traildex/docindex/pipeline"
)

// RawTextLoader seeds ctx.Text from ctx.RawBytes for any content that
// isn't HTML — Markdown files, PyPI/npm READMEs, and PDF-extracted text —
// so the downstream Markdown-oriented stages (MarkdownMetadataExtractor,
// MarkdownLinkExtractor, Chunker) have something to operate on even though
// HtmlParser/HtmlToMarkdown never touch a DOM for these sources. HTML
// content is left untouched here; HtmlToMarkdown populates ctx.Text for it
// later in the chain.
type RawTextLoader struct{}

func (RawTextLoader) Name() string { return "RawTextLoader" }

func (RawTextLoader) Process(ctx *pipeline.ProcessingContext, next func(*pipeline.ProcessingContext) error) error {
	if strings.HasPrefix(ctx.ContentType, "text/html") {
		return next(ctx)
	}
	ctx.Text = string(ctx.RawBytes)
	switch {
	case strings.HasPrefix(ctx.ContentType, "text/markdown"):
		ctx.ContentType = "text/markdown"
	default:
		// application/pdf, text/plain, and anything else unrecognized are
		// treated as plain text: PDF extraction has already stripped
		// structure, so there's no Markdown syntax to parse out of it.
		ctx.ContentType = "text/plain"
	}
	return next(ctx)
}
