// Package pipeline implements the content-processing middleware chain
// (spec §4.B): a ProcessingContext flows through an ordered list of
// Middleware stages that parse, sanitize, extract metadata and links,
// convert to Markdown, and finally chunk into persistable Documents.
// Grounded on veille/internal/pipeline.Pipeline's handler-dispatch idiom,
// generalized from a type-keyed handler map to an explicit middleware
// chain since the spec's processing model is linear, not type-dispatched.
package pipeline

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/traildex/docindex/config"
	"github.com/traildex/docindex/store"
)

// ProcessingContext is the mutable envelope passed through every Middleware
// in a Pipeline (spec §4.B). Middleware stages read and rewrite it in
// place; the chain is responsible for calling the next stage.
type ProcessingContext struct {
	// RawBytes holds the content as originally fetched: HTML source, raw
	// Markdown, or extracted PDF text, depending on ContentType. It is
	// never mutated after New; stages that transform content write to
	// DOM or Text instead.
	RawBytes []byte
	// ContentType is a MIME type discriminating which of RawBytes / DOM /
	// Text currently holds the authoritative representation, e.g.
	// "text/html; charset=utf-8" or "text/markdown". This struct models
	// the Content = Raw([]byte) | HTML(*html.Node) | Text(string) union
	// as explicit nil-checked fields rather than a Go interface, matching
	// how optional-field structs are built elsewhere in the pack.
	ContentType string
	// Source is the originating URL or local file path.
	Source string
	// DOM is the parsed document tree. Populated by HtmlParser, consumed
	// and rewritten in place by HtmlSanitizer/HtmlMetadataExtractor/
	// HtmlLinkExtractor, and read one last time by HtmlToMarkdown, which
	// serializes it into Text.
	DOM *html.Node
	// Text is the Markdown representation. Populated by HtmlToMarkdown
	// for HTML-origin content, or set directly from RawBytes for
	// Markdown-origin content (npm/PyPI READMEs, local .md files).
	Text string
	// Metadata accumulates key/value pairs discovered by extractor
	// stages (title, description, headings, page path breadcrumbs).
	Metadata map[string]string
	// Links accumulates absolute URLs discovered by link-extractor
	// stages, deduplicated by the Crawler before enqueuing.
	Links []string
	// Errors accumulates non-fatal per-stage errors. A Pipeline keeps
	// running after a middleware appends here; only a returned error
	// aborts the chain.
	Errors []error
	// Options is the ScraperOptions in effect for this page, carrying
	// ExcludeSelectors and other per-run settings into middleware.
	Options config.ScraperOptions
	// Documents is populated by the terminal Chunker middleware.
	// Embeddings are left nil; the Crawler calls the Embedder afterward
	// so pipeline has no dependency on embed.
	Documents []store.Document
}

// New constructs a ProcessingContext for one fetched page. content is
// stored as RawBytes; HTML-origin pipelines populate DOM from it via
// HtmlParser, Markdown-origin pipelines copy it straight into Text.
func New(source, contentType string, content []byte, opts config.ScraperOptions) *ProcessingContext {
	return &ProcessingContext{
		RawBytes:    content,
		ContentType: contentType,
		Source:      source,
		Metadata:    make(map[string]string),
		Options:     opts,
	}
}

// AddError records a non-fatal error against the stage that produced it,
// without aborting the pipeline.
func (c *ProcessingContext) AddError(stage string, err error) {
	if err == nil {
		return
	}
	c.Errors = append(c.Errors, fmt.Errorf("%s: %w", stage, err))
}
