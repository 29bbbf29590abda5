// Package middleware implements the concrete pipeline.Middleware stages
// (spec §4.C): HTML parsing, sanitization, metadata/link extraction,
// Markdown conversion, and chunking. Grounded on extract/css.go's DOM
// walking, veille/internal/pipeline's html-to-markdown wiring, and
// domkeeper/internal/chunk's paragraph-aware splitter.
package middleware

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/traildex/docindex/pipeline"
)

// HtmlParser parses ctx.RawBytes into ctx.DOM when ContentType starts with
// text/html. Non-HTML content passes through unchanged.
type HtmlParser struct{}

func (HtmlParser) Name() string { return "HtmlParser" }

func (m HtmlParser) Process(ctx *pipeline.ProcessingContext, next func(*pipeline.ProcessingContext) error) error {
	if !strings.HasPrefix(ctx.ContentType, "text/html") {
		return next(ctx)
	}

	doc, err := html.Parse(strings.NewReader(string(ctx.RawBytes)))
	if err != nil {
		ctx.AddError(m.Name(), fmt.Errorf("parse: %w", err))
		return nil // short-circuit: downstream HTML stages need a DOM
	}
	ctx.DOM = doc
	return next(ctx)
}
