package pipeline

import "fmt"

// Middleware is one stage of the content-processing chain. It receives the
// ProcessingContext and a next function; it may inspect/rewrite ctx before
// and after calling next, or short-circuit by returning without calling
// next at all (e.g. an empty-body guard). Returning a non-nil error aborts
// the whole Pipeline.
type Middleware interface {
	Process(ctx *ProcessingContext, next func(*ProcessingContext) error) error
	// Name identifies the stage for error wrapping and logging.
	Name() string
}

// Pipeline is an ordered chain of Middleware, linked on each Run by
// per-stage next closures (see runFrom) the way veille/internal/pipeline.Pipeline dispatches
// to SourceHandler, but generalized to a linear chain instead of a
// type-keyed map since every content type (HTML, Markdown, PDF text) in
// this system passes through the same sequence of concerns.
type Pipeline struct {
	stages []Middleware
}

// New builds a Pipeline from an ordered list of stages.
func New(stages ...Middleware) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes the chain against ctx. The terminal continuation is a no-op
// that simply returns nil, so the last stage's "next" call is always safe.
func (p *Pipeline) Run(ctx *ProcessingContext) error {
	return p.runFrom(0, ctx)
}

func (p *Pipeline) runFrom(i int, ctx *ProcessingContext) error {
	if i >= len(p.stages) {
		return nil
	}
	stage := p.stages[i]
	err := stage.Process(ctx, func(c *ProcessingContext) error {
		return p.runFrom(i+1, c)
	})
	if err != nil {
		return fmt.Errorf("pipeline: %s: %w", stage.Name(), err)
	}
	return nil
}

// DefaultHTML returns the standard processing chain described in spec
// §4.B/§4.C: load raw Markdown/plain-text content directly, or parse,
// sanitize, and extract metadata/links from an HTML DOM and convert it to
// Markdown; either way extract metadata/links once more from the resulting
// Markdown (inline [text](url) links, and a title only if none was set
// yet), then chunk. The name predates
// RawTextLoader's addition but the chain now handles every content type
// this system fetches (HTML, Markdown, PDF-extracted text).
func DefaultHTML(mw HTMLMiddlewareSet) *Pipeline {
	return New(
		mw.RawTextLoader,
		mw.HtmlParser,
		mw.HtmlSanitizer,
		mw.HtmlMetadataExtractor,
		mw.HtmlLinkExtractor,
		mw.HtmlToMarkdown,
		mw.MarkdownMetadataExtractor,
		mw.MarkdownLinkExtractor,
		mw.Chunker,
	)
}

// HTMLMiddlewareSet names the nine stages DefaultHTML wires together, so
// callers construct each with its own configuration (exclude selectors,
// chunk size) and hand the set to DefaultHTML rather than Pipeline needing
// to know how to build them.
type HTMLMiddlewareSet struct {
	RawTextLoader             Middleware
	HtmlParser                Middleware
	HtmlSanitizer             Middleware
	HtmlMetadataExtractor     Middleware
	HtmlLinkExtractor         Middleware
	HtmlToMarkdown            Middleware
	MarkdownMetadataExtractor Middleware
	MarkdownLinkExtractor     Middleware
	Chunker                   Middleware
}
