package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/traildex/docindex/config"
)

// ProgressCallback reports crawl progress after each page (spec §4.E).
// Errors is the page's accumulated pipeline/fetch errors, not a crawl
// abort signal.
type ProgressCallback func(p Progress)

// Progress describes the state of a crawl after processing one page.
type Progress struct {
	URL           string
	Depth         int
	PagesScraped  int // monotonically non-decreasing across a crawl
	DocumentCount int
	Errors        []error
}

// Strategy answers CanHandle(url) and drives a Crawler configured for
// that source kind (spec §4.D). Strategies differ only in URL
// normalization, scope predicate, seed expansion, and link filtering — the
// Crawler itself is shared.
type Strategy interface {
	Name() string
	CanHandle(rawURL string) bool
	// Scope returns the predicate governing link admission for this
	// strategy, given the run's configured options.Scope.
	Scope(opts config.ScraperOptions) ScopePredicate
	// NormalizeSeed rewrites the starting URL if the strategy needs a
	// canonical form (e.g. stripping a registry's version suffix).
	NormalizeSeed(rawURL string) (string, error)
	// FilterLink reports whether a discovered link is worth enqueueing at
	// all, before the scope predicate is even consulted (e.g. skipping
	// non-documentation registry paths).
	FilterLink(candidate *url.URL) bool
	// ExpandSeeds turns a normalized seed URL into the set of depth-0
	// frontier entries the Crawler should admit. Every strategy but
	// LocalFile returns a single-element slice; LocalFile walks the
	// directory tree and seeds one entry per file (spec §4.D: "performs
	// directory walking").
	ExpandSeeds(ctx context.Context, seed string) ([]string, error)
}

// Registry picks the first Strategy whose CanHandle matches, falling back
// to GenericWeb (spec §4.D: "falling back to GenericWeb").
type Registry struct {
	strategies []Strategy
	fallback   Strategy
}

// NewRegistry builds the standard registry: LocalFile, GitHub, Npm, PyPi,
// each narrowing scope/links to their own conventions, falling back to
// GenericWeb for everything else.
func NewRegistry() *Registry {
	return &Registry{
		strategies: []Strategy{
			localFileStrategy{},
			githubStrategy{},
			npmStrategy{},
			pypiStrategy{},
		},
		fallback: genericWebStrategy{},
	}
}

// Resolve returns the strategy that handles rawURL.
func (r *Registry) Resolve(rawURL string) Strategy {
	for _, s := range r.strategies {
		if s.CanHandle(rawURL) {
			return s
		}
	}
	return r.fallback
}

func isHTTPURL(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}
