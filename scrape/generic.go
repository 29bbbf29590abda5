package scrape

import (
	"context"
	"net/url"

	"github.com/traildex/docindex/config"
)

// genericWebStrategy is the fallback Strategy for any http(s) URL not
// recognized as a code host or package registry: the scope predicate is
// exactly whatever options.Scope names, with no additional link filtering
// (spec §4.D).
type genericWebStrategy struct{}

func (genericWebStrategy) Name() string { return "GenericWeb" }

func (genericWebStrategy) CanHandle(rawURL string) bool {
	return isHTTPURL(rawURL)
}

func (genericWebStrategy) Scope(opts config.ScraperOptions) ScopePredicate {
	return NewScopePredicate(opts.Scope)
}

func (genericWebStrategy) NormalizeSeed(rawURL string) (string, error) {
	return rawURL, nil
}

func (genericWebStrategy) FilterLink(candidate *url.URL) bool {
	return candidate.Scheme == "http" || candidate.Scheme == "https"
}

func (genericWebStrategy) ExpandSeeds(_ context.Context, seed string) ([]string, error) {
	return []string{seed}, nil
}
