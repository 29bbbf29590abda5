package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/traildex/docindex/config"
)

// pypiStrategy narrows scope to a single PyPI project page
// (pypi.org/project/<name>), the same convention npmStrategy applies to
// npmjs.com.
type pypiStrategy struct{}

func (pypiStrategy) Name() string { return "PyPi" }

func (pypiStrategy) CanHandle(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), "pypi.org")
}

func (pypiStrategy) Scope(config.ScraperOptions) ScopePredicate {
	return func(seed, candidate *url.URL) bool {
		if !sameHostname(seed, candidate) {
			return false
		}
		return projectSlug(candidate.Path) == projectSlug(seed.Path)
	}
}

func (pypiStrategy) NormalizeSeed(rawURL string) (string, error) {
	return rawURL, nil
}

func (pypiStrategy) FilterLink(candidate *url.URL) bool {
	return candidate.Scheme == "http" || candidate.Scheme == "https"
}

func (pypiStrategy) ExpandSeeds(_ context.Context, seed string) ([]string, error) {
	return []string{seed}, nil
}

// projectSlug extracts "project/<name>" from a pypi.org path.
func projectSlug(p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		if s == "project" && i+1 < len(segs) {
			return "project/" + segs[i+1]
		}
	}
	return p
}
