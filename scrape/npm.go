package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/traildex/docindex/config"
)

// npmStrategy narrows scope to the npm registry's own web UI
// (www.npmjs.com/package/<name>) plus its README/readme tab — link
// discovery otherwise wanders into unrelated package pages linked from a
// README's "see also" section.
type npmStrategy struct{}

func (npmStrategy) Name() string { return "Npm" }

func (npmStrategy) CanHandle(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), "npmjs.com") || strings.EqualFold(u.Hostname(), "www.npmjs.com")
}

func (npmStrategy) Scope(config.ScraperOptions) ScopePredicate {
	return func(seed, candidate *url.URL) bool {
		if !sameHostname(seed, candidate) {
			return false
		}
		return packageSlug(candidate.Path) == packageSlug(seed.Path)
	}
}

func (npmStrategy) NormalizeSeed(rawURL string) (string, error) {
	return rawURL, nil
}

func (npmStrategy) FilterLink(candidate *url.URL) bool {
	return candidate.Scheme == "http" || candidate.Scheme == "https"
}

func (npmStrategy) ExpandSeeds(_ context.Context, seed string) ([]string, error) {
	return []string{seed}, nil
}

// packageSlug extracts "package/<name>" (or scoped "package/@scope/name")
// from an npmjs.com path, ignoring trailing tabs like "?activeTab=readme".
func packageSlug(p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		if s == "package" && i+1 < len(segs) {
			if strings.HasPrefix(segs[i+1], "@") && i+2 < len(segs) {
				return "package/" + segs[i+1] + "/" + segs[i+2]
			}
			return "package/" + segs[i+1]
		}
	}
	return p
}
