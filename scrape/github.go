package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/traildex/docindex/config"
)

// githubStrategy narrows GenericWeb's scope to a single repository: a
// github.com URL's scope is always the repo path (owner/name), regardless
// of options.Scope, since "domain" or "hostname" scope on github.com would
// otherwise sweep in every public repository reachable from a link.
type githubStrategy struct{}

func (githubStrategy) Name() string { return "GitHub" }

func (githubStrategy) CanHandle(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), "github.com") || strings.EqualFold(u.Hostname(), "raw.githubusercontent.com")
}

func (githubStrategy) Scope(config.ScraperOptions) ScopePredicate {
	return func(seed, candidate *url.URL) bool {
		if !sameHostname(seed, candidate) {
			return false
		}
		return repoPath(candidate.Path) == repoPath(seed.Path)
	}
}

func (githubStrategy) NormalizeSeed(rawURL string) (string, error) {
	return rawURL, nil
}

func (githubStrategy) FilterLink(candidate *url.URL) bool {
	if candidate.Scheme != "http" && candidate.Scheme != "https" {
		return false
	}
	// Skip non-documentation GitHub furniture: issues, pulls, actions,
	// commits, releases, blame.
	for _, seg := range []string{"/issues", "/pull", "/pulls", "/actions", "/commit/", "/commits", "/releases", "/blame"} {
		if strings.Contains(candidate.Path, seg) {
			return false
		}
	}
	return true
}

func (githubStrategy) ExpandSeeds(_ context.Context, seed string) ([]string, error) {
	return []string{seed}, nil
}

// repoPath extracts "owner/name" from a github.com path like
// "/owner/name/blob/main/README.md".
func repoPath(p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	if len(segs) < 2 {
		return p
	}
	return segs[0] + "/" + segs[1]
}
