// Package scrape implements the scraping orchestrator (spec §4.D, §4.E): a
// registry of per-source ScrapeStrategy variants driving a bounded,
// concurrent, depth-limited Crawler.
package scrape

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/traildex/docindex/config"
)

// ScopePredicate reports whether candidate is in scope for a crawl seeded
// at seed, per spec §4.D's three scope modes.
type ScopePredicate func(seed, candidate *url.URL) bool

// NewScopePredicate builds the predicate named by scope, narrowed to
// seedDir (the seed URL's directory, used only by ScopeSubpages).
func NewScopePredicate(scope config.Scope) ScopePredicate {
	switch scope {
	case config.ScopeHostname:
		return sameHostname
	case config.ScopeDomain:
		return sameRegistrableDomain
	default:
		return samePathPrefix
	}
}

// samePathPrefix implements "subpages": same hostname AND the candidate's
// path begins with the seed's directory (the seed path up to its last '/').
func samePathPrefix(seed, candidate *url.URL) bool {
	if !sameHostname(seed, candidate) {
		return false
	}
	dir := seedDir(seed)
	return strings.HasPrefix(candidate.Path, dir)
}

func seedDir(seed *url.URL) string {
	dir := path.Dir(seed.Path)
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return dir
}

func sameHostname(seed, candidate *url.URL) bool {
	return strings.EqualFold(seed.Hostname(), candidate.Hostname())
}

// sameRegistrableDomain implements "domain": same eTLD+1, so subdomains
// (docs.acme.dev vs api.acme.dev) are in scope together.
func sameRegistrableDomain(seed, candidate *url.URL) bool {
	a, err1 := publicsuffix.EffectiveTLDPlusOne(seed.Hostname())
	b, err2 := publicsuffix.EffectiveTLDPlusOne(candidate.Hostname())
	if err1 != nil || err2 != nil {
		return sameHostname(seed, candidate)
	}
	return strings.EqualFold(a, b)
}
