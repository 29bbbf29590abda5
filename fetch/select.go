package fetch

import (
	"strings"

	"github.com/traildex/docindex/config"
)

// New builds the Fetcher for a ScrapeMode. ModeAuto resolves to the
// browser fetcher: spec §4.A documents "auto" as defaulting to rendered
// fetches since most modern documentation sites are JS-hydrated SPAs, and a
// static GET silently returning an empty shell is a worse failure mode than
// paying for a headless render.
func New(mode config.ScrapeMode) (Fetcher, error) {
	switch mode {
	case config.ModeFetch:
		return NewStaticFetcher(), nil
	case config.ModePlaywright, config.ModeAuto, "":
		return NewBrowserFetcher()
	default:
		return NewStaticFetcher(), nil
	}
}

// IsLocalPath reports whether url addresses the local filesystem rather
// than a remote resource, so the crawler can route it to LocalFileFetcher
// regardless of ScrapeMode.
func IsLocalPath(url string) bool {
	return strings.HasPrefix(url, "file://") || strings.HasPrefix(url, "/") || strings.HasPrefix(url, "./")
}
