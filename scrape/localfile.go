package scrape

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/traildex/docindex/config"
	"github.com/traildex/docindex/fetch"
)

// localFileStrategy walks a local documentation tree, treating every
// documentation file (.md, .markdown, .html, .htm, .txt, .pdf) under the
// seed directory (or the seed file itself) as a depth-0 frontier entry.
// Links found inside the files are not followed: the pipeline's link
// extractors keep only http(s) links and FilterLink admits only
// scheme-less or file: links, so every file enters the crawl through
// ExpandSeeds. There is no remote hostname to compare, so the scope
// predicate is a path-prefix check regardless of options.Scope.
type localFileStrategy struct{}

func (localFileStrategy) Name() string { return "LocalFile" }

func (localFileStrategy) CanHandle(rawURL string) bool {
	return fetch.IsLocalPath(rawURL)
}

func (localFileStrategy) Scope(config.ScraperOptions) ScopePredicate {
	return func(seed, candidate *url.URL) bool {
		return strings.HasPrefix(candidate.Path, seedDir(seed))
	}
}

func (localFileStrategy) NormalizeSeed(rawURL string) (string, error) {
	return strings.TrimPrefix(rawURL, "file://"), nil
}

func (localFileStrategy) FilterLink(candidate *url.URL) bool {
	return candidate.Scheme == "" || candidate.Scheme == "file"
}

func (localFileStrategy) ExpandSeeds(ctx context.Context, seed string) ([]string, error) {
	info, err := filepath.Abs(seed)
	if err != nil {
		return nil, fmt.Errorf("scrape: resolve local seed %s: %w", seed, err)
	}

	var out []string
	err = filepath.WalkDir(info, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if isDocumentationFile(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scrape: walk local seed %s: %w", seed, err)
	}
	return out, nil
}

func isDocumentationFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".html", ".htm", ".txt", ".pdf":
		return true
	default:
		return false
	}
}
