// Package fetch resolves a URL to raw bytes plus content-type, status, and
// final URL (spec §4.A). Two variants satisfy the Fetcher capability:
// StaticFetcher (plain HTTP GET) and BrowserFetcher (headless Chrome via
// go-rod). LocalFileFetcher additionally serves file:// URLs for the
// LocalFileStrategy crawl policy.
package fetch

import (
	"context"
	"fmt"
)

// Result is the outcome of resolving a URL.
type Result struct {
	Body        []byte
	ContentType string
	StatusCode  int
	FinalURL    string // differs from the requested URL after redirects
}

// Options controls a single fetch.
type Options struct {
	FollowRedirects bool
	Timeout         int // seconds; 0 means the fetcher's default
}

// Fetcher resolves a URL to a Result.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts Options) (*Result, error)
	// Close releases any resources held by the fetcher (e.g. a browser
	// process). Static fetchers may no-op.
	Close() error
}

// FetchError reports a non-2xx HTTP response.
type FetchError struct {
	URL    string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch: %s: HTTP %d", e.URL, e.Status)
}

// RedirectError is raised when FollowRedirects is false and a 3xx response
// is observed (spec §4.E point 3, §8 scenario 6).
type RedirectError struct {
	URL      string
	Location string
	Status   int
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("fetch: %s: redirect (%d) to %s with follow_redirects=false", e.URL, e.Status, e.Location)
}
