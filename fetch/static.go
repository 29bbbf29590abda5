package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StaticFetcher resolves URLs with a plain HTTP GET. It is the default for
// ScrapeMode fetch and covers the vast majority of documentation sites that
// render server-side (spec §4.A). Grounded on
// domwatch/internal/fetcher.Fetcher.
type StaticFetcher struct {
	client *http.Client
	ua     string
}

// maxBodyBytes caps a single fetched page to prevent runaway downloads.
const maxBodyBytes = 20 << 20 // 20MB

// NewStaticFetcher builds a StaticFetcher with a default 30s client timeout.
func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		ua:     "Mozilla/5.0 (compatible; docindex/1.0; +https://github.com/traildex/docindex)",
	}
}

func (f *StaticFetcher) Fetch(ctx context.Context, url string, opts Options) (*Result, error) {
	client := f.client
	if opts.Timeout > 0 {
		c := *f.client
		c.Timeout = time.Duration(opts.Timeout) * time.Second
		client = &c
	}
	if !opts.FollowRedirects {
		c := *client
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
		client = &c
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", f.ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: do %s: %w", url, err)
	}
	defer resp.Body.Close()

	if !opts.FollowRedirects && resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return nil, &RedirectError{URL: url, Location: resp.Header.Get("Location"), Status: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body %s: %w", url, err)
	}

	return &Result{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

func (f *StaticFetcher) Close() error { return nil }
