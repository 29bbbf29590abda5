package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/traildex/docindex/config"
	"github.com/traildex/docindex/embed"
	"github.com/traildex/docindex/fetch"
	"github.com/traildex/docindex/pipeline"
	"github.com/traildex/docindex/pipeline/middleware"
	"github.com/traildex/docindex/store"
)

func testPipeline() *pipeline.Pipeline {
	return pipeline.DefaultHTML(pipeline.HTMLMiddlewareSet{
		RawTextLoader:             middleware.RawTextLoader{},
		HtmlParser:                middleware.HtmlParser{},
		HtmlSanitizer:             middleware.HtmlSanitizer{},
		HtmlMetadataExtractor:     middleware.HtmlMetadataExtractor{},
		HtmlLinkExtractor:         middleware.HtmlLinkExtractor{},
		HtmlToMarkdown:            middleware.HtmlToMarkdown{},
		MarkdownMetadataExtractor: middleware.MarkdownMetadataExtractor{},
		MarkdownLinkExtractor:     middleware.MarkdownLinkExtractor{},
		Chunker:                   middleware.Chunker{},
	})
}

func newTestCrawler(t *testing.T, strategy Strategy) (*Crawler, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:", 4)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	embedder := embed.New(embed.Config{Dimension: 4})
	c := NewCrawler(strategy, fetch.NewStaticFetcher(), fetch.NewLocalFileFetcher(), testPipeline(), st, embedder, nil)
	return c, st
}

func TestCrawler_RespectsMaxDepth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>root</p><a href="/depth1">next</a></body></html>`))
	})
	mux.HandleFunc("/depth1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>d1</p><a href="/depth2">next</a></body></html>`))
	})
	mux.HandleFunc("/depth2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>d2</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newTestCrawler(t, genericWebStrategy{})
	opts := config.NewScraperOptions(srv.URL+"/start", "acme", "v1")
	opts.MaxDepth = 1
	opts.MaxPages = 10
	opts.MaxConcurrency = 2
	opts.FollowRedirects = true

	var visited []string
	err := c.Run(context.Background(), opts, func(p Progress) {
		visited = append(visited, p.URL)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(visited) != 2 {
		t.Fatalf("visited %v, want exactly 2 pages (depth 0 and depth 1)", visited)
	}
}

func TestCrawler_RespectsMaxPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>x</p><a href="/a">a</a><a href="/b">b</a></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newTestCrawler(t, genericWebStrategy{})
	opts := config.NewScraperOptions(srv.URL+"/", "acme", "v1")
	opts.MaxDepth = 5
	opts.MaxPages = 2
	opts.MaxConcurrency = 2
	opts.FollowRedirects = true

	var n int
	err := c.Run(context.Background(), opts, func(p Progress) { n++ })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n > 2 {
		t.Fatalf("processed %d pages, want at most 2 (maxPages)", n)
	}
}

func TestCrawler_RedirectAbortsWholeCrawl(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("end"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newTestCrawler(t, genericWebStrategy{})
	opts := config.NewScraperOptions(srv.URL+"/start", "acme", "v1")
	opts.FollowRedirects = false
	opts.MaxPages = 10
	opts.MaxConcurrency = 2

	err := c.Run(context.Background(), opts, func(Progress) {})
	if err == nil {
		t.Fatal("Run: want RedirectError when followRedirects=false")
	}
	if _, ok := err.(*fetch.RedirectError); !ok {
		t.Fatalf("err = %T, want *fetch.RedirectError", err)
	}
}

// TestCrawler_MaxConcurrencyOneDoesNotDeadlockOnInScopeLink guards against a
// deadlock where a single worker recursively spawning a same-depth-limit
// in-scope link would block acquiring a second semaphore slot before
// releasing its own. With MaxConcurrency=1 that worker is the only slot
// there is, so the bug hangs forever; Run must return well within the
// timeout below.
func TestCrawler_MaxConcurrencyOneDoesNotDeadlockOnInScopeLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>root</p><a href="/next">next</a></body></html>`))
	})
	mux.HandleFunc("/next", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>leaf</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newTestCrawler(t, genericWebStrategy{})
	opts := config.NewScraperOptions(srv.URL+"/start", "acme", "v1")
	opts.MaxDepth = 1
	opts.MaxPages = 10
	opts.MaxConcurrency = 1
	opts.FollowRedirects = true

	done := make(chan error, 1)
	go func() {
		done <- c.Run(context.Background(), opts, func(Progress) {})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return within 5s: crawler deadlocked with MaxConcurrency=1")
	}
}

func TestCrawler_StoresDocumentsForFetchedPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Guide</h1><p>install the widget package</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, st := newTestCrawler(t, genericWebStrategy{})
	opts := config.NewScraperOptions(srv.URL+"/start", "acme", "v1")
	opts.MaxDepth = 0
	opts.MaxPages = 1
	opts.MaxConcurrency = 1
	opts.FollowRedirects = true

	if err := c.Run(context.Background(), opts, func(Progress) {}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	exists, err := st.CheckExists(context.Background(), "acme", "v1")
	if err != nil {
		t.Fatalf("CheckExists: %v", err)
	}
	if !exists {
		t.Fatal("CheckExists: false, want documents stored for acme/v1")
	}
}
