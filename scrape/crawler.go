package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/traildex/docindex/config"
	"github.com/traildex/docindex/embed"
	"github.com/traildex/docindex/fetch"
	"github.com/traildex/docindex/pipeline"
	"github.com/traildex/docindex/store"
)

// Crawler performs bounded, concurrent, depth-limited BFS traversal (spec
// §4.E): a worker pool gated by a semaphore channel, a mutex-guarded
// visited set, and a sync.WaitGroup tracking outstanding admitted tasks —
// the same semaphore-plus-WaitGroup shape as
// horos47/core/jobs/worker.go's processJobsBatch, generalized from a fixed
// job batch to a growing BFS frontier where each completed task can admit
// more work.
type Crawler struct {
	Strategy Strategy
	Fetcher  fetch.Fetcher
	LocalFS  fetch.Fetcher // routed to for file:// / local-path URLs regardless of ScrapeMode
	Pipeline *pipeline.Pipeline
	Store    *store.Store
	Embedder embed.Embedder
	Logger   *slog.Logger
}

// NewCrawler wires a Crawler for one run from its ScraperOptions-selected
// components.
func NewCrawler(strategy Strategy, fetcher, localFS fetch.Fetcher, pl *pipeline.Pipeline, st *store.Store, embedder embed.Embedder, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Crawler{
		Strategy: strategy,
		Fetcher:  fetcher,
		LocalFS:  localFS,
		Pipeline: pl,
		Store:    st,
		Embedder: embedder,
		Logger:   logger,
	}
}

// Run drives the crawl described by opts, calling progress after every
// completed page. It returns the first fatal error: a RedirectError (spec
// §4.E point 3, raised to the caller rather than just the page), or — when
// opts.IgnoreErrors is false — the first page's non-recoverable error.
func (c *Crawler) Run(ctx context.Context, opts config.ScraperOptions, progress ProgressCallback) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scopeOK := c.Strategy.Scope(opts)
	seed, err := c.Strategy.NormalizeSeed(opts.URL)
	if err != nil {
		return fmt.Errorf("scrape: normalize seed: %w", err)
	}
	seeds, err := c.Strategy.ExpandSeeds(ctx, seed)
	if err != nil {
		return fmt.Errorf("scrape: expand seeds: %w", err)
	}

	seedURL, _ := url.Parse(seed)

	var (
		mu         sync.Mutex
		visited    = make(map[string]bool)
		wg         sync.WaitGroup
		sem        = make(chan struct{}, opts.MaxConcurrency)
		admitted   int
		pages      int
		firstErr   error
		errOnce    sync.Once
		progressMu sync.Mutex
	)
	setErr := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	var spawn func(target string, depth int)
	spawn = func(target string, depth int) {
		mu.Lock()
		if ctx.Err() != nil || visited[target] || admitted >= opts.MaxPages {
			mu.Unlock()
			return
		}
		visited[target] = true
		admitted++
		mu.Unlock()

		wg.Add(1)
		go func() {
			defer wg.Done()
			// The semaphore is acquired here, inside the spawned goroutine,
			// not in the caller: spawn is invoked recursively from a worker
			// that is still holding its own slot (released only by the
			// deferred <-sem below), so acquiring synchronously in the
			// caller would have that worker block on a second slot before
			// ever releasing its first — a guaranteed deadlock once a page
			// discovers an in-scope link while the pool is saturated.
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}

			links, docCount, pageErrs, fatal := c.processPage(ctx, opts, target)

			// pages is incremented and progress is invoked under the same
			// lock so PagesScraped values are assigned and delivered to the
			// callback in the same increasing order — calling progress
			// concurrently from multiple workers would let a later n
			// overtake an earlier one in the callback's own serialized
			// view, breaking the "PagesScraped is monotonically
			// non-decreasing" guarantee (spec §4.E).
			progressMu.Lock()
			pages++
			progress(Progress{
				URL:           target,
				Depth:         depth,
				PagesScraped:  pages,
				DocumentCount: docCount,
				Errors:        pageErrs,
			})
			progressMu.Unlock()

			if fatal != nil {
				setErr(fatal)
				return
			}
			if !opts.IgnoreErrors && len(pageErrs) > 0 {
				setErr(pageErrs[0])
				return
			}
			if depth+1 > opts.MaxDepth {
				return
			}
			for _, link := range links {
				linkURL, err := url.Parse(link)
				if err != nil || !c.Strategy.FilterLink(linkURL) {
					continue
				}
				if seedURL != nil && !scopeOK(seedURL, linkURL) {
					continue
				}
				spawn(link, depth+1)
			}
		}()
	}

	for _, s := range seeds {
		spawn(s, 0)
	}
	wg.Wait()
	return firstErr
}

// processPage fetches target, runs it through the Pipeline, embeds and
// stores the resulting Documents, and returns the discovered links plus any
// non-fatal errors. A RedirectError is returned as fatal per spec §4.E.
func (c *Crawler) processPage(ctx context.Context, opts config.ScraperOptions, target string) (links []string, docCount int, pageErrs []error, fatal error) {
	fetcher := c.Fetcher
	if fetch.IsLocalPath(target) {
		fetcher = c.LocalFS
	}

	result, err := fetcher.Fetch(ctx, target, fetch.Options{FollowRedirects: opts.FollowRedirects})
	if err != nil {
		if redirErr, ok := err.(*fetch.RedirectError); ok {
			return nil, 0, nil, redirErr
		}
		return nil, 0, []error{fmt.Errorf("fetch %s: %w", target, err)}, nil
	}

	pctx := pipeline.New(result.FinalURL, result.ContentType, result.Body, opts)
	if err := c.Pipeline.Run(pctx); err != nil {
		pctx.AddError("pipeline", err)
	}

	if len(pctx.Documents) > 0 {
		texts := make([]string, len(pctx.Documents))
		for i, d := range pctx.Documents {
			texts[i] = d.Content
		}
		vecs, err := c.Embedder.EmbedBatch(ctx, texts)
		if err != nil {
			pctx.AddError("embed", err)
		} else {
			for i := range pctx.Documents {
				pctx.Documents[i].Embedding = vecs[i]
			}
			if err := c.Store.AddDocuments(ctx, opts.Library, opts.Version, pctx.Documents); err != nil {
				pctx.AddError("store", err)
			} else {
				docCount = len(pctx.Documents)
			}
		}
	}

	return dedupeLinks(pctx.Links), docCount, pctx.Errors, nil
}

func dedupeLinks(links []string) []string {
	seen := make(map[string]bool, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
