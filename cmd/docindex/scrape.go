package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/traildex/docindex/config"
	"github.com/traildex/docindex/embed"
	"github.com/traildex/docindex/fetch"
	"github.com/traildex/docindex/internal/logging"
	"github.com/traildex/docindex/pipeline"
	"github.com/traildex/docindex/pipeline/middleware"
	"github.com/traildex/docindex/scrape"
	"github.com/traildex/docindex/store"
)

var (
	scrapeConfigFile     string
	scrapeLibrary        string
	scrapeVersion        string
	scrapeMaxPages       int
	scrapeMaxDepth       int
	scrapeMaxConcurrency int
	scrapeScope          string
	scrapeMode           string
	scrapeFollowRedirect bool
	scrapeIgnoreErrors   bool

	scrapeStorePath     string
	scrapeEmbedEndpoint string
	scrapeEmbedModel    string
	scrapeEmbedDim      int

	scrapeLogLevel string
	scrapeLogJSON  bool
)

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url]",
		Short: "Scrape one documentation source into the store",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScrape,
	}

	cmd.Flags().StringVar(&scrapeConfigFile, "config", "", "YAML config.File path; the first entry in sources is used as the base job")
	cmd.Flags().StringVar(&scrapeLibrary, "library", "", "library name to index under")
	cmd.Flags().StringVar(&scrapeVersion, "version", "", "version to index under (optional)")
	cmd.Flags().IntVar(&scrapeMaxPages, "max-pages", 0, "max pages to crawl (0 keeps the config/default)")
	cmd.Flags().IntVar(&scrapeMaxDepth, "max-depth", 0, "max crawl depth (0 keeps the config/default)")
	cmd.Flags().IntVar(&scrapeMaxConcurrency, "max-concurrency", 0, "max concurrent fetches (0 keeps the config/default)")
	cmd.Flags().StringVar(&scrapeScope, "scope", "", "crawl scope: subpages|hostname|domain (empty keeps the config/default)")
	cmd.Flags().StringVar(&scrapeMode, "scrape-mode", "", "fetch|playwright|auto (empty keeps the config/default)")
	cmd.Flags().BoolVar(&scrapeFollowRedirect, "follow-redirects", true, "follow HTTP redirects instead of aborting the crawl")
	cmd.Flags().BoolVar(&scrapeIgnoreErrors, "ignore-errors", true, "keep crawling past a single page's fetch/pipeline error")

	cmd.Flags().StringVar(&scrapeStorePath, "store", "docindex.db", "SQLite store path")
	cmd.Flags().StringVar(&scrapeEmbedEndpoint, "embed-endpoint", "", "embedding server base URL (empty uses a zero-vector noop embedder)")
	cmd.Flags().StringVar(&scrapeEmbedModel, "embed-model", "", "embedding model name")
	cmd.Flags().IntVar(&scrapeEmbedDim, "embed-dimension", 768, "embedding vector dimension")

	cmd.Flags().StringVar(&scrapeLogLevel, "log-level", "info", "debug|info|warn|error")
	cmd.Flags().BoolVar(&scrapeLogJSON, "log-json", false, "emit logs as JSON")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	opts, err := resolveScrapeOptions(args)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{Level: scrapeLogLevel, JSON: scrapeLogJSON})

	embedder := embed.New(embed.Config{
		Endpoint:  scrapeEmbedEndpoint,
		Model:     scrapeEmbedModel,
		Dimension: scrapeEmbedDim,
		Logger:    logger,
	})

	st, err := store.Open(scrapeStorePath, embedder.Dimension())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	fetcher, err := fetch.New(opts.ScrapeMode)
	if err != nil {
		return fmt.Errorf("build fetcher: %w", err)
	}
	defer fetcher.Close()
	localFS := fetch.NewLocalFileFetcher()

	pl := pipeline.DefaultHTML(pipeline.HTMLMiddlewareSet{
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

	registry := scrape.NewRegistry()
	strategy := registry.Resolve(opts.URL)

	crawler := scrape.NewCrawler(strategy, fetcher, localFS, pl, st, embedder, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return crawler.Run(ctx, opts, func(p scrape.Progress) {
		logger.Info("scraped page", "url", p.URL, "depth", p.Depth, "pages_scraped", p.PagesScraped, "documents", p.DocumentCount)
	})
}

// resolveScrapeOptions builds a ScraperOptions from --config (if given) and
// layers the scrape-specific flags on top, so a config file supplies the
// defaults for a source and the command line can override any one field
// without re-specifying the whole job. FollowRedirects and IgnoreErrors are
// the exception: they always take the --follow-redirects and
// --ignore-errors values (default true), so the config file's values for
// those two fields are not used.
func resolveScrapeOptions(args []string) (config.ScraperOptions, error) {
	var opts config.ScraperOptions
	if scrapeConfigFile != "" {
		f, err := config.LoadFile(scrapeConfigFile)
		if err != nil {
			return opts, err
		}
		if len(f.Sources) == 0 {
			return opts, fmt.Errorf("config %s has no sources", scrapeConfigFile)
		}
		opts = f.Sources[0]
	}

	if len(args) == 1 {
		opts.URL = args[0]
	}
	if scrapeLibrary != "" {
		opts.Library = scrapeLibrary
	}
	if scrapeVersion != "" {
		opts.Version = scrapeVersion
	}
	if scrapeMaxPages > 0 {
		opts.MaxPages = scrapeMaxPages
	}
	if scrapeMaxDepth > 0 {
		opts.MaxDepth = scrapeMaxDepth
	}
	if scrapeMaxConcurrency > 0 {
		opts.MaxConcurrency = scrapeMaxConcurrency
	}
	if scrapeScope != "" {
		opts.Scope = config.Scope(scrapeScope)
	}
	if scrapeMode != "" {
		opts.ScrapeMode = config.ScrapeMode(scrapeMode)
	}
	opts.FollowRedirects = scrapeFollowRedirect
	opts.IgnoreErrors = scrapeIgnoreErrors

	if opts.URL == "" {
		return opts, fmt.Errorf("a URL is required (positional arg or --config)")
	}
	if opts.Library == "" {
		return opts, fmt.Errorf("--library is required")
	}
	opts.ApplyDefaults()
	return opts, nil
}
