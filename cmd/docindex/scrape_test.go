package main

import (
	"testing"

	"github.com/traildex/docindex/config"
)

func resetScrapeFlags() {
	scrapeConfigFile = ""
	scrapeLibrary = ""
	scrapeVersion = ""
	scrapeMaxPages = 0
	scrapeMaxDepth = 0
	scrapeMaxConcurrency = 0
	scrapeScope = ""
	scrapeMode = ""
	scrapeFollowRedirect = true
	scrapeIgnoreErrors = true
}

func TestResolveScrapeOptions_RequiresURL(t *testing.T) {
	resetScrapeFlags()
	scrapeLibrary = "acme"

	_, err := resolveScrapeOptions(nil)
	if err == nil {
		t.Fatal("expected an error when no URL is given")
	}
}

func TestResolveScrapeOptions_RequiresLibrary(t *testing.T) {
	resetScrapeFlags()

	_, err := resolveScrapeOptions([]string{"https://docs.acme.dev"})
	if err == nil {
		t.Fatal("expected an error when --library is missing")
	}
}

func TestResolveScrapeOptions_FlagsOverrideDefaults(t *testing.T) {
	resetScrapeFlags()
	scrapeLibrary = "acme"
	scrapeVersion = "v2"
	scrapeMaxPages = 5
	scrapeScope = "hostname"

	opts, err := resolveScrapeOptions([]string{"https://docs.acme.dev"})
	if err != nil {
		t.Fatalf("resolveScrapeOptions: %v", err)
	}
	if opts.URL != "https://docs.acme.dev" {
		t.Errorf("URL = %q", opts.URL)
	}
	if opts.Library != "acme" || opts.Version != "v2" {
		t.Errorf("library/version = %q/%q", opts.Library, opts.Version)
	}
	if opts.MaxPages != 5 {
		t.Errorf("MaxPages = %d, want 5", opts.MaxPages)
	}
	if opts.Scope != config.ScopeHostname {
		t.Errorf("Scope = %q, want hostname", opts.Scope)
	}
	// Unset fields still get spec-sane defaults via ApplyDefaults.
	if opts.MaxDepth == 0 {
		t.Error("MaxDepth should have received a default")
	}
}
