// Package config defines the external configuration surface: the recognized
// ScraperOptions fields (spec §6) and the on-disk YAML shape that groups
// them with embed/store/logging settings for the CLI.
package config

// Scope is the crawl scope predicate (spec §4.D).
type Scope string

const (
	ScopeSubpages Scope = "subpages" // same hostname AND under the seed's directory
	ScopeHostname Scope = "hostname" // same exact hostname
	ScopeDomain   Scope = "domain"   // same registrable domain, including subdomains
)

// ScrapeMode selects the fetcher variant (spec §4.A).
type ScrapeMode string

const (
	ModeFetch      ScrapeMode = "fetch"      // static HTTP GET only
	ModePlaywright ScrapeMode = "playwright" // headless browser rendering
	ModeAuto       ScrapeMode = "auto"       // resolves to playwright (spec default)
)

// ScraperOptions is the recognized configuration surface for one scrape run.
// The cancellation token named "signal" in spec §6 is deliberately not a
// field here: it is the context.Context passed to Crawler.Run, following
// the Go convention that contexts travel as the first function argument
// rather than inside config structs.
type ScraperOptions struct {
	URL     string `yaml:"url" json:"url"`
	Library string `yaml:"library" json:"library"`
	Version string `yaml:"version" json:"version"` // "" is a valid unversioned sentinel

	MaxPages       int `yaml:"max_pages" json:"max_pages"`
	MaxDepth       int `yaml:"max_depth" json:"max_depth"`
	MaxConcurrency int `yaml:"max_concurrency" json:"max_concurrency"`

	Scope            Scope      `yaml:"scope" json:"scope"`
	FollowRedirects  bool       `yaml:"follow_redirects" json:"follow_redirects"`
	ExcludeSelectors []string   `yaml:"exclude_selectors" json:"exclude_selectors"`
	IgnoreErrors     bool       `yaml:"ignore_errors" json:"ignore_errors"`
	ScrapeMode       ScrapeMode `yaml:"scrape_mode" json:"scrape_mode"`
}

// ApplyDefaults fills zero-valued fields with spec-sane defaults, following
// the teacher's Config.defaults() idiom (domwatch/internal/config,
// veille.Config).
func (o *ScraperOptions) ApplyDefaults() {
	if o.MaxPages <= 0 {
		o.MaxPages = 100
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 3
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = 5
	}
	if o.Scope == "" {
		o.Scope = ScopeSubpages
	}
	if o.ScrapeMode == "" {
		o.ScrapeMode = ModeAuto
	}
	// FollowRedirects and IgnoreErrors default to true; Go's zero value for
	// bool is false, so callers constructing ScraperOptions{} directly must
	// set them explicitly. NewScraperOptions does this for them.
}

// NewScraperOptions returns a ScraperOptions with every default applied,
// including the bool fields ApplyDefaults cannot distinguish from an
// explicit false.
func NewScraperOptions(url, library, version string) ScraperOptions {
	o := ScraperOptions{
		URL:             url,
		Library:         library,
		Version:         version,
		FollowRedirects: true,
		IgnoreErrors:    true,
	}
	o.ApplyDefaults()
	return o
}
