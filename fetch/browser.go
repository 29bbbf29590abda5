package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// browserManager lazily launches a single headless Chrome instance and
// reference-counts concurrent users so N BrowserFetchers spawned by the
// crawler's worker pool share one process. Grounded on
// domwatch/internal/browser.Manager, stripped of memory-based recycling
// (not needed at our traffic volume) but keeping lazy launch and a mutex
// around the *rod.Browser handle.
type browserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	refs     int
}

var sharedBrowser browserManager

func (m *browserManager) acquire() (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser == nil {
		l := launcher.New().Headless(true).Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("fetch: launch browser: %w", err)
		}
		b := rod.New().ControlURL(u)
		if err := b.Connect(); err != nil {
			return nil, fmt.Errorf("fetch: connect browser: %w", err)
		}
		m.launcher = l
		m.browser = b
	}
	m.refs++
	return m.browser, nil
}

func (m *browserManager) current() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser
}

func (m *browserManager) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs--
	if m.refs <= 0 && m.browser != nil {
		m.browser.Close()
		if m.launcher != nil {
			m.launcher.Cleanup()
		}
		m.browser = nil
		m.launcher = nil
		m.refs = 0
	}
}

// BrowserFetcher renders a page with headless Chrome (via go-rod/stealth)
// before extracting its DOM, covering JS-rendered documentation sites that
// a static GET would return empty (spec §4.A ScrapeMode "playwright").
type BrowserFetcher struct {
	mgr *browserManager
}

// NewBrowserFetcher acquires a reference to the shared browser process.
// Callers must call Close when done so the process can shut down once the
// last fetcher releases it.
func NewBrowserFetcher() (*BrowserFetcher, error) {
	if _, err := sharedBrowser.acquire(); err != nil {
		return nil, err
	}
	return &BrowserFetcher{mgr: &sharedBrowser}, nil
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string, opts Options) (*Result, error) {
	b := f.mgr.current()
	if b == nil {
		return nil, fmt.Errorf("fetch: browser manager has no active browser")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("fetch: new stealth page: %w", err)
	}
	defer page.Close()

	timeout := 30 * time.Second
	if opts.Timeout > 0 {
		timeout = time.Duration(opts.Timeout) * time.Second
	}
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		return nil, fmt.Errorf("fetch: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		// A slow subresource timing out the load event is not fatal: the
		// DOM is usually usable anyway.
		_ = err
	}

	info, err := page.Context(navCtx).Info()
	if err != nil {
		return nil, fmt.Errorf("fetch: page info %s: %w", url, err)
	}

	html, err := page.Context(navCtx).HTML()
	if err != nil {
		return nil, fmt.Errorf("fetch: outer html %s: %w", url, err)
	}

	return &Result{
		Body:        []byte(html),
		ContentType: "text/html; charset=utf-8",
		StatusCode:  200,
		FinalURL:    info.URL,
	}, nil
}

func (f *BrowserFetcher) Close() error {
	f.mgr.release()
	return nil
}
