package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/traildex/docindex/config"
)

func TestNew_InitializesMetadata(t *testing.T) {
	opts := config.NewScraperOptions("https://example.com", "example", "v1")
	ctx := New("https://example.com", "text/html", []byte("<html></html>"), opts)
	if ctx.Metadata == nil {
		t.Fatal("Metadata: want non-nil map")
	}
	if ctx.Source != "https://example.com" {
		t.Fatalf("Source = %q", ctx.Source)
	}
}

func TestAddError_WrapsWithStage(t *testing.T) {
	ctx := New("s", "text/html", nil, config.ScraperOptions{})
	ctx.AddError("HtmlParser", errors.New("boom"))
	if len(ctx.Errors) != 1 {
		t.Fatalf("Errors: got %d, want 1", len(ctx.Errors))
	}
	if !strings.Contains(ctx.Errors[0].Error(), "HtmlParser") {
		t.Fatalf("Errors[0] = %q, want stage prefix", ctx.Errors[0])
	}
}

func TestAddError_NilIsNoop(t *testing.T) {
	ctx := New("s", "text/html", nil, config.ScraperOptions{})
	ctx.AddError("stage", nil)
	if len(ctx.Errors) != 0 {
		t.Fatalf("Errors: got %d, want 0", len(ctx.Errors))
	}
}
