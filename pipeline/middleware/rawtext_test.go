package middleware

import (
	"testing"

	"github.com/traildex/docindex/config"
	"github.com/traildex/docindex/pipeline"
)

func TestRawTextLoader_PopulatesTextForMarkdown(t *testing.T) {
	ctx := pipeline.New("file:///docs/a.md", "text/markdown; charset=utf-8", []byte("# Title\n\nbody"), config.ScraperOptions{})
	if err := (RawTextLoader{}).Process(ctx, func(*pipeline.ProcessingContext) error { return nil }); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if ctx.Text != "# Title\n\nbody" {
		t.Fatalf("ctx.Text = %q", ctx.Text)
	}
	if ctx.ContentType != "text/markdown" {
		t.Fatalf("ctx.ContentType = %q, want text/markdown", ctx.ContentType)
	}
}

func TestRawTextLoader_TreatsPDFExtractedTextAsPlain(t *testing.T) {
	ctx := pipeline.New("file:///docs/a.pdf", "application/pdf", []byte("extracted text"), config.ScraperOptions{})
	if err := (RawTextLoader{}).Process(ctx, func(*pipeline.ProcessingContext) error { return nil }); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if ctx.Text != "extracted text" {
		t.Fatalf("ctx.Text = %q", ctx.Text)
	}
	if ctx.ContentType != "text/plain" {
		t.Fatalf("ctx.ContentType = %q, want text/plain", ctx.ContentType)
	}
}

func TestRawTextLoader_LeavesHTMLUntouched(t *testing.T) {
	ctx := pipeline.New("https://example.com", "text/html; charset=utf-8", []byte("<p>hi</p>"), config.ScraperOptions{})
	if err := (RawTextLoader{}).Process(ctx, func(*pipeline.ProcessingContext) error { return nil }); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if ctx.Text != "" {
		t.Fatalf("ctx.Text = %q, want empty (left for HtmlToMarkdown)", ctx.Text)
	}
	if ctx.ContentType != "text/html; charset=utf-8" {
		t.Fatalf("ctx.ContentType mutated: %q", ctx.ContentType)
	}
}
