package middleware

import (
	"strings"
	"testing"

	"github.com/traildex/docindex/config"
	"github.com/traildex/docindex/pipeline"
)

func htmlPipeline() *pipeline.Pipeline {
	return pipeline.New(
		RawTextLoader{},
		HtmlParser{},
		HtmlSanitizer{},
		HtmlMetadataExtractor{},
		HtmlLinkExtractor{},
		HtmlToMarkdown{},
		MarkdownMetadataExtractor{},
		MarkdownLinkExtractor{},
		Chunker{},
	)
}

func newHTMLCtx(source, body string, opts config.ScraperOptions) *pipeline.ProcessingContext {
	return pipeline.New(source, "text/html; charset=utf-8", []byte(body), opts)
}

// Scenario 1 (spec §8): excludeSelectors removes nav/footer, leaving just
// the kept paragraph in the resulting Markdown.
func TestScenario_ExcludeSelectorsStripsNavAndFooter(t *testing.T) {
	opts := config.NewScraperOptions("https://example.com", "example", "")
	opts.ExcludeSelectors = []string{"nav", "footer"}

	ctx := newHTMLCtx("https://example.com", `<html><body><nav>x</nav><p>keep</p><footer>y</footer></body></html>`, opts)
	if err := htmlPipeline().Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Text != "keep" {
		t.Fatalf("Text = %q, want %q", ctx.Text, "keep")
	}
}

// Scenario 2 (spec §8): title whitespace is collapsed to single spaces.
func TestScenario_TitleWhitespaceCollapsed(t *testing.T) {
	opts := config.NewScraperOptions("https://example.com", "example", "")
	ctx := newHTMLCtx("https://example.com", "<html><head><title>  Extra \n Whitespace \t Title  </title></head></html>", opts)
	if err := htmlPipeline().Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Metadata["title"] != "Extra Whitespace Title" {
		t.Fatalf("title = %q, want %q", ctx.Metadata["title"], "Extra Whitespace Title")
	}
}

// Scenario 3 (spec §8): code-fence language inferred from a
// "language-javascript" class.
func TestScenario_CodeFenceLanguageInferred(t *testing.T) {
	opts := config.NewScraperOptions("https://example.com", "example", "")
	ctx := newHTMLCtx("https://example.com", `<html><body><pre><code class="language-javascript">const x = 1;</code></pre></body></html>`, opts)
	if err := htmlPipeline().Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(ctx.Text, "```javascript") {
		t.Fatalf("Text = %q, want a ```javascript fence", ctx.Text)
	}
	if !strings.Contains(ctx.Text, "const x = 1;") {
		t.Fatalf("Text = %q, want the code body", ctx.Text)
	}
}

// Scenario 5 (spec §8): a comment-only body converts to an empty Markdown
// document with no error, not a failure.
func TestScenario_EmptyBodyConvertsToEmptyMarkdown(t *testing.T) {
	opts := config.NewScraperOptions("https://example.com", "example", "")
	ctx := newHTMLCtx("https://example.com", `<html><body><!-- only --></body></html>`, opts)
	if err := htmlPipeline().Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Text != "" {
		t.Fatalf("Text = %q, want empty", ctx.Text)
	}
	if ctx.ContentType != "text/markdown" {
		t.Fatalf("ContentType = %q, want text/markdown", ctx.ContentType)
	}
	if len(ctx.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", ctx.Errors)
	}
}

func TestHtmlPipeline_PreservesSource(t *testing.T) {
	opts := config.NewScraperOptions("https://example.com/docs", "example", "")
	ctx := newHTMLCtx("https://example.com/docs", `<html><body><p>hi</p></body></html>`, opts)
	if err := htmlPipeline().Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Source != "https://example.com/docs" {
		t.Fatalf("Source mutated: %q", ctx.Source)
	}
}

func TestHtmlPipeline_ProducesDocumentsWithHeadingPath(t *testing.T) {
	opts := config.NewScraperOptions("https://example.com", "acme", "v2")
	body := `<html><body>
<h1>Guide</h1>
<h2>Installation</h2>
<p>Run the installer and follow the prompts to complete setup on your machine.</p>
</body></html>`
	ctx := newHTMLCtx("https://example.com", body, opts)
	if err := htmlPipeline().Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ctx.Documents) == 0 {
		t.Fatal("Documents: want at least one")
	}
	doc := ctx.Documents[0]
	if doc.Library != "acme" || doc.Version != "v2" {
		t.Fatalf("doc library/version = %q/%q", doc.Library, doc.Version)
	}
	if !strings.Contains(doc.Metadata["path"], "Installation") {
		t.Fatalf("path metadata = %q, want to mention Installation", doc.Metadata["path"])
	}
}
