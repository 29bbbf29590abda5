package middleware

import (
	"regexp"
	"strings"

	"github.com/traildex/docindex/pipeline"
)

var mdTitleRe = regexp.MustCompile(`^#\s+(.*)$`)

// MarkdownMetadataExtractor sets metadata.title from the first ATX H1 line
// in ctx.Text when no earlier stage already set one (spec §4.C). Applies
// to both text/markdown (HTML-origin, post-conversion) and text/plain
// (PDF-origin) content.
type MarkdownMetadataExtractor struct{}

func (MarkdownMetadataExtractor) Name() string { return "MarkdownMetadataExtractor" }

func (m MarkdownMetadataExtractor) Process(ctx *pipeline.ProcessingContext, next func(*pipeline.ProcessingContext) error) error {
	if ctx.ContentType != "text/markdown" && ctx.ContentType != "text/plain" {
		return next(ctx)
	}
	if ctx.Metadata["title"] != "" {
		return next(ctx)
	}

	title := "Untitled"
	for _, line := range strings.Split(ctx.Text, "\n") {
		if match := mdTitleRe.FindStringSubmatch(strings.TrimSpace(line)); match != nil {
			t := strings.TrimSpace(match[1])
			if t != "" {
				title = t
			}
			break
		}
	}
	ctx.Metadata["title"] = title

	return next(ctx)
}
