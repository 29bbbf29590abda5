package middleware

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/traildex/docindex/pipeline"
	"github.com/traildex/docindex/store"
)

// ChunkOptions configures Chunker, ported from domkeeper/internal/chunk.Options.
type ChunkOptions struct {
	// MaxTokens is the maximum number of tokens per chunk. Default: 512.
	MaxTokens int
	// OverlapTokens is the number of tokens to overlap between
	// consecutive chunks. Default: 64.
	OverlapTokens int
	// MinChunkTokens is the minimum chunk size; shorter chunks are
	// merged into the previous one. Default: 32.
	MinChunkTokens int
}

func (o *ChunkOptions) defaults() {
	if o.MaxTokens <= 0 {
		o.MaxTokens = 512
	}
	if o.OverlapTokens <= 0 {
		o.OverlapTokens = 64
	}
	if o.MinChunkTokens <= 0 {
		o.MinChunkTokens = 32
	}
}

// Chunker is the terminal pipeline stage: it splits ctx.Text into
// store.Documents of bounded size, preserving heading hierarchy via a
// metadata.path[] breadcrumb per chunk (spec §4.C). Splitting strategy
// ported from domkeeper/internal/chunk.Split (paragraph-aware, falling
// back to a sliding window for oversized paragraphs), extended with a
// Markdown heading-stack tracker.
type Chunker struct {
	Options ChunkOptions
}

func (Chunker) Name() string { return "Chunker" }

func (m Chunker) Process(ctx *pipeline.ProcessingContext, next func(*pipeline.ProcessingContext) error) error {
	opts := m.Options
	opts.defaults()

	sections := splitByHeading(ctx.Text)
	title := ctx.Metadata["title"]

	for _, sec := range sections {
		for _, text := range splitParagraphAware(sec.Text, opts) {
			meta := map[string]string{"title": title}
			if pathJSON, err := json.Marshal(sec.Path); err == nil && len(sec.Path) > 0 {
				meta["path"] = string(pathJSON)
			}
			ctx.Documents = append(ctx.Documents, store.Document{
				Library:  ctx.Options.Library,
				Version:  ctx.Options.Version,
				URL:      ctx.Source,
				Content:  text,
				Metadata: meta,
			})
		}
	}

	return next(ctx)
}

// headingSection is one contiguous span of text under a given heading
// breadcrumb (e.g. ["Guides", "Installation"]).
type headingSection struct {
	Path []string
	Text string
}

var headingLineRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// splitByHeading walks Markdown text line by line, tracking the current
// ATX heading stack, and groups the text following each heading into a
// headingSection carrying that stack as its breadcrumb path.
func splitByHeading(text string) []headingSection {
	var sections []headingSection
	var stack []string
	var buf strings.Builder

	flush := func() {
		t := strings.TrimSpace(buf.String())
		if t != "" {
			sections = append(sections, headingSection{
				Path: append([]string(nil), stack...),
				Text: t,
			})
		}
		buf.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if m := headingLineRe.FindStringSubmatch(line); m != nil {
			flush()
			level := len(m[1])
			heading := strings.TrimSpace(m[2])
			if level > len(stack) {
				for len(stack) < level-1 {
					stack = append(stack, "")
				}
				stack = append(stack, heading)
			} else {
				stack = append(stack[:level-1], heading)
			}
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	flush()

	if len(sections) == 0 && strings.TrimSpace(text) != "" {
		sections = append(sections, headingSection{Text: strings.TrimSpace(text)})
	}
	return sections
}

// splitParagraphAware splits text on paragraph boundaries into chunks
// bounded by MaxTokens, falling back to a sliding window for oversized
// paragraphs. Ported from domkeeper/internal/chunk.splitParagraphAware.
func splitParagraphAware(text string, opts ChunkOptions) []string {
	if text == "" {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= opts.MaxTokens {
		return []string{text}
	}

	paragraphs := splitOnDoubleLF(text)
	if len(paragraphs) <= 1 {
		return slidingWindow(words, opts)
	}

	var chunks []string
	var current strings.Builder
	var currentTokens int

	flush := func() {
		t := strings.TrimSpace(current.String())
		if t == "" {
			return
		}
		tc := countTokens(t)
		if tc < opts.MinChunkTokens && len(chunks) > 0 {
			chunks[len(chunks)-1] += "\n\n" + t
			return
		}
		chunks = append(chunks, t)
	}

	for _, para := range paragraphs {
		paraTokens := countTokens(para)

		if paraTokens > opts.MaxTokens {
			flush()
			current.Reset()
			currentTokens = 0
			chunks = append(chunks, slidingWindow(strings.Fields(para), opts)...)
			continue
		}

		if currentTokens+paraTokens > opts.MaxTokens {
			flush()
			overlap := extractOverlap(current.String(), opts.OverlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = countTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}
	flush()

	return chunks
}

// slidingWindow splits words into overlapping chunks with a sliding window.
func slidingWindow(words []string, opts ChunkOptions) []string {
	var chunks []string
	stride := opts.MaxTokens - opts.OverlapTokens
	if stride <= 0 {
		stride = opts.MaxTokens / 2
	}
	if stride <= 0 {
		stride = 1
	}

	for start := 0; start < len(words); start += stride {
		end := start + opts.MaxTokens
		if end > len(words) {
			end = len(words)
		}

		text := strings.Join(words[start:end], " ")
		tc := end - start
		if tc < opts.MinChunkTokens && len(chunks) > 0 {
			chunks[len(chunks)-1] += " " + text
			break
		}
		chunks = append(chunks, text)

		if end >= len(words) {
			break
		}
	}
	return chunks
}

func countTokens(text string) int {
	return len(strings.Fields(text))
}

func splitOnDoubleLF(text string) []string {
	var parts []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func extractOverlap(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[len(words)-n:], " ")
}
