package middleware

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/traildex/docindex/pipeline"
)

// codeLanguageRe recognizes GitHub/Pygments/highlight.js code-fence class
// conventions (spec §4.C HtmlToMarkdown contract).
var codeLanguageRe = regexp.MustCompile(`(?:highlight-source-|highlight-|language-)(\w+)`)

// mdConverter is shared across Process calls; it holds no per-request
// state (ConvertString is called fresh each time), matching
// veille/internal/pipeline.Pipeline's single long-lived *converter.Converter.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
		strikethrough.NewStrikethroughPlugin(),
	),
)

// HtmlToMarkdown converts ctx.DOM's body (or the whole document if the
// body is empty) to Markdown, rewriting ctx.Text and ctx.ContentType (spec
// §4.C). Grounded on veille/internal/pipeline.Pipeline.htmlToMarkdown's
// converter wiring.
type HtmlToMarkdown struct{}

func (HtmlToMarkdown) Name() string { return "HtmlToMarkdown" }

func (m HtmlToMarkdown) Process(ctx *pipeline.ProcessingContext, next func(*pipeline.ProcessingContext) error) error {
	if ctx.DOM == nil {
		return next(ctx)
	}

	target := bodyOrDocument(ctx.DOM)
	normalizeCodeLanguages(target)
	literalizePreBreaks(target)

	var buf bytes.Buffer
	if err := html.Render(&buf, target); err != nil {
		ctx.AddError(m.Name(), fmt.Errorf("render for conversion: %w", err))
		return next(ctx)
	}

	result, err := mdConverter.ConvertString(buf.String(), converter.WithDomain(ctx.Source))
	if err != nil {
		ctx.AddError(m.Name(), fmt.Errorf("convert: %w", err))
		return next(ctx)
	}

	ctx.Text = strings.TrimSpace(result)
	ctx.ContentType = "text/markdown"
	return next(ctx)
}

// bodyOrDocument returns the <body> element, or doc itself if no body is
// found or the body has no children.
func bodyOrDocument(doc *html.Node) *html.Node {
	nodes := matchAll(doc, "body")
	if len(nodes) == 0 || nodes[0].FirstChild == nil {
		return doc
	}
	return nodes[0]
}

// normalizeCodeLanguages sets a normalized data-language attribute on every
// <code> element whose class (or existing data-language) matches a known
// highlighter convention, so the Markdown converter's code-fence renderer
// can pick up the language tag regardless of which convention the source
// site used.
func normalizeCodeLanguages(root *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Code {
			if lang := inferCodeLanguage(n); lang != "" {
				setAttr(n, "data-language", lang)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

func inferCodeLanguage(n *html.Node) string {
	if lang, ok := findAttr(n, "data-language"); ok && lang != "" {
		return lang
	}
	class := attrValue(n, "class")
	if m := codeLanguageRe.FindStringSubmatch(class); m != nil {
		return m[1]
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// literalizePreBreaks replaces <br> elements inside <pre> with literal
// newline text nodes, per the HtmlToMarkdown contract.
func literalizePreBreaks(root *html.Node) {
	for _, pre := range matchAll(root, "pre") {
		var brs []*html.Node
		var collect func(*html.Node)
		collect = func(n *html.Node) {
			if n.Type == html.ElementNode && n.DataAtom == atom.Br {
				brs = append(brs, n)
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				collect(c)
			}
		}
		collect(pre)

		for _, br := range brs {
			nl := &html.Node{Type: html.TextNode, Data: "\n"}
			br.Parent.InsertBefore(nl, br)
			br.Parent.RemoveChild(br)
		}
	}
}
