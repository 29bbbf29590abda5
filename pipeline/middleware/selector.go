package middleware

import (
	"strings"

	"golang.org/x/net/html"
)

// selector is a parsed simple CSS selector: tag, .class, #id, [attr],
// [attr=val], or a combination (div#main.content[role=main]). Ported from
// extract/css.go's parseSimpleSelector/matchesSelector, shared by
// HtmlSanitizer (to remove excluded nodes) and any future selector-scoped
// extractor.
type selector struct {
	tag     string
	id      string
	class   string
	attrKey string
	attrVal string
}

// parseSelector parses one simple selector (no descendant combinators).
func parseSelector(sel string) selector {
	var s selector

	if idx := strings.IndexByte(sel, '['); idx >= 0 {
		attrPart := strings.TrimRight(sel[idx+1:], "]")
		sel = sel[:idx]
		if eqIdx := strings.IndexByte(attrPart, '='); eqIdx >= 0 {
			s.attrKey = attrPart[:eqIdx]
			s.attrVal = strings.Trim(attrPart[eqIdx+1:], `"'`)
		} else {
			s.attrKey = attrPart
		}
	}

	if idx := strings.IndexByte(sel, '#'); idx >= 0 {
		id := sel[idx+1:]
		sel = sel[:idx]
		if dot := strings.IndexByte(id, '.'); dot >= 0 {
			sel += id[dot:]
			id = id[:dot]
		}
		s.id = id
	}

	if idx := strings.IndexByte(sel, '.'); idx >= 0 {
		s.class = sel[idx+1:]
		sel = sel[:idx]
	}

	s.tag = sel
	return s
}

func matches(n *html.Node, s selector) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.id != "" && attrValue(n, "id") != s.id {
		return false
	}
	if s.class != "" {
		found := false
		for _, c := range strings.Fields(attrValue(n, "class")) {
			if c == s.class {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if s.attrKey != "" {
		val, ok := findAttr(n, s.attrKey)
		if !ok {
			return false
		}
		if s.attrVal != "" && val != s.attrVal {
			return false
		}
	}
	return true
}

func attrValue(n *html.Node, key string) string {
	v, _ := findAttr(n, key)
	return v
}

func findAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// querySelectorAll finds every node matching a (possibly multi-part,
// space-separated descendant) CSS selector, rooted at root.
func querySelectorAll(root *html.Node, sel string) []*html.Node {
	parts := strings.Fields(sel)
	if len(parts) == 0 {
		return nil
	}

	matches := matchAll(root, parts[0])
	for i := 1; i < len(parts); i++ {
		var next []*html.Node
		for _, parent := range matches {
			next = append(next, matchAll(parent, parts[i])...)
		}
		matches = next
	}
	return matches
}

func matchAll(root *html.Node, sel string) []*html.Node {
	parsed := parseSelector(sel)
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if matches(n, parsed) {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return results
}

// removeNode detaches n from its parent's child list.
func removeNode(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}
