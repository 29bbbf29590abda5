package middleware

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parseDoc(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}
	return doc
}

func TestQuerySelectorAll_Class(t *testing.T) {
	doc := parseDoc(t, `<html><body><div class="sidebar">nav</div><div class="content">body</div></body></html>`)
	nodes := querySelectorAll(doc, ".sidebar")
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
}

func TestQuerySelectorAll_IDAndAttr(t *testing.T) {
	doc := parseDoc(t, `<html><body><div id="main" data-role="content">x</div></body></html>`)
	if got := querySelectorAll(doc, "#main"); len(got) != 1 {
		t.Fatalf("#main: got %d, want 1", len(got))
	}
	if got := querySelectorAll(doc, "div[data-role=content]"); len(got) != 1 {
		t.Fatalf("div[data-role=content]: got %d, want 1", len(got))
	}
	if got := querySelectorAll(doc, "div[data-role=other]"); len(got) != 0 {
		t.Fatalf("div[data-role=other]: got %d, want 0", len(got))
	}
}

func TestQuerySelectorAll_DescendantCombinator(t *testing.T) {
	doc := parseDoc(t, `<html><body><nav><ul class="menu"><li>a</li></ul></nav></body></html>`)
	nodes := querySelectorAll(doc, "nav .menu")
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
}

func TestRemoveNode(t *testing.T) {
	doc := parseDoc(t, `<html><body><div class="ad">remove me</div><p>keep</p></body></html>`)
	for _, n := range querySelectorAll(doc, ".ad") {
		removeNode(n)
	}
	if got := querySelectorAll(doc, ".ad"); len(got) != 0 {
		t.Fatalf("node still present after removeNode")
	}
}
