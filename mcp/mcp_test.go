package mcp

import (
	"context"
	"encoding/json"
	"testing"

	gosdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/traildex/docindex/embed"
	"github.com/traildex/docindex/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", 4)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func callToolRequest(t *testing.T, args any) *gosdkmcp.CallToolRequest {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	req := &gosdkmcp.CallToolRequest{}
	req.Params.Arguments = raw
	return req
}

func TestSearchHandler_ReturnsStoredDocument(t *testing.T) {
	st := newTestStore(t)
	embedder := embed.New(embed.Config{Dimension: 4})

	err := st.AddDocuments(context.Background(), "acme", "v1", []store.Document{
		{URL: "https://docs.acme.dev/guide", Content: "install the widget package", Embedding: make([]float32, 4)},
	})
	if err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	handler := searchHandler(st, embedder)
	res, err := handler(context.Background(), callToolRequest(t, searchRequest{
		Library: "acme", Version: "v1", Query: "widget",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatalf("handler returned tool error: %+v", res.Content)
	}

	text := res.Content[0].(*gosdkmcp.TextContent).Text
	var results []searchResult
	if err := json.Unmarshal([]byte(text), &results); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(results) != 1 || results[0].URL != "https://docs.acme.dev/guide" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSearchHandler_InvalidArgumentsReturnsToolError(t *testing.T) {
	st := newTestStore(t)
	embedder := embed.New(embed.Config{Dimension: 4})

	handler := searchHandler(st, embedder)
	req := &gosdkmcp.CallToolRequest{}
	req.Params.Arguments = []byte(`{not json`)

	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool-level error result for invalid JSON arguments")
	}
}

func TestListVersionsHandler_ReturnsIndexedVersions(t *testing.T) {
	st := newTestStore(t)

	err := st.AddDocuments(context.Background(), "acme", "v1", []store.Document{
		{URL: "https://docs.acme.dev/guide", Content: "hello", Embedding: make([]float32, 4)},
	})
	if err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	handler := listVersionsHandler(st)
	res, err := handler(context.Background(), callToolRequest(t, listVersionsRequest{Library: "acme"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	text := res.Content[0].(*gosdkmcp.TextContent).Text
	var versions []string
	if err := json.Unmarshal([]byte(text), &versions); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(versions) != 1 || versions[0] != "v1" {
		t.Fatalf("unexpected versions: %v", versions)
	}
}
