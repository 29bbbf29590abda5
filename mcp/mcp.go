// Package mcp exposes the Store's hybrid search and its version listing as
// two MCP tools, so an agent's host process can query indexed documentation
// the same way the debug httpapi server does. Grounded on domkeeper/mcp.go's
// RegisterMCP / inputSchema / decode-endpoint-marshal shape; inlined rather
// than routed through kit.RegisterMCPTool, since kit's generic Endpoint
// plumbing isn't part of this module and two tools don't need it.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	gosdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/traildex/docindex/embed"
	"github.com/traildex/docindex/store"
)

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

type searchRequest struct {
	Library string `json:"library"`
	Version string `json:"version,omitempty"`
	Query   string `json:"query"`
	Limit   int    `json:"limit,omitempty"`
}

type searchResult struct {
	ID       int64             `json:"id"`
	Library  string            `json:"library"`
	Version  string            `json:"version"`
	URL      string            `json:"url"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score"`
}

// RegisterTools registers docindex's MCP tools on srv.
func RegisterTools(srv *gosdkmcp.Server, st *store.Store, embedder embed.Embedder) {
	registerSearchTool(srv, st, embedder)
	registerListVersionsTool(srv, st)
}

func registerSearchTool(srv *gosdkmcp.Server, st *store.Store, embedder embed.Embedder) {
	tool := &gosdkmcp.Tool{
		Name:        "docindex_search",
		Description: "Hybrid full-text and vector search over indexed library documentation. Returns ranked chunks matching the query.",
		InputSchema: inputSchema(map[string]any{
			"library": map[string]any{"type": "string", "description": "Library name to search within"},
			"version": map[string]any{"type": "string", "description": "Version to search within; omit for the unversioned scope"},
			"query":   map[string]any{"type": "string", "description": "Natural-language or keyword search query"},
			"limit":   map[string]any{"type": "integer", "description": "Max results (default 10)"},
		}, []string{"library", "query"}),
	}

	srv.AddTool(tool, searchHandler(st, embedder))
}

// searchHandler is split out from registerSearchTool so it can be exercised
// directly in tests without a live *mcp.Server.
func searchHandler(st *store.Store, embedder embed.Embedder) func(context.Context, *gosdkmcp.CallToolRequest) (*gosdkmcp.CallToolResult, error) {
	return func(ctx context.Context, req *gosdkmcp.CallToolRequest) (*gosdkmcp.CallToolResult, error) {
		var r searchRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			var res gosdkmcp.CallToolResult
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}

		docs, err := st.FindByContent(ctx, r.Library, r.Version, r.Query, r.Limit, embedder)
		if err != nil {
			var res gosdkmcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		out := make([]searchResult, len(docs))
		for i, d := range docs {
			out[i] = searchResult{
				ID:       d.ID,
				Library:  d.Library,
				Version:  d.Version,
				URL:      d.URL,
				Content:  d.Content,
				Metadata: d.Metadata,
				Score:    d.Score,
			}
		}

		data, err := json.Marshal(out)
		if err != nil {
			var res gosdkmcp.CallToolResult
			res.SetError(fmt.Errorf("marshal results: %w", err))
			return &res, nil
		}
		return &gosdkmcp.CallToolResult{
			Content: []gosdkmcp.Content{&gosdkmcp.TextContent{Text: string(data)}},
		}, nil
	}
}

type listVersionsRequest struct {
	Library string `json:"library"`
}

func registerListVersionsTool(srv *gosdkmcp.Server, st *store.Store) {
	tool := &gosdkmcp.Tool{
		Name:        "docindex_list_versions",
		Description: "List the versions of a library currently indexed.",
		InputSchema: inputSchema(map[string]any{
			"library": map[string]any{"type": "string", "description": "Library name"},
		}, []string{"library"}),
	}

	srv.AddTool(tool, listVersionsHandler(st))
}

// listVersionsHandler is split out from registerListVersionsTool so it can
// be exercised directly in tests without a live *mcp.Server.
func listVersionsHandler(st *store.Store) func(context.Context, *gosdkmcp.CallToolRequest) (*gosdkmcp.CallToolResult, error) {
	return func(ctx context.Context, req *gosdkmcp.CallToolRequest) (*gosdkmcp.CallToolResult, error) {
		var r listVersionsRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			var res gosdkmcp.CallToolResult
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}

		versions, err := st.ListVersions(ctx, r.Library)
		if err != nil {
			var res gosdkmcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		data, err := json.Marshal(versions)
		if err != nil {
			var res gosdkmcp.CallToolResult
			res.SetError(fmt.Errorf("marshal results: %w", err))
			return &res, nil
		}
		return &gosdkmcp.CallToolResult{
			Content: []gosdkmcp.Content{&gosdkmcp.TextContent{Text: string(data)}},
		}, nil
	}
}
