// Package httpapi exposes a small chi-based debug HTTP server over a Store:
// a liveness check and a read-only hybrid-search endpoint. Grounded on
// horos47/core/chassis.Server's chi wiring (Logger/Recoverer/RequestID
// middleware) and the gateway service's writeJSON/writeError/queryInt
// helpers (cmd/chrc/main.go), trimmed to the two routes this spec needs —
// this system has no write-side HTTP surface, ingestion happens through
// the scrape/ crawler, not a request handler.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/traildex/docindex/embed"
	"github.com/traildex/docindex/store"
)

// Server is the debug HTTP surface over a hybrid Store.
type Server struct {
	store    *store.Store
	embedder embed.Embedder
	logger   *slog.Logger
	router   *chi.Mux
}

// NewServer builds a Server and registers its routes.
func NewServer(st *store.Store, embedder embed.Embedder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{store: st, embedder: embedder, logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/search", s.handleSearch)

	s.router = r
	return s
}

// Router returns the http.Handler to pass to http.Server.Handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// searchResult mirrors store.ScoredDoc for the wire format, keeping
// Embedding out of the response — callers want the ranked text, its
// metadata and its score, not the raw vector.
type searchResult struct {
	ID       int64             `json:"id"`
	Library  string            `json:"library"`
	Version  string            `json:"version"`
	URL      string            `json:"url"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score"`
}

// handleSearch runs a hybrid FTS+vector query scoped to one library/version.
// GET /search?library=&version=&q=&limit=
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	library := q.Get("library")
	query := q.Get("q")
	if library == "" || query == "" {
		writeError(w, http.StatusBadRequest, "library and q are required")
		return
	}
	version := q.Get("version")
	limit := queryInt(r, "limit", 20)

	docs, err := s.store.FindByContent(r.Context(), library, version, query, limit, s.embedder)
	if err != nil {
		s.logger.Error("search failed", "library", library, "version", version, "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
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
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
