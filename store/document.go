// Package store implements the hybrid retrieval index (spec §4.G): a
// SQLite-backed content table shadowed by an FTS5 full-text index and a
// plain vector table, fused by Reciprocal Rank Fusion and scoped by
// (library, version). Grounded on domkeeper/internal/store's schema/FTS
// trigger pattern and horosembed/vector.go's serialization and cosine
// similarity.
package store

// Document is the persisted unit emitted by the pipeline's terminal
// Chunker middleware (spec §3). Embedding is left nil until the Crawler
// (or a backfill job) calls the Embed capability; Store.AddDocuments
// requires it to be populated before insertion.
type Document struct {
	ID       int64
	Library  string // lowercased
	Version  string // lowercased; "" is a valid unversioned sentinel
	URL      string // canonical source
	Content  string // UTF-8 text, typically Markdown
	Metadata map[string]string
	// Metadata["path"] holds the heading-stack breadcrumb as a
	// JSON-encoded []string, since Metadata itself is a free-form string
	// map (spec §3) rather than a nested structure.
	Embedding []float32
}
