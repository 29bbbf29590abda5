package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/traildex/docindex/embed"
	"github.com/traildex/docindex/internal/dbopen"
)

// Store is the hybrid retrieval index: a SQLite-backed content table
// shadowed by an FTS5 index and a plain vector table, scoped by
// (library, version). A single Store owns one database file; SQLite
// serializes writers internally, so Store is safe for concurrent use by
// multiple crawler workers (spec §5: "Store: single writer; readers may
// run concurrently with WAL mode enabled").
type Store struct {
	db  *sql.DB
	dim int
}

// Open opens (creating if necessary) a Store at path, applies the schema,
// and reconciles the configured vector dimension against what was recorded
// on a previous run. dim is the Store's effective VECTOR_DIMENSION: every
// embedding given to AddDocuments must have exactly this length. The
// commands in cmd/docindex pass their configured Embedder's Dimension()
// directly; the Store itself neither pads nor truncates vectors.
func Open(path string, dim int) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(schema))
	if err != nil {
		return nil, &ConnectionError{Path: path, Err: err}
	}
	if path == ":memory:" {
		// Every new connection to ":memory:" is a separate, empty database;
		// pin the pool to one connection so the schema above stays visible.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, dim: dim}
	if err := s.reconcileDimension(dim); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) reconcileDimension(dim int) error {
	var stored string
	err := s.db.QueryRow(`SELECT value FROM _meta WHERE key = ?`, metaKeyVectorDimension).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		_, err := s.db.Exec(`INSERT INTO _meta (key, value) VALUES (?, ?)`, metaKeyVectorDimension, strconv.Itoa(dim))
		if err != nil {
			return fmt.Errorf("store: record vector dimension: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("store: read stored vector dimension: %w", err)
	}

	storedDim, err := strconv.Atoi(stored)
	if err != nil {
		return fmt.Errorf("store: corrupt stored vector dimension %q: %w", stored, err)
	}
	if storedDim != dim {
		return &DimensionError{Stored: storedDim, Current: dim}
	}
	return nil
}

// AddDocuments inserts docs into documents, documents_fts (via trigger),
// and documents_vec, in one transaction. Every doc must already carry an
// Embedding of exactly the Store's configured dimension — the Store does
// not call the Embedder itself, keeping network I/O out of the write
// transaction's critical section.
func (s *Store) AddDocuments(ctx context.Context, library, version string, docs []Document) error {
	library = strings.ToLower(library)
	version = strings.ToLower(version)

	for i, d := range docs {
		if len(d.Embedding) != s.dim {
			return &DimensionError{Stored: s.dim, Current: len(d.Embedding)}
		}
		docs[i].Library = library
		docs[i].Version = version
	}

	return dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, d := range docs {
			metaJSON, err := json.Marshal(d.Metadata)
			if err != nil {
				return fmt.Errorf("store: marshal metadata: %w", err)
			}

			res, err := tx.ExecContext(ctx,
				`INSERT INTO documents (library, version, url, content, metadata_json) VALUES (?, ?, ?, ?, ?)`,
				d.Library, d.Version, d.URL, d.Content, string(metaJSON))
			if err != nil {
				return fmt.Errorf("store: insert document: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("store: last insert id: %w", err)
			}

			norm := embed.CalculateNorm(d.Embedding)
			_, err = tx.ExecContext(ctx,
				`INSERT INTO documents_vec (id, embedding, norm) VALUES (?, ?, ?)`,
				id, embed.SerializeVector(d.Embedding), norm)
			if err != nil {
				return fmt.Errorf("store: insert vector: %w", err)
			}
		}
		return nil
	})
}

// RemoveDocuments cascade-deletes every document in (library, version),
// optionally narrowed to URLs with the given prefix, in one transaction.
// documents_fts and documents_vec are kept consistent by the AFTER DELETE
// trigger and the FOREIGN KEY ... ON DELETE CASCADE respectively.
func (s *Store) RemoveDocuments(ctx context.Context, library, version, urlPrefix string) error {
	library = strings.ToLower(library)
	version = strings.ToLower(version)

	return dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		query := `DELETE FROM documents WHERE library = ? AND version = ?`
		args := []any{library, version}
		if urlPrefix != "" {
			query += ` AND url LIKE ? ESCAPE '\'`
			args = append(args, escapeLikePrefix(urlPrefix)+"%")
		}
		_, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("store: remove documents: %w", err)
		}
		return nil
	})
}

// GetById returns the document with the given id, or *DocumentNotFound.
func (s *Store) GetById(ctx context.Context, id int64) (*Document, error) {
	var d Document
	var metaJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, library, version, url, content, metadata_json FROM documents WHERE id = ?`, id,
	).Scan(&d.ID, &d.Library, &d.Version, &d.URL, &d.Content, &metaJSON)
	if err == sql.ErrNoRows {
		return nil, &DocumentNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("store: get document %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(metaJSON), &d.Metadata); err != nil {
		return nil, fmt.Errorf("store: unmarshal metadata for document %d: %w", id, err)
	}
	return &d, nil
}

// CheckExists reports whether any document is indexed for (library, version).
func (s *Store) CheckExists(ctx context.Context, library, version string) (bool, error) {
	library = strings.ToLower(library)
	version = strings.ToLower(version)

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE library = ? AND version = ? LIMIT 1`, library, version,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("store: check exists: %w", err)
	}
	return n > 0, nil
}

// ListVersions returns the distinct versions indexed for library.
func (s *Store) ListVersions(ctx context.Context, library string) ([]string, error) {
	library = strings.ToLower(library)

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT version FROM documents WHERE library = ? ORDER BY version`, library)
	if err != nil {
		return nil, fmt.Errorf("store: list versions: %w", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("store: scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func escapeLikePrefix(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
