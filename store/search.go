package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/traildex/docindex/embed"
)

const rrfK = 60

// ScoredDoc is a Document annotated with its fused retrieval score.
type ScoredDoc struct {
	Document
	Score float64
}

// FindByContent runs the hybrid search described in spec §4.G: a vector
// candidate set (brute-force cosine scan over documents_vec, since
// modernc.org/sqlite carries no ANN virtual table) and an FTS5 candidate
// set, both scoped to (library, version) and capped at limit, fused by
// Reciprocal Rank Fusion.
func (s *Store) FindByContent(ctx context.Context, library, version, query string, limit int, embedder embed.Embedder) ([]ScoredDoc, error) {
	library = strings.ToLower(library)
	version = strings.ToLower(version)
	if limit <= 0 {
		limit = 10
	}

	queryVec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: embed query: %w", err)
	}

	vecRanked, err := s.vectorCandidates(ctx, library, version, queryVec, limit)
	if err != nil {
		return nil, err
	}
	ftsRanked, err := s.ftsCandidates(ctx, library, version, query, limit)
	if err != nil {
		return nil, err
	}

	fused := fuseRRF(vecRanked, ftsRanked)
	if len(fused) > limit {
		fused = fused[:limit]
	}

	out := make([]ScoredDoc, 0, len(fused))
	for _, f := range fused {
		doc, err := s.GetById(ctx, f.id)
		if err != nil {
			return nil, err
		}
		out = append(out, ScoredDoc{Document: *doc, Score: f.score})
	}
	return out, nil
}

// vectorCandidates returns document ids ranked by cosine similarity to
// queryVec, scoped to (library, version). A full scan is acceptable at the
// per-library document counts this system targets (spec §4.G design note);
// norm is precomputed at insert time so the scan avoids recomputing it per
// row.
func (s *Store) vectorCandidates(ctx context.Context, library, version string, queryVec []float32, limit int) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.embedding, v.norm
		FROM documents_vec v
		JOIN documents d ON d.id = v.id
		WHERE d.library = ? AND d.version = ?`, library, version)
	if err != nil {
		return nil, fmt.Errorf("store: vector candidates: %w", err)
	}
	defer rows.Close()

	queryNorm := embed.CalculateNorm(queryVec)
	type scored = struct {
		id    int64
		score float64
	}
	var all []scored
	for rows.Next() {
		var id int64
		var blob []byte
		var norm float64
		if err := rows.Scan(&id, &blob, &norm); err != nil {
			return nil, fmt.Errorf("store: scan vector row: %w", err)
		}
		vec := embed.DeserializeVector(blob)
		sim := embed.CosineSimilarityOptimized(queryVec, vec, queryNorm, norm)
		all = append(all, scored{id: id, score: sim})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Insertion-sort every scanned row by score descending, then keep the
	// first limit.
	sortScoredDesc(all)
	if len(all) > limit {
		all = all[:limit]
	}
	ids := make([]int64, len(all))
	for i, a := range all {
		ids[i] = a.id
	}
	return ids, nil
}

func sortScoredDesc(s []struct {
	id    int64
	score float64
}) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].score > s[j-1].score; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// ftsCandidates returns document ids ranked by FTS5 bm25 relevance,
// scoped to (library, version).
func (s *Store) ftsCandidates(ctx context.Context, library, version, query string, limit int) ([]int64, error) {
	escaped := EscapeFTSQuery(query)

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id
		FROM documents_fts f
		JOIN documents d ON d.id = f.rowid
		WHERE f.content MATCH ? AND d.library = ? AND d.version = ?
		ORDER BY bm25(documents_fts)
		LIMIT ?`, escaped, library, version, limit)
	if err != nil {
		return nil, fmt.Errorf("store: fts candidates: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan fts row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// EscapeFTSQuery neutralizes FTS5 query-syntax operators (AND, OR, NEAR,
// *, parentheses) by wrapping the entire user string in double quotes and
// doubling every embedded double quote, forcing SQLite to treat the whole
// input as a single phrase query regardless of content (spec §4.G,
// §8 scenario 4). The teacher's own search.go files (domkeeper, veille) use
// bare user input as the MATCH argument without escaping — this wrapper has
// no direct teacher precedent and is derived from the spec's own design
// note instead.
func EscapeFTSQuery(q string) string {
	return `"` + strings.ReplaceAll(q, `"`, `""`) + `"`
}

type rrfCandidate struct {
	id    int64
	score float64
}

// fuseRRF combines two rank-ordered id lists via Reciprocal Rank Fusion:
// each row accumulates 1/(k+r) for its 1-indexed rank in every list it
// appears in. Rows are returned sorted by fused score descending, ties
// broken by id ascending for a total order (spec §4.G invariant).
func fuseRRF(lists ...[]int64) []rrfCandidate {
	scores := make(map[int64]float64)
	var order []int64
	seen := make(map[int64]bool)

	for _, list := range lists {
		for r, id := range list {
			scores[id] += 1.0 / float64(rrfK+r+1)
			if !seen[id] {
				seen[id] = true
				order = append(order, id)
			}
		}
	}

	out := make([]rrfCandidate, len(order))
	for i, id := range order {
		out[i] = rrfCandidate{id: id, score: scores[id]}
	}

	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := out[j], out[j-1]
			if a.score > b.score || (a.score == b.score && a.id < b.id) {
				out[j], out[j-1] = out[j-1], out[j]
			} else {
				break
			}
		}
	}
	return out
}
