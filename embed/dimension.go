package embed

import (
	"context"
	"fmt"
)

// DimensionError reports that an inner Embedder's native dimension exceeds
// the target dimension while truncation is not allowed, surfaced at
// initialization rather than silently truncating (spec §9 design note). A
// smaller inner dimension is zero-padded instead and is not an error.
type DimensionError struct {
	Inner  int
	Target int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embed: inner dimension %d exceeds target %d and truncation is not allowed", e.Inner, e.Target)
}

// FixedDimensionEmbeddings wraps an inner Embedder and normalizes every
// vector it produces to exactly TargetDim, per spec §4.F:
//   - inner == target: pass through unchanged.
//   - inner < target: zero-pad to target (preserves dot products, so
//     cosine/inner-product comparisons against other normalized vectors
//     stay meaningful).
//   - inner > target: truncate to the target prefix if AllowTruncation is
//     set (Matryoshka-style models are trained so a prefix remains a valid
//     embedding); otherwise return a DimensionError.
type FixedDimensionEmbeddings struct {
	Inner           Embedder
	TargetDim       int
	AllowTruncation bool
}

// NewFixedDimensionEmbeddings wraps inner, probing its dimension with a
// sentinel call if Dimension() is not yet known (spec §4.G: "a sentinel
// embedding of a known test string ... is used to probe the effective
// dimension").
func NewFixedDimensionEmbeddings(ctx context.Context, inner Embedder, targetDim int, allowTruncation bool) (*FixedDimensionEmbeddings, error) {
	w := &FixedDimensionEmbeddings{Inner: inner, TargetDim: targetDim, AllowTruncation: allowTruncation}

	dim := inner.Dimension()
	if dim == 0 {
		vec, err := inner.Embed(ctx, "dimension probe")
		if err != nil {
			return nil, fmt.Errorf("embed: probe dimension: %w", err)
		}
		dim = len(vec)
	}

	if dim > targetDim && !allowTruncation {
		return nil, &DimensionError{Inner: dim, Target: targetDim}
	}
	return w, nil
}

func (w *FixedDimensionEmbeddings) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := w.Inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return w.normalize(vec)
}

func (w *FixedDimensionEmbeddings) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := w.Inner.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	out := make([][]float32, len(vecs))
	for i, v := range vecs {
		nv, err := w.normalize(v)
		if err != nil {
			return nil, err
		}
		out[i] = nv
	}
	return out, nil
}

func (w *FixedDimensionEmbeddings) Dimension() int { return w.TargetDim }
func (w *FixedDimensionEmbeddings) Model() string  { return w.Inner.Model() }

func (w *FixedDimensionEmbeddings) normalize(vec []float32) ([]float32, error) {
	switch {
	case len(vec) == w.TargetDim:
		return vec, nil
	case len(vec) < w.TargetDim:
		padded := make([]float32, w.TargetDim)
		copy(padded, vec)
		return padded, nil
	default:
		if !w.AllowTruncation {
			return nil, &DimensionError{Inner: len(vec), Target: w.TargetDim}
		}
		return append([]float32(nil), vec[:w.TargetDim]...), nil
	}
}
