package embed

import (
	"context"
	"errors"
	"testing"
)

type fixedDimEmbedder struct {
	dim int
}

func (f *fixedDimEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, f.dim), nil
}
func (f *fixedDimEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}
func (f *fixedDimEmbedder) Dimension() int { return f.dim }
func (f *fixedDimEmbedder) Model() string  { return "fixed" }

func TestFixedDimensionEmbeddings_PassThrough(t *testing.T) {
	inner := &fixedDimEmbedder{dim: 768}
	w, err := NewFixedDimensionEmbeddings(context.Background(), inner, 768, false)
	if err != nil {
		t.Fatalf("NewFixedDimensionEmbeddings: %v", err)
	}
	vec, err := w.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 768 {
		t.Fatalf("len(vec) = %d, want 768", len(vec))
	}
}

func TestFixedDimensionEmbeddings_ZeroPads(t *testing.T) {
	inner := &fixedDimEmbedder{dim: 384}
	w, err := NewFixedDimensionEmbeddings(context.Background(), inner, 768, false)
	if err != nil {
		t.Fatalf("NewFixedDimensionEmbeddings: %v", err)
	}
	vec, err := w.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 768 {
		t.Fatalf("len(vec) = %d, want 768", len(vec))
	}
	for i := 384; i < 768; i++ {
		if vec[i] != 0 {
			t.Fatalf("vec[%d] = %v, want 0 (padding)", i, vec[i])
		}
	}
}

func TestFixedDimensionEmbeddings_TruncatesWhenAllowed(t *testing.T) {
	inner := &fixedDimEmbedder{dim: 1536}
	w, err := NewFixedDimensionEmbeddings(context.Background(), inner, 768, true)
	if err != nil {
		t.Fatalf("NewFixedDimensionEmbeddings: %v", err)
	}
	vec, err := w.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 768 {
		t.Fatalf("len(vec) = %d, want 768", len(vec))
	}
}

func TestFixedDimensionEmbeddings_ErrorsWhenTruncationDisallowed(t *testing.T) {
	inner := &fixedDimEmbedder{dim: 1536}
	_, err := NewFixedDimensionEmbeddings(context.Background(), inner, 768, false)
	if err == nil {
		t.Fatal("NewFixedDimensionEmbeddings: want DimensionError")
	}
	var dimErr *DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("err = %T, want *DimensionError", err)
	}
}

func TestCosineSimilarity_IdenticalVectorsIsOne(t *testing.T) {
	v := []float32{1, 2, 3}
	got := CosineSimilarity(v, v)
	if got < 0.999999 || got > 1.000001 {
		t.Fatalf("CosineSimilarity(v, v) = %v, want ~1.0", got)
	}
}

func TestCosineSimilarity_OrthogonalIsZero(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Fatalf("CosineSimilarity = %v, want 0", got)
	}
}

func TestSerializeDeserializeVector_RoundTrips(t *testing.T) {
	v := []float32{1.5, -2.25, 0, 3.125}
	got := DeserializeVector(SerializeVector(v))
	if len(got) != len(v) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(v))
	}
	for i := range v {
		if got[i] != v[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], v[i])
		}
	}
}
