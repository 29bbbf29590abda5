package pipeline

import (
	"errors"
	"testing"

	"github.com/traildex/docindex/config"
)

type recordingMiddleware struct {
	name         string
	order        *[]string
	shortCircuit bool
	fail         error
}

func (m *recordingMiddleware) Name() string { return m.name }

func (m *recordingMiddleware) Process(ctx *ProcessingContext, next func(*ProcessingContext) error) error {
	*m.order = append(*m.order, m.name)
	if m.fail != nil {
		return m.fail
	}
	if m.shortCircuit {
		return nil
	}
	return next(ctx)
}

func TestPipeline_RunsStagesInOrder(t *testing.T) {
	var order []string
	p := New(
		&recordingMiddleware{name: "a", order: &order},
		&recordingMiddleware{name: "b", order: &order},
		&recordingMiddleware{name: "c", order: &order},
	)
	ctx := newTestCtx()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestPipeline_ShortCircuitStopsChain(t *testing.T) {
	var order []string
	p := New(
		&recordingMiddleware{name: "a", order: &order},
		&recordingMiddleware{name: "b", order: &order, shortCircuit: true},
		&recordingMiddleware{name: "c", order: &order},
	)
	ctx := newTestCtx()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("order = %v, want 2 entries (c never runs)", order)
	}
}

func TestPipeline_ErrorAbortsAndWrapsStageName(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	p := New(
		&recordingMiddleware{name: "a", order: &order},
		&recordingMiddleware{name: "b", order: &order, fail: boom},
		&recordingMiddleware{name: "c", order: &order},
	)
	ctx := newTestCtx()
	err := p.Run(ctx)
	if err == nil {
		t.Fatal("Run: want error")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("Run: err = %v, want wrapping %v", err, boom)
	}
	if len(order) != 2 {
		t.Fatalf("order = %v, want 2 entries (c never runs)", order)
	}
}

func newTestCtx() *ProcessingContext {
	opts := config.NewScraperOptions("https://example.com", "example", "v1")
	return New("https://example.com", "text/html", []byte("<html></html>"), opts)
}
