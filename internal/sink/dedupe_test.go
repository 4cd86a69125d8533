package sink

import (
	"path/filepath"
	"testing"

	"github.com/scavenger/screenshot-scavenger/internal/dedupe"
	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
)

type recordingSink struct {
	written []string
	closed  bool
}

func (r *recordingSink) Write(res pipeline.Result) error {
	r.written = append(r.written, res.ImageID())
	return nil
}

func (r *recordingSink) Close() error {
	r.closed = true
	return nil
}

func TestDedupingSinkSkipsRepeatedContent(t *testing.T) {
	store, err := dedupe.Open(filepath.Join(t.TempDir(), "dedupe.bitcask"))
	if err != nil {
		t.Fatalf("dedupe.Open: %v", err)
	}

	rec := &recordingSink{}
	dedupingSink := NewDedupingSink(rec, store)

	res1 := newTestResultWithPixel(t, "a", "d", "img-1", "same content", 42)
	res2 := newTestResultWithPixel(t, "a", "d", "img-2", "same content", 42) // identical raster bytes, different id

	if err := dedupingSink.Write(res1); err != nil {
		t.Fatalf("Write res1: %v", err)
	}
	if err := dedupingSink.Write(res2); err != nil {
		t.Fatalf("Write res2: %v", err)
	}

	if len(rec.written) != 1 {
		t.Fatalf("expected only the first of two identical-content results to reach the inner sink, got %v", rec.written)
	}
	if rec.written[0] != "img-1" {
		t.Errorf("expected img-1 to be the one written, got %q", rec.written[0])
	}

	if err := dedupingSink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !rec.closed {
		t.Error("expected inner sink to be closed")
	}
}

func TestDedupingSinkAllowsDistinctContent(t *testing.T) {
	store, err := dedupe.Open(filepath.Join(t.TempDir(), "dedupe.bitcask"))
	if err != nil {
		t.Fatalf("dedupe.Open: %v", err)
	}

	rec := &recordingSink{}
	dedupingSink := NewDedupingSink(rec, store)

	if err := dedupingSink.Write(newTestResult(t, "a", "d", "img-1", "text one")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := dedupingSink.Write(newTestResult(t, "a", "d", "img-2", "text one")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if len(rec.written) != 2 {
		t.Fatalf("expected two distinct-content results to both reach the inner sink, got %v", rec.written)
	}
}
