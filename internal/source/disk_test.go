package source

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/scavenger/screenshot-scavenger/internal/raster"
)

func TestMain(m *testing.M) {
	raster.Startup()
	code := m.Run()
	raster.Shutdown()
	os.Exit(code)
}

func writeFixturePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture PNG: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
}

func TestDiskSourceIteratesInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFixturePNG(t, filepath.Join(dir, "b.png"))
	writeFixturePNG(t, filepath.Join(dir, "a.png"))
	writeFixturePNG(t, filepath.Join(dir, "c.png"))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatalf("writing non-image fixture: %v", err)
	}

	ds, err := NewDiskSource(dir)
	if err != nil {
		t.Fatalf("NewDiskSource: %v", err)
	}
	defer ds.Shutdown()

	var seen []string
	seen = append(seen, ds.CurrentID())
	for {
		if err := ds.Next(); err != nil {
			break
		}
		seen = append(seen, ds.CurrentID())
	}

	want := []string{"a.png", "b.png", "c.png"}
	if len(seen) != len(want) {
		t.Fatalf("visited %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("visited[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestNewDiskSourceEmptyDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewDiskSource(dir); err == nil {
		t.Error("NewDiskSource on an empty directory should return an error")
	}
}

func TestNewDiskSourceNonexistentDirectoryFails(t *testing.T) {
	if _, err := NewDiskSource(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("NewDiskSource on a nonexistent directory should return an error")
	}
}
