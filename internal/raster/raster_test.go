package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	Startup()
	code := m.Run()
	Shutdown()
	os.Exit(code)
}

func fixturePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture PNG: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeRejectsEmptyBuffer(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Error("Decode(nil) should return an error")
	}
	if _, err := Decode([]byte{}); err == nil {
		t.Error("Decode([]byte{}) should return an error")
	}
}

func TestDecodeDimensions(t *testing.T) {
	r, err := Decode(fixturePNG(t, 4, 3))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer r.Close()

	if got := r.Width(); got != 4 {
		t.Errorf("Width() = %d, want 4", got)
	}
	if got := r.Height(); got != 3 {
		t.Errorf("Height() = %d, want 3", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r, err := Decode(fixturePNG(t, 5, 5))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer r.Close()

	clone, err := r.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	defer clone.Close()

	if clone.Width() != r.Width() || clone.Height() != r.Height() {
		t.Errorf("clone dimensions (%d,%d) differ from original (%d,%d)", clone.Width(), clone.Height(), r.Width(), r.Height())
	}

	if err := clone.Grayscale(); err != nil {
		t.Fatalf("Grayscale on clone: %v", err)
	}
	// The original must still decode and report its original dimensions;
	// mutating the clone must not touch the source raster.
	if r.Width() != 5 || r.Height() != 5 {
		t.Errorf("original raster mutated by clone's Grayscale call")
	}
}

func TestEncodePNGRoundTrips(t *testing.T) {
	r, err := Decode(fixturePNG(t, 6, 2))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer r.Close()

	encoded, err := r.EncodePNG()
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	roundTripped, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode(EncodePNG()): %v", err)
	}
	defer roundTripped.Close()

	if roundTripped.Width() != 6 || roundTripped.Height() != 2 {
		t.Errorf("round-tripped dimensions (%d,%d), want (6,2)", roundTripped.Width(), roundTripped.Height())
	}
}

func TestNilRasterMethodsAreSafe(t *testing.T) {
	var r *Raster
	if got := r.Width(); got != 0 {
		t.Errorf("nil.Width() = %d, want 0", got)
	}
	if got := r.Height(); got != 0 {
		t.Errorf("nil.Height() = %d, want 0", got)
	}
	r.Close() // must not panic
}
