// Package raster wraps libvips-backed images so the rest of the pipeline
// never has to reason about encoded bytes or decode lifetimes directly.
package raster

import (
	"fmt"
	"sync"

	govips "github.com/davidbyttow/govips/v2/vips"
)

var startupOnce sync.Once

// Startup initializes the libvips runtime. Safe to call multiple times;
// only the first call takes effect. Callers that never decode an image
// (e.g. unit tests using fakes) need not call it.
func Startup() {
	startupOnce.Do(func() {
		govips.Startup(&govips.Config{
			ConcurrencyLevel: 4,
		})
	})
}

// Shutdown releases libvips resources. Should be called once at process exit.
func Shutdown() {
	govips.Shutdown()
}

// Raster is an immutable-to-callers handle on decoded pixel data. Every
// accessor that would otherwise expose the underlying buffer returns a
// defensive copy instead.
type Raster struct {
	ref *govips.ImageRef
}

// Decode loads an encoded image (PNG, JPEG, WebP, ...) into a Raster.
func Decode(encoded []byte) (*Raster, error) {
	if len(encoded) == 0 {
		return nil, fmt.Errorf("raster: cannot decode empty buffer")
	}
	ref, err := govips.NewImageFromBuffer(encoded)
	if err != nil {
		return nil, fmt.Errorf("raster: decode: %w", err)
	}
	return &Raster{ref: ref}, nil
}

// Width returns the pixel width of the image.
func (r *Raster) Width() int {
	if r == nil || r.ref == nil {
		return 0
	}
	return r.ref.Width()
}

// Height returns the pixel height of the image.
func (r *Raster) Height() int {
	if r == nil || r.ref == nil {
		return 0
	}
	return r.ref.Height()
}

// Clone returns a deep, independently-mutable copy of the raster. The text
// extractor is handed a clone so it is free to mutate its working copy
// (resize, grayscale, threshold, ...) without affecting the original that
// continues down the pipeline.
func (r *Raster) Clone() (*Raster, error) {
	if r == nil || r.ref == nil {
		return nil, fmt.Errorf("raster: clone of nil raster")
	}
	encoded, _, err := r.ref.ExportPng(govips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("raster: clone export: %w", err)
	}
	return Decode(encoded)
}

// EncodePNG returns the image encoded as PNG bytes, for writing to a sink.
func (r *Raster) EncodePNG() ([]byte, error) {
	if r == nil || r.ref == nil {
		return nil, fmt.Errorf("raster: encode of nil raster")
	}
	encoded, _, err := r.ref.ExportPng(govips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("raster: encode: %w", err)
	}
	return encoded, nil
}

// Grayscale mutates the raster in place, converting it to grayscale. Used by
// OCR adapters as a cheap pre-processing step on their working copy.
func (r *Raster) Grayscale() error {
	if r == nil || r.ref == nil {
		return fmt.Errorf("raster: grayscale of nil raster")
	}
	return r.ref.ToColorSpace(govips.InterpretationBW)
}

// Close releases the underlying libvips resources. Safe to call more than
// once.
func (r *Raster) Close() {
	if r == nil || r.ref == nil {
		return
	}
	r.ref.Close()
	r.ref = nil
}
