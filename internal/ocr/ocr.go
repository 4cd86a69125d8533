// Package ocr adapts raster images to extracted text for the pipeline's
// TextExtractor stage.
package ocr

import "github.com/scavenger/screenshot-scavenger/internal/raster"

// TextExtractor converts a decoded image into whatever text can be read
// from it. Implementations absorb their own engine errors: a failed or
// empty extraction is reported as "", not as an error, since the pipeline
// treats missing OCR text as a valid (if uninteresting) outcome rather than
// a stage failure.
type TextExtractor interface {
	Extract(img *raster.Raster) string
}

// NoOpExtractor always returns a fixed sentinel string. It exists for
// pipelines that disable OCR entirely (spec.md's "no-op substitution for
// disabled features"), and for tests that want deterministic text without
// linking Tesseract.
type NoOpExtractor struct {
	Sentinel string
}

// DefaultSentinel is used by a NoOpExtractor constructed without an
// explicit sentinel.
const DefaultSentinel = "OCR DISABLED"

// NewNoOpExtractor returns a NoOpExtractor using DefaultSentinel.
func NewNoOpExtractor() *NoOpExtractor {
	return &NoOpExtractor{Sentinel: DefaultSentinel}
}

// Extract returns e.Sentinel regardless of img.
func (e *NoOpExtractor) Extract(img *raster.Raster) string {
	return e.Sentinel
}
