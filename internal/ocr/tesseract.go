package ocr

import (
	"sync"

	"github.com/otiai10/gosseract/v2"
	log "github.com/sirupsen/logrus"

	"github.com/scavenger/screenshot-scavenger/internal/raster"
)

// TesseractExtractor is the default TextExtractor, backed by a Tesseract
// client via gosseract. gosseract's *gosseract.Client is not safe for
// concurrent use, which matches the pipeline's thread-confinement
// invariant: the image-stage goroutine owns the extractor for its entire
// lifetime, so TesseractExtractor itself does not need its own locking for
// Extract calls in practice, but a mutex is kept to guard against a caller
// sharing one instance across goroutines by mistake.
type TesseractExtractor struct {
	mu        sync.Mutex
	client    *gosseract.Client
	languages []string
}

// TesseractOption configures a TesseractExtractor at construction time.
type TesseractOption func(*TesseractExtractor)

// WithLanguages sets the Tesseract language codes to load, e.g. "eng".
// Defaults to English if never called.
func WithLanguages(langs ...string) TesseractOption {
	return func(e *TesseractExtractor) { e.languages = langs }
}

// NewTesseractExtractor constructs a TextExtractor around a fresh Tesseract
// client.
func NewTesseractExtractor(opts ...TesseractOption) *TesseractExtractor {
	e := &TesseractExtractor{
		client:    gosseract.NewClient(),
		languages: []string{"eng"},
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.client.SetLanguage(e.languages...); err != nil {
		log.WithError(err).Warn("tesseract: failed to set languages, using engine default")
	}
	return e
}

// Extract runs OCR over img's current PNG encoding. Any engine error is
// logged and absorbed into an empty string per the TextExtractor contract.
func (e *TesseractExtractor) Extract(img *raster.Raster) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	encoded, err := img.EncodePNG()
	if err != nil {
		log.WithError(err).Debug("tesseract: failed to encode image for OCR")
		return ""
	}

	if err := e.client.SetImageFromBytes(encoded); err != nil {
		log.WithError(err).Debug("tesseract: failed to load image into engine")
		return ""
	}

	text, err := e.client.Text()
	if err != nil {
		log.WithError(err).Debug("tesseract: extraction failed")
		return ""
	}
	return text
}

// Close releases the underlying Tesseract client's native resources.
func (e *TesseractExtractor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}
