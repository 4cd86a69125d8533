// Package pipeline holds the value types and bounded queues shared by the
// scavenger's three stages. Nothing here is safe to mutate after
// construction. Raster content is not copied here: an ImageRecord, the
// Result built from it and its Content() accessors all share one raster
// pointer; callers that mutate or retain it Clone() it themselves.
package pipeline

import (
	"errors"
	"sync"

	"github.com/scavenger/screenshot-scavenger/internal/raster"
)

// ErrEmptyField is returned when a caller attempts to construct an
// ImageRecord or Result with a required field left blank.
var ErrEmptyField = errors.New("pipeline: required field is empty")

// ImageRecord is one image that has passed through OCR and is awaiting
// evaluation by the flagger set.
type ImageRecord struct {
	id      string
	content *raster.Raster
	text    string
}

// NewImageRecord validates and constructs an ImageRecord. id and content are
// required; text may be empty (no OCR text extracted).
func NewImageRecord(id string, content *raster.Raster, text string) (ImageRecord, error) {
	if id == "" || content == nil {
		return ImageRecord{}, ErrEmptyField
	}
	return ImageRecord{id: id, content: content, text: text}, nil
}

// ID returns the image's source-assigned identifier.
func (r ImageRecord) ID() string { return r.id }

// Text returns the OCR-extracted text, possibly empty.
func (r ImageRecord) Text() string { return r.text }

// Content returns the decoded raster. Callers that need to retain it beyond
// the lifetime of this record should Clone() it.
func (r ImageRecord) Content() *raster.Raster { return r.content }

// Result is a flagged finding: an image, the reason it was flagged, and the
// module that flagged it.
type Result struct {
	author  string
	details string
	imageID string
	content *raster.Raster
	text    string
}

// NewResult validates and constructs a Result. author, details and imageID
// must be non-empty; content must be non-nil; text may be empty.
func NewResult(author, details, imageID string, content *raster.Raster, text string) (Result, error) {
	if author == "" || details == "" || imageID == "" || content == nil {
		return Result{}, ErrEmptyField
	}
	return Result{
		author:  author,
		details: details,
		imageID: imageID,
		content: content,
		text:    text,
	}, nil
}

func (r Result) Author() string  { return r.author }
func (r Result) Details() string { return r.details }
func (r Result) ImageID() string { return r.imageID }
func (r Result) Text() string    { return r.text }

// Content returns the raster backing this result. Callers must Clone() it if
// they intend to mutate or outlive the result's own lifetime.
func (r Result) Content() *raster.Raster { return r.content }

// StatusHandle is a future-like done flag shared between a stage worker and
// its owning Scavenger. Once Done() reports true it never reports false
// again.
type StatusHandle struct {
	mu   sync.Mutex
	done bool
}

// NewStatusHandle returns a handle in the not-done state.
func NewStatusHandle() *StatusHandle {
	return &StatusHandle{}
}

// MarkDone transitions the handle to done. Idempotent.
func (s *StatusHandle) MarkDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
}

// Done reports whether the stage has finished (exhausted its source,
// completed its drain, or been canceled).
func (s *StatusHandle) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
