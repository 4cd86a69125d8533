// Package source provides the pluggable ingress of the scavenger pipeline:
// implementations yield a lazy, possibly-finite sequence of (id, image)
// pairs. Implementations are not required to be thread-safe; the pipeline
// confines each Source to a single goroutine for its entire lifetime.
package source

import (
	"errors"

	"github.com/scavenger/screenshot-scavenger/internal/raster"
)

// ErrNoImageAvailable is returned by Next when no further image is, or will
// become, available. It is the pipeline's signal that the source is
// exhausted; the image stage treats it as clean termination, not failure.
var ErrNoImageAvailable = errors.New("source: no image available")

// Source is the pluggable provider of (id, image) pairs. A Source must be
// constructed already positioned at a valid first image: CurrentID and
// CurrentContent must be meaningful before Next is ever called.
type Source interface {
	// Next advances to the next image. On success, CurrentID/CurrentContent
	// reflect the new image. On exhaustion it returns ErrNoImageAvailable and
	// must not mutate the current image.
	Next() error

	// CurrentID returns the identifier of the most recently loaded image.
	CurrentID() string

	// CurrentContent returns the raster of the most recently loaded image.
	CurrentContent() *raster.Raster

	// Shutdown idempotently releases any background resources (worker
	// pools, open files, HTTP connections).
	Shutdown()
}
