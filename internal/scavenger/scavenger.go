// Package scavenger implements the orchestrator that wires a Source, a
// TextExtractor, a FlaggerSet and a ResultSink into a running three-stage
// pipeline, and exposes a pull interface to drive it.
package scavenger

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
	"github.com/scavenger/screenshot-scavenger/internal/raster"
	"github.com/scavenger/screenshot-scavenger/internal/sink"
)

// ErrInvalidClientCall is returned by LoadNextResult when called while
// HasNextResult is false.
var ErrInvalidClientCall = errors.New("scavenger: loadNextResult called with no result queued")

// Scavenger is the orchestrator exposed to clients. It owns the image
// queue, the result queue, and the two stage goroutines; it does not touch
// the Source, TextExtractor or FlaggerSet directly (those are confined to
// the stage goroutines). The client thread alone reads the current-result
// slot and calls the sink.
type Scavenger struct {
	imageQueue  *pipeline.BoundedQueue[pipeline.ImageRecord]
	resultQueue *pipeline.BoundedQueue[pipeline.Result]

	sourceStatus *pipeline.StatusHandle
	huntStatus   *pipeline.StatusHandle

	cancel   chan struct{}
	exitOnce sync.Once
	stageWG  sync.WaitGroup

	sink sink.ResultSink

	current    pipeline.Result
	hasCurrent bool
}

// HasNextResult reports, without blocking, whether a result is queued.
func (s *Scavenger) HasNextResult() bool {
	return s.resultQueue.Size() > 0
}

// LoadNextResult pops the next queued result, adopts it as current, and
// forwards it to the sink. Callers must gate with HasNextResult; calling
// this with no result queued is a programming error.
func (s *Scavenger) LoadNextResult() error {
	res, ok := s.resultQueue.TryTake()
	if !ok {
		return ErrInvalidClientCall
	}
	s.current = res
	s.hasCurrent = true

	if err := s.sink.Write(res); err != nil {
		log.WithError(err).WithField("id", res.ImageID()).Warn("scavenger: sink write failed, continuing")
	}
	return nil
}

// IsFinished reports whether the pipeline has nothing left to deliver: the
// result queue is empty and both stages have stopped. Monotonic: once
// true, later calls also return true, since a stopped stage never resumes
// and a drained, closed queue never refills.
func (s *Scavenger) IsFinished() bool {
	return s.resultQueue.Size() == 0 && s.sourceStatus.Done() && s.huntStatus.Done()
}

// ResultImageID returns the current result's image id.
func (s *Scavenger) ResultImageID() string { return s.current.ImageID() }

// ResultImageContent returns a defensive copy of the current result's
// raster; mutating it never affects the pipeline's state or later calls.
func (s *Scavenger) ResultImageContent() (*raster.Raster, error) {
	if !s.hasCurrent {
		return nil, nil
	}
	return s.current.Content().Clone()
}

// ResultImageText returns the current result's OCR text.
func (s *Scavenger) ResultImageText() string { return s.current.Text() }

// ResultAuthor returns the name of the flagger that produced the current result.
func (s *Scavenger) ResultAuthor() string { return s.current.Author() }

// ResultDetails returns the current result's human-readable justification.
func (s *Scavenger) ResultDetails() string { return s.current.Details() }

// ResultData returns the current result as a value, for callers that want
// all fields at once.
func (s *Scavenger) ResultData() pipeline.Result { return s.current }

// HasCurrentResult reports whether a current result exists yet. False only
// when the pipeline finished (or is finishing) without ever producing one.
func (s *Scavenger) HasCurrentResult() bool { return s.hasCurrent }

// PrintResults asks the sink to render its accumulated results.
func (s *Scavenger) PrintResults() {
	if printer, ok := s.sink.(interface{ Print() }); ok {
		printer.Print()
	}
}

// PrintResultsAndExit prints then exits.
func (s *Scavenger) PrintResultsAndExit() {
	s.PrintResults()
	s.Exit()
}

// Exit closes the sink, cancels both stages, and returns immediately
// without waiting for the stage goroutines to finish. It does not
// terminate the host process: whether to do so is left to the caller, per
// this design's deliberate departure from the legacy "exit calls
// process-exit" behavior. Idempotent.
func (s *Scavenger) Exit() {
	s.exitOnce.Do(func() {
		close(s.cancel)
		if err := s.sink.Close(); err != nil {
			log.WithError(err).Warn("scavenger: error closing sink on exit")
		}
	})
}
