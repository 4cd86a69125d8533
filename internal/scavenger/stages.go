package scavenger

import (
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/scavenger/screenshot-scavenger/internal/flag"
	"github.com/scavenger/screenshot-scavenger/internal/ocr"
	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
	"github.com/scavenger/screenshot-scavenger/internal/source"
)

// imageStage owns the Source and TextExtractor for the lifetime of the
// pipeline; both are touched from this goroutine alone (thread
// confinement). It pulls the source's current image, extracts text from a
// deep copy, enqueues an ImageRecord, then advances the source.
type imageStage struct {
	src       source.Source
	extractor ocr.TextExtractor
	queue     *pipeline.BoundedQueue[pipeline.ImageRecord]
	status    *pipeline.StatusHandle
	cancel    <-chan struct{}
}

func (s *imageStage) run() {
	defer func() {
		s.src.Shutdown()
		if closer, ok := s.extractor.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.WithError(err).Warn("image stage: error closing text extractor")
			}
		}
		s.status.MarkDone()
		s.queue.Close()
	}()

	for {
		select {
		case <-s.cancel:
			return
		default:
		}

		id := s.src.CurrentID()
		img := s.src.CurrentContent()

		text := ""
		if working, err := img.Clone(); err != nil {
			log.WithError(err).WithField("id", id).Warn("image stage: failed to clone image for OCR, skipping extraction")
		} else {
			text = s.extractor.Extract(working)
			working.Close()
		}

		record, err := pipeline.NewImageRecord(id, img, text)
		if err != nil {
			log.WithError(err).WithField("id", id).Warn("image stage: dropping malformed record")
		} else if !s.queue.PutWithCancel(record, s.cancel) {
			return
		}

		if err := s.src.Next(); err != nil {
			log.WithField("id", id).Debug("image stage: source exhausted")
			return
		}
	}
}

// huntingStage owns the FlaggerSet for the lifetime of the pipeline. It
// drains ImageRecords, evaluates the flagger set against each, and
// enqueues a Result for every match.
type huntingStage struct {
	flaggers *flag.FlaggerSet
	input    *pipeline.BoundedQueue[pipeline.ImageRecord]
	output   *pipeline.BoundedQueue[pipeline.Result]
	status   *pipeline.StatusHandle
	cancel   <-chan struct{}
}

func (s *huntingStage) run() {
	defer func() {
		s.status.MarkDone()
		s.output.Close()
	}()

	for {
		record, ok := s.input.TakeWithCancel(s.cancel)
		if !ok {
			// Either the image stage closed the queue after exhaustion, or
			// cancellation fired. Both mean this stage is done.
			return
		}

		results, err := s.flaggers.Evaluate(record)
		if err != nil {
			log.WithError(err).WithField("id", record.ID()).Warn("hunting stage: flagger set error, treating as no match")
			continue
		}

		for _, res := range results {
			if !s.output.PutWithCancel(res, s.cancel) {
				return
			}
		}
	}
}
