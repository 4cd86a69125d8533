package sink

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/scavenger/screenshot-scavenger/internal/dedupe"
	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
)

// DedupingSink wraps another ResultSink, skipping any Result whose image
// content hash has already been recorded in the dedupe store. It exists so
// the same screenshot fetched twice under different ids (a known
// possibility of the remote source's non-deterministic completion order)
// is only persisted once.
type DedupingSink struct {
	inner ResultSink
	store *dedupe.Store
}

// NewDedupingSink wraps inner with content-hash deduplication backed by store.
func NewDedupingSink(inner ResultSink, store *dedupe.Store) *DedupingSink {
	return &DedupingSink{inner: inner, store: store}
}

func (s *DedupingSink) Write(res pipeline.Result) error {
	encoded, err := res.Content().EncodePNG()
	if err != nil {
		return fmt.Errorf("sink: hashing content for dedupe check on %s: %w", res.ImageID(), err)
	}
	hash := dedupe.HashContent(encoded)

	if s.store.Seen(hash) {
		log.WithField("id", res.ImageID()).WithField("firstSeenBy", s.store.FirstSeenBy(hash)).
			Debug("sink: skipping duplicate content")
		return nil
	}

	if err := s.inner.Write(res); err != nil {
		return err
	}
	return s.store.Mark(hash, res.ImageID())
}

// Close closes the wrapped sink and the dedupe store.
func (s *DedupingSink) Close() error {
	innerErr := s.inner.Close()
	if err := s.store.Close(); err != nil && innerErr == nil {
		return err
	}
	return innerErr
}

// Print delegates to the wrapped sink if it supports Print.
func (s *DedupingSink) Print() {
	if printer, ok := s.inner.(interface{ Print() }); ok {
		printer.Print()
	}
}
