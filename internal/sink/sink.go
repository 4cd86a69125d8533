// Package sink implements ResultSink: the pipeline's terminal stage, which
// persists flagged Results to durable storage.
package sink

import (
	log "github.com/sirupsen/logrus"

	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
)

// NoOpSinkNotice is the fixed message NoOpSink.Print emits.
const NoOpSinkNotice = "result sink disabled: no results were persisted"

// ResultSink consumes one Result at a time. Implementations are driven by a
// single goroutine for their lifetime, matching every other pipeline
// component's thread-confinement invariant.
type ResultSink interface {
	Write(res pipeline.Result) error
	Close() error
}

// MultiSink fans a single Result out to several sinks, stopping at the
// first error. Useful for combining, e.g., a CSVSink with a bleve
// IndexSink without either needing to know about the other.
type MultiSink struct {
	sinks []ResultSink
}

// NewMultiSink builds a MultiSink writing to each of sinks in order.
func NewMultiSink(sinks ...ResultSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Write(res pipeline.Result) error {
	for _, s := range m.sinks {
		if err := s.Write(res); err != nil {
			return err
		}
	}
	return nil
}

// Print calls Print on every underlying sink that implements it.
func (m *MultiSink) Print() {
	for _, s := range m.sinks {
		if printer, ok := s.(interface{ Print() }); ok {
			printer.Print()
		}
	}
}

// Close closes every underlying sink, collecting the first error but
// attempting to close all of them regardless.
func (m *MultiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NoOpSink discards every Result. Used when persistence is disabled.
type NoOpSink struct{}

func NewNoOpSink() *NoOpSink { return &NoOpSink{} }

func (NoOpSink) Write(res pipeline.Result) error { return nil }

func (NoOpSink) Close() error { return nil }

// Print emits NoOpSinkNotice.
func (NoOpSink) Print() { log.Info(NoOpSinkNotice) }
