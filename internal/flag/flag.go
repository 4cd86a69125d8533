// Package flag implements the flagging stage: pluggable detectors that
// inspect an ImageRecord's OCR text (and, in principle, its raster content)
// and report whether it warrants a Result.
package flag

import (
	"fmt"

	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
)

// Flagger inspects a single ImageRecord and reports a match. Name identifies
// the flagger in logs and in Result.Author() when it fires.
type Flagger interface {
	Name() string
	Check(rec pipeline.ImageRecord) (matched bool, details string)
}

// FlaggerSet evaluates an ordered collection of Flaggers against a record.
// Per spec's resolution of its flag-ordering Open Question, the set is
// first-match-wins by default: the first Flagger to match short-circuits
// the rest and produces the Result. Setting EmitPerFlagger restores the
// legacy behavior of evaluating every Flagger and emitting one Result each.
type FlaggerSet struct {
	flaggers       []Flagger
	EmitPerFlagger bool
}

// NewFlaggerSet constructs a set evaluating flaggers in the given order.
func NewFlaggerSet(flaggers ...Flagger) *FlaggerSet {
	return &FlaggerSet{flaggers: flaggers}
}

// Evaluate runs the record through the set's flaggers and returns zero or
// more Results. With first-match-wins (the default), the slice has at most
// one element.
func (s *FlaggerSet) Evaluate(rec pipeline.ImageRecord) ([]pipeline.Result, error) {
	var results []pipeline.Result
	for _, f := range s.flaggers {
		matched, details := f.Check(rec)
		if !matched {
			continue
		}
		res, err := pipeline.NewResult(f.Name(), details, rec.ID(), rec.Content(), rec.Text())
		if err != nil {
			return nil, fmt.Errorf("flag: building result from %s: %w", f.Name(), err)
		}
		results = append(results, res)
		if !s.EmitPerFlagger {
			break
		}
	}
	return results, nil
}

// Add appends a Flagger to the end of the evaluation order.
func (s *FlaggerSet) Add(f Flagger) {
	s.flaggers = append(s.flaggers, f)
}

// Len reports how many Flaggers are registered.
func (s *FlaggerSet) Len() int {
	return len(s.flaggers)
}
