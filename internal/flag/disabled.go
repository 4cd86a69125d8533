package flag

import "github.com/scavenger/screenshot-scavenger/internal/pipeline"

// DisabledFlagger flags every image it sees. It is the sentinel substitution
// used when hunting is disabled entirely: rather than special-casing a nil
// FlaggerSet throughout the hunting stage, the stage always runs through a
// FlaggerSet, and disabling hunting swaps in this sentinel so the pipeline
// becomes a passthrough scraper over the OCR stage.
type DisabledFlagger struct{}

// DisabledDetails is both the Name() and the details string DisabledFlagger
// reports on every image, surfacing as Result.author == "HUNTING DISABLED".
const DisabledDetails = "HUNTING DISABLED"

func NewDisabledFlagger() *DisabledFlagger { return &DisabledFlagger{} }

func (f *DisabledFlagger) Name() string { return DisabledDetails }

func (f *DisabledFlagger) Check(rec pipeline.ImageRecord) (bool, string) {
	return true, DisabledDetails
}
