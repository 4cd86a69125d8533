package scavenger

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/scavenger/screenshot-scavenger/internal/flag"
	"github.com/scavenger/screenshot-scavenger/internal/ocr"
	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
	"github.com/scavenger/screenshot-scavenger/internal/sink"
	"github.com/scavenger/screenshot-scavenger/internal/source"
)

// DefaultImageBufferSize is the image queue's capacity absent an override.
const DefaultImageBufferSize = 16

// DefaultResultBufferSize is the result queue's capacity absent an override.
const DefaultResultBufferSize = 8

// DefaultImageDir is the directory the default sink writes flagged images
// into, per spec.md §6's persistent-outputs contract.
const DefaultImageDir = "./huntedImages"

// DefaultCSVPath is the file the default (abbreviated) sink appends rows to.
const DefaultCSVPath = "./AbbreviatedResults.csv"

// Builder performs validated construction of a Scavenger: it applies
// defaults lazily, substitutes no-op implementations for disabled
// features, and guarantees the returned Scavenger already has a valid
// initial result (or has already finished, if no image was flagged)
// before Build returns.
type Builder struct {
	source        source.Source
	extractor     ocr.TextExtractor
	flaggerSet    *flag.FlaggerSet
	resultSink    sink.ResultSink
	imageBufSize  int
	resultBufSize int

	ocrEnabled     bool
	huntingEnabled bool
	sinkEnabled    bool
	emitPerFlagger bool
}

// NewBuilder returns a Builder with every feature enabled and default
// buffer sizes; call the With* methods to override before Build.
func NewBuilder() *Builder {
	return &Builder{
		imageBufSize:   DefaultImageBufferSize,
		resultBufSize:  DefaultResultBufferSize,
		ocrEnabled:     true,
		huntingEnabled: true,
		sinkEnabled:    true,
	}
}

// WithSource overrides the default remote source.
func (b *Builder) WithSource(s source.Source) *Builder {
	b.source = s
	return b
}

// WithTextExtractor overrides the default Tesseract-backed extractor.
func (b *Builder) WithTextExtractor(e ocr.TextExtractor) *Builder {
	b.extractor = e
	return b
}

// WithFlaggerFactory replaces the default flagger list wholesale.
func (b *Builder) WithFlaggerFactory(set *flag.FlaggerSet) *Builder {
	b.flaggerSet = set
	return b
}

// WithResultSink overrides the default abbreviated CSV sink.
func (b *Builder) WithResultSink(s sink.ResultSink) *Builder {
	b.resultSink = s
	return b
}

// WithImageBufferSize sets the image queue's capacity. Values ≤ 0 are
// ignored and the current value (default or previously set) is kept.
func (b *Builder) WithImageBufferSize(n int) *Builder {
	if n > 0 {
		b.imageBufSize = n
	}
	return b
}

// WithResultBufferSize sets the result queue's capacity. Values ≤ 0 are
// ignored.
func (b *Builder) WithResultBufferSize(n int) *Builder {
	if n > 0 {
		b.resultBufSize = n
	}
	return b
}

// EnableOCR toggles text extraction. false substitutes a no-op extractor.
func (b *Builder) EnableOCR(enabled bool) *Builder {
	b.ocrEnabled = enabled
	return b
}

// EnableHunting toggles flagging. false substitutes a single "flag-all"
// flagger, turning the pipeline into a passthrough scraper.
func (b *Builder) EnableHunting(enabled bool) *Builder {
	b.huntingEnabled = enabled
	return b
}

// EnableResultSink toggles persistence. false substitutes a discard sink.
func (b *Builder) EnableResultSink(enabled bool) *Builder {
	b.sinkEnabled = enabled
	return b
}

// EmitPerFlagger configures the hunting stage's FlaggerSet to evaluate
// every flagger per image (the legacy behavior) instead of the default
// first-match-wins.
func (b *Builder) EmitPerFlagger(enabled bool) *Builder {
	b.emitPerFlagger = enabled
	return b
}

// Build applies defaults and no-op substitutions, spawns the two stages,
// and blocks until either an initial result is available or the pipeline
// has already finished (when the source runs out without any image being
// flagged, an immediately-finished pipeline is returned rather than an
// error). A source that cannot load a first image fails its own
// construction; for the default remote source Build returns that error.
func (b *Builder) Build() (*Scavenger, error) {
	if !b.ocrEnabled {
		b.extractor = ocr.NewNoOpExtractor()
	} else if b.extractor == nil {
		b.extractor = ocr.NewTesseractExtractor()
	}

	if !b.huntingEnabled {
		b.flaggerSet = flag.NewFlaggerSet(flag.NewDisabledFlagger())
	} else if b.flaggerSet == nil {
		b.flaggerSet = flag.NewFlaggerSet(flag.NewDefaultPatternFlagger(), defaultKeywordFlagger())
	}
	b.flaggerSet.EmitPerFlagger = b.emitPerFlagger

	if !b.sinkEnabled {
		b.resultSink = sink.NewNoOpSink()
	} else if b.resultSink == nil {
		defaultSink, err := sink.NewAbbreviatedCSVSink(DefaultCSVPath, DefaultImageDir)
		if err != nil {
			return nil, fmt.Errorf("scavenger: building default sink: %w", err)
		}
		b.resultSink = defaultSink
	}

	if b.source == nil {
		remote, err := source.NewRemoteSource()
		if err != nil {
			return nil, fmt.Errorf("scavenger: building default source: %w", err)
		}
		b.source = remote
	}

	s := &Scavenger{
		imageQueue:   pipeline.NewBoundedQueue[pipeline.ImageRecord](b.imageBufSize),
		resultQueue:  pipeline.NewBoundedQueue[pipeline.Result](b.resultBufSize),
		sourceStatus: pipeline.NewStatusHandle(),
		huntStatus:   pipeline.NewStatusHandle(),
		cancel:       make(chan struct{}),
		sink:         b.resultSink,
	}

	img := &imageStage{
		src:       b.source,
		extractor: b.extractor,
		queue:     s.imageQueue,
		status:    s.sourceStatus,
		cancel:    s.cancel,
	}
	hunt := &huntingStage{
		flaggers: b.flaggerSet,
		input:    s.imageQueue,
		output:   s.resultQueue,
		status:   s.huntStatus,
		cancel:   s.cancel,
	}

	s.stageWG.Add(2)
	go func() { defer s.stageWG.Done(); img.run() }()
	go func() { defer s.stageWG.Done(); hunt.run() }()

	s.waitForFirstResult()

	return s, nil
}

// waitForFirstResult blocks on the result queue until either a result
// arrives or the queue is closed (hunting stage finished with zero
// results), satisfying the constructor's "valid initial state" guarantee.
// A closed-empty queue leaves the Scavenger with no current result but
// already IsFinished() == true: both stages mark themselves done before
// closing their output queue.
func (s *Scavenger) waitForFirstResult() {
	res, ok := s.resultQueue.Take()
	if !ok {
		return
	}
	s.current = res
	s.hasCurrent = true
	if err := s.sink.Write(res); err != nil {
		log.WithError(err).WithField("id", res.ImageID()).Warn("scavenger: sink write failed for initial result, continuing")
	}
}

func defaultKeywordFlagger() *flag.KeywordFlagger {
	return flag.NewKeywordFlagger("KEYWORD",
		"password", "passwd", "secret", "api key", "apikey", "token",
		"private key", "ssh-rsa", "aws_secret", "bearer", "credential",
	)
}
