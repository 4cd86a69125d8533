package cmd

import (
	"fmt"
	"time"

	"github.com/gosuri/uilive"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scavenger/screenshot-scavenger/internal/config"
	"github.com/scavenger/screenshot-scavenger/internal/dedupe"
	"github.com/scavenger/screenshot-scavenger/internal/flag"
	"github.com/scavenger/screenshot-scavenger/internal/ocr"
	"github.com/scavenger/screenshot-scavenger/internal/scavenger"
	"github.com/scavenger/screenshot-scavenger/internal/sink"
	"github.com/scavenger/screenshot-scavenger/internal/source"
)

var diskDirFlag string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scavenging pipeline until the source is exhausted",
	RunE:  runScavenger,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&diskDirFlag, "disk-dir", "", "Read images from a local directory instead of the remote gallery")
}

func runScavenger(cmd *cobra.Command, args []string) error {
	cfg := globalConfig

	src, err := buildSource(cfg)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	resultSink, err := buildResultSink(cfg)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	builder := scavenger.NewBuilder().
		WithSource(src).
		WithResultSink(resultSink).
		EnableOCR(cfg.OCREnabled).
		EnableHunting(cfg.HuntingEnabled).
		EmitPerFlagger(cfg.EmitPerFlagger).
		WithImageBufferSize(cfg.ImageQueueCapacity).
		WithResultBufferSize(cfg.ResultQueueCapacity)

	if cfg.OCREnabled {
		builder.WithTextExtractor(ocr.NewTesseractExtractor(ocr.WithLanguages(cfg.OCRLanguages)))
	}

	if cfg.HuntingEnabled && len(cfg.Flaggers) > 0 {
		set, err := buildFlaggerSet(cfg.Flaggers)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		builder.WithFlaggerFactory(set)
	}

	s, err := builder.Build()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer s.Exit()

	writer := uilive.New()
	writer.Start()
	defer writer.Stop()

	var matched int
	for {
		if s.HasNextResult() {
			if err := s.LoadNextResult(); err != nil {
				log.WithError(err).Warn("run: loadNextResult failed")
			} else {
				matched++
				fmt.Fprintf(writer, "matched %d (last: %s by %s)\n", matched, s.ResultImageID(), s.ResultAuthor())
			}
			continue
		}
		if s.IsFinished() {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	s.PrintResultsAndExit()
	log.WithField("matched", matched).Info("run: pipeline exhausted")
	return nil
}

func buildSource(cfg config.Config) (source.Source, error) {
	if diskDirFlag != "" {
		return source.NewDiskSource(diskDirFlag)
	}
	return source.NewRemoteSource(
		source.WithBaseURL(cfg.GalleryBaseURL),
		source.WithSeedID(cfg.SeedID),
		source.WithSelector(cfg.SourceSelector, cfg.SourceAttr),
		source.WithUserAgent(cfg.UserAgent),
		source.WithWorkerPool(cfg.Workers, cfg.LowWaterMark, cfg.BatchSize),
		source.WithFailureThreshold(cfg.FailureThreshold),
	)
}

func buildFlaggerSet(flaggers []config.FlaggerConfig) (*flag.FlaggerSet, error) {
	registry := flag.NewRegistry()
	set := flag.NewFlaggerSet()
	for _, fc := range flaggers {
		f, err := registry.Build(fc.Kind, fc.Name, fc.Params)
		if err != nil {
			return nil, fmt.Errorf("building flagger %q: %w", fc.Name, err)
		}
		set.Add(f)
	}
	return set, nil
}

// buildResultSink assembles the CSV sink, the bleve index sink, and
// (if enabled) a dedupe wrapper, per cfg.
func buildResultSink(cfg config.Config) (sink.ResultSink, error) {
	csvSink, err := sink.NewExtensiveCSVSink(cfg.CSVPath, cfg.SavePath)
	if err != nil {
		return nil, fmt.Errorf("building CSV sink: %w", err)
	}

	index, err := sink.OpenOrCreateIndex(cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	indexSink := sink.NewIndexSink(index)

	combined := sink.NewMultiSink(csvSink, indexSink)

	if !cfg.Dedupe {
		return combined, nil
	}

	store, err := dedupe.Open(cfg.DedupePath)
	if err != nil {
		return nil, fmt.Errorf("opening dedupe store: %w", err)
	}
	return sink.NewDedupingSink(combined, store), nil
}
