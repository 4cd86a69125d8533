package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/scavenger/screenshot-scavenger/internal/helpers"
	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
)

// HeaderFunc produces the CSV header row.
type HeaderFunc func() []string

// RowFunc produces one CSV row for a Result.
type RowFunc func(res pipeline.Result) []string

// CSVSink writes one row per Result to a CSV file and, alongside it, the
// Result's image as a PNG file under a per-author subdirectory. Per the
// design notes carried into this spec's sink section, it is a single
// struct parameterized by a HeaderFunc and a RowFunc rather than a sink
// class hierarchy: new row shapes are new function values, not new types.
type CSVSink struct {
	baseDir    string
	header     HeaderFunc
	row        RowFunc
	file       *os.File
	writer     *csv.Writer
	wroteFirst bool
	written    int
}

// AbbreviatedHeader is the column set spec's "abbreviated" CSV variant
// writes: id, author, details.
func AbbreviatedHeader() []string {
	return []string{"id", "author", "details"}
}

// AbbreviatedRow renders a Result as {id, author, details}.
func AbbreviatedRow(res pipeline.Result) []string {
	return []string{res.ImageID(), res.Author(), res.Details()}
}

// ExtensiveHeader is the column set spec's "extensive" CSV variant writes:
// the abbreviated columns plus the extracted OCR text.
func ExtensiveHeader() []string {
	return []string{"id", "author", "details", "text"}
}

// ExtensiveRow renders a Result as {id, author, details, text}.
func ExtensiveRow(res pipeline.Result) []string {
	return []string{res.ImageID(), res.Author(), res.Details(), res.Text()}
}

// NewAbbreviatedCSVSink opens (or creates) ./AbbreviatedResults.csv-shaped
// output, writing {id, author, details} rows. This is the default
// ResultSink the Builder instantiates when no sink is supplied.
func NewAbbreviatedCSVSink(csvPath, baseDir string) (*CSVSink, error) {
	return NewCSVSinkWithStrategy(csvPath, baseDir, AbbreviatedHeader, AbbreviatedRow)
}

// NewExtensiveCSVSink opens (or creates) ./Results.csv-shaped output,
// additionally writing the extracted OCR text.
func NewExtensiveCSVSink(csvPath, baseDir string) (*CSVSink, error) {
	return NewCSVSinkWithStrategy(csvPath, baseDir, ExtensiveHeader, ExtensiveRow)
}

// NewCSVSinkWithStrategy opens csvPath and returns a sink using the given
// header and row strategies. row may be nil, in which case Write renders
// rows with AbbreviatedRow.
func NewCSVSinkWithStrategy(csvPath, baseDir string, header HeaderFunc, row RowFunc) (*CSVSink, error) {
	if !helpers.CheckAndMakeDir(filepath.Dir(csvPath)) {
		return nil, fmt.Errorf("sink: cannot create directory for %s", csvPath)
	}

	_, statErr := os.Stat(csvPath)
	exists := statErr == nil

	file, err := os.OpenFile(csvPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("sink: opening %s: %w", csvPath, err)
	}

	s := &CSVSink{
		baseDir:    baseDir,
		header:     header,
		row:        row,
		file:       file,
		writer:     csv.NewWriter(file),
		wroteFirst: exists,
	}

	if !exists {
		if err := s.writer.Write(s.header()); err != nil {
			file.Close()
			return nil, fmt.Errorf("sink: writing header to %s: %w", csvPath, err)
		}
		s.writer.Flush()
	}

	return s, nil
}

// Write persists res's image as a PNG under baseDir/<slug(author)>/ and
// appends one CSV row describing it.
func (s *CSVSink) Write(res pipeline.Result) error {
	dir := filepath.Join(s.baseDir, helpers.ConvertToSlug(res.Author()))
	if !helpers.CheckAndMakeDir(dir) {
		return fmt.Errorf("sink: cannot create image directory %s", dir)
	}

	imagePath := filepath.Join(dir, res.ImageID()+".png")
	if err := writePNG(imagePath, res); err != nil {
		return err
	}

	rowFn := s.row
	if rowFn == nil {
		rowFn = AbbreviatedRow
	}

	if err := s.writer.Write(rowFn(res)); err != nil {
		return fmt.Errorf("sink: writing CSV row for %s: %w", res.ImageID(), err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("sink: flushing CSV writer: %w", err)
	}
	s.written++
	return nil
}

// Print renders a human-readable summary of what this sink has persisted
// this run.
func (s *CSVSink) Print() {
	log.WithField("count", s.written).WithField("path", s.file.Name()).Info("scavenger: results written to CSV")
}

func writePNG(path string, res pipeline.Result) error {
	encoded, err := res.Content().EncodePNG()
	if err != nil {
		return fmt.Errorf("sink: encoding image for %s: %w", res.ImageID(), err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("sink: writing image %s: %w", path, err)
	}
	return nil
}

// Close flushes and closes the underlying CSV file.
func (s *CSVSink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		log.WithError(err).Warn("sink: error flushing CSV writer on close")
	}
	return s.file.Close()
}
