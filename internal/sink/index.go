package sink

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	log "github.com/sirupsen/logrus"

	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
)

// DefaultIndexPath is used when a caller doesn't specify one.
const DefaultIndexPath = "scavenger.bleve"

// indexedResult is the document shape bleve stores for each Result. All
// fields are indexed and searchable by their lowercase JSON tag, matching
// the teacher's index.Item convention.
type indexedResult struct {
	Author  string `json:"author"`
	ImageID string `json:"imageId"`
	Details string `json:"details"`
	Text    string `json:"text"`
}

// IndexSink writes every Result into a bleve full-text index, letting a
// later `scavenger-cli search` command query flagged text and authors.
// It supplements the spec's CSV sink rather than replacing it; the two are
// normally combined via MultiSink.
type IndexSink struct {
	index bleve.Index
}

// OpenOrCreateIndex opens an existing bleve index at path, or creates one
// with a default mapping if none exists yet.
func OpenOrCreateIndex(path string) (bleve.Index, error) {
	if path == "" {
		path = DefaultIndexPath
	}

	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		log.WithField("path", path).Info("creating new result index")
		mapping := bleve.NewIndexMapping()
		index, err = bleve.New(path, mapping)
		if err != nil {
			return nil, fmt.Errorf("sink: creating index at %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("sink: opening index at %s: %w", path, err)
	} else {
		log.WithField("path", path).Info("opened existing result index")
	}
	return index, nil
}

// NewIndexSink wraps an already-open bleve index.
func NewIndexSink(index bleve.Index) *IndexSink {
	return &IndexSink{index: index}
}

// Write indexes res under a document id of "<author>/<imageID>", so the
// same image flagged twice under different authors produces two documents.
func (s *IndexSink) Write(res pipeline.Result) error {
	doc := indexedResult{
		Author:  res.Author(),
		ImageID: res.ImageID(),
		Details: res.Details(),
		Text:    res.Text(),
	}
	docID := fmt.Sprintf("%s/%s", res.Author(), res.ImageID())
	if err := s.index.Index(docID, doc); err != nil {
		return fmt.Errorf("sink: indexing %s: %w", docID, err)
	}
	return nil
}

// Close closes the underlying bleve index.
func (s *IndexSink) Close() error {
	return s.index.Close()
}

// Search runs a bleve query string against an already-open index, used by
// the CLI's search subcommand.
func Search(index bleve.Index, query string) (*bleve.SearchResult, error) {
	searchQuery := bleve.NewQueryStringQuery(query)
	req := bleve.NewSearchRequest(searchQuery)
	req.Fields = []string{"*"}
	result, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("sink: search failed: %w", err)
	}
	return result, nil
}
