package flag

import (
	"fmt"
	"strings"

	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
)

// KeywordFlagger matches OCR text against a fixed, case-insensitive list of
// substrings.
type KeywordFlagger struct {
	name     string
	keywords []string
}

// NewKeywordFlagger builds a Flagger named name that matches if any of
// keywords appears in an ImageRecord's OCR text, case-insensitively.
// keywords are lowercased once at construction time.
func NewKeywordFlagger(name string, keywords ...string) *KeywordFlagger {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &KeywordFlagger{name: name, keywords: lowered}
}

func (f *KeywordFlagger) Name() string { return f.name }

func (f *KeywordFlagger) Check(rec pipeline.ImageRecord) (bool, string) {
	text := strings.ToLower(rec.Text())
	for _, k := range f.keywords {
		if k == "" {
			continue
		}
		if strings.Contains(text, k) {
			return true, fmt.Sprintf("Detected keyword: %q", k)
		}
	}
	return false, ""
}
