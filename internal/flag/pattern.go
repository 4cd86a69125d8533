package flag

import (
	"fmt"
	"regexp"

	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	ipv4Pattern  = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`)
)

// PatternFlagger matches OCR text against a compiled-once set of regular
// expressions, reporting the first pattern that matches together with that
// pattern's source form. NewDefaultPatternFlagger builds the spec's default
// set (email address + IPv4 address); NewPatternFlagger lets callers build a
// narrower or custom set.
type PatternFlagger struct {
	name     string
	patterns []*regexp.Regexp
}

// NewPatternFlagger builds a Flagger named name that matches patterns, in
// order, against an ImageRecord's OCR text.
func NewPatternFlagger(name string, patterns ...*regexp.Regexp) *PatternFlagger {
	return &PatternFlagger{name: name, patterns: patterns}
}

// NewEmailFlagger matches only email-address-shaped substrings.
func NewEmailFlagger() *PatternFlagger {
	return NewPatternFlagger("email-address", emailPattern)
}

// NewIPv4Flagger matches only dotted-quad IPv4 addresses.
func NewIPv4Flagger() *PatternFlagger {
	return NewPatternFlagger("ipv4-address", ipv4Pattern)
}

// NewDefaultPatternFlagger builds the spec's default pattern flagger: a
// single "PATTERN"-named flagger holding both the email and IPv4 patterns.
func NewDefaultPatternFlagger() *PatternFlagger {
	return NewPatternFlagger("PATTERN", emailPattern, ipv4Pattern)
}

func (f *PatternFlagger) Name() string { return f.name }

func (f *PatternFlagger) Check(rec pipeline.ImageRecord) (bool, string) {
	text := rec.Text()
	for _, p := range f.patterns {
		match := p.FindString(text)
		if match == "" {
			continue
		}
		return true, fmt.Sprintf("%q matched with regex: %s", match, p.String())
	}
	return false, ""
}
