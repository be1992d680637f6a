// Package insight turns free-text advisory guidance into discrete, displayable lines.
package insight

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultPromoPhrase marks the upsell suffix the advisory backend appends when it
// falls back to its template advisory.
const DefaultPromoPhrase = "Upgrade with a Gemini API key"

var (
	lineBreaks         = regexp.MustCompile(`\r?\n+`)
	sentenceBoundaries = regexp.MustCompile(`[.!?]\s+`)
)

// Strategy splits cleaned advisory text into insight lines.
// A nil or empty result means the strategy does not apply to the text.
type Strategy interface {
	Name() string
	Split(text string) []string
}

// LineStrategy splits newline-structured text, dropping leading bullet markers.
type LineStrategy struct{}

func (LineStrategy) Name() string { return "lines" }

// Split only applies when text has newline structure.
func (LineStrategy) Split(text string) []string {
	if !strings.Contains(text, "\n") {
		return nil
	}
	var lines []string
	for _, line := range lineBreaks.Split(text, -1) {
		line = strings.TrimSpace(strings.TrimLeftFunc(line, isBulletMarker))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// SentenceStrategy splits prose after '.', '!' or '?', keeping the punctuation.
type SentenceStrategy struct{}

func (SentenceStrategy) Name() string { return "sentences" }

func (SentenceStrategy) Split(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceBoundaries.FindAllStringIndex(text, -1) {
		// loc[0] is the punctuation mark; the cut happens right after it.
		sentences = appendTrimmed(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	return appendTrimmed(sentences, text[start:])
}

// Extractor reduces advisory text to an ordered list of insights.
type Extractor struct {
	promo      *regexp.Regexp
	strategies []Strategy
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPromoPhrase replaces the promotional phrase that starts the stripped suffix.
func WithPromoPhrase(phrase string) Option {
	return func(e *Extractor) {
		if phrase != "" {
			e.promo = promoPattern(phrase)
		}
	}
}

// WithStrategies overrides the ordered segmentation pipeline.
func WithStrategies(strategies ...Strategy) Option {
	return func(e *Extractor) {
		if len(strategies) > 0 {
			e.strategies = strategies
		}
	}
}

// NewExtractor builds an Extractor with line segmentation first and sentence
// segmentation as the fallback.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		promo:      promoPattern(DefaultPromoPhrase),
		strategies: []Strategy{LineStrategy{}, SentenceStrategy{}},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the insights contained in text; empty text yields an empty slice.
func (e *Extractor) Extract(text string) []string {
	cleaned := e.clean(text)
	if cleaned == "" {
		return []string{}
	}
	for _, s := range e.strategies {
		if lines := s.Split(cleaned); len(lines) > 0 {
			return lines
		}
	}
	return []string{}
}

// ExtractOptional is Extract for an optional advisory text.
func (e *Extractor) ExtractOptional(text *string) []string {
	if text == nil {
		return []string{}
	}
	return e.Extract(*text)
}

// clean removes the promotional suffix and surrounding whitespace.
func (e *Extractor) clean(text string) string {
	if loc := e.promo.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	return strings.TrimSpace(text)
}

var defaultExtractor = NewExtractor()

// Extract runs the default extractor over text.
func Extract(text string) []string {
	return defaultExtractor.Extract(text)
}

func promoPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase))
}

func isBulletMarker(r rune) bool {
	return r == '-' || r == '•' || unicode.IsSpace(r)
}

func appendTrimmed(dst []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		dst = append(dst, s)
	}
	return dst
}
