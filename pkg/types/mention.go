// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the character-engine pipeline.
// Mentions and extraction results feed the resolution stages; entities,
// snippets, and indices are the persisted outputs.
package types

// Position locates a line of the source manuscript.
type Position struct {
	// Chapter is the chapter number from the most recent chapter header (0 before the first).
	Chapter int `json:"chapter" yaml:"chapter"`

	// Paragraph counts blank lines since the chapter header.
	Paragraph int `json:"paragraph" yaml:"paragraph"`

	// Line is the zero-based line number within the whole document.
	Line int `json:"line" yaml:"line"`
}

// Before reports whether p occurs strictly earlier in the document than o.
func (p Position) Before(o Position) bool {
	if p.Chapter != o.Chapter {
		return p.Chapter < o.Chapter
	}
	if p.Paragraph != o.Paragraph {
		return p.Paragraph < o.Paragraph
	}
	return p.Line < o.Line
}

// FirstAppearance is the persisted projection of a Position.
type FirstAppearance struct {
	Chapter   int `json:"chapter" yaml:"chapter"`
	Paragraph int `json:"paragraph" yaml:"paragraph"`
}

// Appearance projects p onto the chapter/paragraph pair stored with entities.
func (p Position) Appearance() FirstAppearance {
	return FirstAppearance{Chapter: p.Chapter, Paragraph: p.Paragraph}
}

// Mention is one occurrence of a proper-noun-like token sequence.
type Mention struct {
	// Surface is the text as it appeared, trailing sentence punctuation removed.
	Surface string `json:"surface" yaml:"surface"`

	// Form is the normalized form: possessive suffix and trailing period stripped.
	Form string `json:"form" yaml:"form"`

	Possessive    bool     `json:"possessive" yaml:"possessive"`
	Titled        bool     `json:"titled" yaml:"titled"`
	Title         string   `json:"title,omitempty" yaml:"title,omitempty"`
	SentenceStart bool     `json:"sentence_start" yaml:"sentence_start"`
	Position      Position `json:"position" yaml:"position"`
}

// ExtractionResult holds every mention in document order plus aggregate
// counts keyed by normalized form. MentionCounts includes possessive
// occurrences; PossessiveCounts is the possessive subset.
type ExtractionResult struct {
	Mentions            []Mention           `json:"mentions" yaml:"mentions"`
	MentionCounts       map[string]int      `json:"mention_counts" yaml:"mention_counts"`
	PossessiveCounts    map[string]int      `json:"possessive_counts" yaml:"possessive_counts"`
	SentenceStartCounts map[string]int      `json:"sentence_start_counts" yaml:"sentence_start_counts"`
	FirstAppearance     map[string]Position `json:"first_appearance" yaml:"first_appearance"`
}

// NewExtractionResult returns an empty result with initialized maps.
func NewExtractionResult() *ExtractionResult {
	return &ExtractionResult{
		MentionCounts:       make(map[string]int),
		PossessiveCounts:    make(map[string]int),
		SentenceStartCounts: make(map[string]int),
		FirstAppearance:     make(map[string]Position),
	}
}

// Add records m and updates the aggregate maps.
func (r *ExtractionResult) Add(m Mention) {
	r.Mentions = append(r.Mentions, m)
	r.MentionCounts[m.Form]++
	if m.Possessive {
		r.PossessiveCounts[m.Form]++
	}
	if m.SentenceStart {
		r.SentenceStartCounts[m.Form]++
	}
	if _, ok := r.FirstAppearance[m.Form]; !ok {
		r.FirstAppearance[m.Form] = m.Position
	}
}
