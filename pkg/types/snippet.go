// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strings"
)

// Sentence slots within a snippet window.
const (
	SlotBefore = "before"
	SlotMatch  = "match"
	SlotAfter  = "after"
)

// Location places a snippet inside its chapter. Start and End are equal for
// a single-sentence snippet; merged snippets span a sentence range.
type Location struct {
	Paragraph int
	Start     int
	End       int
}

// IsRange reports whether the location spans more than one sentence.
func (l Location) IsRange() bool { return l.End > l.Start }

type locationJSON struct {
	Paragraph int   `json:"paragraph"`
	Sentence  *int  `json:"sentence,omitempty"`
	Sentences []int `json:"sentences,omitempty"`
}

// MarshalJSON writes {"paragraph":p,"sentence":s} or, for merged snippets,
// {"paragraph":p,"sentences":[start,end]}.
func (l Location) MarshalJSON() ([]byte, error) {
	out := locationJSON{Paragraph: l.Paragraph}
	if l.IsRange() {
		out.Sentences = []int{l.Start, l.End}
	} else {
		s := l.Start
		out.Sentence = &s
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts either location shape.
func (l *Location) UnmarshalJSON(data []byte) error {
	var in locationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	l.Paragraph = in.Paragraph
	switch {
	case len(in.Sentences) == 2:
		l.Start, l.End = in.Sentences[0], in.Sentences[1]
	case in.Sentence != nil:
		l.Start, l.End = *in.Sentence, *in.Sentence
	}
	return nil
}

// SnippetText is the three-part window around the matched sentence(s).
type SnippetText struct {
	Before string `json:"before"`
	Match  string `json:"match"`
	After  string `json:"after"`
}

// SnippetMention records which variant of an entity appeared in which slot.
type SnippetMention struct {
	Entity   string `json:"entity"`
	Variant  string `json:"variant"`
	Sentence string `json:"sentence"`
}

// Snippet is a text window centered on a sentence that mentions at least
// one entity.
type Snippet struct {
	ID           string           `json:"id"`
	Chapter      int              `json:"chapter"`
	ChapterTitle string           `json:"chapterTitle"`
	Location     Location         `json:"location"`
	Text         SnippetText      `json:"text"`
	Entities     []string         `json:"entities"`
	Mentions     []SnippetMention `json:"mentions"`

	// MatchSentences holds the individual sentences joined into Text.Match.
	MatchSentences []string `json:"-"`
}

// JoinSentences joins sentences into a snippet text field.
func JoinSentences(sentences []string) string {
	return strings.Join(sentences, " ")
}

// Indices are read models derived from the final snippet set.
type Indices struct {
	// Entities maps entity id to sorted snippet ids.
	Entities map[string][]string `json:"entities"`

	// Pairs maps "idA+idB" (ids sorted) to sorted snippet ids.
	Pairs map[string][]string `json:"pairs"`

	// Chapters maps chapter number to snippet ids in document order.
	Chapters map[int][]string `json:"chapters"`
}
