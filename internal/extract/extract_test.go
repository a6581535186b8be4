package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/character-engine/internal/lexicon"
	"github.com/pdiddy/character-engine/pkg/types"
)

func surfaces(res *types.ExtractionResult) []string {
	out := make([]string, len(res.Mentions))
	for i, m := range res.Mentions {
		out[i] = m.Surface
	}
	return out
}

func forms(res *types.ExtractionResult) []string {
	out := make([]string, len(res.Mentions))
	for i, m := range res.Mentions {
		out[i] = m.Form
	}
	return out
}

func TestExtractTitledAndSingleNames(t *testing.T) {
	res := Extract("Mr. Dursley hated Harry. Harry looked at Mr. Dursley.", lexicon.Default(), types.ExtractionConfig{})

	assert.Equal(t, []string{"Mr. Dursley", "Harry", "Harry", "Mr. Dursley"}, surfaces(res))
	assert.Equal(t, 2, res.MentionCounts["Mr. Dursley"])
	assert.Equal(t, 2, res.MentionCounts["Harry"])

	require.Len(t, res.Mentions, 4)
	assert.True(t, res.Mentions[0].Titled)
	assert.Equal(t, "Mr", res.Mentions[0].Title)
	assert.True(t, res.Mentions[0].SentenceStart)
	assert.False(t, res.Mentions[1].SentenceStart)
	assert.True(t, res.Mentions[2].SentenceStart, "word after terminal punctuation starts a sentence")
	assert.False(t, res.Mentions[3].SentenceStart)
	assert.Equal(t, 1, res.SentenceStartCounts["Harry"])
}

func TestExtractSequences(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		forms []string
	}{
		{
			name:  "full name",
			text:  "Yesterday Harry Potter arrived.",
			forms: []string{"Harry Potter"},
		},
		{
			name:  "stopword does not start a name",
			text:  "The Weasleys waited for Ron Weasley.",
			forms: []string{"Weasleys", "Ron Weasley"},
		},
		{
			name:  "sentence end stops the sequence",
			text:  "He saw Harry. Ron ran.",
			forms: []string{"Harry", "Ron"},
		},
		{
			name:  "commas do not stop the sequence",
			text:  "There stood Malfoy, Crabbe, and Goyle.",
			forms: []string{"Malfoy Crabbe", "Goyle"},
		},
		{
			name:  "title attaches one name",
			text:  "said Professor Albus Dumbledore quietly",
			forms: []string{"Professor Albus", "Dumbledore"},
		},
		{
			name:  "possessive terminates",
			text:  "it was Harry's Firebolt now",
			forms: []string{"Harry", "Firebolt"},
		},
		{
			name:  "contractions are skipped",
			text:  "It's late and That's final, said Hermione.",
			forms: []string{"Hermione"},
		},
		{
			name:  "lowercase only",
			text:  "nothing to see here.",
			forms: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Extract(tt.text, lexicon.Default(), types.ExtractionConfig{})
			assert.Equal(t, tt.forms, forms(res))
		})
	}
}

func TestExtractPossessiveCounts(t *testing.T) {
	text := "Harry's wand broke. Harry sighed. Everyone saw Harry's face."
	res := Extract(text, lexicon.Default(), types.ExtractionConfig{})

	assert.Equal(t, 3, res.MentionCounts["Harry"])
	assert.Equal(t, 2, res.PossessiveCounts["Harry"])
	assert.Equal(t, "Harry's", res.Mentions[0].Surface)
	assert.True(t, res.Mentions[0].Possessive)
}

func TestExtractCliticsJoinBaseForm(t *testing.T) {
	res := Extract("Harry'll come. Harry'd gone. Harry've Potter.", lexicon.Default(), types.ExtractionConfig{})

	assert.Equal(t, []string{"Harry", "Harry", "Harry", "Potter"}, forms(res))
	assert.Equal(t, 3, res.MentionCounts["Harry"])
	assert.Zero(t, res.PossessiveCounts["Harry"])
	assert.False(t, res.Mentions[0].Possessive)
}

func TestExtractSentenceStartSkipsPunctuation(t *testing.T) {
	tests := []struct {
		text string
		want []bool
	}{
		{"— Harry ran.", []bool{true}},
		{"\" ... Harry ran.", []bool{true}},
		{"Ron — Harry ran.", []bool{true, false}},
		{"the owl hooted. — Harry ran.", []bool{true}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := Extract(tt.text, lexicon.Default(), types.ExtractionConfig{})
			got := make([]bool, len(res.Mentions))
			for i, m := range res.Mentions {
				got[i] = m.SentenceStart
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractNormalizesApostrophes(t *testing.T) {
	for _, text := range []string{"Hagrid’s hut", "Hagrid‘s hut", "Hagridʼs hut"} {
		res := Extract(text, lexicon.Default(), types.ExtractionConfig{})
		require.Len(t, res.Mentions, 1, text)
		assert.Equal(t, "Hagrid", res.Mentions[0].Form)
		assert.True(t, res.Mentions[0].Possessive)
	}

	res := Extract("He’s gone.", lexicon.Default(), types.ExtractionConfig{})
	assert.Empty(t, res.Mentions)
}

func TestExtractPositions(t *testing.T) {
	text := `---
title: Test Book
Author: Someone Important
---

## CHAPTER ONE: The Boy

Harry lived here.

Dudley lived here too.

## Chapter 2: The Glass

Harry again.
`
	res := Extract(text, lexicon.Default(), types.ExtractionConfig{})

	assert.Equal(t, []string{"Harry", "Dudley", "Harry"}, forms(res))
	assert.Zero(t, res.MentionCounts["Someone Important"], "front matter is skipped")
	assert.Zero(t, res.MentionCounts["The Boy"], "chapter headers are skipped")

	assert.Equal(t, 1, res.Mentions[0].Position.Chapter)
	assert.Equal(t, 1, res.Mentions[0].Position.Paragraph)
	assert.Equal(t, 1, res.Mentions[1].Position.Chapter)
	assert.Equal(t, 2, res.Mentions[1].Position.Paragraph)
	assert.Equal(t, 2, res.Mentions[2].Position.Chapter)

	assert.Equal(t, res.Mentions[0].Position, res.FirstAppearance["Harry"])
}

func TestExtractCountsEveryBlankLine(t *testing.T) {
	res := Extract("Harry lived here.\n\n\n\nDudley lived here too.", lexicon.Default(), types.ExtractionConfig{})

	require.Len(t, res.Mentions, 2)
	assert.Equal(t, 0, res.Mentions[0].Position.Paragraph)
	assert.Equal(t, 3, res.Mentions[1].Position.Paragraph)
}

func TestExtractMaxAttachedWords(t *testing.T) {
	text := "met Harry James Potter Evans today"

	res := Extract(text, lexicon.Default(), types.ExtractionConfig{})
	assert.Equal(t, []string{"Harry James Potter", "Evans"}, forms(res))

	res = Extract(text, lexicon.Default(), types.ExtractionConfig{MaxAttachedWords: 1})
	assert.Equal(t, []string{"Harry James", "Potter Evans"}, forms(res))
}

func TestParseToken(t *testing.T) {
	lex := lexicon.Default()
	tests := []struct {
		raw  string
		want token
	}{
		{`"Harry,`, token{word: "Harry", base: "Harry", capitalized: true}},
		{`Harry."`, token{word: "Harry", base: "Harry", capitalized: true, endsSentence: true}},
		{`Mr.`, token{word: "Mr.", base: "Mr.", capitalized: true}},
		{`Ron's`, token{word: "Ron's", base: "Ron", capitalized: true, possessive: true}},
		{`she's`, token{word: "she's", base: "she's", contraction: true}},
		{`O'Brien!`, token{word: "O'Brien", base: "O'Brien", capitalized: true, endsSentence: true}},
		{`Harry'll`, token{word: "Harry'll", base: "Harry", capitalized: true, clitic: true}},
		{`Harry'd.`, token{word: "Harry'd", base: "Harry", capitalized: true, clitic: true, endsSentence: true}},
		{`—`, token{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseToken(tt.raw, lex))
		})
	}
}
