// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds proper-noun mentions in manuscript text.
// It scans line by line, tracks chapter and paragraph positions, and
// aggregates per-form counts used by the grouping and tiering stages.
package extract

import (
	"strings"

	"github.com/pdiddy/character-engine/internal/document"
	"github.com/pdiddy/character-engine/internal/lexicon"
	"github.com/pdiddy/character-engine/pkg/types"
)

// Extract scans text and returns every proper-noun mention in document
// order with aggregate counts keyed by normalized form. It never fails;
// text without capitalized names yields an empty result.
func Extract(text string, lex *lexicon.Lexicon, cfg types.ExtractionConfig) *types.ExtractionResult {
	cfg = cfg.WithDefaults()
	result := types.NewExtractionResult()

	lines := strings.Split(strings.ReplaceAll(lexicon.Normalize(text), "\r\n", "\n"), "\n")

	var (
		inFrontMatter bool
		seenContent   bool
		pos           types.Position
	)

	for lineNo, line := range lines {
		trimmed := strings.TrimSpace(line)

		if document.IsFrontMatterDelimiter(trimmed) && (inFrontMatter || !seenContent) {
			inFrontMatter = !inFrontMatter
			continue
		}
		if inFrontMatter {
			continue
		}

		if n, _, ok := document.ParseChapterHeader(trimmed); ok {
			seenContent = true
			pos.Chapter = n
			pos.Paragraph = 0
			continue
		}
		if trimmed == "" {
			pos.Paragraph++
			continue
		}
		seenContent = true
		if document.IsHeading(trimmed) {
			continue
		}

		pos.Line = lineNo
		scanLine(trimmed, pos, lex, cfg, result)
	}

	return result
}

// scanLine tokenizes one line and records the name sequences it contains.
func scanLine(line string, pos types.Position, lex *lexicon.Lexicon, cfg types.ExtractionConfig, result *types.ExtractionResult) {
	fields := strings.Fields(line)
	toks := make([]token, len(fields))
	for i, f := range fields {
		toks[i] = parseToken(f, lex)
	}

	for i := 0; i < len(toks); {
		t := toks[i]
		sentenceStart := atSentenceStart(toks, i)

		if !startsName(t, lex) {
			i++
			continue
		}

		words := []token{t}
		j := i + 1
		if !t.possessive && !t.clitic && !t.endsSentence {
			limit := cfg.MaxAttachedWords
			if lex.IsTitle(t.base) {
				limit = 1
			}
			for attached := 0; attached < limit && j < len(toks); attached++ {
				prev := words[len(words)-1]
				if prev.endsSentence || prev.possessive || prev.clitic {
					break
				}
				if !startsName(toks[j], lex) {
					break
				}
				words = append(words, toks[j])
				j++
			}
		}

		result.Add(buildMention(words, sentenceStart, pos, lex))
		i = j
	}
}

// atSentenceStart reports whether toks[i] opens its line or sentence.
// Punctuation-only tokens before it are skipped.
func atSentenceStart(toks []token, i int) bool {
	for k := i - 1; k >= 0; k-- {
		if toks[k].endsSentence {
			return true
		}
		if toks[k].base != "" {
			return false
		}
	}
	return true
}

// startsName reports whether t may begin or extend a name sequence.
func startsName(t token, lex *lexicon.Lexicon) bool {
	if t.base == "" || t.contraction || !t.capitalized {
		return false
	}
	return !lex.IsStopword(t.word) && !lex.IsStopword(t.base)
}

func buildMention(words []token, sentenceStart bool, pos types.Position, lex *lexicon.Lexicon) types.Mention {
	surface := make([]string, len(words))
	bases := make([]string, len(words))
	for i, w := range words {
		surface[i] = w.word
		bases[i] = w.base
	}
	last := words[len(words)-1]

	m := types.Mention{
		Surface:       strings.Join(surface, " "),
		Form:          strings.TrimSuffix(strings.Join(bases, " "), "."),
		Possessive:    last.possessive,
		SentenceStart: sentenceStart,
		Position:      pos,
	}
	if lex.IsTitle(words[0].base) {
		m.Titled = true
		m.Title = strings.TrimSuffix(words[0].base, ".")
	}
	return m
}
