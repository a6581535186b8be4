// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter removes entity groups that are statistically likely to be
// misdetected common words, truncated phrases, or list-concatenated names.
package filter

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/character-engine/internal/group"
	"github.com/pdiddy/character-engine/internal/lexicon"
	"github.com/pdiddy/character-engine/pkg/types"
)

// Filter applies the junk heuristics to each group in order; the first
// heuristic that fires excludes the group. Kept groups preserve input order
// and carry SentenceStartRatio rounded to two decimals.
func Filter(groups []types.EntityGroup, res *types.ExtractionResult, text string, lex *lexicon.Lexicon, cfg types.FilterConfig) ([]types.EntityGroup, []types.Exclusion) {
	cfg = cfg.WithDefaults()
	text = lexicon.Normalize(text)
	prefixes := twoWordPrefixes(groups, lex)

	var (
		kept     []types.EntityGroup
		excluded []types.Exclusion
	)
	for _, g := range groups {
		ratio := group.SentenceStartRatio(g, res)
		if ex, ok := check(g, ratio, res, text, prefixes, lex, cfg); ok {
			excluded = append(excluded, ex)
			continue
		}
		g.SentenceStartRatio = round2(ratio)
		kept = append(kept, g)
	}
	return kept, excluded
}

func check(g types.EntityGroup, ratio float64, res *types.ExtractionResult, text string, prefixes map[string]int, lex *lexicon.Lexicon, cfg types.FilterConfig) (types.Exclusion, bool) {
	ex := types.Exclusion{CanonicalName: g.CanonicalName, Mentions: g.TotalMentions}

	if g.TotalMentions >= cfg.SentenceStartMinMentions && ratio > cfg.SentenceStartRatio {
		ex.Reason = types.ExcludedSentenceStart
		ex.Evidence = map[string]float64{
			"sentenceStartRatio": round2(ratio),
			"totalMentions":      float64(g.TotalMentions),
		}
		return ex, true
	}

	first, second, ok := twoWordName(g.CanonicalName, lex)
	if !ok {
		return ex, false
	}

	if others := prefixes[first] - 1; others >= cfg.TruncatedPrefixGroups {
		ex.Reason = types.ExcludedTruncated
		ex.Evidence = map[string]float64{"groupsSharingFirstWord": float64(others)}
		return ex, true
	}

	if g.TotalMentions < cfg.ListSeparatedMaxMentions {
		c := countListPatterns(text, first, second)
		listed := max(c.conjunction, c.comma)
		if listed >= cfg.ListSeparatedMinOccurrences && listed > c.literal {
			ex.Reason = types.ExcludedListSeparated
			ex.Evidence = map[string]float64{
				"conjunctionPattern": float64(c.conjunction),
				"commaPattern":       float64(c.comma),
				"literalBigram":      float64(c.literal),
			}
			return ex, true
		}
	}

	if g.TotalMentions < cfg.HighFrequencyMaxMentions {
		fc, sc := res.MentionCounts[first], res.MentionCounts[second]
		if fc >= cfg.HighFrequencyWordMentions && sc >= cfg.HighFrequencyWordMentions {
			ex.Reason = types.ExcludedHighFrequency
			ex.Evidence = map[string]float64{
				"firstWordMentions":  float64(fc),
				"secondWordMentions": float64(sc),
			}
			return ex, true
		}
	}

	return ex, false
}

// twoWordName splits an untitled two-word canonical name. Titled names
// share their honorific by nature and are never checked as phrases.
func twoWordName(name string, lex *lexicon.Lexicon) (string, string, bool) {
	words := strings.Fields(name)
	if len(words) != 2 || lex.IsTitle(words[0]) {
		return "", "", false
	}
	return words[0], words[1], true
}

// twoWordPrefixes counts untitled two-word canonical names by first word.
func twoWordPrefixes(groups []types.EntityGroup, lex *lexicon.Lexicon) map[string]int {
	counts := make(map[string]int)
	for _, g := range groups {
		if first, _, ok := twoWordName(g.CanonicalName, lex); ok {
			counts[first]++
		}
	}
	return counts
}

type patternCounts struct {
	conjunction int
	comma       int
	literal     int
}

// countListPatterns counts "A[,] and|or B", "A, B," and the literal "A B"
// in text.
func countListPatterns(text, first, second string) patternCounts {
	a, b := regexp.QuoteMeta(first), regexp.QuoteMeta(second)
	conj := regexp.MustCompile(a + `,?\s+(?:and|or)\s+` + b)
	comma := regexp.MustCompile(a + `,\s+` + b + `,`)
	literal := regexp.MustCompile(a + `\s+` + b)
	return patternCounts{
		conjunction: countWords(conj, text, true),
		comma:       countWords(comma, text, false),
		literal:     countWords(literal, text, true),
	}
}

// countWords counts matches of re that do not start inside a word and,
// when closed is set, do not end inside one. Boundaries are checked per
// rune so accented names are counted.
func countWords(re *regexp.Regexp, text string, closed bool) int {
	n := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if r, _ := utf8.DecodeLastRuneInString(text[:loc[0]]); loc[0] > 0 && isWordRune(r) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(text[loc[1]:]); closed && loc[1] < len(text) && isWordRune(r) {
			continue
		}
		n++
	}
	return n
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
