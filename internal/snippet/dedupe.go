// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snippet

import (
	"sort"

	"github.com/pdiddy/character-engine/pkg/types"
)

// MaxMergeGap is the largest sentence-index gap between two snippets of the
// same paragraph that are merged into one.
const MaxMergeGap = 2

// Dedupe merges snippets of the same chapter and paragraph whose sentence
// gap is at most MaxMergeGap, then renumbers all snippets in
// (chapter, paragraph, sentence) order. The input is not modified.
func Dedupe(snippets []types.Snippet) []types.Snippet {
	sorted := make([]types.Snippet, len(snippets))
	copy(sorted, snippets)
	sortSnippets(sorted)

	var out []types.Snippet
	for _, s := range sorted {
		if n := len(out); n > 0 && mergeable(out[n-1], s) {
			out[n-1] = merge(out[n-1], s)
			continue
		}
		out = append(out, clone(s))
	}

	for i := range out {
		out[i].ID = FormatID(i + 1)
	}
	return out
}

func sortSnippets(s []types.Snippet) {
	sort.SliceStable(s, func(i, j int) bool {
		a, b := s[i], s[j]
		if a.Chapter != b.Chapter {
			return a.Chapter < b.Chapter
		}
		if a.Location.Paragraph != b.Location.Paragraph {
			return a.Location.Paragraph < b.Location.Paragraph
		}
		return a.Location.Start < b.Location.Start
	})
}

func mergeable(a, b types.Snippet) bool {
	return a.Chapter == b.Chapter &&
		a.Location.Paragraph == b.Location.Paragraph &&
		b.Location.Start-a.Location.End <= MaxMergeGap
}

func clone(s types.Snippet) types.Snippet {
	c := s
	c.Entities = append([]string(nil), s.Entities...)
	c.Mentions = append([]types.SnippetMention(nil), s.Mentions...)
	c.MatchSentences = matchSentences(s)
	return c
}

// matchSentences falls back to the joined match text for snippets read
// back from disk.
func matchSentences(s types.Snippet) []string {
	if len(s.MatchSentences) > 0 {
		return append([]string(nil), s.MatchSentences...)
	}
	if s.Text.Match == "" {
		return nil
	}
	return []string{s.Text.Match}
}

// merge joins a later snippet b into a. The match text is a's match and
// after followed by b's before and match, with repeated sentences dropped.
func merge(a, b types.Snippet) types.Snippet {
	var sents []string
	seen := make(map[string]bool)
	push := func(ss ...string) {
		for _, s := range ss {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			sents = append(sents, s)
		}
	}
	push(matchSentences(a)...)
	push(a.Text.After, b.Text.Before)
	push(matchSentences(b)...)

	out := a
	out.MatchSentences = sents
	out.Text = types.SnippetText{
		Before: a.Text.Before,
		Match:  types.JoinSentences(sents),
		After:  b.Text.After,
	}
	out.Location.End = b.Location.End

	var mentions []types.SnippetMention
	seenMention := make(map[types.SnippetMention]bool)
	addMention := func(mt types.SnippetMention, slot string) {
		mt.Sentence = slot
		if !seenMention[mt] {
			seenMention[mt] = true
			mentions = append(mentions, mt)
		}
	}
	for _, mt := range a.Mentions {
		if mt.Sentence == types.SlotBefore {
			addMention(mt, types.SlotBefore)
		} else {
			addMention(mt, types.SlotMatch)
		}
	}
	for _, mt := range b.Mentions {
		if mt.Sentence == types.SlotAfter {
			addMention(mt, types.SlotAfter)
		} else {
			addMention(mt, types.SlotMatch)
		}
	}
	out.Mentions = mentions
	out.Entities = unionEntities(a.Entities, b.Entities)
	return out
}

func unionEntities(a, b []string) []string {
	var out []string
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
