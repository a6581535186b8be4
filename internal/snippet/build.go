// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snippet

import (
	"fmt"

	"github.com/pdiddy/character-engine/internal/document"
	"github.com/pdiddy/character-engine/pkg/types"
)

// FormatID renders a snippet id.
func FormatID(n int) string {
	return fmt.Sprintf("%05d", n)
}

// Build creates one raw snippet per sentence that mentions an entity, with
// the neighbouring sentences of the same paragraph as context. Mention
// records cover all three slots and Entities is their union in reading
// order.
func Build(doc *document.Document, m *Matcher) []types.Snippet {
	var out []types.Snippet
	for _, ch := range doc.Chapters {
		for _, para := range ch.Paragraphs {
			sents := para.Sentences
			for i, sent := range sents {
				if len(m.Match(sent)) == 0 {
					continue
				}

				s := types.Snippet{
					ID:             FormatID(len(out) + 1),
					Chapter:        ch.Number,
					ChapterTitle:   ch.Title,
					Location:       types.Location{Paragraph: para.Index, Start: i, End: i},
					Text:           types.SnippetText{Match: sent},
					MatchSentences: []string{sent},
				}
				if i > 0 {
					s.Text.Before = sents[i-1]
				}
				if i+1 < len(sents) {
					s.Text.After = sents[i+1]
				}

				addSlot(&s, m, s.Text.Before, types.SlotBefore)
				addSlot(&s, m, sent, types.SlotMatch)
				addSlot(&s, m, s.Text.After, types.SlotAfter)
				s.Entities = entitiesOf(s.Mentions)
				out = append(out, s)
			}
		}
	}
	return out
}

func addSlot(s *types.Snippet, m *Matcher, sentence, slot string) {
	if sentence == "" {
		return
	}
	for _, mt := range m.Match(sentence) {
		s.Mentions = append(s.Mentions, types.SnippetMention{
			Entity:   mt.EntityID,
			Variant:  mt.Variant,
			Sentence: slot,
		})
	}
}

// entitiesOf lists the distinct entity ids of mentions, ordered by slot
// (before, match, after) and then by appearance.
func entitiesOf(mentions []types.SnippetMention) []string {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	for _, slot := range []string{types.SlotBefore, types.SlotMatch, types.SlotAfter} {
		for _, mt := range mentions {
			if mt.Sentence == slot && !seen[mt.Entity] {
				seen[mt.Entity] = true
				out = append(out, mt.Entity)
			}
		}
	}
	return out
}
