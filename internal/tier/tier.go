// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tier splits filtered entity groups into confirmed entities,
// candidates awaiting review, and low-frequency groups that are dropped.
package tier

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/character-engine/internal/group"
	"github.com/pdiddy/character-engine/internal/lexicon"
	"github.com/pdiddy/character-engine/pkg/types"
)

// Result holds the classified entities. Dropped counts groups below the
// candidate floor; they are reported only as low_frequency exclusions.
type Result struct {
	Confirmed  []types.Entity
	Candidates []types.Entity
	Dropped    int
}

// Classify tiers each group. The first matching confirmation rule wins;
// groups that match none become candidates when they reach
// cfg.CandidateMinMentions. Both lists are sorted by mentions descending,
// then canonical name.
func Classify(groups []types.EntityGroup, res *types.ExtractionResult, lex *lexicon.Lexicon, cfg types.TierConfig) Result {
	cfg = cfg.WithDefaults()
	var r Result

	for _, g := range groups {
		disqualified := isBareTitle(g.CanonicalName, lex)
		if !disqualified {
			if reason, ok := qualify(g, res, lex, cfg); ok {
				e := newEntity(g)
				e.QualifiedBy = reason
				r.Confirmed = append(r.Confirmed, e)
				continue
			}
		}

		if g.TotalMentions < cfg.CandidateMinMentions {
			r.Dropped++
			continue
		}
		e := newEntity(g)
		e.Notes = reviewNotes(g, res, disqualified, cfg)
		r.Candidates = append(r.Candidates, e)
	}

	SortEntities(r.Confirmed)
	SortEntities(r.Candidates)
	return r
}

// SortEntities orders entities by mentions descending, then canonical name.
func SortEntities(entities []types.Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Mentions != entities[j].Mentions {
			return entities[i].Mentions > entities[j].Mentions
		}
		return entities[i].CanonicalName < entities[j].CanonicalName
	})
}

func newEntity(g types.EntityGroup) types.Entity {
	return types.Entity{
		ID:              EntityID(g.CanonicalName),
		CanonicalName:   g.CanonicalName,
		Mentions:        g.TotalMentions,
		Variants:        append([]types.Variant(nil), g.Variants...),
		FirstAppearance: g.FirstAppearance.Appearance(),
	}
}

func qualify(g types.EntityGroup, res *types.ExtractionResult, lex *lexicon.Lexicon, cfg types.TierConfig) (types.Qualification, bool) {
	words := strings.Fields(g.CanonicalName)
	if len(words) == 0 {
		return "", false
	}

	if hasTitleEvidence(g) || lex.IsTitle(words[0]) {
		return types.QualifiedTitlePattern, true
	}

	switch len(words) {
	case 1:
		poss := res.PossessiveCounts[g.CanonicalName]
		if g.TotalMentions >= cfg.PossessiveMinMentions && poss >= cfg.PossessiveMinCount {
			return types.QualifiedSingleWithPossess, true
		}
	case 2:
		if res.MentionCounts[words[0]] >= cfg.IndependentPartMentions &&
			res.MentionCounts[words[1]] >= cfg.IndependentPartMentions {
			return types.QualifiedBothPartsIndep, true
		}
		for _, v := range g.Variants {
			if strings.Contains(v.Form, " ") || strings.HasSuffix(v.Form, group.PossessiveSuffix) {
				continue
			}
			if res.MentionCounts[v.Form] >= cfg.PossessiveMinMentions &&
				res.PossessiveCounts[v.Form] >= cfg.PossessiveMinCount {
				return types.QualifiedVariantWithPossess, true
			}
		}
	}
	return "", false
}

func hasTitleEvidence(g types.EntityGroup) bool {
	switch ev := g.Evidence.(type) {
	case types.TitledNameEvidence:
		return true
	case types.FullNameEvidence:
		return len(ev.LinkedTitles) > 0
	}
	return false
}

// isBareTitle reports names that are a lone honorific or an honorific
// followed by a single letter ("Mr. H").
func isBareTitle(name string, lex *lexicon.Lexicon) bool {
	words := strings.Fields(name)
	switch len(words) {
	case 1:
		return lex.IsTitle(words[0])
	case 2:
		rest := strings.TrimSuffix(words[1], ".")
		return lex.IsTitle(words[0]) && utf8.RuneCountInString(rest) == 1
	}
	return false
}

func reviewNotes(g types.EntityGroup, res *types.ExtractionResult, disqualified bool, cfg types.TierConfig) []string {
	var notes []string
	if disqualified {
		notes = append(notes, "bare title, never confirmed automatically")
	}

	poss := 0
	seen := make(map[string]bool, len(g.Variants))
	for _, v := range g.Variants {
		base := group.BaseForm(v.Form)
		if !seen[base] {
			seen[base] = true
			poss += res.PossessiveCounts[base]
		}
	}
	if poss > 0 {
		notes = append(notes, fmt.Sprintf("has possessive forms (%d)", poss))
	} else {
		notes = append(notes, "no possessive forms")
	}

	if g.TotalMentions >= cfg.HighFrequencyMentions {
		notes = append(notes, fmt.Sprintf("high frequency (%d mentions)", g.TotalMentions))
	}

	words := strings.Fields(g.CanonicalName)
	if len(words) == 1 {
		notes = append(notes, "single word")
	} else {
		notes = append(notes, fmt.Sprintf("%d words", len(words)))
	}

	if len(words) > 0 && isPlural(words[len(words)-1]) {
		notes = append(notes, "possible plural form")
	}

	if g.SentenceStartRatio > 0 {
		notes = append(notes, fmt.Sprintf("sentence-start ratio %.2f", g.SentenceStartRatio))
	}
	return notes
}

func isPlural(word string) bool {
	return len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss")
}

// EntityID derives a stable identifier from a canonical name: lower case,
// every run of non-alphanumeric characters collapsed to "_", leading and
// trailing underscores trimmed.
func EntityID(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(lexicon.Normalize(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
