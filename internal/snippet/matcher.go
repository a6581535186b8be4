// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snippet re-scans a manuscript for resolved entities, builds one
// context window per entity-bearing sentence, and merges windows that sit
// close together in the same paragraph.
package snippet

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/character-engine/internal/group"
	"github.com/pdiddy/character-engine/internal/lexicon"
	"github.com/pdiddy/character-engine/pkg/types"
)

// Match is one entity found in a sentence.
type Match struct {
	EntityID string

	// Variant is the entity's own spelling of the matched form.
	Variant string
}

// target is what a lookup key resolves to.
type target struct {
	entityID string
	display  string
}

// Matcher finds entity mentions in sentences with a single longest-first
// alternation over every known form.
type Matcher struct {
	lex    *lexicon.Lexicon
	lookup map[string]target
	re     *regexp.Regexp
}

// NewMatcher indexes the canonical names and variants of entities. When two
// entities share a form the earlier entity keeps it.
func NewMatcher(entities []types.Entity, lex *lexicon.Lexicon) *Matcher {
	m := &Matcher{lex: lex, lookup: make(map[string]target)}

	add := func(form string, t target) {
		k := m.key(form)
		if k == "" {
			return
		}
		if _, ok := m.lookup[k]; !ok {
			m.lookup[k] = t
		}
	}
	for _, e := range entities {
		add(e.CanonicalName, target{entityID: e.ID, display: e.CanonicalName})
		for _, v := range e.Variants {
			// The pattern accepts a possessive suffix on any form.
			base := group.BaseForm(v.Form)
			add(base, target{entityID: e.ID, display: base})
		}
	}

	keys := make([]string, 0, len(m.lookup))
	for k := range m.lookup {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(keys[i]), utf8.RuneCountInString(keys[j])
		if li != lj {
			return li > lj
		}
		return keys[i] < keys[j]
	})

	if len(keys) == 0 {
		return m
	}
	alts := make([]string, len(keys))
	for i, k := range keys {
		alts[i] = m.pattern(k)
	}
	m.re = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(` + strings.Join(alts, "|") + `)(?:['’]s)?([\p{L}\p{N}]?)`)
	return m
}

// key folds case, apostrophe style, whitespace and title-abbreviation
// periods. A trailing possessive is not stripped here.
func (m *Matcher) key(form string) string {
	words := strings.Fields(strings.ToLower(lexicon.NormalizeApostrophes(form)))
	for i, w := range words {
		if strings.HasSuffix(w, ".") && m.lex.IsTitle(w) {
			words[i] = strings.TrimSuffix(w, ".")
		}
	}
	return strings.Join(words, " ")
}

// pattern turns a folded key into a regexp fragment that accepts either
// apostrophe style, any run of whitespace, and an optional title period.
func (m *Matcher) pattern(key string) string {
	words := strings.Fields(key)
	parts := make([]string, len(words))
	for i, w := range words {
		p := regexp.QuoteMeta(w)
		p = strings.ReplaceAll(p, "'", `['’]`)
		if m.lex.IsTitle(w) {
			p += `\.?`
		}
		parts[i] = p
	}
	return strings.Join(parts, `\s+`)
}

// Match returns the entities mentioned in sentence in order of first
// appearance, at most one per entity.
func (m *Matcher) Match(sentence string) []Match {
	if m.re == nil {
		return nil
	}
	var (
		out  []Match
		seen = make(map[string]bool)
	)
	for _, loc := range m.re.FindAllStringSubmatchIndex(sentence, -1) {
		if loc[5] > loc[4] {
			// Followed by a letter or digit: part of a longer word.
			continue
		}
		t, ok := m.lookup[m.key(sentence[loc[2]:loc[3]])]
		if !ok || seen[t.entityID] {
			continue
		}
		seen[t.entityID] = true
		out = append(out, Match{EntityID: t.entityID, Variant: t.display})
	}
	return out
}
