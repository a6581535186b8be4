// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coref

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/character-engine/internal/lexicon"
	"github.com/pdiddy/character-engine/internal/tier"
	"github.com/pdiddy/character-engine/pkg/types"
)

// Skip reasons recorded in MergeStats.Skipped.
const (
	SkipTooFewNames    = "fewer than 2 names"
	SkipTooFewResolved = "fewer than 2 names resolved to entities"
)

// member is one live entity during merge application.
type member struct {
	entity    types.Entity
	confirmed bool
	alive     bool

	// into is the index of the entity that absorbed this one, or -1.
	into int
}

// merger holds the working copy of the entity set.
type merger struct {
	members []member
	exact   map[string]int
	folded  map[string]int
	aliases map[string]int
}

// foldName is the case, apostrophe and period insensitive lookup key.
func foldName(name string) string {
	name = lexicon.NormalizeApostrophes(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, ".", "")
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func newMerger(confirmed, candidates []types.Entity) *merger {
	m := &merger{
		exact:   make(map[string]int),
		folded:  make(map[string]int),
		aliases: make(map[string]int),
	}
	add := func(e types.Entity, conf bool) {
		i := len(m.members)
		m.members = append(m.members, member{entity: e.Clone(), confirmed: conf, alive: true, into: -1})
		if _, ok := m.exact[e.CanonicalName]; !ok {
			m.exact[e.CanonicalName] = i
		}
		if _, ok := m.folded[foldName(e.CanonicalName)]; !ok {
			m.folded[foldName(e.CanonicalName)] = i
		}
		for _, alias := range e.MergedFrom {
			m.aliases[foldName(alias)] = i
		}
	}
	for _, e := range confirmed {
		add(e, true)
	}
	for _, e := range candidates {
		add(e, false)
	}
	return m
}

// resolve maps a provider-supplied name to the live entity that now holds
// it: exact canonical name, then folded name, then absorbed aliases.
func (m *merger) resolve(name string) (int, bool) {
	i, ok := m.exact[name]
	if !ok {
		i, ok = m.folded[foldName(name)]
	}
	if !ok {
		i, ok = m.aliases[foldName(name)]
	}
	if !ok {
		return 0, false
	}
	for !m.members[i].alive {
		i = m.members[i].into
	}
	return i, true
}

// absorb folds member j into member i.
func (m *merger) absorb(i, j int) {
	p, a := &m.members[i], &m.members[j]

	for _, v := range a.entity.Variants {
		addVariant(&p.entity, v)
	}
	if !hasVariant(p.entity, a.entity.CanonicalName) {
		p.entity.Variants = append(p.entity.Variants, types.Variant{Form: a.entity.CanonicalName})
	}
	p.entity.Mentions += a.entity.Mentions
	p.entity.MergedFrom = append(p.entity.MergedFrom, a.entity.CanonicalName)
	p.entity.MergedFrom = append(p.entity.MergedFrom, a.entity.MergedFrom...)
	if earlier(a.entity.FirstAppearance, p.entity.FirstAppearance) {
		p.entity.FirstAppearance = a.entity.FirstAppearance
	}

	if a.confirmed && !p.confirmed {
		p.confirmed = true
		p.entity.QualifiedBy = a.entity.QualifiedBy
		p.entity.Notes = nil
	}

	m.aliases[foldName(a.entity.CanonicalName)] = i
	for _, alias := range a.entity.MergedFrom {
		m.aliases[foldName(alias)] = i
	}
	a.alive = false
	a.into = i
}

func addVariant(e *types.Entity, v types.Variant) {
	for k := range e.Variants {
		if e.Variants[k].Form == v.Form {
			e.Variants[k].Count += v.Count
			return
		}
	}
	e.Variants = append(e.Variants, v)
}

func hasVariant(e types.Entity, form string) bool {
	for _, v := range e.Variants {
		if v.Form == form {
			return true
		}
	}
	return false
}

func earlier(a, b types.FirstAppearance) bool {
	if a.Chapter != b.Chapter {
		return a.Chapter < b.Chapter
	}
	return a.Paragraph < b.Paragraph
}

// Apply merges each name group into its highest-mention entity and returns
// new confirmed and candidate lists. The inputs are not modified. A merged
// entity is confirmed when it or anything it absorbed was confirmed.
func Apply(confirmed, candidates []types.Entity, groups [][]string) Result {
	m := newMerger(confirmed, candidates)
	stats := types.MergeStats{GroupsIdentified: len(groups)}

	for _, names := range groups {
		if len(names) < 2 {
			stats.Skipped = append(stats.Skipped, types.SkippedMerge{Names: names, Reason: SkipTooFewNames})
			continue
		}

		var (
			matched    []int
			unresolved []string
			seen       = make(map[int]bool)
		)
		for _, name := range names {
			i, ok := m.resolve(name)
			if !ok {
				unresolved = append(unresolved, name)
				continue
			}
			if !seen[i] {
				seen[i] = true
				matched = append(matched, i)
			}
		}
		if len(matched) < 2 {
			reason := SkipTooFewResolved
			if len(unresolved) > 0 {
				reason = fmt.Sprintf("%s (unknown: %s)", reason, strings.Join(unresolved, ", "))
			}
			stats.Skipped = append(stats.Skipped, types.SkippedMerge{Names: names, Reason: reason})
			continue
		}

		sort.SliceStable(matched, func(a, b int) bool {
			ea, eb := m.members[matched[a]].entity, m.members[matched[b]].entity
			if ea.Mentions != eb.Mentions {
				return ea.Mentions > eb.Mentions
			}
			return ea.CanonicalName < eb.CanonicalName
		})

		primary := matched[0]
		applied := types.AppliedMerge{Primary: m.members[primary].entity.CanonicalName}
		for _, j := range matched[1:] {
			applied.Absorbed = append(applied.Absorbed, m.members[j].entity.CanonicalName)
			m.absorb(primary, j)
		}
		applied.Mentions = m.members[primary].entity.Mentions
		stats.Applied = append(stats.Applied, applied)
		stats.EntitiesMerged += len(matched) - 1
	}

	res := Result{Stats: stats}
	for _, mem := range m.members {
		if !mem.alive {
			continue
		}
		if mem.confirmed {
			res.Confirmed = append(res.Confirmed, mem.entity)
		} else {
			res.Candidates = append(res.Candidates, mem.entity)
		}
	}
	if stats.EntitiesMerged > 0 {
		tier.SortEntities(res.Confirmed)
		tier.SortEntities(res.Candidates)
	}
	return res
}
