// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package group clusters extracted surface forms into entity-group
// candidates: full names with their single-word parts, titled names with
// their bare names, and standalone single names.
package group

import (
	"sort"
	"strings"

	"github.com/pdiddy/character-engine/internal/lexicon"
	"github.com/pdiddy/character-engine/pkg/types"
)

// titledForm is a form whose first word is an honorific.
type titledForm struct {
	form  string
	title string
	name  string
}

// key identifies titled forms that differ only in title case or period.
func (t titledForm) key() string {
	return lexicon.TitleKey(t.title) + " " + t.name
}

// buckets partitions the extracted forms by shape. Each slice is ordered by
// mention count descending, then form ascending.
type buckets struct {
	full    []string
	titled  []titledForm
	singles []string
	single  map[string]bool
}

// grouper carries the shared state of one Group call.
type grouper struct {
	res     *types.ExtractionResult
	cfg     types.GroupingConfig
	claimed map[string]bool
}

// Group clusters the forms in res into entity groups whose total mentions
// reach cfg.MinMentions. Earlier linkage rules claim forms first and a
// claimed form never joins a second group. The result is sorted by total
// mentions descending with ties broken by canonical name.
func Group(res *types.ExtractionResult, lex *lexicon.Lexicon, cfg types.GroupingConfig) []types.EntityGroup {
	cfg = cfg.WithDefaults()
	g := &grouper{res: res, cfg: cfg, claimed: make(map[string]bool)}
	b := bucketForms(res, lex)

	var groups []types.EntityGroup
	groups = append(groups, g.fullNameGroups(b)...)
	groups = append(groups, g.titledGroups(b)...)
	groups = append(groups, g.singleGroups(b)...)

	kept := groups[:0]
	for _, grp := range groups {
		if grp.TotalMentions >= cfg.MinMentions {
			kept = append(kept, grp)
		}
	}
	SortGroups(kept)
	return kept
}

// SortGroups orders groups by total mentions descending, then canonical
// name ascending.
func SortGroups(groups []types.EntityGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].TotalMentions != groups[j].TotalMentions {
			return groups[i].TotalMentions > groups[j].TotalMentions
		}
		return groups[i].CanonicalName < groups[j].CanonicalName
	})
}

func bucketForms(res *types.ExtractionResult, lex *lexicon.Lexicon) buckets {
	forms := make([]string, 0, len(res.MentionCounts))
	for f := range res.MentionCounts {
		forms = append(forms, f)
	}
	sort.Slice(forms, func(i, j int) bool {
		ci, cj := res.MentionCounts[forms[i]], res.MentionCounts[forms[j]]
		if ci != cj {
			return ci > cj
		}
		return forms[i] < forms[j]
	})

	b := buckets{single: make(map[string]bool)}
	for _, f := range forms {
		words := strings.Fields(f)
		switch {
		case len(words) >= 2 && lex.IsTitle(words[0]):
			b.titled = append(b.titled, titledForm{
				form:  f,
				title: words[0],
				name:  strings.Join(words[1:], " "),
			})
		case len(words) == 2:
			b.full = append(b.full, f)
		case len(words) == 1:
			b.singles = append(b.singles, f)
			b.single[f] = true
		}
	}
	return b
}

// attach adds form and its possessive variant to grp and claims the form.
func (g *grouper) attach(grp *types.EntityGroup, form string) {
	empty := len(grp.Variants) == 0
	total := g.res.MentionCounts[form]
	poss := g.res.PossessiveCounts[form]
	grp.AddVariant(form, total-poss)
	grp.AddVariant(form+PossessiveSuffix, poss)
	g.claimed[form] = true

	if first, ok := g.res.FirstAppearance[form]; ok {
		if empty || first.Before(grp.FirstAppearance) {
			grp.FirstAppearance = first
		}
	}
	grp.SentenceStartRatio = SentenceStartRatio(*grp, g.res)
}

// PossessiveSuffix marks the variant that carries a form's possessive uses.
const PossessiveSuffix = "'s"

// BaseForm strips the possessive suffix from a variant form.
func BaseForm(variant string) string {
	return strings.TrimSuffix(variant, PossessiveSuffix)
}

// SentenceStartRatio is the share of a group's mentions that open a
// sentence. Possessive variants share their base form's count and are
// counted once.
func SentenceStartRatio(grp types.EntityGroup, res *types.ExtractionResult) float64 {
	if grp.TotalMentions == 0 {
		return 0
	}
	seen := make(map[string]bool, len(grp.Variants))
	starts := 0
	for _, v := range grp.Variants {
		base := BaseForm(v.Form)
		if seen[base] {
			continue
		}
		seen[base] = true
		starts += res.SentenceStartCounts[base]
	}
	return float64(starts) / float64(grp.TotalMentions)
}

// fullNameGroups anchors groups on untitled two-word names.
func (g *grouper) fullNameGroups(b buckets) []types.EntityGroup {
	var groups []types.EntityGroup
	counts := g.res.MentionCounts

	for _, full := range b.full {
		fc := counts[full]
		if fc < g.cfg.MinMentions || g.claimed[full] {
			continue
		}
		words := strings.Fields(full)
		first, last := words[0], words[1]

		ratio := g.cfg.FullNameRejectRatio
		if counts[first] > ratio*fc && counts[last] > ratio*fc {
			continue
		}

		grp := types.EntityGroup{CanonicalName: full}
		g.attach(&grp, full)
		ev := types.FullNameEvidence{First: first, Last: last}

		for _, part := range []string{first, last} {
			if b.single[part] && !g.claimed[part] && counts[part] >= g.cfg.MinMentions {
				g.attach(&grp, part)
				ev.LinkedSingles = append(ev.LinkedSingles, part)
			}
		}

		for _, t := range b.titled {
			if g.claimed[t.form] {
				continue
			}
			nameWords := strings.Fields(t.name)
			surname := nameWords[len(nameWords)-1]
			if surname == first || surname == last {
				g.attach(&grp, t.form)
				ev.LinkedTitles = append(ev.LinkedTitles, t.form)
			}
		}

		grp.Evidence = ev
		groups = append(groups, grp)
	}
	return groups
}

// titledGroups anchors the remaining titled forms. Forms that differ only
// in title case or abbreviation period share one group. When the bare name
// exists as an unclaimed single form it becomes the canonical name.
func (g *grouper) titledGroups(b buckets) []types.EntityGroup {
	var (
		order  []string
		byKey  = make(map[string][]titledForm)
		groups []types.EntityGroup
	)
	for _, t := range b.titled {
		if g.claimed[t.form] {
			continue
		}
		k := t.key()
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], t)
	}

	for _, k := range order {
		forms := byKey[k]
		anchor := forms[0]

		grp := types.EntityGroup{CanonicalName: anchor.form}
		ev := types.TitledNameEvidence{Title: strings.TrimSuffix(anchor.title, "."), Name: anchor.name}
		for _, t := range forms {
			g.attach(&grp, t.form)
		}

		if b.single[anchor.name] && !g.claimed[anchor.name] {
			g.attach(&grp, anchor.name)
			grp.CanonicalName = anchor.name
			ev.BareNameLinked = true
		}

		grp.Evidence = ev
		groups = append(groups, grp)
	}
	return groups
}

// singleGroups turns each remaining frequent single name into its own group.
func (g *grouper) singleGroups(b buckets) []types.EntityGroup {
	var groups []types.EntityGroup
	for _, s := range b.singles {
		if g.claimed[s] || g.res.MentionCounts[s] < g.cfg.MinMentions {
			continue
		}
		grp := types.EntityGroup{CanonicalName: s}
		g.attach(&grp, s)
		grp.Evidence = types.SingleNameEvidence{Possessives: g.res.PossessiveCounts[s]}
		groups = append(groups, grp)
	}
	return groups
}
