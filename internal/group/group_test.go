// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/character-engine/internal/extract"
	"github.com/pdiddy/character-engine/internal/lexicon"
	"github.com/pdiddy/character-engine/pkg/types"
)

// builder accumulates synthetic mentions in document order.
type builder struct {
	res  *types.ExtractionResult
	line int
}

func newBuilder() *builder {
	return &builder{res: types.NewExtractionResult()}
}

// add records n mentions of form; the first poss are possessive and the
// first starts open a sentence.
func (b *builder) add(form string, n, poss, starts int) *builder {
	for i := 0; i < n; i++ {
		b.res.Add(types.Mention{
			Surface:       form,
			Form:          form,
			Possessive:    i < poss,
			SentenceStart: i < starts,
			Position:      types.Position{Chapter: 1, Paragraph: b.line / 10, Line: b.line},
		})
		b.line++
	}
	return b
}

func find(t *testing.T, groups []types.EntityGroup, canonical string) types.EntityGroup {
	t.Helper()
	for _, g := range groups {
		if g.CanonicalName == canonical {
			return g
		}
	}
	require.Failf(t, "group not found", "canonical %q", canonical)
	return types.EntityGroup{}
}

func canonicals(groups []types.EntityGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.CanonicalName
	}
	return out
}

func TestGroupFullNameLinksPartsAndTitles(t *testing.T) {
	res := newBuilder().
		add("Harry Potter", 5, 0, 0).
		add("Harry", 20, 4, 0).
		add("Potter", 6, 0, 0).
		add("Mr. Potter", 2, 0, 0).
		res

	groups := Group(res, lexicon.Default(), types.GroupingConfig{})
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "Harry Potter", g.CanonicalName)
	assert.Equal(t, []types.Variant{
		{Form: "Harry Potter", Count: 5},
		{Form: "Harry", Count: 16},
		{Form: "Harry's", Count: 4},
		{Form: "Potter", Count: 6},
		{Form: "Mr. Potter", Count: 2},
	}, g.Variants)
	assert.Equal(t, 33, g.TotalMentions)
	assert.Equal(t, types.SumCounts(g.Variants), g.TotalMentions)

	ev, ok := g.Evidence.(types.FullNameEvidence)
	require.True(t, ok)
	assert.Equal(t, "Harry", ev.First)
	assert.Equal(t, "Potter", ev.Last)
	assert.Equal(t, []string{"Harry", "Potter"}, ev.LinkedSingles)
	assert.Equal(t, []string{"Mr. Potter"}, ev.LinkedTitles)
}

func TestGroupRejectsFullNameDwarfedByParts(t *testing.T) {
	res := newBuilder().
		add("Privet Drive", 3, 0, 0).
		add("Privet", 40, 0, 0).
		add("Drive", 35, 0, 0).
		res

	groups := Group(res, lexicon.Default(), types.GroupingConfig{})
	assert.Equal(t, []string{"Privet", "Drive"}, canonicals(groups))
	for _, g := range groups {
		assert.IsType(t, types.SingleNameEvidence{}, g.Evidence)
	}
}

func TestGroupTitledNamePrefersBareName(t *testing.T) {
	res := newBuilder().
		add("Mr. Dursley", 4, 0, 0).
		add("Mr Dursley", 1, 0, 0).
		add("Dursley", 3, 1, 0).
		res

	groups := Group(res, lexicon.Default(), types.GroupingConfig{})
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "Dursley", g.CanonicalName)
	assert.Equal(t, 8, g.TotalMentions)
	assert.Equal(t, []types.Variant{
		{Form: "Mr. Dursley", Count: 4},
		{Form: "Mr Dursley", Count: 1},
		{Form: "Dursley", Count: 2},
		{Form: "Dursley's", Count: 1},
	}, g.Variants)

	ev, ok := g.Evidence.(types.TitledNameEvidence)
	require.True(t, ok)
	assert.Equal(t, "Mr", ev.Title)
	assert.Equal(t, "Dursley", ev.Name)
	assert.True(t, ev.BareNameLinked)
}

func TestGroupTitledNameWithoutBareName(t *testing.T) {
	res := newBuilder().add("Professor McGonagall", 5, 0, 0).res

	groups := Group(res, lexicon.Default(), types.GroupingConfig{})
	require.Len(t, groups, 1)
	assert.Equal(t, "Professor McGonagall", groups[0].CanonicalName)

	ev, ok := groups[0].Evidence.(types.TitledNameEvidence)
	require.True(t, ok)
	assert.False(t, ev.BareNameLinked)
}

func TestGroupClaimsFormOnce(t *testing.T) {
	res := newBuilder().
		add("Ron Weasley", 4, 0, 0).
		add("Fred Weasley", 3, 0, 0).
		add("Weasley", 10, 0, 0).
		add("Ron", 12, 0, 0).
		res

	groups := Group(res, lexicon.Default(), types.GroupingConfig{})
	assert.Equal(t, []string{"Ron Weasley", "Fred Weasley"}, canonicals(groups))

	fred := find(t, groups, "Fred Weasley")
	assert.Equal(t, []types.Variant{{Form: "Fred Weasley", Count: 3}}, fred.Variants)

	seen := make(map[string]string)
	for _, g := range groups {
		for _, v := range g.Variants {
			prev, dup := seen[v.Form]
			assert.False(t, dup, "form %q in %q and %q", v.Form, prev, g.CanonicalName)
			seen[v.Form] = g.CanonicalName
		}
	}
}

func TestGroupDropsGroupsBelowThreshold(t *testing.T) {
	res := newBuilder().
		add("Hagrid", 7, 0, 0).
		add("Dudley", 7, 0, 0).
		add("Figg", 2, 0, 0).
		add("Ron Weasley", 2, 0, 0).
		res

	groups := Group(res, lexicon.Default(), types.GroupingConfig{})
	assert.Equal(t, []string{"Dudley", "Hagrid"}, canonicals(groups), "ties break by canonical name")
}

func TestGroupFirstAppearanceAndSentenceStartRatio(t *testing.T) {
	res := newBuilder().
		add("Dursley", 3, 0, 2).
		add("Mr. Dursley", 3, 0, 1).
		res

	groups := Group(res, lexicon.Default(), types.GroupingConfig{})
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, types.Position{Chapter: 1, Paragraph: 0, Line: 0}, g.FirstAppearance)
	assert.InDelta(t, 0.5, g.SentenceStartRatio, 1e-9)
}

func TestGroupFromExtraction(t *testing.T) {
	lex := lexicon.Default()
	res := extract.Extract("Mr. Dursley hated Harry. Harry looked at Mr. Dursley.", lex, types.ExtractionConfig{})

	groups := Group(res, lex, types.GroupingConfig{MinMentions: 1})
	assert.Equal(t, []string{"Harry", "Mr. Dursley"}, canonicals(groups))
	for _, g := range groups {
		assert.Equal(t, 2, g.TotalMentions)
	}
}

func TestGroupEmptyInput(t *testing.T) {
	groups := Group(types.NewExtractionResult(), lexicon.Default(), types.GroupingConfig{})
	assert.Empty(t, groups)
}
