// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/character-engine/internal/extract"
	"github.com/pdiddy/character-engine/internal/group"
	"github.com/pdiddy/character-engine/internal/lexicon"
	"github.com/pdiddy/character-engine/pkg/types"
)

func addMentions(res *types.ExtractionResult, form string, n, poss int) {
	for i := 0; i < n; i++ {
		res.Add(types.Mention{Form: form, Possessive: i < poss})
	}
}

func ids(entities []types.Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.ID
	}
	return out
}

func TestClassifyScenario(t *testing.T) {
	lex := lexicon.Default()
	res := extract.Extract("Mr. Dursley hated Harry. Harry looked at Mr. Dursley.", lex, types.ExtractionConfig{})
	groups := group.Group(res, lex, types.GroupingConfig{MinMentions: 1})

	r := Classify(groups, res, lex, types.TierConfig{CandidateMinMentions: 1})
	require.Len(t, r.Confirmed, 1)
	assert.Equal(t, "Mr. Dursley", r.Confirmed[0].CanonicalName)
	assert.Equal(t, types.QualifiedTitlePattern, r.Confirmed[0].QualifiedBy)

	require.Len(t, r.Candidates, 1)
	assert.Equal(t, "Harry", r.Candidates[0].CanonicalName)
	assert.NotEmpty(t, r.Candidates[0].Notes)
	assert.Zero(t, r.Dropped)
}

func TestClassifyRules(t *testing.T) {
	tests := []struct {
		name      string
		group     types.EntityGroup
		counts    map[string][2]int
		confirmed types.Qualification
		candidate bool
	}{
		{
			name: "titled evidence",
			group: types.EntityGroup{
				CanonicalName: "Dursley",
				Variants:      []types.Variant{{Form: "Mr. Dursley", Count: 4}, {Form: "Dursley", Count: 5}},
				Evidence:      types.TitledNameEvidence{Title: "Mr", Name: "Dursley", BareNameLinked: true},
				TotalMentions: 9,
			},
			confirmed: types.QualifiedTitlePattern,
		},
		{
			name: "first word is an honorific",
			group: types.EntityGroup{
				CanonicalName: "Professor Sprout",
				Variants:      []types.Variant{{Form: "Professor Sprout", Count: 3}},
				Evidence:      types.SingleNameEvidence{},
				TotalMentions: 3,
			},
			confirmed: types.QualifiedTitlePattern,
		},
		{
			name: "both parts independent",
			group: types.EntityGroup{
				CanonicalName: "Harry Potter",
				Variants:      []types.Variant{{Form: "Harry Potter", Count: 5}},
				Evidence:      types.FullNameEvidence{First: "Harry", Last: "Potter"},
				TotalMentions: 5,
			},
			counts:    map[string][2]int{"Harry": {12, 0}, "Potter": {10, 0}},
			confirmed: types.QualifiedBothPartsIndep,
		},
		{
			name: "one part too rare",
			group: types.EntityGroup{
				CanonicalName: "Harry Potter",
				Variants:      []types.Variant{{Form: "Harry Potter", Count: 9}},
				Evidence:      types.FullNameEvidence{First: "Harry", Last: "Potter"},
				TotalMentions: 9,
			},
			counts:    map[string][2]int{"Harry": {12, 0}, "Potter": {9, 0}},
			candidate: true,
		},
		{
			name: "single name with possessive",
			group: types.EntityGroup{
				CanonicalName: "Hagrid",
				Variants:      []types.Variant{{Form: "Hagrid", Count: 15}, {Form: "Hagrid's", Count: 5}},
				Evidence:      types.SingleNameEvidence{Possessives: 5},
				TotalMentions: 20,
			},
			counts:    map[string][2]int{"Hagrid": {20, 5}},
			confirmed: types.QualifiedSingleWithPossess,
		},
		{
			name: "single name with too few possessives",
			group: types.EntityGroup{
				CanonicalName: "Dudley",
				Variants:      []types.Variant{{Form: "Dudley", Count: 26}, {Form: "Dudley's", Count: 4}},
				Evidence:      types.SingleNameEvidence{Possessives: 4},
				TotalMentions: 30,
			},
			counts:    map[string][2]int{"Dudley": {30, 4}},
			candidate: true,
		},
		{
			name: "variant with possessive",
			group: types.EntityGroup{
				CanonicalName: "Ron Weasley",
				Variants: []types.Variant{
					{Form: "Ron Weasley", Count: 4},
					{Form: "Ron", Count: 20},
					{Form: "Ron's", Count: 6},
				},
				Evidence:      types.FullNameEvidence{First: "Ron", Last: "Weasley", LinkedSingles: []string{"Ron"}},
				TotalMentions: 30,
			},
			counts:    map[string][2]int{"Ron": {26, 6}, "Weasley": {2, 0}},
			confirmed: types.QualifiedVariantWithPossess,
		},
		{
			name: "bare title is never confirmed",
			group: types.EntityGroup{
				CanonicalName: "Professor",
				Variants:      []types.Variant{{Form: "Professor", Count: 12}},
				Evidence:      types.SingleNameEvidence{},
				TotalMentions: 12,
			},
			candidate: true,
		},
		{
			name: "title and initial is never confirmed",
			group: types.EntityGroup{
				CanonicalName: "Mr. H",
				Variants:      []types.Variant{{Form: "Mr. H", Count: 2}},
				Evidence:      types.TitledNameEvidence{Title: "Mr", Name: "H"},
				TotalMentions: 2,
			},
		},
		{
			name: "below candidate floor",
			group: types.EntityGroup{
				CanonicalName: "Figg",
				Variants:      []types.Variant{{Form: "Figg", Count: 7}},
				Evidence:      types.SingleNameEvidence{},
				TotalMentions: 7,
			},
		},
	}

	lex := lexicon.Default()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := types.NewExtractionResult()
			for form, c := range tc.counts {
				addMentions(res, form, c[0], c[1])
			}

			r := Classify([]types.EntityGroup{tc.group}, res, lex, types.TierConfig{})
			switch {
			case tc.confirmed != "":
				require.Len(t, r.Confirmed, 1)
				assert.Equal(t, tc.confirmed, r.Confirmed[0].QualifiedBy)
				assert.Empty(t, r.Candidates)
			case tc.candidate:
				assert.Empty(t, r.Confirmed)
				require.Len(t, r.Candidates, 1)
				assert.NotEmpty(t, r.Candidates[0].Notes)
			default:
				assert.Empty(t, r.Confirmed)
				assert.Empty(t, r.Candidates)
				assert.Equal(t, 1, r.Dropped)
			}
		})
	}
}

func TestClassifyCandidateNotes(t *testing.T) {
	res := types.NewExtractionResult()
	addMentions(res, "Weasleys", 60, 3)
	g := types.EntityGroup{
		CanonicalName:      "Weasleys",
		Variants:           []types.Variant{{Form: "Weasleys", Count: 57}, {Form: "Weasleys's", Count: 3}},
		Evidence:           types.SingleNameEvidence{Possessives: 3},
		TotalMentions:      60,
		SentenceStartRatio: 0.25,
	}

	r := Classify([]types.EntityGroup{g}, res, lexicon.Default(), types.TierConfig{})
	require.Len(t, r.Candidates, 1)
	assert.Equal(t, []string{
		"has possessive forms (3)",
		"high frequency (60 mentions)",
		"single word",
		"possible plural form",
		"sentence-start ratio 0.25",
	}, r.Candidates[0].Notes)
}

func TestClassifySortsAndPreservesMentions(t *testing.T) {
	mk := func(name string, n int) types.EntityGroup {
		g := types.EntityGroup{CanonicalName: name, Evidence: types.SingleNameEvidence{}}
		g.AddVariant(name, n)
		return g
	}
	groups := []types.EntityGroup{mk("Dobby", 9), mk("Kreacher", 12), mk("Winky", 9), mk("Mr. Crouch", 4), mk("Mrs. Crouch", 11)}

	r := Classify(groups, types.NewExtractionResult(), lexicon.Default(), types.TierConfig{})
	assert.Equal(t, []string{"mrs_crouch", "mr_crouch"}, ids(r.Confirmed))
	assert.Equal(t, []string{"kreacher", "dobby", "winky"}, ids(r.Candidates))
	for _, e := range append(r.Confirmed, r.Candidates...) {
		assert.Equal(t, types.SumCounts(e.Variants), e.Mentions)
	}
}

func TestEntityID(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Harry Potter", "harry_potter"},
		{"Mr. Dursley", "mr_dursley"},
		{"Mr Dursley", "mr_dursley"},
		{"  Uncle   Vernon ", "uncle_vernon"},
		{"O’Brien", "o_brien"},
		{"Dean-Thomas!", "dean_thomas"},
		{"Agent 47", "agent_47"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EntityID(tc.name)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, EntityID(tc.name), "idempotent")
		})
	}
}
