// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coref

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/character-engine/internal/llm"
	"github.com/pdiddy/character-engine/internal/tier"
	"github.com/pdiddy/character-engine/pkg/types"
)

func entity(name string, mentions int, ch, para int) types.Entity {
	return types.Entity{
		ID:              tier.EntityID(name),
		CanonicalName:   name,
		Mentions:        mentions,
		Variants:        []types.Variant{{Form: name, Count: mentions}},
		FirstAppearance: types.FirstAppearance{Chapter: ch, Paragraph: para},
	}
}

func vernonFixture() ([]types.Entity, []types.Entity) {
	confirmed := []types.Entity{
		entity("Vernon", 50, 1, 4),
		entity("Harry", 40, 1, 2),
	}
	confirmed[0].QualifiedBy = types.QualifiedSingleWithPossess
	confirmed[1].QualifiedBy = types.QualifiedSingleWithPossess
	candidates := []types.Entity{
		entity("Uncle Vernon", 10, 2, 0),
		entity("Mr Dursley", 5, 1, 0),
	}
	candidates[0].Notes = []string{"2 words"}
	candidates[1].Notes = []string{"2 words"}
	return confirmed, candidates
}

func TestApplyVernonScenario(t *testing.T) {
	confirmed, candidates := vernonFixture()

	res := Apply(confirmed, candidates, [][]string{{"Vernon", "Uncle Vernon", "Mr Dursley"}})

	require.Len(t, res.Confirmed, 2)
	assert.Empty(t, res.Candidates)

	v := res.Confirmed[0]
	assert.Equal(t, "Vernon", v.CanonicalName)
	assert.Equal(t, 65, v.Mentions)
	assert.Equal(t, []string{"Uncle Vernon", "Mr Dursley"}, v.MergedFrom)
	assert.Equal(t, types.SumCounts(v.Variants), v.Mentions)
	assert.Equal(t, types.FirstAppearance{Chapter: 1, Paragraph: 0}, v.FirstAppearance, "earliest first appearance is adopted")

	assert.Equal(t, 1, res.Stats.GroupsIdentified)
	assert.Equal(t, 2, res.Stats.EntitiesMerged)
	require.Len(t, res.Stats.Applied, 1)
	assert.Equal(t, types.AppliedMerge{Primary: "Vernon", Absorbed: []string{"Uncle Vernon", "Mr Dursley"}, Mentions: 65}, res.Stats.Applied[0])
}

func TestApplyDoesNotMutateInputs(t *testing.T) {
	confirmed, candidates := vernonFixture()
	wantConfirmed := types.CloneEntities(confirmed)
	wantCandidates := types.CloneEntities(candidates)

	Apply(confirmed, candidates, [][]string{{"Vernon", "Uncle Vernon"}})

	assert.Equal(t, wantConfirmed, confirmed)
	assert.Equal(t, wantCandidates, candidates)
}

func TestApplyCandidateAbsorbingConfirmedBecomesConfirmed(t *testing.T) {
	confirmed := []types.Entity{entity("Mr. Dursley", 5, 1, 0)}
	confirmed[0].QualifiedBy = types.QualifiedTitlePattern
	candidates := []types.Entity{entity("Vernon", 30, 1, 3)}
	candidates[0].Notes = []string{"single word"}

	res := Apply(confirmed, candidates, [][]string{{"Vernon", "Mr. Dursley"}})
	require.Len(t, res.Confirmed, 1)
	assert.Empty(t, res.Candidates)
	assert.Equal(t, "Vernon", res.Confirmed[0].CanonicalName)
	assert.Equal(t, types.QualifiedTitlePattern, res.Confirmed[0].QualifiedBy)
	assert.Empty(t, res.Confirmed[0].Notes)
	assert.Equal(t, 35, res.Confirmed[0].Mentions)
}

func TestApplySkips(t *testing.T) {
	confirmed, candidates := vernonFixture()

	res := Apply(confirmed, candidates, [][]string{
		{"Vernon"},
		{"Vernon", "Petunia"},
		{"Harry", "harry"},
	})

	assert.Equal(t, 3, res.Stats.GroupsIdentified)
	assert.Zero(t, res.Stats.EntitiesMerged)
	assert.Empty(t, res.Stats.Applied)
	require.Len(t, res.Stats.Skipped, 3)
	assert.Equal(t, SkipTooFewNames, res.Stats.Skipped[0].Reason)
	assert.Contains(t, res.Stats.Skipped[1].Reason, SkipTooFewResolved)
	assert.Contains(t, res.Stats.Skipped[1].Reason, "Petunia")
	assert.Equal(t, SkipTooFewResolved, res.Stats.Skipped[2].Reason, "both names resolve to one entity")

	assert.Equal(t, confirmed, res.Confirmed)
	assert.Equal(t, candidates, res.Candidates)
}

func TestApplyResolvesFoldedNamesAndAliases(t *testing.T) {
	confirmed, candidates := vernonFixture()

	res := Apply(confirmed, candidates, [][]string{
		{"vernon", "Uncle Vernon"},
		{"UNCLE VERNON", "Mr. Dursley"},
	})

	require.Len(t, res.Stats.Applied, 2)
	assert.Equal(t, "Vernon", res.Stats.Applied[1].Primary, "absorbed name resolves to its new owner")
	assert.Equal(t, []string{"Mr Dursley"}, res.Stats.Applied[1].Absorbed)
	assert.Equal(t, 65, res.Confirmed[0].Mentions)
}

func TestApplyMergesSameFormVariants(t *testing.T) {
	a := entity("Hagrid", 30, 1, 0)
	b := types.Entity{
		CanonicalName: "Rubeus Hagrid",
		Mentions:      8,
		Variants:      []types.Variant{{Form: "Rubeus Hagrid", Count: 3}, {Form: "Hagrid", Count: 5}},
	}

	res := Apply(nil, []types.Entity{a, b}, [][]string{{"Hagrid", "Rubeus Hagrid"}})
	require.Len(t, res.Candidates, 1)
	got := res.Candidates[0]
	assert.Equal(t, []types.Variant{{Form: "Hagrid", Count: 35}, {Form: "Rubeus Hagrid", Count: 3}}, got.Variants)
	assert.Equal(t, 38, got.Mentions)
}

func TestApplyAddsCanonicalNameAsVariant(t *testing.T) {
	a := entity("Ron", 40, 1, 0)
	b := types.Entity{CanonicalName: "Ronald", Mentions: 4, Variants: []types.Variant{{Form: "Ronald Weasley", Count: 4}}}

	res := Apply(nil, []types.Entity{a, b}, [][]string{{"Ron", "Ronald"}})
	require.Len(t, res.Candidates, 1)
	assert.Contains(t, res.Candidates[0].Variants, types.Variant{Form: "Ronald", Count: 0})
	assert.Equal(t, types.SumCounts(res.Candidates[0].Variants), res.Candidates[0].Mentions)
}

func TestMergerAppliesProviderSuggestions(t *testing.T) {
	confirmed, candidates := vernonFixture()

	var got llm.Request
	p := llm.ProviderFunc(func(_ context.Context, req llm.Request) (llm.Response, error) {
		got = req
		return llm.Response{
			GeneratedText: "Here you go:\n```json\n{\"merges\": [[\"Vernon\", \"Uncle Vernon\", \"Mr Dursley\"]]}\n```",
			Usage:         types.TokenUsage{PromptTokens: 100, CompletionTokens: 20},
		}, nil
	})

	res := NewMerger(p, types.CorefConfig{}).Merge(context.Background(), confirmed, candidates)
	assert.Empty(t, res.Stats.Error)
	require.NotNil(t, res.Stats.TokenUsage)
	assert.Equal(t, 100, res.Stats.TokenUsage.PromptTokens)
	assert.Equal(t, 65, res.Confirmed[0].Mentions)

	assert.Equal(t, types.DefaultCorefMaxTokens, got.MaxTokens)
	assert.NotEmpty(t, got.SystemInstruction)
	assert.Contains(t, got.UserMessage, "- Vernon (50)\n- Harry (40)\n- Uncle Vernon (10)\n- Mr Dursley (5)\n")
}

func TestMergerDegradesGracefully(t *testing.T) {
	tests := []struct {
		name    string
		resp    llm.Response
		err     error
		wantErr error
	}{
		{name: "provider error", err: errors.New("connection refused")},
		{name: "no JSON", resp: llm.Response{GeneratedText: "I cannot help with that."}, wantErr: ErrNoJSON},
		{name: "missing merges", resp: llm.Response{GeneratedText: `{"groups": []}`}, wantErr: ErrMissingMerges},
		{name: "malformed JSON", resp: llm.Response{GeneratedText: `{"merges": [["a",}`}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			confirmed, candidates := vernonFixture()
			wantConfirmed := types.CloneEntities(confirmed)
			wantCandidates := types.CloneEntities(candidates)

			p := llm.ProviderFunc(func(context.Context, llm.Request) (llm.Response, error) {
				return tc.resp, tc.err
			})
			res := NewMerger(p, types.CorefConfig{}).Merge(context.Background(), confirmed, candidates)

			assert.Equal(t, wantConfirmed, res.Confirmed)
			assert.Equal(t, wantCandidates, res.Candidates)
			assert.NotEmpty(t, res.Stats.Error)
			assert.Empty(t, res.Stats.Applied)
			if tc.wantErr != nil {
				assert.Equal(t, tc.wantErr.Error(), res.Stats.Error)
			}
		})
	}
}

func TestMergerWithoutProvider(t *testing.T) {
	confirmed, candidates := vernonFixture()
	res := (&Merger{}).Merge(context.Background(), confirmed, candidates)
	assert.Equal(t, confirmed, res.Confirmed)
	assert.NotEmpty(t, res.Stats.Error)
}

func TestParseMerges(t *testing.T) {
	groups, skipped, err := ParseMerges(`{"merges": [["A", "B"], "C", ["D", "E", "F"]]}`)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "B"}, {"D", "E", "F"}}, groups)
	require.Len(t, skipped, 1)
	assert.Equal(t, "malformed merge group", skipped[0].Reason)

	groups, _, err = ParseMerges(`{"merges": []}`)
	require.NoError(t, err)
	assert.Empty(t, groups)

	_, _, err = ParseMerges(`{"merges": null}`)
	assert.ErrorIs(t, err, ErrMissingMerges)

	_, _, err = ParseMerges(`{"merges": "none"}`)
	assert.ErrorIs(t, err, ErrMissingMerges)
}
