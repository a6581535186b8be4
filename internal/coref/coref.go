// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coref asks a completion provider which entity names denote the
// same individual and applies the validated suggestions. Provider failures
// never fail the pipeline: the entities come back unchanged and the error
// is recorded in the merge statistics.
package coref

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/character-engine/internal/llm"
	"github.com/pdiddy/character-engine/internal/logger"
	"github.com/pdiddy/character-engine/pkg/types"
)

// Result is the outcome of a merge step.
type Result struct {
	Confirmed  []types.Entity
	Candidates []types.Entity
	Stats      types.MergeStats
}

// Merger sends the entity list to Provider once per Merge call.
type Merger struct {
	Provider    llm.Provider
	MaxTokens   int
	Temperature float64
}

// NewMerger builds a Merger from configuration.
func NewMerger(p llm.Provider, cfg types.CorefConfig) *Merger {
	cfg = cfg.WithDefaults()
	return &Merger{Provider: p, MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature}
}

// Merge asks the provider for merge groups and applies them. On any
// provider or parse error the inputs are returned as given and
// Stats.Error is set.
func (m *Merger) Merge(ctx context.Context, confirmed, candidates []types.Entity) Result {
	log := logger.L().With(zap.Int("confirmed", len(confirmed)), zap.Int("candidates", len(candidates)))

	groups, skipped, usage, err := m.suggest(ctx, confirmed, candidates)
	if err != nil {
		log.Warn("coref: merge skipped", zap.Error(err))
		stats := types.MergeStats{Error: err.Error(), TokenUsage: usage}
		return Result{Confirmed: confirmed, Candidates: candidates, Stats: stats}
	}

	res := Apply(confirmed, candidates, groups)
	res.Stats.Skipped = append(skipped, res.Stats.Skipped...)
	res.Stats.GroupsIdentified += len(skipped)
	res.Stats.TokenUsage = usage
	log.Debug("coref: merges applied",
		zap.Int("groups", res.Stats.GroupsIdentified),
		zap.Int("merged", res.Stats.EntitiesMerged),
		zap.Int("skipped", len(res.Stats.Skipped)),
	)
	return res
}

// suggest makes the single provider call and parses its answer.
func (m *Merger) suggest(ctx context.Context, confirmed, candidates []types.Entity) ([][]string, []types.SkippedMerge, *types.TokenUsage, error) {
	if m.Provider == nil {
		return nil, nil, nil, fmt.Errorf("no completion provider configured")
	}

	msg, err := renderUserMessage(nameCounts(confirmed, candidates))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("rendering prompt: %w", err)
	}

	resp, err := m.Provider.Complete(ctx, llm.Request{
		SystemInstruction: systemInstruction,
		UserMessage:       msg,
		MaxTokens:         m.MaxTokens,
		Temperature:       m.Temperature,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("completion provider: %w", err)
	}
	usage := resp.Usage

	groups, skipped, err := ParseMerges(resp.GeneratedText)
	if err != nil {
		return nil, nil, &usage, err
	}
	return groups, skipped, &usage, nil
}
