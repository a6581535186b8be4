// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/character-engine/internal/pipeline"
	"github.com/pdiddy/character-engine/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index <manuscript.md>",
	Short: "Build context snippets for resolved characters",
	Long: `Index reads confirmed.json (and candidates.json when present) from the
output directory, finds every sentence that mentions a character, merges
nearby snippets, and writes snippets.jsonl and indices.json. The snippets
are also loaded into index/snippets.db for the query command.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	confirmed, candidates, err := pipeline.LoadEntities(cfg.Output.Dir)
	if err != nil {
		return err
	}
	opts, err := pipelineOptions(cfg)
	if err != nil {
		return err
	}
	src, err := pipeline.Load(args[0], opts)
	if err != nil {
		return err
	}
	w, err := pipeline.NewWriter(cfg.Output.Dir)
	if err != nil {
		return err
	}

	stats, ok, err := pipeline.LoadStats(cfg.Output.Dir)
	if err != nil {
		return err
	}
	if !ok {
		stats = types.Stats{RunID: uuid.NewString(), Source: src.Path, Confirmed: len(confirmed), Candidates: len(candidates)}
	}
	return indexSnippets(cmd.Context(), src, opts, w, stats, confirmed, candidates)
}

// indexSnippets builds, writes and stores snippets, then refreshes stats.json and
// report.txt with the snippet counts.
func indexSnippets(ctx context.Context, src *pipeline.Source, opts pipeline.Options, w *pipeline.Writer, stats types.Stats, confirmed, candidates []types.Entity) error {
	entities := make([]types.Entity, 0, len(confirmed)+len(candidates))
	entities = append(append(entities, confirmed...), candidates...)
	if len(entities) == 0 {
		warn("no characters to index in %s", w.Dir)
	}

	ix := pipeline.Index(src, entities, opts, os.Stdout)
	if err := w.WriteIndexing(ix); err != nil {
		return err
	}
	if err := pipeline.Store(ctx, stats.RunID, src.Path, confirmed, candidates, ix, opts.Config.Output, os.Stdout); err != nil {
		return err
	}

	stats.Snippets, stats.RawSnippets = len(ix.Snippets), len(ix.Raw)
	if err := w.WriteStats(stats); err != nil {
		return err
	}
	if err := w.WriteReport(pipeline.Report{
		Title:      src.Doc.Title(),
		Author:     src.Author(),
		Stats:      stats,
		Confirmed:  confirmed,
		Candidates: candidates,
		Indices:    &ix.Indices,
	}); err != nil {
		return err
	}
	color.Green("wrote %d snippets to %s", len(ix.Snippets), w.Dir)
	return nil
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
