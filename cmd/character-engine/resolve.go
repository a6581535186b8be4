// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/character-engine/internal/pipeline"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <manuscript.md>",
	Short: "Resolve proper-noun mentions into confirmed and candidate characters",
	Long: `Resolve extracts proper-noun mentions, groups name variants, filters
misdetections, and splits the survivors into confirmed characters and
candidates for review. With --coref, a completion provider is asked which
names denote the same character.

Writes confirmed.json, candidates.json, excluded.json, stats.json and
report.txt to the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
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

	_, err = resolve(cmd.Context(), src, opts, w)
	return err
}

// resolve runs the resolution stages and writes their artifacts.
func resolve(ctx context.Context, src *pipeline.Source, opts pipeline.Options, w *pipeline.Writer) (*pipeline.Resolution, error) {
	r := pipeline.Resolve(ctx, src, opts, os.Stdout)
	if err := w.WriteResolution(r); err != nil {
		return nil, err
	}
	stats := r.Stats()
	if err := w.WriteStats(stats); err != nil {
		return nil, err
	}
	if err := w.WriteReport(pipeline.Report{
		Title:      src.Doc.Title(),
		Author:     src.Author(),
		Stats:      stats,
		Confirmed:  r.Confirmed,
		Candidates: r.Candidates,
	}); err != nil {
		return nil, err
	}
	color.Green("wrote %d confirmed and %d candidate characters to %s", len(r.Confirmed), len(r.Candidates), w.Dir)
	return r, nil
}

func init() {
	addResolveFlags(resolveCmd)
	rootCmd.AddCommand(resolveCmd)
}
