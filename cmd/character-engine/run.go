// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/character-engine/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run <manuscript.md>",
	Short: "Resolve characters and index their snippets in one pass",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		r, err := resolve(cmd.Context(), src, opts, w)
		if err != nil {
			return err
		}
		return indexSnippets(cmd.Context(), src, opts, w, r.Stats(), r.Confirmed, r.Candidates)
	},
}

func init() {
	addResolveFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
