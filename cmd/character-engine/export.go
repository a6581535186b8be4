// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/character-engine/internal/index"
)

var exportCmd = &cobra.Command{
	Use:   "export [text]",
	Short: "Export indexed snippets to YAML or JSON",
	Long: `Export writes the snippet store (or a filtered subset) to
index/export.yaml or index/export.json with character names resolved.
Supports the same filters as query.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, err := index.NewStore(cfg.Output)
		if err != nil {
			return err
		}
		defer store.Close()

		path, err := store.Export(cmd.Context(), queryOptsFromFlags(cmd, args), format)
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	},
}

func init() {
	addQueryFlags(exportCmd)
	exportCmd.Flags().String("format", index.FormatYAML, "export format: yaml or json")
	rootCmd.AddCommand(exportCmd)
}
