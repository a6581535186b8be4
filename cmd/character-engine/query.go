// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/character-engine/internal/index"
	"github.com/pdiddy/character-engine/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search indexed snippets by text, character, pair, or chapter",
	Long: `Query searches index/snippets.db with FTS4 full-text search over the
snippet text, optionally restricted to snippets mentioning a character
(--entity), a co-occurring pair (--entity with --with), or a chapter.
Results are in document order.`,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --entity, --with, or --chapter")
	}

	store, err := index.NewStore(cfg.Output)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		snippets := make([]types.Snippet, len(results))
		for i, r := range results {
			snippets[i] = r.Snippet
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snippets)
	}
	formatQueryTable(os.Stdout, results)
	return nil
}

func formatQueryTable(w io.Writer, results []index.QueryResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-6s  %-4s  %-24s  %s\n", "ID", "Ch", "Entities", "Match")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, r := range results {
		entities := strings.Join(r.Entities, ",")
		if len(entities) > 24 {
			entities = entities[:21] + "..."
		}
		match := r.Text.Match
		if len(match) > 70 {
			match = match[:67] + "..."
		}
		fmt.Fprintf(w, "%-6s  %-4d  %-24s  %s\n", r.ID, r.Chapter, entities, match)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	entity, _ := cmd.Flags().GetString("entity")
	with, _ := cmd.Flags().GetString("with")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := index.QueryOptions{
		Query:      strings.Join(args, " "),
		Entity:     entity,
		With:       with,
		MaxResults: limit,
	}
	if cmd.Flags().Changed("chapter") {
		ch, _ := cmd.Flags().GetInt("chapter")
		opts.Chapter = &ch
	}
	return opts
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("entity", "", "only snippets mentioning this entity id")
	cmd.Flags().String("with", "", "only snippets that also mention this entity id")
	cmd.Flags().Int("chapter", 0, "only snippets from this chapter")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	addQueryFlags(queryCmd)
	queryCmd.Flags().Int("max-results", types.DefaultMaxResults, "default result limit")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}
