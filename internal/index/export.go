// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ExportEntry holds a snippet with entity names resolved for export.
type ExportEntry struct {
	ID           string         `json:"id" yaml:"id"`
	Chapter      int            `json:"chapter" yaml:"chapter"`
	ChapterTitle string         `json:"chapter_title,omitempty" yaml:"chapter_title,omitempty"`
	Paragraph    int            `json:"paragraph" yaml:"paragraph"`
	Sentences    []int          `json:"sentences" yaml:"sentences,flow"`
	Before       string         `json:"before,omitempty" yaml:"before,omitempty"`
	Match        string         `json:"match" yaml:"match"`
	After        string         `json:"after,omitempty" yaml:"after,omitempty"`
	Entities     []ExportEntity `json:"entities" yaml:"entities"`
}

// ExportEntity names one entity of an exported snippet.
type ExportEntity struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Tier string `json:"tier,omitempty" yaml:"tier,omitempty"`
}

const exportLimit = 1000000

// Export writes the stored snippets matching opts (all snippets when opts
// is empty) to index/export.yaml or index/export.json and returns the
// written path.
func (s *Store) Export(ctx context.Context, opts QueryOptions, format string) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	var data []byte
	switch format {
	case FormatYAML, "":
		format = FormatYAML
		data, err = yaml.Marshal(entries)
	case FormatJSON:
		data, err = json.MarshalIndent(entries, "", "  ")
	default:
		return "", fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", format, err)
	}

	path := filepath.Join(filepath.Dir(s.path), "export."+format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	results, err := s.query(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	records, err := s.Entities(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]EntityRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			ID:           r.ID,
			Chapter:      r.Chapter,
			ChapterTitle: r.ChapterTitle,
			Paragraph:    r.Location.Paragraph,
			Sentences:    []int{r.Location.Start, r.Location.End},
			Before:       r.Text.Before,
			Match:        r.Text.Match,
			After:        r.Text.After,
		}
		for _, id := range r.Entities {
			ent := ExportEntity{ID: id, Name: id}
			if rec, ok := byID[id]; ok {
				ent.Name = rec.CanonicalName
				ent.Tier = rec.Tier
			}
			entries[i].Entities = append(entries[i].Entities, ent)
		}
	}
	return entries, nil
}
