// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/character-engine/pkg/types"
)

// Artifact file names written under the output directory.
const (
	ConfirmedFile  = "confirmed.json"
	CandidatesFile = "candidates.json"
	ExcludedFile   = "excluded.json"
	SnippetsFile   = "snippets.jsonl"
	IndicesFile    = "indices.json"
	StatsFile      = "stats.json"
	ReportFile     = "report.txt"
)

// Writer writes pipeline artifacts to one directory.
type Writer struct {
	Dir string
}

// NewWriter creates dir if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &Writer{Dir: dir}, nil
}

func (w *Writer) path(name string) string {
	return filepath.Join(w.Dir, name)
}

// WriteResolution writes the confirmed, candidate and exclusion files.
func (w *Writer) WriteResolution(r *Resolution) error {
	if err := w.writeJSON(ConfirmedFile, nonNil(r.Confirmed)); err != nil {
		return err
	}
	if err := w.writeJSON(CandidatesFile, nonNil(r.Candidates)); err != nil {
		return err
	}
	excluded := r.Excluded
	if excluded == nil {
		excluded = []types.Exclusion{}
	}
	return w.writeJSON(ExcludedFile, excluded)
}

// WriteIndexing writes one snippet per line and the indices file.
func (w *Writer) WriteIndexing(ix *Indexing) error {
	f, err := os.Create(w.path(SnippetsFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", SnippetsFile, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	for _, s := range ix.Snippets {
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding snippet %s: %w", s.ID, err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", SnippetsFile, err)
	}
	return w.writeJSON(IndicesFile, ix.Indices)
}

// WriteStats writes stats.json.
func (w *Writer) WriteStats(s types.Stats) error {
	return w.writeJSON(StatsFile, s)
}

// WriteReport renders report.txt.
func (w *Writer) WriteReport(rep Report) error {
	f, err := os.Create(w.path(ReportFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", ReportFile, err)
	}
	defer f.Close()
	if err := WriteReport(f, rep); err != nil {
		return fmt.Errorf("writing %s: %w", ReportFile, err)
	}
	return nil
}

func (w *Writer) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	if err := os.WriteFile(w.path(name), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func nonNil(entities []types.Entity) []types.Entity {
	if entities == nil {
		return []types.Entity{}
	}
	return entities
}

// LoadEntities reads confirmed.json and, if present, candidates.json from
// dir. A missing confirmed.json is an error.
func LoadEntities(dir string) (confirmed, candidates []types.Entity, err error) {
	if err := readJSON(filepath.Join(dir, ConfirmedFile), &confirmed); err != nil {
		return nil, nil, fmt.Errorf("loading confirmed entities (run resolve first): %w", err)
	}
	err = readJSON(filepath.Join(dir, CandidatesFile), &candidates)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("loading candidate entities: %w", err)
	}
	return confirmed, candidates, nil
}

// LoadStats reads stats.json from dir. ok is false when the file does not
// exist.
func LoadStats(dir string) (s types.Stats, ok bool, err error) {
	err = readJSON(filepath.Join(dir, StatsFile), &s)
	if errors.Is(err, os.ErrNotExist) {
		return types.Stats{}, false, nil
	}
	if err != nil {
		return types.Stats{}, false, fmt.Errorf("loading stats: %w", err)
	}
	return s, true, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
