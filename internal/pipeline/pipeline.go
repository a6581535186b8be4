// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the resolution and indexing stages over one
// manuscript and writes their artifacts. Progress lines go to the
// io.Writer passed by the caller; diagnostics go to the verbose logger.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/character-engine/internal/coref"
	"github.com/pdiddy/character-engine/internal/document"
	"github.com/pdiddy/character-engine/internal/extract"
	"github.com/pdiddy/character-engine/internal/filter"
	"github.com/pdiddy/character-engine/internal/group"
	"github.com/pdiddy/character-engine/internal/index"
	"github.com/pdiddy/character-engine/internal/lexicon"
	"github.com/pdiddy/character-engine/internal/llm"
	"github.com/pdiddy/character-engine/internal/logger"
	"github.com/pdiddy/character-engine/internal/snippet"
	"github.com/pdiddy/character-engine/internal/tier"
	"github.com/pdiddy/character-engine/pkg/types"
)

// Options configures a pipeline run.
type Options struct {
	Config  types.PipelineConfig
	Lexicon *lexicon.Lexicon

	// Provider enables the co-reference merge when non-nil.
	Provider llm.Provider

	// Splitter segments paragraphs into sentences. Nil uses
	// document.ProseSplitter.
	Splitter document.Splitter
}

func (o Options) lexicon() *lexicon.Lexicon {
	if o.Lexicon == nil {
		return lexicon.Default()
	}
	return o.Lexicon
}

func (o Options) splitter() document.Splitter {
	if o.Splitter == nil {
		return document.ProseSplitter{}
	}
	return o.Splitter
}

// Source is a manuscript read from disk.
type Source struct {
	Path string
	Text string
	Doc  *document.Document
}

// Author returns the front-matter author, or "" when absent.
func (s *Source) Author() string {
	if s.Doc == nil {
		return ""
	}
	if v, ok := s.Doc.FrontMatter["author"].(string); ok {
		return v
	}
	return ""
}

// Load reads and parses the manuscript at path.
func Load(path string, opts Options) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", path, err)
	}
	text := string(data)
	return &Source{Path: path, Text: text, Doc: document.Parse(text, opts.splitter())}, nil
}

// Resolution holds the output of the entity-resolution stages.
type Resolution struct {
	RunID      string
	Source     string
	Extraction *types.ExtractionResult
	Groups     []types.EntityGroup
	Kept       []types.EntityGroup
	Excluded   []types.Exclusion
	Confirmed  []types.Entity
	Candidates []types.Entity

	// Dropped counts groups below the candidate floor.
	Dropped int

	// Merge is set when the co-reference step ran.
	Merge *types.MergeStats
}

// Resolve runs extraction, grouping, filtering, tiering and, when a
// provider is configured, the co-reference merge. A provider failure is
// printed as a warning and recorded in Merge; Resolve itself never fails.
func Resolve(ctx context.Context, src *Source, opts Options, w io.Writer) *Resolution {
	cfg := opts.Config.WithDefaults()
	lex := opts.lexicon()
	r := &Resolution{RunID: uuid.NewString(), Source: src.Path}

	logger.Section("extract")
	r.Extraction = extract.Extract(src.Text, lex, cfg.Extraction)
	fmt.Fprintf(w, "extracted %d mentions (%d distinct forms)\n",
		len(r.Extraction.Mentions), len(r.Extraction.MentionCounts))

	logger.Section("group")
	r.Groups = group.Group(r.Extraction, lex, cfg.Grouping)
	fmt.Fprintf(w, "grouped into %d entity groups\n", len(r.Groups))

	logger.Section("filter")
	r.Kept, r.Excluded = filter.Filter(r.Groups, r.Extraction, src.Text, lex, cfg.Filter)
	for _, ex := range r.Excluded {
		logger.L().Debug("filter: excluded",
			zap.String("name", ex.CanonicalName),
			zap.String("reason", string(ex.Reason)),
			zap.Int("mentions", ex.Mentions),
		)
	}
	fmt.Fprintf(w, "filtered %d groups, %d kept\n", len(r.Excluded), len(r.Kept))

	logger.Section("tier")
	tiers := tier.Classify(r.Kept, r.Extraction, lex, cfg.Tier)
	r.Confirmed, r.Candidates, r.Dropped = tiers.Confirmed, tiers.Candidates, tiers.Dropped
	fmt.Fprintf(w, "classified %d confirmed, %d candidates, %d below floor\n",
		len(r.Confirmed), len(r.Candidates), r.Dropped)

	if opts.Provider != nil {
		logger.Section("coref")
		res := coref.NewMerger(opts.Provider, cfg.Coref).Merge(ctx, r.Confirmed, r.Candidates)
		r.Confirmed, r.Candidates = res.Confirmed, res.Candidates
		stats := res.Stats
		r.Merge = &stats
		if stats.Error != "" {
			fmt.Fprintln(w, color.YellowString("warning: co-reference merge skipped: %s", stats.Error))
		} else {
			fmt.Fprintf(w, "merged %d entities from %d suggested groups (%d skipped)\n",
				stats.EntitiesMerged, stats.GroupsIdentified, len(stats.Skipped))
		}
	}
	return r
}

// Stats summarizes the resolution. Groups dropped below the candidate
// floor are counted as low_frequency exclusions.
func (r *Resolution) Stats() types.Stats {
	reasons := make(map[types.ExclusionReason]int)
	for _, ex := range r.Excluded {
		reasons[ex.Reason]++
	}
	if r.Dropped > 0 {
		reasons[types.ExcludedLowFrequency] += r.Dropped
	}

	s := types.Stats{
		RunID:            r.RunID,
		Source:           r.Source,
		Groups:           len(r.Groups),
		Confirmed:        len(r.Confirmed),
		Candidates:       len(r.Candidates),
		Excluded:         len(r.Excluded) + r.Dropped,
		ExclusionReasons: reasons,
		Merge:            r.Merge,
	}
	if r.Extraction != nil {
		s.Mentions = len(r.Extraction.Mentions)
	}
	return s
}

// Indexing holds the output of the indexing stages.
type Indexing struct {
	Raw      []types.Snippet
	Snippets []types.Snippet
	Indices  types.Indices
}

// Index matches entity mentions sentence by sentence, builds and
// deduplicates snippets, and derives the lookup indices.
func Index(src *Source, entities []types.Entity, opts Options, w io.Writer) *Indexing {
	logger.Section("snippets")
	m := snippet.NewMatcher(entities, opts.lexicon())
	raw := snippet.Build(src.Doc, m)
	snippets := snippet.Dedupe(raw)
	fmt.Fprintf(w, "built %d snippets (%d before merging)\n", len(snippets), len(raw))

	logger.Section("index")
	idx := index.Build(snippets)
	fmt.Fprintf(w, "indexed %d entities, %d pairs, %d chapters\n",
		len(idx.Entities), len(idx.Pairs), len(idx.Chapters))

	return &Indexing{Raw: raw, Snippets: snippets, Indices: idx}
}

// Store ingests the indexed snippets into the SQLite store under
// cfg.Output.Dir.
func Store(ctx context.Context, runID, source string, confirmed, candidates []types.Entity, ix *Indexing, cfg types.OutputConfig, w io.Writer) error {
	store, err := index.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Ingest(ctx, index.Run{ID: runID, Source: source}, confirmed, candidates, ix.Snippets, w)
	return err
}

// Pair is a co-occurring entity pair with its snippet count.
type Pair struct {
	Key   string
	Count int
}

// TopPairs returns the n most frequent co-occurring pairs, ties broken by
// key.
func TopPairs(idx types.Indices, n int) []Pair {
	pairs := make([]Pair, 0, len(idx.Pairs))
	for k, ids := range idx.Pairs {
		pairs = append(pairs, Pair{Key: k, Count: len(ids)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Key < pairs[j].Key
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
