// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index derives lookup tables from the final snippet set and
// persists snippets in a SQLite store with full-text search.
package index

import (
	"sort"

	"github.com/pdiddy/character-engine/pkg/types"
)

// PairKey returns the co-occurrence key for two entity ids, smaller id first.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "+" + b
}

// Build computes the entity, pair and chapter indices from snippets. It is
// a pure function of its input; every call rebuilds all three maps.
func Build(snippets []types.Snippet) types.Indices {
	idx := types.Indices{
		Entities: make(map[string][]string),
		Pairs:    make(map[string][]string),
		Chapters: make(map[int][]string),
	}

	for _, s := range snippets {
		ids := distinct(s.Entities)
		for _, e := range ids {
			idx.Entities[e] = append(idx.Entities[e], s.ID)
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				k := PairKey(ids[i], ids[j])
				idx.Pairs[k] = append(idx.Pairs[k], s.ID)
			}
		}
		idx.Chapters[s.Chapter] = append(idx.Chapters[s.Chapter], s.ID)
	}

	for k, v := range idx.Entities {
		idx.Entities[k] = sortedUnique(v)
	}
	for k, v := range idx.Pairs {
		idx.Pairs[k] = sortedUnique(v)
	}
	for k, v := range idx.Chapters {
		idx.Chapters[k] = sortedUnique(v)
	}
	return idx
}

func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func sortedUnique(ids []string) []string {
	sort.Strings(ids)
	out := ids[:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			out = append(out, id)
		}
	}
	return out
}
