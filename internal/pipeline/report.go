// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/character-engine/pkg/types"
)

// topPairCount bounds the co-occurrence table in the report.
const topPairCount = 10

// Report is the input to WriteReport. Indices is nil when only the
// resolution stages ran.
type Report struct {
	Title      string
	Author     string
	Stats      types.Stats
	Confirmed  []types.Entity
	Candidates []types.Entity
	Indices    *types.Indices
}

// WriteReport writes a plain-text run summary to w.
func WriteReport(w io.Writer, rep Report) error {
	ew := &errWriter{w: w}

	title := rep.Title
	if title == "" {
		title = rep.Stats.Source
	}
	ew.printf("Character report: %s\n", title)
	if rep.Author != "" {
		ew.printf("Author: %s\n", rep.Author)
	}
	ew.printf("Run: %s\n\n", rep.Stats.RunID)

	ew.printf("%d mentions, %d groups, %d confirmed, %d candidates, %d excluded\n\n",
		rep.Stats.Mentions, rep.Stats.Groups, rep.Stats.Confirmed, rep.Stats.Candidates, rep.Stats.Excluded)

	ew.printf("Confirmed\n")
	ew.printf("%-30s  %-24s  %8s  %s\n", "Name", "ID", "Mentions", "Qualified by")
	ew.printf("%s\n", strings.Repeat("-", 100))
	for _, e := range rep.Confirmed {
		ew.printf("%-30s  %-24s  %8d  %s\n",
			truncate(e.CanonicalName, 30), truncate(e.ID, 24), e.Mentions, e.QualifiedBy)
	}
	if len(rep.Confirmed) == 0 {
		ew.printf("(none)\n")
	}

	ew.printf("\nCandidates\n")
	ew.printf("%-30s  %8s  %s\n", "Name", "Mentions", "Notes")
	ew.printf("%s\n", strings.Repeat("-", 100))
	for _, e := range rep.Candidates {
		ew.printf("%-30s  %8d  %s\n", truncate(e.CanonicalName, 30), e.Mentions, strings.Join(e.Notes, "; "))
	}
	if len(rep.Candidates) == 0 {
		ew.printf("(none)\n")
	}

	if len(rep.Stats.ExclusionReasons) > 0 {
		ew.printf("\nExclusions\n")
		reasons := make([]string, 0, len(rep.Stats.ExclusionReasons))
		for r := range rep.Stats.ExclusionReasons {
			reasons = append(reasons, string(r))
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			ew.printf("  %-28s %d\n", r, rep.Stats.ExclusionReasons[types.ExclusionReason(r)])
		}
	}

	if m := rep.Stats.Merge; m != nil {
		ew.printf("\nCo-reference merge\n")
		if m.Error != "" {
			ew.printf("  skipped: %s\n", m.Error)
		} else {
			ew.printf("  %d groups suggested, %d entities merged\n", m.GroupsIdentified, m.EntitiesMerged)
			for _, a := range m.Applied {
				ew.printf("  %s <- %s (%d mentions)\n", a.Primary, strings.Join(a.Absorbed, ", "), a.Mentions)
			}
			for _, s := range m.Skipped {
				ew.printf("  skipped [%s]: %s\n", strings.Join(s.Names, ", "), s.Reason)
			}
		}
		if m.TokenUsage != nil {
			ew.printf("  tokens: %d prompt, %d completion\n", m.TokenUsage.PromptTokens, m.TokenUsage.CompletionTokens)
		}
	}

	if rep.Indices != nil {
		ew.printf("\nSnippets: %d (%d before merging)\n", rep.Stats.Snippets, rep.Stats.RawSnippets)
		if pairs := TopPairs(*rep.Indices, topPairCount); len(pairs) > 0 {
			ew.printf("\nTop co-occurring pairs\n")
			for _, p := range pairs {
				ew.printf("  %-40s %d\n", p.Key, p.Count)
			}
		}
	}
	return ew.err
}

// errWriter keeps the first write error so WriteReport can check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
