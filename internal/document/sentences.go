// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// Splitter breaks a paragraph into sentences.
type Splitter interface {
	Split(paragraph string) []string
}

// SplitterFunc adapts a function to the Splitter interface.
type SplitterFunc func(paragraph string) []string

// Split calls f.
func (f SplitterFunc) Split(paragraph string) []string { return f(paragraph) }

// ProseSplitter segments sentences with prose's punkt tokenizer, which
// keeps abbreviations such as "Mr." inside their sentence.
type ProseSplitter struct{}

// Split returns the trimmed, non-empty sentences of paragraph. If prose
// rejects the input the whole paragraph is returned as one sentence.
func (ProseSplitter) Split(paragraph string) []string {
	doc, err := prose.NewDocument(paragraph,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return []string{strings.TrimSpace(paragraph)}
	}
	var out []string
	for _, s := range doc.Sentences() {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		if t := strings.TrimSpace(paragraph); t != "" {
			out = append(out, t)
		}
	}
	return out
}
