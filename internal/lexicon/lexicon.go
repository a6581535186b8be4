// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lexicon holds the word tables that drive proper-noun detection:
// stopwords, honorific titles, and the pronouns that mark contractions.
// A Lexicon is built once by the caller and passed to every stage.
package lexicon

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/unicode/norm"
)

// Lexicon answers word-class questions for the extractor, grouper, filter,
// tier classifier, and matcher. The zero value is not usable; call Default
// or Load.
type Lexicon struct {
	stopwords map[string]bool
	titles    map[string]bool
	pronouns  map[string]bool
}

// Overrides is the on-disk shape of a lexicon extension file.
type Overrides struct {
	Stopwords []string `yaml:"stopwords"`
	Titles    []string `yaml:"titles"`
}

// Default returns the built-in English lexicon.
func Default() *Lexicon {
	l := &Lexicon{
		stopwords: make(map[string]bool, len(defaultStopwords)),
		titles:    make(map[string]bool, len(defaultTitles)),
		pronouns:  make(map[string]bool, len(contractionPronouns)),
	}
	for _, w := range defaultStopwords {
		l.stopwords[w] = true
	}
	for _, w := range defaultTitles {
		l.titles[w] = true
	}
	for _, w := range contractionPronouns {
		l.pronouns[w] = true
	}
	return l
}

// Load returns the default lexicon extended with the stopwords and titles
// listed in the YAML file at path. An empty path returns Default().
func Load(path string) (*Lexicon, error) {
	l := Default()
	if path == "" {
		return l, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon %s: %w", path, err)
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing lexicon %s: %w", path, err)
	}
	l.Extend(o)
	return l, nil
}

// Extend adds the override words to the lexicon.
func (l *Lexicon) Extend(o Overrides) {
	for _, w := range o.Stopwords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			l.stopwords[w] = true
		}
	}
	for _, w := range o.Titles {
		if w = TitleKey(w); w != "" {
			l.titles[w] = true
		}
	}
}

// IsStopword reports whether word is a common capitalized word that never
// starts a name. Matching is case-insensitive.
func (l *Lexicon) IsStopword(word string) bool {
	return l.stopwords[strings.ToLower(NormalizeApostrophes(word))]
}

// IsTitle reports whether word is an honorific ("Mr", "mr.", "Professor").
func (l *Lexicon) IsTitle(word string) bool {
	return l.titles[TitleKey(word)]
}

// IsContractionBase reports whether base is a pronoun whose apostrophe
// suffix marks a contraction ("he's", "that's") rather than a possessive.
func (l *Lexicon) IsContractionBase(base string) bool {
	return l.pronouns[strings.ToLower(base)]
}

// TitleKey lowercases word and strips a trailing abbreviation period.
func TitleKey(word string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(word)), ".")
}

// apostropheReplacer folds curly and modifier-letter apostrophes into '.
var apostropheReplacer = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"ʼ", "'", // modifier letter apostrophe
)

// NormalizeApostrophes replaces apostrophe variants with a straight quote.
func NormalizeApostrophes(s string) string {
	return apostropheReplacer.Replace(s)
}

// Normalize composes s to NFC and folds apostrophe variants so that text
// from different sources compares equal.
func Normalize(s string) string {
	return NormalizeApostrophes(norm.NFC.String(s))
}
