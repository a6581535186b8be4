// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLexicon(t *testing.T) {
	lex := Default()

	tests := []struct {
		word     string
		stopword bool
		title    bool
	}{
		{word: "The", stopword: true},
		{word: "nothing", stopword: true},
		{word: "Mr", title: true},
		{word: "mr.", title: true},
		{word: "Professor", title: true},
		{word: "Harry"},
	}
	for _, tc := range tests {
		t.Run(tc.word, func(t *testing.T) {
			assert.Equal(t, tc.stopword, lex.IsStopword(tc.word))
			assert.Equal(t, tc.title, lex.IsTitle(tc.word))
		})
	}

	assert.True(t, lex.IsContractionBase("He"))
	assert.False(t, lex.IsContractionBase("Harry"))
}

func TestLoadExtendsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stopwords:\n  - Muggle\ntitles:\n  - Auror.\n"), 0o644))

	lex, err := Load(path)
	require.NoError(t, err)
	assert.True(t, lex.IsStopword("muggle"))
	assert.True(t, lex.IsTitle("Auror"))
	assert.True(t, lex.IsTitle("Mr"), "built-in titles remain")

	assert.False(t, Default().IsStopword("Muggle"), "defaults are not shared")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stopwords: [unclosed"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	lex, err := Load("")
	require.NoError(t, err)
	assert.True(t, lex.IsTitle("mrs"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Harry's", NormalizeApostrophes("Harry’s"))
	assert.Equal(t, "O'Brien", NormalizeApostrophes("Oʼ"+"Brien"))
	// "e" followed by a combining acute accent composes to one rune.
	assert.Equal(t, "Ren\u00e9e's", Normalize("Rene\u0301e\u2019s"))
	assert.Equal(t, "mr", TitleKey(" Mr. "))
}
