// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/character-engine/internal/lexicon"
)

// token is one whitespace-separated word with its punctuation analysed.
type token struct {
	// word is the token without surrounding punctuation. A title keeps its
	// abbreviation period ("Mr."); a possessive keeps its "'s".
	word string

	// base is word without the possessive suffix.
	base string

	possessive   bool
	contraction  bool
	clitic       bool
	capitalized  bool
	endsSentence bool
}

// clitics are the contracted verbs that attach to a name ("Harry'll").
var clitics = map[string]bool{"ll": true, "d": true, "ve": true, "re": true}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// parseToken strips surrounding punctuation from raw and classifies it.
func parseToken(raw string, lex *lexicon.Lexicon) token {
	core := strings.TrimLeftFunc(raw, func(r rune) bool { return !isWordRune(r) })
	end := strings.LastIndexFunc(core, isWordRune)
	if end < 0 {
		return token{endsSentence: strings.ContainsAny(raw, ".!?")}
	}
	_, size := utf8.DecodeRuneInString(core[end:])
	trailing := core[end+size:]
	core = core[:end+size]

	t := token{
		word:         core,
		base:         core,
		endsSentence: strings.ContainsAny(trailing, ".!?"),
	}

	if lex.IsTitle(core) && strings.HasPrefix(trailing, ".") {
		t.word = core + "."
		t.base = t.word
		t.endsSentence = strings.ContainsAny(trailing[1:], ".!?")
	}

	if idx := strings.LastIndex(core, "'"); idx > 0 {
		base, suffix := core[:idx], core[idx+1:]
		switch {
		case lex.IsContractionBase(base):
			t.contraction = true
		case strings.EqualFold(suffix, "s"):
			t.possessive = true
			t.base = base
		case clitics[strings.ToLower(suffix)]:
			t.clitic = true
			t.base = base
		}
	}

	r, _ := utf8.DecodeRuneInString(t.base)
	t.capitalized = unicode.IsUpper(r)
	return t
}
