// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document splits a Markdown manuscript into front matter,
// chapters, paragraphs, and sentences.
package document

import (
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/character-engine/internal/lexicon"
)

// Document is a parsed manuscript.
type Document struct {
	// FrontMatter holds the decoded leading YAML block, if any.
	FrontMatter map[string]any
	Chapters    []Chapter
}

// Chapter is the text under one "## CHAPTER n: title" header. Text before
// the first header becomes chapter 0 with an empty title.
type Chapter struct {
	Number     int
	Title      string
	Paragraphs []Paragraph
}

// Paragraph is a blank-line-delimited block split into sentences.
type Paragraph struct {
	Index     int
	Sentences []string
}

// Title returns the front-matter title, or "" when absent.
func (d *Document) Title() string {
	if v, ok := d.FrontMatter["title"].(string); ok {
		return v
	}
	return ""
}

// chapterHeaderRe matches "## CHAPTER <token>: <title>".
var chapterHeaderRe = regexp.MustCompile(`(?i)^##\s+chapter\s+([a-z]+|\d+)\s*:\s*(.*)$`)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
}

// ParseChapterHeader reports whether line is a chapter header and returns
// its number and title. The number token is a digit string or a spelled-out
// number from one to twenty, case-insensitive.
func ParseChapterHeader(line string) (int, string, bool) {
	m := chapterHeaderRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, "", false
	}
	token := strings.ToLower(m[1])
	if n, err := strconv.Atoi(token); err == nil {
		return n, strings.TrimSpace(m[2]), true
	}
	if n, ok := numberWords[token]; ok {
		return n, strings.TrimSpace(m[2]), true
	}
	return 0, "", false
}

// IsFrontMatterDelimiter reports whether line opens or closes a front-matter block.
func IsFrontMatterDelimiter(line string) bool {
	return strings.TrimSpace(line) == "---"
}

// IsHeading reports whether line is a Markdown heading.
func IsHeading(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// Parse splits text into a Document. Sentence boundaries come from splitter.
// Parse never fails: malformed front matter is ignored.
func Parse(text string, splitter Splitter) *Document {
	text = lexicon.Normalize(text)
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	doc := &Document{}
	body := lines
	if fm, rest, ok := splitFrontMatter(lines); ok {
		var meta map[string]any
		if err := yaml.Unmarshal([]byte(strings.Join(fm, "\n")), &meta); err == nil {
			doc.FrontMatter = meta
		}
		body = rest
	}

	current := Chapter{}
	var block []string

	flushParagraph := func() {
		joined := strings.TrimSpace(strings.Join(block, " "))
		block = nil
		if joined == "" {
			return
		}
		current.Paragraphs = append(current.Paragraphs, Paragraph{
			Index:     len(current.Paragraphs),
			Sentences: splitter.Split(joined),
		})
	}
	flushChapter := func() {
		flushParagraph()
		if current.Number != 0 || current.Title != "" || len(current.Paragraphs) > 0 {
			doc.Chapters = append(doc.Chapters, current)
		}
	}

	for _, line := range body {
		if n, title, ok := ParseChapterHeader(line); ok {
			flushChapter()
			current = Chapter{Number: n, Title: title}
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flushParagraph()
			continue
		}
		if IsHeading(trimmed) {
			flushParagraph()
			continue
		}
		block = append(block, trimmed)
	}
	flushChapter()

	return doc
}

// splitFrontMatter separates a leading "---" delimited block. Leading blank
// lines before the opening delimiter are allowed.
func splitFrontMatter(lines []string) (fm, rest []string, ok bool) {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start >= len(lines) || !IsFrontMatterDelimiter(lines[start]) {
		return nil, lines, false
	}
	for i := start + 1; i < len(lines); i++ {
		if IsFrontMatterDelimiter(lines[i]) {
			return lines[start+1 : i], lines[i+1:], true
		}
	}
	return nil, lines, false
}
