package parser

import (
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Line is a single logical line of a markdown document
type Line struct {
	Number int    // 1-based line number in the source text
	Text   string // Raw line without the line terminator
	Level  int    // Heading level 1..6, 0 for non-heading lines
	Title  string // Heading title, empty for non-heading lines
}

// IsHeading reports whether the line is an ATX heading
func (l Line) IsHeading() bool {
	return l.Level > 0
}

// Heading is a heading line lifted out of a document
type Heading struct {
	Line  int    `json:"line"`
	Level int    `json:"level"`
	Title string `json:"title"`
}

var (
	// 1-6 '#' after optional indentation, then whitespace or end of line.
	// Seven or more '#' never match since the seventh is neither.
	headerRegex = regexp.MustCompile(`^[ \t]*(#{1,6})(?:[ \t]+(.*))?$`)
	// Optional closing sequence: "## Title ##"
	closingRegex = regexp.MustCompile(`(?:^|[ \t]+)#+[ \t]*$`)
)

// SplitLines splits text into logical lines. A single trailing newline does not
// start a new line, so "" has zero lines and "a\n" has one.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ParseLine classifies a single raw line
func ParseLine(number int, raw string) Line {
	raw = strings.TrimSuffix(raw, "\r")
	line := Line{Number: number, Text: raw}

	// Cheap rejection before the regex: the first non-indentation byte must be '#'
	trimmed := strings.TrimLeft(raw, " \t")
	if len(trimmed) == 0 || trimmed[0] != '#' {
		return line
	}

	matches := headerRegex.FindStringSubmatch(raw)
	if matches == nil {
		return line
	}
	line.Level = len(matches[1])
	line.Title = cleanTitle(matches[2])
	return line
}

// cleanTitle trims the title and drops an optional closing '#' run
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	return strings.TrimSpace(closingRegex.ReplaceAllString(title, ""))
}

// ScanLines yields classified lines for an already split region. first is the
// line number of lines[0]. The sequence is finite and may be ranged over again.
func ScanLines(lines []string, first int) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for i, raw := range lines {
			if !yield(ParseLine(first+i, raw)) {
				return
			}
		}
	}
}

// Lines yields every line of text, tagged as heading or not
func Lines(text string) iter.Seq[Line] {
	return ScanLines(SplitLines(text), 1)
}

// HeadingsIn collects the heading lines of a region in order
func HeadingsIn(seq iter.Seq[Line]) []Heading {
	var headings []Heading
	for line := range seq {
		if line.IsHeading() {
			headings = append(headings, Heading{Line: line.Number, Level: line.Level, Title: line.Title})
		}
	}
	return headings
}

// Headings returns every heading of text in document order
func Headings(text string) []Heading {
	return HeadingsIn(Lines(text))
}

// ============================================================================
// Markdown file discovery
// ============================================================================

// Document is a markdown file loaded into memory
type Document struct {
	File string // Source file path
	Text string // Full file contents
}

// DocumentSet holds every document found by a Parser, in discovery order
type DocumentSet struct {
	Documents []Document
}

// Len returns the number of loaded documents
func (s *DocumentSet) Len() int {
	return len(s.Documents)
}

// Parser discovers and loads markdown files
type Parser struct {
	set *DocumentSet
}

// NewParser creates a new parser
func NewParser() *Parser {
	return &Parser{
		set: &DocumentSet{},
	}
}

// ParseDirectory recursively loads all markdown files under dir
func (p *Parser) ParseDirectory(dir string) (*DocumentSet, error) {
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if IsMarkdown(path) {
			if err := p.loadFile(path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.set, nil
}

// ParseSingleFile loads a single markdown file
func (p *Parser) ParseSingleFile(path string) (*DocumentSet, error) {
	if err := p.loadFile(path); err != nil {
		return nil, err
	}
	return p.set, nil
}

// ParsePath loads path as a directory or a single file
func (p *Parser) ParsePath(path string) (*DocumentSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return p.ParseDirectory(path)
	}
	return p.ParseSingleFile(path)
}

func (p *Parser) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	p.set.Documents = append(p.set.Documents, Document{File: path, Text: string(data)})
	return nil
}

// IsMarkdown reports whether path has a markdown extension
func IsMarkdown(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}
