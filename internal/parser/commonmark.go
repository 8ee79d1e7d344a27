package parser

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CommonMarkHeadings finds headings the way a CommonMark renderer would:
// fenced and indented code is skipped and setext headings are recognised.
// Line numbers refer to the first source line of each heading.
func CommonMarkHeadings(src []byte) []Heading {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))
	starts := lineStarts(src)

	var (
		headings []Heading
		raw      []string
		// first line not yet claimed by a block
		cursor = 1
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := n.Lines()
		heading, ok := n.(*ast.Heading)
		if !ok {
			if lines.Len() > 0 {
				cursor = lineOf(starts, lines.At(lines.Len()-1).Start) + 1
			}
			return ast.WalkContinue, nil
		}
		h := Heading{
			Level: heading.Level,
			Title: string(bytes.TrimSpace(headingText(heading, src))),
		}
		if lines.Len() > 0 {
			h.Line = lineOf(starts, lines.At(0).Start)
		} else {
			// An empty ATX heading carries no segments.
			if raw == nil {
				raw = SplitLines(string(src))
			}
			h.Line = emptyHeadingLine(raw, cursor, heading.Level)
		}
		cursor = h.Line + 1
		headings = append(headings, h)
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// emptyHeadingLine returns the first line at or after from that is a bare
// ATX marker of the given level, or from when none is found.
func emptyHeadingLine(raw []string, from, level int) int {
	for i := from; i <= len(raw); i++ {
		if l := ParseLine(i, raw[i-1]); l.Level == level && l.Title == "" {
			return i
		}
	}
	return from
}

// headingText concatenates the raw text segments below a heading node
func headingText(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.Write(headingText(c, src))
	}
	return buf.Bytes()
}

// lineStarts returns the byte offset at which every line begins
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf maps a byte offset to its 1-based line number
func lineOf(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
}
