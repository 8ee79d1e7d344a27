package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		level int
		title string
	}{
		{name: "h1", raw: "# T1", level: 1, title: "T1"},
		{name: "h6", raw: "###### Six", level: 6, title: "Six"},
		{name: "seven hashes", raw: "####### Seven", level: 0},
		{name: "seven hashes alone", raw: "#######", level: 0},
		{name: "no space", raw: "#hashtag", level: 0},
		{name: "bare hash", raw: "#", level: 1, title: ""},
		{name: "bare hashes with space", raw: "### ", level: 3, title: ""},
		{name: "indented spaces", raw: "   ## Indented", level: 2, title: "Indented"},
		{name: "indented tab", raw: "\t# Tabbed", level: 1, title: "Tabbed"},
		{name: "tab separator", raw: "##\tTab", level: 2, title: "Tab"},
		{name: "closing sequence", raw: "## Title ##", level: 2, title: "Title"},
		{name: "closing only", raw: "# ###", level: 1, title: ""},
		{name: "hash inside title", raw: "# C# notes", level: 1, title: "C# notes"},
		{name: "trailing hash glued", raw: "# C#", level: 1, title: "C#"},
		{name: "carriage return", raw: "# CRLF\r", level: 1, title: "CRLF"},
		{name: "paragraph", raw: "plain text", level: 0},
		{name: "empty", raw: "", level: 0},
		{name: "hash later in line", raw: "text # not", level: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := ParseLine(7, tt.raw)
			assert.Equal(t, 7, line.Number)
			assert.Equal(t, tt.level, line.Level)
			assert.Equal(t, tt.level > 0, line.IsHeading())
			assert.Equal(t, tt.title, line.Title)
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "single no newline", text: "a", want: []string{"a"}},
		{name: "single trailing newline", text: "a\n", want: []string{"a"}},
		{name: "blank line kept", text: "a\n\n", want: []string{"a", ""}},
		{name: "two lines", text: "# T1\n## T2", want: []string{"# T1", "## T2"}},
		{name: "only newline", text: "\n", want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.text))
		})
	}
}

func TestLinesIsRestartable(t *testing.T) {
	seq := Lines("# A\ntext\n## B\n")

	collect := func() []Line {
		var out []Line
		for l := range seq {
			out = append(out, l)
		}
		return out
	}

	first := collect()
	second := collect()
	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, first[2].Number)
}

func TestLinesStopsEarly(t *testing.T) {
	count := 0
	for range Lines("a\nb\nc\nd") {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestHeadings(t *testing.T) {
	text := "intro\n# One\nbody\n### Three ###\n####### nope\n## Two\n"
	got := Headings(text)
	assert.Equal(t, []Heading{
		{Line: 2, Level: 1, Title: "One"},
		{Line: 4, Level: 3, Title: "Three"},
		{Line: 6, Level: 2, Title: "Two"},
	}, got)

	assert.Empty(t, Headings("no headings here\nat all"))
}

func TestScanLinesOffset(t *testing.T) {
	headings := HeadingsIn(ScanLines([]string{"x", "# A"}, 41))
	require.Len(t, headings, 1)
	assert.Equal(t, 42, headings[0].Line)
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.MD"), []byte("## B\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("# ignored\n"), 0o644))

	set, err := NewParser().ParseDirectory(dir)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	assert.Equal(t, filepath.Join(dir, "a.md"), set.Documents[0].File)
	assert.Equal(t, "# A\n", set.Documents[0].Text)
	assert.Equal(t, filepath.Join(dir, "sub", "b.MD"), set.Documents[1].File)
}

func TestParsePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "single.markdown")
	require.NoError(t, os.WriteFile(file, []byte("# Only\n"), 0o644))

	set, err := NewParser().ParsePath(file)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "# Only\n", set.Documents[0].Text)

	_, err = NewParser().ParsePath(filepath.Join(dir, "missing.md"))
	assert.Error(t, err)
}

func TestIsMarkdown(t *testing.T) {
	assert.True(t, IsMarkdown("README.md"))
	assert.True(t, IsMarkdown("docs/Guide.MARKDOWN"))
	assert.False(t, IsMarkdown("main.go"))
}
