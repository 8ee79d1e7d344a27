package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gubarz/mdpath"
	"github.com/gubarz/mdpath/internal/parser"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDecodeCommand(t *testing.T) {
	out, err := execute(t, "decode", "0102", "01")
	require.NoError(t, err)
	assert.Equal(t, "0102\t[1 2]\n01\t[1]\n", out)

	_, err = execute(t, "decode", "0107")
	assert.Error(t, err)
}

func TestEncodeCommandHex(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(file, []byte("# A\ntext\n## B\n### C\n"), 0o644))

	out, err := execute(t, "--output", "hex", "--threshold", "100", file)
	require.NoError(t, err)
	assert.Equal(t, "01\n0102\n010203\n", out)

	out, err = execute(t, "--output", "hex", "--threshold", "0", file)
	require.NoError(t, err)
	assert.Equal(t, "01\n02\n03\n", out)
}

func TestEncodeCommandText(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(file, []byte("# A\ntext\n## B\n### C\n"), 0o644))

	out, err := execute(t, "--output", "text", "--threshold", "100", file)
	require.NoError(t, err)

	assert.Contains(t, out, "(sequential, 4 lines, 1 chunks)\n")
	assert.Contains(t, out, fmt.Sprintf("  %4d  %-12s  %s\n", 0, "01", "[1]"))
	assert.Contains(t, out, fmt.Sprintf("  %4d  %-12s  %s\n", 1, "0102", "[1 2]"))
	assert.Contains(t, out, fmt.Sprintf("  %4d  %-12s  %s\n", 2, "010203", "[1 2 3]"))
}

func TestBuildOutlinesStrict(t *testing.T) {
	set := &parser.DocumentSet{Documents: []parser.Document{
		{File: "a.md", Text: "# Top\n```\n## fenced\n```\n## Real\n"},
	}}
	g := mdpath.New(1000)
	defer g.Close()

	loose, err := buildOutlines(g, set, false)
	require.NoError(t, err)
	require.Len(t, loose, 1)
	assert.Len(t, loose[0].Items, 3)

	strict, err := buildOutlines(g, set, true)
	require.NoError(t, err)
	require.Len(t, strict[0].Items, 2)
	assert.Equal(t, "Real", strict[0].Items[1].Heading.Title)
	assert.Equal(t, mdpath.Path{1, 2}, strict[0].Items[1].Path)
	assert.Equal(t, 5, strict[0].Items[1].Heading.Line)
}

func TestDisplayName(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("docs", "x.md"), displayName(filepath.Join(wd, "docs", "x.md")))
}
