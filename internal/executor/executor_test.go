package executor

import (
	"bytes"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gubarz/mdpath/internal/codec"
	"github.com/gubarz/mdpath/internal/parser"
)

type stubClipboard struct {
	copied []string
}

func (c *stubClipboard) Copy(text string) error {
	c.copied = append(c.copied, text)
	return nil
}

type stubRunner struct {
	name string
	args []string
	err  error
}

func (r *stubRunner) Run(name string, args ...string) error {
	r.name = name
	r.args = args
	return r.err
}

func newTestExecutor(editor string) (*Executor, *bytes.Buffer, *stubClipboard, *stubRunner) {
	out := &bytes.Buffer{}
	clip := &stubClipboard{}
	runner := &stubRunner{}
	e := NewExecutor(out).WithClipboard(clip).WithRunner(runner)
	e.editor = editor
	return e, out, clip, runner
}

var target = Target{
	File:    "docs/guide.md",
	Heading: parser.Heading{Line: 12, Level: 2, Title: "Install"},
	Path:    codec.Path{1, 2},
}

func TestActPrint(t *testing.T) {
	e, out, clip, _ := newTestExecutor("vi")

	require.NoError(t, e.ActWithMode(target, ActionPrint))
	assert.Equal(t, "docs/guide.md:12\t[1 2]\n", out.String())
	assert.Empty(t, clip.copied)
}

func TestActCopy(t *testing.T) {
	e, out, clip, _ := newTestExecutor("vi")

	require.NoError(t, e.ActWithMode(target, ActionCopy))
	assert.Equal(t, []string{"0102"}, clip.copied)
	assert.Empty(t, out.String())
}

func TestActCopyInvalidPath(t *testing.T) {
	e, _, clip, _ := newTestExecutor("vi")

	err := e.ActWithMode(Target{File: "x.md"}, ActionCopy)
	assert.Error(t, err)
	assert.Empty(t, clip.copied)
}

func TestActOpen(t *testing.T) {
	e, _, _, runner := newTestExecutor(`code --wait "--reuse-window"`)

	require.NoError(t, e.ActWithMode(target, ActionOpen))
	assert.Equal(t, "code", runner.name)
	assert.Equal(t, []string{"--wait", "--reuse-window", "+12", "docs/guide.md"}, runner.args)
}

func TestActOpenErrors(t *testing.T) {
	e, _, _, _ := newTestExecutor("   ")
	err := e.ActWithMode(target, ActionOpen)
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))

	e, _, _, runner := newTestExecutor("vi")
	runner.err = errors.New("exit status 1")
	err = e.ActWithMode(target, ActionOpen)
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryCommand))
}

func TestActUnknownMode(t *testing.T) {
	e, _, _, _ := newTestExecutor("vi")
	err := e.ActWithMode(target, ActionMode("exec"))
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
}

func TestParseShellArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "vim", want: []string{"vim"}},
		{in: "  emacs   -nw ", want: []string{"emacs", "-nw"}},
		{in: `"/Applications/My Editor" -w`, want: []string{"/Applications/My Editor", "-w"}},
		{in: `nvim '-c' 'set ft=markdown'`, want: []string{"nvim", "-c", "set ft=markdown"}},
		{in: "", want: nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseShellArgs(tt.in), "input %q", tt.in)
	}
}
