package executor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/gubarz/mdpath/internal/codec"
	"github.com/gubarz/mdpath/internal/config"
	"github.com/gubarz/mdpath/internal/parser"
)

// ============================================================================
// Runner Interface
// ============================================================================

// Runner starts an interactive program with inherited stdio
type Runner interface {
	Run(name string, args ...string) error
}

type systemRunner struct{}

func (systemRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	return cmd.Run()
}

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard using system commands
type systemClipboard struct {
	fallback io.Writer
}

// Copy copies text to the system clipboard
func (c *systemClipboard) Copy(text string) error {
	cmd := c.findClipboardCommand()
	if cmd == nil {
		// No clipboard tool found, just print
		_, err := fmt.Fprintln(c.fallback, text)
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// findClipboardCommand returns the appropriate clipboard command for the system
func (c *systemClipboard) findClipboardCommand() *exec.Cmd {
	switch {
	case commandExists("wl-copy"):
		return exec.Command("wl-copy")
	case commandExists("xclip"):
		return exec.Command("xclip", "-selection", "clipboard")
	case commandExists("xsel"):
		return exec.Command("xsel", "--clipboard", "--input")
	case commandExists("pbcopy"):
		return exec.Command("pbcopy")
	default:
		return nil
	}
}

// commandExists checks if a command is available in PATH
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ============================================================================
// Executor
// ============================================================================

// ActionMode is what happens to a heading picked in the browser
type ActionMode string

const (
	ActionPrint ActionMode = "print" // write "file:line<TAB>path" to out
	ActionCopy  ActionMode = "copy"  // copy the hex-encoded path
	ActionOpen  ActionMode = "open"  // open the file at the heading line in the editor
)

// Target is a picked heading
type Target struct {
	File    string
	Heading parser.Heading
	Path    codec.Path
}

// Executor acts on browse selections
type Executor struct {
	out       io.Writer
	editor    string
	clipboard Clipboard
	runner    Runner
}

// NewExecutor creates an executor writing to out and using the configured editor
func NewExecutor(out io.Writer) *Executor {
	return &Executor{
		out:       out,
		editor:    config.GetEditor(),
		clipboard: &systemClipboard{fallback: out},
		runner:    systemRunner{},
	}
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (e *Executor) WithClipboard(c Clipboard) *Executor {
	e.clipboard = c
	return e
}

// WithRunner sets a custom program runner (useful for testing)
func (e *Executor) WithRunner(r Runner) *Executor {
	e.runner = r
	return e
}

// Editor returns the configured editor command
func (e *Executor) Editor() string {
	return e.editor
}

// ============================================================================
// Actions
// ============================================================================

// Act handles a target based on the configured browse action
func (e *Executor) Act(t Target) error {
	return e.ActWithMode(t, ActionMode(config.GetBrowseAction()))
}

// ActWithMode handles a target with an explicit mode
func (e *Executor) ActWithMode(t Target, mode ActionMode) error {
	switch mode {
	case ActionCopy:
		buf, err := codec.Encode(t.Path)
		if err != nil {
			return err
		}
		return e.clipboard.Copy(codec.Hex(buf))
	case ActionOpen:
		return e.open(t)
	case ActionPrint, "":
		_, err := fmt.Fprintf(e.out, "%s:%d\t%s\n", t.File, t.Heading.Line, t.Path)
		return err
	default:
		return goerrors.New(fmt.Sprintf("unsupported browse action %q", mode), goerrors.CategoryValidation).
			WithTextCode("INVALID_ACTION")
	}
}

// open launches the editor with a "+line" argument, which vi, vim, nano,
// emacs and most terminal editors understand
func (e *Executor) open(t Target) error {
	fields := parseShellArgs(e.editor)
	if len(fields) == 0 {
		return goerrors.New("no editor configured", goerrors.CategoryValidation).
			WithTextCode("NO_EDITOR")
	}
	args := append(fields[1:], "+"+strconv.Itoa(max(t.Heading.Line, 1)), t.File)
	if err := e.runner.Run(fields[0], args...); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "open editor").
			WithTextCode("EDITOR_FAILED")
	}
	return nil
}

// parseShellArgs splits an editor command, honoring simple quotes
func parseShellArgs(s string) []string {
	var args []string
	var current strings.Builder
	var quote rune
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
		case r == ' ' || r == '\t':
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
