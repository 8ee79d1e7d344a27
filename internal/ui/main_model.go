package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gubarz/mdpath"
	"github.com/gubarz/mdpath/internal/codec"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Heading Item
// ============================================================================

// headingItem wraps an outline item with display metadata
type headingItem struct {
	file  string
	item  mdpath.OutlineItem
	hex   string
	title string // lowercased for matching
}

// newHeadingItem creates a headingItem for one outline entry
func newHeadingItem(file string, item mdpath.OutlineItem) headingItem {
	hex := ""
	if buf, err := codec.Encode(item.Path); err == nil {
		hex = codec.Hex(buf)
	}
	return headingItem{
		file:  file,
		item:  item,
		hex:   hex,
		title: strings.ToLower(item.Heading.Title),
	}
}

// matchesQuery checks if the item matches all search words
func (h *headingItem) matchesQuery(words []string) bool {
	for _, word := range words {
		if !h.containsWord(word) {
			return false
		}
	}
	return true
}

// containsWord checks title, file and path rendering (case-insensitive)
func (h *headingItem) containsWord(word string) bool {
	if strings.Contains(h.title, word) {
		return true
	}
	if strings.Contains(strings.ToLower(filepath.Base(h.file)), word) {
		return true
	}
	return strings.Contains(h.item.Path.String(), word) || strings.Contains(h.hex, word)
}

// ============================================================================
// Debounce
// ============================================================================

// filterMsg triggers filtering after debounce
type filterMsg struct{}

// debounceFilter returns a command that triggers filtering after a delay
func debounceFilter() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return filterMsg{}
	})
}

// ============================================================================
// Browse Model
// ============================================================================

// browseModel is the Bubble Tea model for browsing heading paths
type browseModel struct {
	width     int
	height    int
	textInput textinput.Model
	quitting  bool

	items    []headingItem
	filtered []headingItem
	cursor   int
	offset   int // viewport scroll offset
	selected *headingItem
}

// newBrowseModel creates a browseModel over every outline item of docs
func newBrowseModel(docs []OutlineDoc) browseModel {
	ti := textinput.New()
	ti.Placeholder = "Filter headings..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	var items []headingItem
	for _, doc := range docs {
		for _, item := range doc.Items {
			items = append(items, newHeadingItem(doc.File, item))
		}
	}

	return browseModel{
		items:     items,
		filtered:  items,
		textInput: ti,
	}
}

// Init implements tea.Model
func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	case filterMsg:
		m.filter()
		return m, nil
	}

	prevQuery := m.textInput.Value()
	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	cmds = append(cmds, tiCmd)

	// Only trigger debounced filter if query changed
	if m.textInput.Value() != prevQuery {
		cmds = append(cmds, debounceFilter())
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes navigation keys; other keys go to the filter input
func (m *browseModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit
	case "enter":
		if m.cursor < len(m.filtered) {
			selected := m.filtered[m.cursor]
			m.selected = &selected
			return tea.Quit
		}
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-10)
	case "pgdown":
		m.moveCursor(10)
	case "home", "ctrl+a":
		m.cursor = 0
		m.adjustOffset()
	case "end", "ctrl+e":
		m.cursor = max(0, len(m.filtered)-1)
		m.adjustOffset()
	}
	return nil
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// adjustOffset ensures cursor is visible within viewport
func (m *browseModel) adjustOffset() {
	viewHeight := max(m.height-8, 3)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+viewHeight {
		m.offset = m.cursor - viewHeight + 1
	}
	m.offset = clamp(m.offset, 0, max(0, len(m.filtered)-viewHeight))
}

// filter narrows the list to items matching every word of the query
func (m *browseModel) filter() {
	query := strings.TrimSpace(m.textInput.Value())

	if query == "" {
		m.filtered = m.items
	} else {
		words := strings.Fields(strings.ToLower(query))
		m.filtered = make([]headingItem, 0, min(len(m.items), 1000))
		for i := range m.items {
			if m.items[i].matchesQuery(words) {
				m.filtered = append(m.filtered, m.items[i])
				if len(m.filtered) >= 1000 {
					break
				}
			}
		}
	}

	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// View implements tea.Model
func (m browseModel) View() string {
	if m.quitting {
		return ""
	}

	width := max(m.width, 80)
	height := max(m.height, 24)

	preview := m.renderPreview(width)
	previewLines := countLines(preview)

	inputLines := 3 // divider + info + input
	listHeight := max(height-previewLines-inputLines, 3)
	list := m.renderList(listHeight)
	padding := max(height-previewLines-countLines(list)-inputLines, 0)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(preview)
	b.WriteString(list)
	b.WriteString(strings.Repeat("\n", padding))
	b.WriteString(m.renderInput(width))
	return b.String()
}

// renderPreview shows file, title, path and encoded bytes of the cursor item
func (m browseModel) renderPreview(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	const previewLines = 4

	if m.cursor < len(m.filtered) {
		h := m.filtered[m.cursor]
		b.WriteString(styles.Dim.Render(fmt.Sprintf("%s:%d", h.file, h.item.Heading.Line)))
		b.WriteString("\n")
		b.WriteString(styles.PreviewTitle.Render(titleOrPlaceholder(h.item.Heading.Title)))
		b.WriteString("\n")
		b.WriteString(styles.PreviewPath.Render("path " + h.item.Path.String()))
		b.WriteString("\n")
		b.WriteString(styles.Dim.Render("bytes " + h.hex))
		b.WriteString("\n")
	} else {
		b.WriteString(strings.Repeat("\n", previewLines))
	}

	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	return b.String()
}

// renderList renders the scrollable list of headings
func (m *browseModel) renderList(maxHeight int) string {
	if len(m.filtered) == 0 {
		return ""
	}

	start, end := scrollWindow(m.cursor, len(m.filtered), maxHeight, &m.offset)

	b := getBuilder()
	defer putBuilder(b)
	for i := start; i < end; i++ {
		b.WriteString(m.renderListItem(m.filtered[i], i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

// renderListItem renders one heading indented by its path depth
func (m browseModel) renderListItem(h headingItem, selected bool) string {
	levelStyle, titleStyle, pathStyle := styles.Level, styles.Title, styles.Path
	prefix := "  "
	if selected {
		levelStyle = styles.WithSelection(levelStyle)
		titleStyle = styles.WithSelection(titleStyle)
		pathStyle = styles.WithSelection(pathStyle)
		prefix = styles.Cursor.Render("▌ ")
	}

	indent := strings.Repeat("  ", max(len(h.item.Path)-1, 0))
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		prefix,
		titleStyle.Render(indent),
		levelStyle.Render(strings.Repeat("#", h.item.Heading.Level)+" "),
		titleStyle.Render(truncateString(titleOrPlaceholder(h.item.Heading.Title), 60)),
		titleStyle.Render("  "),
		pathStyle.Render(h.item.Path.String()),
	)
	return line
}

// renderInput renders the input section at the bottom
func (m browseModel) renderInput(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d/%d", len(m.filtered), len(m.items))))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("Enter select"))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("ESC exit"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// ============================================================================
// Run Browser
// ============================================================================

// getTTY returns file handles for TUI input/output
// Uses /dev/tty to bypass shell pipes and command substitution
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	if fileInfo, _ := os.Stdout.Stat(); (fileInfo.Mode() & os.ModeCharDevice) == 0 {
		out, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			out = os.Stderr
		} else {
			closers = append(closers, func() { out.Close() })
		}

		in, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
		if err != nil {
			in = os.Stdin
		} else {
			closers = append(closers, func() { in.Close() })
		}

		// Tell lipgloss to use the TTY for color detection
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))

		return in, out, func() {
			for _, c := range closers {
				c()
			}
		}
	}

	return os.Stdin, os.Stdout, func() {}
}

// Selection is the heading picked in the browser
type Selection struct {
	File string
	Item mdpath.OutlineItem
}

// RunBrowser launches the interactive heading browser. It returns nil when the
// user exits without selecting.
func RunBrowser(docs []OutlineDoc, initialQuery string) (*Selection, error) {
	m := newBrowseModel(docs)
	if len(m.items) == 0 {
		return nil, fmt.Errorf("no headings found")
	}

	if initialQuery != "" {
		m.textInput.SetValue(initialQuery)
		m.filter()
	}

	ttyIn, ttyOut, cleanup := getTTY()
	RefreshStyles() // Refresh after getTTY sets up the renderer
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	finalModel, err := p.Run()
	cleanup()
	if err != nil {
		return nil, err
	}

	result := finalModel.(browseModel)
	if result.selected == nil {
		return nil, nil
	}
	return &Selection{File: result.selected.file, Item: result.selected.item}, nil
}

// ============================================================================
// Helpers
// ============================================================================

// clamp restricts v to the range [minV, maxV]
func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// countLines counts the number of lines in a string
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// scrollWindow calculates the visible range for a scrollable list
func scrollWindow(cursor, total, height int, offset *int) (start, end int) {
	if cursor < *offset {
		*offset = cursor
	}
	if cursor >= *offset+height {
		*offset = cursor - height + 1
	}
	maxOffset := max(0, total-height)
	*offset = clamp(*offset, 0, maxOffset)

	start = *offset
	end = min(start+height, total)
	return
}

// truncateString truncates s to maxLen terminal cells with ellipsis. Wide
// runes count as two cells and are never split.
func truncateString(s string, maxLen int) string {
	return ansi.Truncate(s, maxLen, "...")
}
