package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/gubarz/mdpath"
)

// OutlineDoc is one file's outline as handed to the renderers
type OutlineDoc struct {
	File  string               `json:"file"`
	Items []mdpath.OutlineItem `json:"items"`
}

// RenderOutline writes a styled, indented outline. Indentation follows path
// depth, so it shows exactly the nesting the encoder produced.
func RenderOutline(w io.Writer, docs []OutlineDoc) error {
	for i, doc := range docs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, styles.File.Render(doc.File)); err != nil {
			return err
		}
		if len(doc.Items) == 0 {
			if _, err := fmt.Fprintln(w, styles.Dim.Render("  (no headings)")); err != nil {
				return err
			}
			continue
		}
		for _, item := range doc.Items {
			if _, err := fmt.Fprintln(w, renderOutlineLine(item)); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderOutlineLine(item mdpath.OutlineItem) string {
	b := getBuilder()
	defer putBuilder(b)

	depth := max(len(item.Path)-1, 0)
	b.WriteString(styles.Guide.Render(strings.Repeat("│ ", depth)))
	b.WriteString(styles.Level.Render(strings.Repeat("#", item.Heading.Level)))
	b.WriteString(" ")
	b.WriteString(styles.Title.Render(titleOrPlaceholder(item.Heading.Title)))
	b.WriteString("  ")
	b.WriteString(styles.Path.Render(item.Path.String()))
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  :%d", item.Heading.Line)))
	return b.String()
}

func titleOrPlaceholder(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return title
}
