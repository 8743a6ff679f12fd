package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatHeader returns a markdown header.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a bold markdown key followed by its value.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("**%s:** %s", key, value)
}

// FormatCodeBlock fences body as a markdown code block.
func FormatCodeBlock(lang, body string) string {
	return "```" + lang + "\n" + strings.TrimSuffix(body, "\n") + "\n```"
}

// Table renders rows as a light box table in text mode and as a markdown
// table otherwise.
func (r *Renderer) Table(header table.Row, rows []table.Row) {
	RenderTable(r.out, header, rows, r.EffectiveMode() == ModeMarkdown)
}

// RenderTable writes a go-pretty table to w.
func RenderTable(w io.Writer, header table.Row, rows []table.Row, markdown bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	if markdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}
