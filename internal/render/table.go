package render

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

// maxCellWidth caps a single column so one long description field cannot
// push the rest of the table off screen.
const maxCellWidth = 48

// Table prints headers and rows padded to per-column display width.
// Widths are measured in terminal cells so wide runes line up.
func (r *Renderer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for ri, row := range rows {
		for i := range headers {
			if i >= len(row) {
				continue
			}
			cell := truncateCell(row[i])
			rows[ri][i] = cell
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	r.tableRow(headers, widths, true)
	separators := make([]string, len(headers))
	for i, w := range widths {
		separators[i] = strings.Repeat("-", w)
	}
	r.tableRow(separators, widths, false)
	for _, row := range rows {
		r.tableRow(row, widths, false)
	}
}

// Columns prints items in n left-aligned columns, filling row by row.
func (r *Renderer) Columns(items []string, n int) {
	if n < 1 {
		n = 1
	}
	width := 0
	for _, item := range items {
		if w := runewidth.StringWidth(item); w > width {
			width = w
		}
	}
	for i, item := range items {
		fmt.Fprint(r.out, runewidth.FillRight(item, width+2))
		if (i+1)%n == 0 || i == len(items)-1 {
			fmt.Fprintln(r.out)
		}
	}
}

func (r *Renderer) tableRow(cells []string, widths []int, header bool) {
	parts := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded := runewidth.FillRight(cell, widths[i])
		if header {
			padded = color.Bold.Sprint(padded)
		}
		parts[i] = padded
	}
	fmt.Fprintln(r.out, strings.TrimRight(strings.Join(parts, "  "), " "))
}

func truncateCell(cell string) string {
	cell = strings.ReplaceAll(cell, "\n", " ")
	return runewidth.Truncate(cell, maxCellWidth, "...")
}
