package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable pads cells to per-column display widths.
func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	all := append([][]string{headers}, rows...)
	if len(headers) == 0 {
		all = rows
	}
	var widths []int
	for _, row := range all {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	if len(widths) == 0 {
		return nil
	}
	lines := make([]string, 0, len(all))
	for _, row := range all {
		cells := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = padCell(cell, widths[i], rightAlignCols[i])
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}
