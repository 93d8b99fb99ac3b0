package stats

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/lyrictype/internal/model"
)

// charColumn is one column of the per-character table.
type charColumn struct {
	title string
	right bool
	value func(model.CharStats) string
}

var charColumns = []charColumn{
	{title: "Char", value: func(c model.CharStats) string { return CharLabel(c.Char) }},
	{title: "Accuracy", right: true, value: func(c model.CharStats) string {
		return fmt.Sprintf("%.2f%%", c.Accuracy()*100)
	}},
	{title: "Correct", right: true, value: func(c model.CharStats) string { return fmt.Sprint(c.Correct) }},
	{title: "Incorrect", right: true, value: func(c model.CharStats) string { return fmt.Sprint(c.Incorrect) }},
}

// charTableLines lays out one header line plus one line per entry. Columns
// are sized by terminal cell width so wide and combined runes stay aligned.
func charTableLines(cols []charColumn, chars []model.CharStats) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.title
		widths[i] = runewidth.StringWidth(col.title)
	}
	cells := make([][]string, len(chars))
	for r, ch := range chars {
		cells[r] = make([]string, len(cols))
		for i, col := range cols {
			v := col.value(ch)
			cells[r][i] = v
			widths[i] = max(widths[i], runewidth.StringWidth(v))
		}
	}

	lines := make([]string, 0, len(chars)+1)
	lines = append(lines, joinCells(cols, widths, header))
	for _, row := range cells {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func joinCells(cols []charColumn, widths []int, cells []string) string {
	padded := make([]string, len(cols))
	for i, col := range cols {
		if col.right {
			padded[i] = runewidth.FillLeft(cells[i], widths[i])
		} else {
			padded[i] = runewidth.FillRight(cells[i], widths[i])
		}
	}
	return strings.Join(padded, " ")
}
