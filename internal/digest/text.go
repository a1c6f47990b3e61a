package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const maxTitleWidth = 40

func renderText(date time.Time, sections []section) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Listings for %s\n", date.Format(time.DateOnly))

	for _, s := range sections {
		sb.WriteString("\n")
		sb.WriteString(s.Title)
		sb.WriteString("\n")

		if s.Empty != "" {
			sb.WriteString(s.Empty)
			sb.WriteString("\n")
			continue
		}

		table := [][]string{{"#", "Title", "Price", "Area", "Score"}}
		for i, r := range s.Rows {
			table = append(table, []string{
				fmt.Sprint(i + 1),
				runewidth.Truncate(r.Title, maxTitleWidth, "..."),
				fmt.Sprintf("$%d", r.Price),
				fmt.Sprintf("%dft2", r.Area),
				r.Score,
			})
		}

		for _, line := range alignTable(table) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}

		for i, r := range s.Rows {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, r.URL)
		}
	}

	return sb.String()
}

// alignTable pads cells by display width so wide runes line up.
func alignTable(table [][]string) []string {
	widths := make([]int, len(table[0]))
	for _, row := range table {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(table))
	for _, row := range table {
		var sb strings.Builder
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}

	return lines
}
