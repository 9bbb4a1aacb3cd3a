package analytics

import (
	"strings"
	"unicode/utf8"
)

type mdColumn struct {
	title string
	right bool
}

// markdownTable renders a padded pipe table, text left-aligned and numbers
// right-aligned.
func markdownTable(cols []mdColumn, rows [][]string) string {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = utf8.RuneCountInString(c.title)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i, cell := range cells {
			b.WriteString(" ")
			b.WriteString(pad(cell, widths[i], cols[i].right))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	writeRow(titles)

	b.WriteString("|")
	for i, c := range cols {
		if c.right {
			b.WriteString(strings.Repeat("-", widths[i]+1) + ":|")
		} else {
			b.WriteString(":" + strings.Repeat("-", widths[i]+1) + "|")
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func pad(s string, width int, right bool) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}
