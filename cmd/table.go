package cmd

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// printTable writes rows as aligned columns under a bold header and a rule.
func printTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	line := func(cells []string, style func(string) string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(c))
			parts[i] = style(c) + pad
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	line(headers, func(s string) string { return headerStyle.Render(s) })
	total := 2 * (len(widths) - 1)
	for _, n := range widths {
		total += n
	}
	fmt.Fprintln(w, strings.Repeat("─", total))
	for _, r := range rows {
		line(r, func(s string) string { return s })
	}
}

// clip shortens s to n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

const timeLayout = "2006-01-02 15:04:05"
