// Package extract derives term/explanation rows from free text using layered
// pattern heuristics. Nothing here calls out to a language model: every pass
// is a pure function of its input lines and can be tested on its own.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxRows caps the number of rows Extract returns.
const MaxRows = 500

// MaxTermLength is the exclusive upper bound, in characters, for a term
// produced by the delimiter pass.
const MaxTermLength = 120

// Row is a candidate flashcard.
type Row struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

var (
	tableTermHeaderRE = regexp.MustCompile(`(?i)term|concept`)
	tableDefHeaderRE  = regexp.MustCompile(`(?i)definition|explanation`)
	tableSeparatorRE  = regexp.MustCompile(`^\|?\s*-`)
	termCellRE        = regexp.MustCompile(`(?i)term`)

	bulletRE    = regexp.MustCompile(`^[-*•]\s*`)
	delimiterRE = regexp.MustCompile(`^(.*?)\s*[–—:-]\s*(.+)$`)

	headingRE     = regexp.MustCompile(`^#+\s|^[A-Z][A-Za-z0-9\s]{1,39}$`)
	headingMarkRE = regexp.MustCompile(`^#+\s*`)
	wordRE        = regexp.MustCompile(`\w+`)
)

// Extract runs every pass over text, pools the results and deduplicates them
// by normalized term, keeping the longest explanation for each key. The
// result holds at most MaxRows rows in first-seen key order.
func Extract(text string) []Row {
	lines := Lines(text)

	var pooled []Row
	pooled = append(pooled, Tables(lines)...)
	pooled = append(pooled, Delimited(lines)...)
	pooled = append(pooled, Headings(lines)...)

	rows := Dedupe(pooled)
	if len(rows) > MaxRows {
		rows = rows[:MaxRows]
	}
	return rows
}

// Lines splits text on newlines, trims each line and drops blank ones.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Tables reads pipe-delimited rows. The pass only activates when some line
// looks like a table header naming both a term column and a definition
// column.
func Tables(lines []string) []Row {
	if !hasTableHeader(lines) {
		return nil
	}

	var rows []Row
	for _, l := range lines {
		if tableSeparatorRE.MatchString(l) {
			continue
		}
		cells := splitCells(l)
		if len(cells) < 2 || termCellRE.MatchString(cells[0]) {
			continue
		}
		rows = append(rows, Row{Term: cells[0], Explanation: cells[1]})
	}
	return rows
}

func hasTableHeader(lines []string) bool {
	for _, l := range lines {
		if strings.Contains(l, "|") && tableTermHeaderRE.MatchString(l) && tableDefHeaderRE.MatchString(l) {
			return true
		}
	}
	return false
}

func splitCells(line string) []string {
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}

// Delimited matches "<term> <dash|colon> <explanation>" lines. Leading bullet
// markers are removed before matching; the first delimiter on the line wins.
func Delimited(lines []string) []Row {
	var rows []Row
	for _, l := range lines {
		l = bulletRE.ReplaceAllString(l, "")
		m := delimiterRE.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		term := strings.TrimSpace(bulletRE.ReplaceAllString(m[1], ""))
		exp := strings.TrimSpace(m[2])
		if term == "" || exp == "" || utf8.RuneCountInString(term) >= MaxTermLength {
			continue
		}
		rows = append(rows, Row{Term: term, Explanation: exp})
	}
	return rows
}

// Headings pairs a heading line with the line that follows it. A heading is
// a markdown "#" line or a short line starting with a capital letter.
func Headings(lines []string) []Row {
	var rows []Row
	for i := 0; i+1 < len(lines); i++ {
		if !headingRE.MatchString(lines[i]) || !wordRE.MatchString(lines[i+1]) {
			continue
		}
		term := strings.TrimSpace(headingMarkRE.ReplaceAllString(lines[i], ""))
		if term == "" {
			continue
		}
		rows = append(rows, Row{Term: term, Explanation: lines[i+1]})
	}
	return rows
}

// Dedupe keeps one row per normalized term, preferring the longest
// explanation. Rows whose term normalizes to the empty string are dropped.
func Dedupe(rows []Row) []Row {
	byKey := make(map[string]int, len(rows))
	var out []Row
	for _, r := range rows {
		k := NormalizeTerm(r.Term)
		if k == "" {
			continue
		}
		idx, ok := byKey[k]
		if !ok {
			byKey[k] = len(out)
			out = append(out, r)
			continue
		}
		if utf8.RuneCountInString(r.Explanation) > utf8.RuneCountInString(out[idx].Explanation) {
			out[idx] = r
		}
	}
	return out
}

// NormalizeTerm lowercases s and strips everything outside [a-z0-9]. It is
// the dedup key for cards.
func NormalizeTerm(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
