package extract

import (
	"fmt"
	"slices"
	"strings"
	"testing"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Mitosis", "mitosis"},
		{"  Cell-Division (Phase 2) ", "celldivisionphase2"},
		{"ATP!", "atp"},
		{"日本", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTerm(tt.in); got != tt.want {
			t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTables(t *testing.T) {
	lines := Lines(`| Term | Definition |
|------|------------|
| Osmosis | Diffusion of water across a membrane |
| ATP | Energy currency of the cell |`)

	got := Tables(lines)
	want := []Row{
		{Term: "Osmosis", Explanation: "Diffusion of water across a membrane"},
		{Term: "ATP", Explanation: "Energy currency of the cell"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Tables = %+v, want %+v", got, want)
	}
}

func TestTables_RequiresHeader(t *testing.T) {
	lines := Lines("| Osmosis | Diffusion of water |\n| ATP | Energy |")
	if got := Tables(lines); len(got) != 0 {
		t.Fatalf("expected no rows without a header line, got %+v", got)
	}
}

func TestDelimited(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Row
	}{
		{"colon", "Mitosis: cell division", []Row{{"Mitosis", "cell division"}}},
		{"em dash", "Osmosis — water diffusion", []Row{{"Osmosis", "water diffusion"}}},
		{"en dash", "Osmosis – water diffusion", []Row{{"Osmosis", "water diffusion"}}},
		{"hyphen bullet", "- ATP - energy currency", []Row{{"ATP", "energy currency"}}},
		{"star bullet", "* Ribosome: protein factory", []Row{{"Ribosome", "protein factory"}}},
		{"dot bullet", "• Nucleus: control center", []Row{{"Nucleus", "control center"}}},
		{"first delimiter wins", "Ratio: 3:1 split", []Row{{"Ratio", "3:1 split"}}},
		{"no delimiter", "Just a sentence", nil},
		{"empty term", ": orphan explanation", nil},
		{"empty explanation", "Dangling:", nil},
		{"term too long", strings.Repeat("x", MaxTermLength) + ": too long", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Delimited([]string{tt.line})
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Delimited(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestHeadings(t *testing.T) {
	lines := Lines(`# Photosynthesis
Plants convert light into chemical energy.
Key Ideas
Energy flows through ecosystems.
this is not a heading
Neither is this one.`)

	got := Headings(lines)
	want := []Row{
		{"Photosynthesis", "Plants convert light into chemical energy."},
		{"Key Ideas", "Energy flows through ecosystems."},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Headings = %+v, want %+v", got, want)
	}
}

func TestHeadings_LengthBound(t *testing.T) {
	long := "A" + strings.Repeat("b", 40) // 41 chars
	ok := "A" + strings.Repeat("b", 39)   // 40 chars
	if got := Headings([]string{long, "next line"}); len(got) != 0 {
		t.Errorf("41-char line treated as heading: %+v", got)
	}
	if got := Headings([]string{ok, "next line"}); len(got) != 1 {
		t.Errorf("40-char line not treated as heading: %+v", got)
	}
}

func TestDedupe_KeepsLongest(t *testing.T) {
	got := Dedupe([]Row{
		{"X", "short"},
		{"x!", "much longer explanation"},
		{"Y", "why"},
		{"X", "mid"},
		{"???", "no key"},
	})
	want := []Row{
		{"x!", "much longer explanation"},
		{"Y", "why"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Dedupe = %+v, want %+v", got, want)
	}
}

func TestExtract_Scenario(t *testing.T) {
	text := "Mitosis: cell division producing two identical daughter cells\n" +
		"Meiosis: cell division producing four genetically distinct gametes"

	got := Extract(text)
	want := []Row{
		{"Mitosis", "cell division producing two identical daughter cells"},
		{"Meiosis", "cell division producing four genetically distinct gametes"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Extract = %+v, want %+v", got, want)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	text := `# Cells
The basic unit of life.
| Term | Explanation |
| --- | --- |
| Osmosis | Diffusion of water |
- Osmosis: diffusion of water across a semipermeable membrane
Enzyme — a biological catalyst`

	first := Extract(text)
	second := Extract(text)
	key := func(r Row) string { return NormalizeTerm(r.Term) + "\x00" + r.Explanation }
	a := make([]string, 0, len(first))
	for _, r := range first {
		a = append(a, key(r))
	}
	b := make([]string, 0, len(second))
	for _, r := range second {
		b = append(b, key(r))
	}
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(a, b) {
		t.Fatalf("extract not idempotent:\n%v\n%v", a, b)
	}

	for _, r := range first {
		if NormalizeTerm(r.Term) == "osmosis" && r.Explanation != "diffusion of water across a semipermeable membrane" {
			t.Errorf("osmosis kept %q, want the longest explanation", r.Explanation)
		}
	}
}

func TestExtract_CapsRows(t *testing.T) {
	var b strings.Builder
	for i := 0; i < MaxRows+50; i++ {
		fmt.Fprintf(&b, "term%d: explanation\n", i)
	}
	if got := Extract(b.String()); len(got) != MaxRows {
		t.Fatalf("len(Extract) = %d, want %d", len(got), MaxRows)
	}
}
