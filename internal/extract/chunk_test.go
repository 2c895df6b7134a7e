package extract

import (
	"strings"
	"testing"
)

func TestChunk(t *testing.T) {
	a1800 := strings.Repeat("a", 1800)
	b800 := strings.Repeat("b", 800)
	short := strings.Repeat("c", 500)

	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"empty", "", 0, nil},
		{"single paragraph", "hello", 0, []string{"hello"}},
		{"two fit together", short + "\n\n" + short, 0, []string{short + "\n\n" + short}},
		{"boundary flush", a1800 + "\n\n" + b800, 0, []string{a1800, b800}},
		{"oversized paragraph kept whole", strings.Repeat("x", 2500), 0, []string{strings.Repeat("x", 2500)}},
		{"whitespace-only separator", "one\n   \ntwo", 5, []string{"one", "two"}},
		{"custom limit", "ab\n\ncd\n\nef", 4, []string{"ab\n\ncd", "ef"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.text, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("Chunk returned %d chunks, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChunk_CountsRunes(t *testing.T) {
	p := strings.Repeat("é", 1000) // 2000 bytes, 1000 runes
	got := Chunk(p+"\n\n"+p, 2000)
	if len(got) != 1 {
		t.Fatalf("expected multibyte paragraphs to share a chunk, got %d chunks", len(got))
	}
}
