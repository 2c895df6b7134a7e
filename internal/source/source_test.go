package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhisek/flashcarding/internal/deck"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		want deck.SourceKind
	}{
		{"notes.pdf", deck.SourcePDF},
		{"NOTES.PDF", deck.SourcePDF},
		{"readme.md", deck.SourceMarkdown},
		{"chapter.markdown", deck.SourceMarkdown},
		{"plain.txt", deck.SourceFile},
		{"noext", deck.SourceFile},
	}
	for _, tt := range tests {
		if got := KindOf(tt.name); got != tt.want {
			t.Errorf("KindOf(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestText_Plain(t *testing.T) {
	got, err := Text(File{Name: "a.txt", Data: []byte("Mitosis: division")})
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if got != "Mitosis: division" {
		t.Errorf("text = %q", got)
	}
}

func TestText_InvalidUTF8(t *testing.T) {
	got, err := Text(File{Name: "a.txt", Data: []byte{'o', 'k', 0xff}})
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if got != "ok�" {
		t.Errorf("text = %q", got)
	}
}

func TestPDFText_Garbage(t *testing.T) {
	_, err := PDFText([]byte("definitely not a pdf"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("got %v, want ErrUnreadable", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lecture.md")
	if err := os.WriteFile(path, []byte("# Cells\nUnits of life"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Name != "lecture.md" || len(f.Data) == 0 {
		t.Errorf("file = %+v", f)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
