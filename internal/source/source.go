// Package source turns uploaded files into plain text for card extraction.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"rsc.io/pdf"

	"github.com/abhisek/flashcarding/internal/deck"
)

// ErrUnreadable is returned when a file's text cannot be recovered.
var ErrUnreadable = errors.New("unreadable source")

// File is an uploaded document.
type File struct {
	Name string
	Data []byte
}

// ReadFile loads a file from disk.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return File{Name: filepath.Base(path), Data: data}, nil
}

// KindOf infers a source kind from a file name.
func KindOf(name string) deck.SourceKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return deck.SourcePDF
	case ".md", ".markdown":
		return deck.SourceMarkdown
	default:
		return deck.SourceFile
	}
}

// Text returns the plain text of f. PDFs are parsed; everything else is read
// as UTF-8 with invalid sequences replaced.
func Text(f File) (string, error) {
	if KindOf(f.Name) == deck.SourcePDF {
		return PDFText(f.Data)
	}
	if utf8.Valid(f.Data) {
		return string(f.Data), nil
	}
	return strings.ToValidUTF8(string(f.Data), "�"), nil
}

// PDFText extracts the text layer of a PDF. Glyph runs on the same baseline
// are joined; pages are separated by a blank line so that chunking treats
// them as paragraphs.
func PDFText(data []byte) (text string, err error) {
	// rsc.io/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdf: %v", ErrUnreadable, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrUnreadable, err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		if s := strings.TrimSpace(pageText(p)); s != "" {
			pages = append(pages, s)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

func pageText(p pdf.Page) string {
	var b strings.Builder
	lastY := -1.0
	for _, t := range p.Content().Text {
		if lastY >= 0 && t.Y != lastY {
			b.WriteByte('\n')
		}
		b.WriteString(t.S)
		lastY = t.Y
	}
	return b.String()
}
