package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the soft upper bound, in characters, of a chunk.
const DefaultChunkSize = 2000

var paragraphBreakRE = regexp.MustCompile(`\n\s*\n`)

// Chunk splits text into paragraph-aligned chunks. Paragraphs are separated by
// blank lines and accumulate into the current chunk until adding the next one
// would push its length past limit. A paragraph longer than limit becomes a
// chunk of its own; paragraphs are never split. Empty text yields no chunks.
func Chunk(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultChunkSize
	}

	var (
		chunks []string
		acc    []string
		total  int
	)
	for _, p := range paragraphBreakRE.Split(text, -1) {
		n := utf8.RuneCountInString(p)
		if total+n > limit && len(acc) > 0 {
			chunks = append(chunks, strings.Join(acc, "\n\n"))
			acc = acc[:0]
			total = 0
		}
		acc = append(acc, p)
		total += n
	}
	if len(acc) > 0 {
		chunks = append(chunks, strings.Join(acc, "\n\n"))
	}
	return chunks
}
