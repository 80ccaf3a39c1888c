// Package chunker splits extracted document text into bounded-size
// segments for embedding. Paragraphs are the atom: a chunk is a run of
// whole paragraphs, and a single paragraph longer than the limit still
// becomes one oversized chunk — the size bound is advisory, not strict.
package chunker

import "strings"

const DefaultMaxChunkSize = 8000

const paragraphSeparator = "\n\n"

type Chunker struct {
	maxChunkSize int
}

func New(maxChunkSize int) *Chunker {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return &Chunker{maxChunkSize: maxChunkSize}
}

// Split produces the ordered sequence of non-empty chunks for the given
// text. Empty input yields nil.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var current string

	for _, paragraph := range strings.Split(text, paragraphSeparator) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if current == "" {
			current = paragraph
			continue
		}

		if len(current)+len(paragraphSeparator)+len(paragraph) > c.maxChunkSize {
			chunks = append(chunks, current)
			current = paragraph
			continue
		}

		current += paragraphSeparator + paragraph
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}
