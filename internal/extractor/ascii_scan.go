package extractor

import (
	"errors"
	"strings"
)

// minimum run length for the scanner to treat bytes as real text
const minWordLength = 4

// The scanner only accepts its output when it recovered substantial
// text; short scraps from pure-binary input are noise, not a document.
const minTotalLength = 100

// ASCIIScanStrategy is the last-resort heuristic: it walks the raw bytes
// and keeps runs of printable ASCII that look like words. Quality is
// proportional to how much plain text the file happens to contain.
type ASCIIScanStrategy struct{}

func NewASCIIScanStrategy() *ASCIIScanStrategy {
	return &ASCIIScanStrategy{}
}

func (s *ASCIIScanStrategy) Name() string { return "ascii-scan" }

func (s *ASCIIScanStrategy) Extract(data []byte) (string, error) {
	var b strings.Builder
	var current strings.Builder
	inText := false

	flush := func() {
		if current.Len() >= minWordLength {
			b.WriteString(current.String())
			b.WriteString(" ")
		}
		current.Reset()
		inText = false
	}

	for _, c := range data {
		printable := (c >= 32 && c <= 126) || c == '\t' || c == '\n' || c == '\r'
		if printable {
			if !inText && isAlphanumeric(c) {
				inText = true
			}
			if inText {
				current.WriteByte(c)
			}
			continue
		}
		flush()
	}
	flush()

	text := strings.TrimSpace(b.String())
	if len(text) <= minTotalLength {
		return "", errors.New("insufficient text recovered")
	}
	return text, nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
