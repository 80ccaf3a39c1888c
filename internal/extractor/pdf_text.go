package extractor

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	textObjectRe = regexp.MustCompile(`(?s)BT.*?ET`)
	tjArrayRe    = regexp.MustCompile(`\[\(([^)]*)\)\]`)
	tjShowRe     = regexp.MustCompile(`\(([^)]*)\)\s*Tj`)
	octalRe      = regexp.MustCompile(`\\([0-7]{3})`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// PDFTextStrategy recovers text from the BT/ET text objects of an
// uncompressed PDF content stream. It is a heuristic, not a PDF parser:
// compressed streams yield nothing and fall through to the next strategy.
type PDFTextStrategy struct{}

func NewPDFTextStrategy() *PDFTextStrategy {
	return &PDFTextStrategy{}
}

func (s *PDFTextStrategy) Name() string { return "pdf-text-objects" }

func (s *PDFTextStrategy) Extract(data []byte) (string, error) {
	matches := textObjectRe.FindAllString(string(data), -1)
	if len(matches) == 0 {
		return "", errors.New("no text objects found")
	}

	var b strings.Builder
	for _, match := range matches {
		cleaned := strings.NewReplacer("BT", " ", "ET", " ").Replace(match)
		cleaned = tjArrayRe.ReplaceAllString(cleaned, "$1")
		cleaned = tjShowRe.ReplaceAllString(cleaned, "$1")
		cleaned = octalRe.ReplaceAllStringFunc(cleaned, decodeOctalEscape)
		cleaned = strings.NewReplacer(`\n`, " ", `\r`, " ", `\(`, "(", `\)`, ")").Replace(cleaned)
		cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")

		b.WriteString(cleaned)
		b.WriteString(" ")
	}

	return strings.TrimSpace(b.String()), nil
}

func decodeOctalEscape(esc string) string {
	code, err := strconv.ParseInt(esc[1:], 8, 32)
	if err != nil || code < 32 || code > 126 {
		return " "
	}
	return string(rune(code))
}
