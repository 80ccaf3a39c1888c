package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/document"
)

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// DOCXStrategy extracts paragraphs from Word documents. It applies only
// to ZIP containers; anything else falls through to the PDF strategies.
type DOCXStrategy struct{}

func NewDOCXStrategy() *DOCXStrategy {
	return &DOCXStrategy{}
}

func (s *DOCXStrategy) Name() string { return "docx" }

func (s *DOCXStrategy) Extract(data []byte) (string, error) {
	if !bytes.HasPrefix(data, zipMagic) {
		return "", errors.New("not a zip container")
	}

	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	var paragraphs []string
	for _, para := range doc.Paragraphs() {
		var b strings.Builder
		for _, run := range para.Runs() {
			b.WriteString(run.Text())
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	// Blank-line separators so the chunker sees paragraph boundaries.
	return strings.Join(paragraphs, "\n\n"), nil
}
