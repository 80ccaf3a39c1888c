package formatter

import (
	"bytes"
	"fmt"

	"github.com/askpdf/askpdf-backend/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(session *entity.Session) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", transcriptTitle)
	if session.DocumentID != "" {
		fmt.Fprintf(&buf, "Document: `%s`\n\n", session.DocumentID)
	}

	for i, turn := range session.Turns {
		fmt.Fprintf(&buf, "## Q%d: %s\n\n%s\n\n", i+1, turn.Question, turn.Answer)
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
