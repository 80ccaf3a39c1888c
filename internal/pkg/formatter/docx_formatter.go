package formatter

import (
	"bytes"
	"fmt"

	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(session *entity.Session) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(transcriptTitle)

	for i, turn := range session.Turns {
		questionPar := doc.AddParagraph()
		questionPar.SetStyle("Heading2")
		questionPar.AddRun().AddText(fmt.Sprintf("Q%d: %s", i+1, turn.Question))

		doc.AddParagraph().AddRun().AddText(turn.Answer)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
