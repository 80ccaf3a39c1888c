package formatter

import (
	"bytes"
	"fmt"

	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

func (mf *PDFFormatter) Format(session *entity.Session) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 10, transcriptTitle)
	pdf.Ln(12)

	_, lineHeight := pdf.GetFontSize()

	for i, turn := range session.Turns {
		pdf.SetFont("Arial", "B", 12)
		pdf.MultiCell(0, lineHeight*1.5, fmt.Sprintf("Q%d: %s", i+1, turn.Question), "", "", false)
		pdf.Ln(2)

		pdf.SetFont("Arial", "", 12)
		pdf.MultiCell(0, lineHeight*1.5, turn.Answer, "", "", false)
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
