package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter lays out report documents as printable PDF pages.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

const (
	pdfPageWidth   = 190.0
	pdfLabelWidth  = 70.0
	pdfRowHeight   = 7.0
	pdfParagraphLn = 5.5
)

// Render draws the title, a two column metric table and every advice
// section with word-wrapped paragraphs.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if doc.Empty() {
		return nil, fmt.Errorf("pdf export requires a non-empty document")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
	}
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 6, doc.Subtitle, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, field := range doc.Fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(pdfLabelWidth, pdfRowHeight, field.Label, "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(pdfPageWidth-pdfLabelWidth, pdfRowHeight, field.Value, "1", 1, "", false, 0, "")
	}

	for _, section := range doc.Sections {
		pdf.Ln(6)
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 8, section.Heading, "", 1, "", false, 0, "")
		}
		pdf.SetFont("Arial", "", 10)
		for _, paragraph := range section.Paragraphs {
			pdf.MultiCell(pdfPageWidth, pdfParagraphLn, paragraph, "", "", false)
			pdf.Ln(2)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
