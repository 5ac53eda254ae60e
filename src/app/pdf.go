package app

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const mimePDF = "application/pdf"

// PDFRenderer converts line-delimited text into a paginated A4 document.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render draws each input line as one text line, overflowing onto new
// pages as needed. Page streams are left uncompressed so generated
// documents stay inspectable. No validation of input length or encoding.
func (r *PDFRenderer) Render(text string) (string, []byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()

	for _, line := range strings.Split(text, "\n") {
		pdf.CellFormat(0, 14, strings.TrimRight(line, " \t"), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", nil, fmt.Errorf("pdf rendering failed: %w", err)
	}
	raw := buf.Bytes()
	return DataURI(mimePDF, raw), raw, nil
}
