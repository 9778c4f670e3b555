package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// DocumentField is one labelled line on a generated document.
type DocumentField struct {
	Label string
	Value string
}

// Document describes a printable record document (admit card, approval letter).
type Document struct {
	SchoolName    string
	SchoolAddress string
	Title         string
	Reference     string
	Fields        []DocumentField
	Footer        string
}

// DocumentRenderer renders record documents into PDF bytes.
type DocumentRenderer struct{}

// NewDocumentRenderer constructs a document renderer.
func NewDocumentRenderer() *DocumentRenderer {
	return &DocumentRenderer{}
}

// Render produces an A5 landscape PDF for the document.
func (r *DocumentRenderer) Render(doc Document) ([]byte, error) {
	if doc.Title == "" {
		return nil, fmt.Errorf("document requires a title")
	}

	pdf := gofpdf.New("L", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	if doc.SchoolName != "" {
		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 8, doc.SchoolName, "", 1, "C", false, 0, "")
	}
	if doc.SchoolAddress != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, doc.SchoolAddress, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, doc.Title, "TB", 1, "C", false, 0, "")
	if doc.Reference != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, doc.Reference, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	for _, field := range doc.Fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(55, 7, field.Label, "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, field.Value, "", 1, "", false, 0, "")
	}

	if doc.Footer != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(0, 4, doc.Footer, "", "L", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render document pdf: %w", err)
	}
	return buf.Bytes(), nil
}
