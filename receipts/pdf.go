package receipts

import (
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/satheeshds/condo/models"
)

// Renderer turns receipt data into a document.
type Renderer interface {
	Render(w io.Writer, d models.ReceiptData) error
}

// PDFRenderer typesets Layout onto a single A4 page.
type PDFRenderer struct {
	Issuer string
}

func (r PDFRenderer) Render(w io.Writer, d models.ReceiptData) error {
	issuer := r.Issuer
	if issuer == "" {
		issuer = "Building Administration"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetCreationDate(d.PaidAt)
	pdf.SetModificationDate(d.PaidAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle("Receipt "+d.Amount.String(), true)
	pdf.SetAuthor(issuer, true)
	pdf.AddPage()

	// Core fonts are cp1252; concepts and names come in as UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, l := range Layout(issuer, d) {
		switch l.Style {
		case StyleTitle:
			pdf.SetFont("Helvetica", "B", 18)
			pdf.SetTextColor(0, 0, 0)
			pdf.CellFormat(0, 10, tr(l.Text), "", 1, "R", false, 0, "")
		case StyleSubtitle:
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(102, 102, 102)
			pdf.CellFormat(0, 6, tr(l.Text), "", 1, "R", false, 0, "")
		case StyleHeading:
			pdf.SetFont("Helvetica", "B", 12)
			pdf.SetTextColor(0, 0, 0)
			pdf.CellFormat(0, 8, tr(l.Text), "B", 1, "L", false, 0, "")
		case StyleBody:
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(0, 6, tr(l.Text), "", "L", false)
		case StyleTotal:
			pdf.SetFont("Helvetica", "B", 13)
			pdf.SetTextColor(0, 0, 0)
			pdf.CellFormat(0, 8, tr(l.Text), "", 1, "R", false, 0, "")
		case StyleFooter:
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(102, 102, 102)
			pdf.MultiCell(0, 5, tr(l.Text), "", "C", false)
		case StyleGap:
			pdf.Ln(4)
		}
	}

	return pdf.Output(w)
}
