package receipts

import (
	"fmt"
	"strconv"

	"github.com/satheeshds/condo/models"
)

// Style selects how a Line is typeset.
type Style int

const (
	StyleTitle Style = iota
	StyleSubtitle
	StyleHeading
	StyleBody
	StyleTotal
	StyleFooter
	StyleGap
)

// Line is one row of the fixed receipt layout.
type Line struct {
	Style Style
	Text  string
}

const dateLayout = "2006-01-02"

// Layout lays a receipt out as header, payment metadata, invoice line, payer
// identity and footer. It only depends on d, so the same data always yields
// the same document.
func Layout(issuer string, d models.ReceiptData) []Line {
	due := "-"
	if d.DueAt != nil {
		due = d.DueAt.UTC().Format(dateLayout)
	}
	concept := d.Concept
	if concept == "" {
		concept = "-"
	}
	payer := d.PayerName
	if payer == "" {
		payer = d.PayerUsername
	}
	if d.PayerEmail != "" {
		payer = fmt.Sprintf("%s <%s>", payer, d.PayerEmail)
	}
	if payer == "" {
		payer = "-"
	}

	return []Line{
		{StyleTitle, issuer},
		{StyleSubtitle, "Payment receipt"},
		{StyleGap, ""},
		{StyleHeading, "Payment"},
		{StyleBody, "Payment ID: " + strconv.FormatInt(d.PaymentID, 10)},
		{StyleBody, "Paid at: " + d.PaidAt.UTC().Format("2006-01-02 15:04:05 MST")},
		{StyleBody, "Method: " + string(d.Method)},
		{StyleBody, "Amount: " + d.Amount.String()},
		{StyleGap, ""},
		{StyleHeading, "Invoice"},
		{StyleBody, fmt.Sprintf("Invoice #%d - %s", d.InvoiceID, concept)},
		{StyleBody, "Issued: " + d.IssuedAt.UTC().Format(dateLayout)},
		{StyleBody, "Due: " + due},
		{StyleGap, ""},
		{StyleHeading, "Payer"},
		{StyleBody, "Unit: " + d.UnitNumber},
		{StyleBody, "Resident: " + payer},
		{StyleGap, ""},
		{StyleTotal, "Total paid: " + d.Amount.String()},
		{StyleGap, ""},
		{StyleFooter, "Thank you for your payment. This receipt was generated automatically."},
	}
}
