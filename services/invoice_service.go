package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"

	"invoicestudio/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/slack-go/slack"
)

// ErrSlackNotConfigured is returned when a share is requested without a bot
// token in the environment.
var ErrSlackNotConfigured = errors.New("slack bot token not configured")

// InvoiceService renders the invoice as a downloadable PDF or a plain-text
// printable document, and can push the PDF to a Slack channel.
type InvoiceService struct {
	slackClient *slack.Client
}

func NewInvoiceService(slackClient *slack.Client) *InvoiceService {
	return &InvoiceService{
		slackClient: slackClient,
	}
}

// PDFFilename builds the download name for an invoice, falling back to
// "draft" when the invoice number is blank.
func PDFFilename(inv models.InvoiceData) string {
	number := strings.TrimSpace(inv.InvoiceNumber)
	if number == "" {
		number = "draft"
	}
	return fmt.Sprintf("Invoice_%s.pdf", number)
}

// GeneratePDF renders the invoice to an A4 PDF document.
func (is *InvoiceService) GeneratePDF(inv models.InvoiceData) ([]byte, error) {
	symbol := models.CurrencySymbol(inv.Currency)
	subtotal := models.Subtotal(inv.Items)
	taxAmount := models.TaxAmount(subtotal, inv.TaxRate)
	total := models.Total(subtotal, taxAmount)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 24)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 6, fmt.Sprintf("Invoice Number: %s", inv.InvoiceNumber))
	pdf.Cell(60, 6, fmt.Sprintf("Date Issued: %s", inv.Date))
	pdf.Ln(6)
	if inv.DueDate != "" {
		pdf.Cell(60, 6, fmt.Sprintf("Due Date: %s", inv.DueDate))
	} else {
		pdf.Cell(60, 6, "")
	}
	pdf.Cell(60, 6, fmt.Sprintf("Currency: %s", inv.Currency))
	pdf.Ln(12)

	writeParty(pdf, "From:", inv.Sender)
	writeParty(pdf, "Bill To:", inv.Recipient)

	// Table headers
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.Cell(100, 8, "Description")
	pdf.Cell(25, 8, "Qty")
	pdf.Cell(35, 8, "Unit Price")
	pdf.Cell(40, 8, "Amount")
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(5)

	// Line items
	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		pdf.Cell(100, 6, item.Description)
		pdf.Cell(25, 6, trimQuantity(item.Quantity))
		pdf.Cell(35, 6, symbol+models.FormatMoney(item.Price))
		pdf.Cell(40, 6, symbol+models.FormatMoney(item.Quantity*item.Price))
		pdf.Ln(8)
	}

	// Totals
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.SetX(115)
	pdf.Cell(35, 8, "Subtotal:")
	pdf.Cell(40, 8, symbol+models.FormatMoney(subtotal))
	pdf.Ln(8)

	// A zero rate means no tax line at all, not a tax line of zero.
	if inv.TaxRate > 0 {
		pdf.SetX(115)
		pdf.Cell(35, 8, fmt.Sprintf("Tax (%s%%):", trimQuantity(inv.TaxRate)))
		pdf.Cell(40, 8, symbol+models.FormatMoney(taxAmount))
		pdf.Ln(8)
	}

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(115, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetX(115)
	pdf.Cell(35, 10, "Total:")
	pdf.Cell(40, 10, symbol+models.FormatMoney(total))
	pdf.Ln(16)

	if inv.PaymentTerms != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Payment Instructions")
		pdf.Ln(5)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, inv.PaymentTerms, "", "L", false)
		pdf.Ln(4)
	}
	if inv.Notes != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Notes")
		pdf.Ln(5)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, inv.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderText produces the plain-text printable rendering of the invoice.
// This is what the PDF export falls back to when generation fails.
func (is *InvoiceService) RenderText(inv models.InvoiceData) string {
	symbol := models.CurrencySymbol(inv.Currency)
	subtotal := models.Subtotal(inv.Items)
	taxAmount := models.TaxAmount(subtotal, inv.TaxRate)
	total := models.Total(subtotal, taxAmount)

	var b strings.Builder
	fmt.Fprintf(&b, "INVOICE %s\n", inv.InvoiceNumber)
	fmt.Fprintf(&b, "Date Issued: %s\n", inv.Date)
	if inv.DueDate != "" {
		fmt.Fprintf(&b, "Due Date: %s\n", inv.DueDate)
	}
	fmt.Fprintf(&b, "Currency: %s\n\n", inv.Currency)

	writePartyText(&b, "From", inv.Sender)
	writePartyText(&b, "Bill To", inv.Recipient)

	for _, item := range inv.Items {
		fmt.Fprintf(&b, "%s  x%s  @ %s%s  =  %s%s\n",
			item.Description, trimQuantity(item.Quantity),
			symbol, models.FormatMoney(item.Price),
			symbol, models.FormatMoney(item.Quantity*item.Price))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s%s\n", symbol, models.FormatMoney(subtotal))
	if inv.TaxRate > 0 {
		fmt.Fprintf(&b, "Tax (%s%%): %s%s\n", trimQuantity(inv.TaxRate), symbol, models.FormatMoney(taxAmount))
	}
	fmt.Fprintf(&b, "Total: %s%s\n", symbol, models.FormatMoney(total))

	if inv.PaymentTerms != "" {
		fmt.Fprintf(&b, "\nPayment Instructions: %s\n", inv.PaymentTerms)
	}
	if inv.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", inv.Notes)
	}

	return b.String()
}

// ShareToSlack uploads the invoice PDF to a channel with a short summary.
func (is *InvoiceService) ShareToSlack(channelID string, inv models.InvoiceData, pdfBytes []byte) error {
	if is.slackClient == nil {
		return ErrSlackNotConfigured
	}

	subtotal := models.Subtotal(inv.Items)
	total := models.Total(subtotal, models.TaxAmount(subtotal, inv.TaxRate))
	symbol := models.CurrencySymbol(inv.Currency)

	message := fmt.Sprintf(
		"📄 *Invoice #%s* for *%s*\n\n*Amount Due:* %s%s\n*Due Date:* %s\n\nPlease find the PDF invoice attached.",
		inv.InvoiceNumber, inv.Recipient.Name, symbol, models.FormatMoney(total), inv.DueDate,
	)

	uploadParams := slack.FileUploadParameters{
		Reader:         bytes.NewReader(pdfBytes),
		Filename:       PDFFilename(inv),
		Title:          fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		Filetype:       "pdf",
		Channels:       []string{channelID},
		InitialComment: message,
	}

	if _, err := is.slackClient.UploadFile(uploadParams); err != nil {
		log.Printf("Error uploading invoice to channel %s: %v", channelID, err)
		return fmt.Errorf("failed to upload invoice to Slack: %w", err)
	}
	return nil
}

func writeParty(pdf *gofpdf.Fpdf, heading string, party models.PartyDetails) {
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, heading)
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	for _, line := range partyLines(party) {
		pdf.Cell(0, 5, line)
		pdf.Ln(5)
	}
	pdf.Ln(6)
}

func writePartyText(b *strings.Builder, heading string, party models.PartyDetails) {
	lines := partyLines(party)
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", heading)
	for _, line := range lines {
		fmt.Fprintf(b, "  %s\n", line)
	}
	b.WriteString("\n")
}

func partyLines(party models.PartyDetails) []string {
	var lines []string
	for _, field := range []string{party.Name, party.Email, party.Phone, party.Address} {
		if field != "" {
			lines = append(lines, field)
		}
	}
	return lines
}

// trimQuantity formats a number without trailing zero decimals, so whole
// quantities print as "2" rather than "2.00".
func trimQuantity(q float64) string {
	s := fmt.Sprintf("%.2f", q)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
