package models

import "time"

// PartyDetails identifies either side of an invoice. Every field is free-form
// text and may be blank.
type PartyDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// InvoiceItem is one billable line. The ID is a session-scoped token used to
// target updates and removals; it is never persisted or reused.
type InvoiceItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// InvoiceData is the complete state of the invoice being edited. Item order
// is presentation order.
type InvoiceData struct {
	InvoiceNumber string        `json:"invoiceNumber"`
	Date          string        `json:"date"`
	DueDate       string        `json:"dueDate"` // empty means not set
	Currency      string        `json:"currency"`
	TaxRate       float64       `json:"taxRate"`
	Sender        PartyDetails  `json:"sender"`
	Recipient     PartyDetails  `json:"recipient"`
	Items         []InvoiceItem `json:"items"`
	Notes         string        `json:"notes"`
	PaymentTerms  string        `json:"paymentTerms"`
}

// CurrencySymbols maps the supported currency codes to display symbols.
// Codes outside this table are displayed as themselves.
var CurrencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"PKR": "Rs",
	"INR": "₹",
	"AED": "AED",
}

// DefaultInvoice returns the seed state for a fresh editing session.
func DefaultInvoice(now time.Time) InvoiceData {
	return InvoiceData{
		InvoiceNumber: "00001",
		Date:          now.Format("2006-01-02"),
		DueDate:       "",
		Currency:      "PKR",
		TaxRate:       0,
		Sender: PartyDetails{
			Name:  "Habib Ahmed",
			Email: "Habibahmed2150@gmail.com",
			Phone: "+923350021022",
		},
		Recipient: PartyDetails{
			Name:  "Mostafa Yassine",
			Email: "mostafa@cedardigital.io",
			Phone: "+971 50 965 1605",
		},
		Items: []InvoiceItem{
			{ID: "1", Description: "Salehiya WordPress Maintenance", Quantity: 1, Price: 100000},
			{ID: "2", Description: "Brandloungeme WordPress Website Fixes", Quantity: 1, Price: 73318},
		},
		Notes:        "",
		PaymentTerms: "Please send amount as remittance in PKR so I can have full payment; otherwise, charges will be deducted.",
	}
}

// PaymentLinkData represents the data needed to create a payment link
type PaymentLinkData struct {
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	ServiceName     string  `json:"service_name"`
	ReferenceNumber string  `json:"reference_number"`
}
