package models

// InvoiceFragment is a partial invoice as returned by the AI extraction
// service. Every field is optional; pointers distinguish "not extracted"
// from a deliberately empty value. Fragment items carry no ID: ids are
// always assigned at merge time.
type InvoiceFragment struct {
	InvoiceNumber *string        `json:"invoiceNumber,omitempty"`
	Date          *string        `json:"date,omitempty"`
	DueDate       *string        `json:"dueDate,omitempty"`
	Sender        *PartyFragment `json:"sender,omitempty"`
	Recipient     *PartyFragment `json:"recipient,omitempty"`
	Items         []ItemFragment `json:"items,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

type PartyFragment struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type ItemFragment struct {
	Description *string  `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// IsEmpty reports whether the fragment carries no extracted information.
func (f InvoiceFragment) IsEmpty() bool {
	return f.InvoiceNumber == nil && f.Date == nil && f.DueDate == nil &&
		f.Sender == nil && f.Recipient == nil && len(f.Items) == 0 && f.Notes == nil
}
