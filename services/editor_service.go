package services

import (
	"sync"

	"invoicestudio/models"

	"github.com/google/uuid"
)

// EditorService owns the single in-memory invoice for the session. Every
// operation builds a new InvoiceData value from the current one and swaps it
// wholesale; nested structures are never mutated in place, so a caller
// holding a previous value always sees a complete, consistent snapshot.
type EditorService struct {
	mu      sync.Mutex
	current models.InvoiceData
}

func NewEditorService(initial models.InvoiceData) *EditorService {
	return &EditorService{current: initial}
}

// Current returns the invoice as of the last completed operation.
func (es *EditorService) Current() models.InvoiceData {
	es.mu.Lock()
	defer es.mu.Unlock()
	return cloneInvoice(es.current)
}

func (es *EditorService) SetField(section, field string, value interface{}) models.InvoiceData {
	return es.apply(func(inv models.InvoiceData) models.InvoiceData {
		return SetField(inv, section, field, value)
	})
}

func (es *EditorService) AddItem() (models.InvoiceData, string) {
	var id string
	inv := es.apply(func(inv models.InvoiceData) models.InvoiceData {
		next, newID := AddItem(inv)
		id = newID
		return next
	})
	return inv, id
}

func (es *EditorService) RemoveItem(id string) models.InvoiceData {
	return es.apply(func(inv models.InvoiceData) models.InvoiceData {
		return RemoveItem(inv, id)
	})
}

func (es *EditorService) UpdateItem(id, field string, value interface{}) models.InvoiceData {
	return es.apply(func(inv models.InvoiceData) models.InvoiceData {
		return UpdateItem(inv, id, field, value)
	})
}

func (es *EditorService) MergeExtracted(fragment models.InvoiceFragment) models.InvoiceData {
	return es.apply(func(inv models.InvoiceData) models.InvoiceData {
		return MergeExtracted(inv, fragment)
	})
}

func (es *EditorService) apply(op func(models.InvoiceData) models.InvoiceData) models.InvoiceData {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.current = op(es.current)
	return cloneInvoice(es.current)
}

// NewItemID generates a fresh session-unique item id.
func NewItemID() string {
	return uuid.NewString()
}

// SetField replaces one scalar field of the invoice, or one field of the
// sender/recipient when section names a party. Unknown section/field names
// leave the value unchanged.
func SetField(inv models.InvoiceData, section, field string, value interface{}) models.InvoiceData {
	next := cloneInvoice(inv)

	switch section {
	case "invoiceNumber":
		next.InvoiceNumber = asString(value)
	case "date":
		next.Date = asString(value)
	case "dueDate":
		next.DueDate = asString(value)
	case "currency":
		next.Currency = asString(value)
	case "taxRate":
		next.TaxRate = asNumber(value)
	case "notes":
		next.Notes = asString(value)
	case "paymentTerms":
		next.PaymentTerms = asString(value)
	case "sender":
		next.Sender = setPartyField(next.Sender, field, asString(value))
	case "recipient":
		next.Recipient = setPartyField(next.Recipient, field, asString(value))
	}

	return next
}

// AddItem appends a blank line item with a freshly generated id and returns
// the new state together with that id.
func AddItem(inv models.InvoiceData) (models.InvoiceData, string) {
	next := cloneInvoice(inv)
	item := models.InvoiceItem{
		ID:          NewItemID(),
		Description: "New Item",
		Quantity:    1,
		Price:       0,
	}
	next.Items = append(next.Items, item)
	return next, item.ID
}

// RemoveItem drops the item with the given id. An unknown id is a no-op, not
// an error.
func RemoveItem(inv models.InvoiceData, id string) models.InvoiceData {
	next := cloneInvoice(inv)
	items := make([]models.InvoiceItem, 0, len(next.Items))
	for _, item := range next.Items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	next.Items = items
	return next
}

// UpdateItem replaces one field of the item with the given id. Unknown ids
// and unknown field names are no-ops.
func UpdateItem(inv models.InvoiceData, id, field string, value interface{}) models.InvoiceData {
	next := cloneInvoice(inv)
	for i, item := range next.Items {
		if item.ID != id {
			continue
		}
		switch field {
		case "description":
			item.Description = asString(value)
		case "quantity":
			item.Quantity = asNumber(value)
		case "price":
			item.Price = asNumber(value)
		}
		next.Items[i] = item
		break
	}
	return next
}

// MergeExtracted folds an extraction fragment into the invoice. Scalar fields
// are overwritten only when the fragment provides a non-empty value, parties
// merge field-by-field, and fragment items are appended with fresh ids and
// defaults for anything the extraction left out. An empty fragment is an
// identity merge.
func MergeExtracted(inv models.InvoiceData, fragment models.InvoiceFragment) models.InvoiceData {
	next := cloneInvoice(inv)

	if fragment.InvoiceNumber != nil && *fragment.InvoiceNumber != "" {
		next.InvoiceNumber = *fragment.InvoiceNumber
	}
	if fragment.Date != nil && *fragment.Date != "" {
		next.Date = *fragment.Date
	}
	if fragment.DueDate != nil && *fragment.DueDate != "" {
		next.DueDate = *fragment.DueDate
	}
	if fragment.Sender != nil {
		next.Sender = mergeParty(next.Sender, *fragment.Sender)
	}
	if fragment.Recipient != nil {
		next.Recipient = mergeParty(next.Recipient, *fragment.Recipient)
	}
	for _, frag := range fragment.Items {
		item := models.InvoiceItem{
			ID:          NewItemID(),
			Description: "Item",
			Quantity:    1,
			Price:       0,
		}
		if frag.Description != nil && *frag.Description != "" {
			item.Description = *frag.Description
		}
		if frag.Quantity != nil && *frag.Quantity != 0 {
			item.Quantity = *frag.Quantity
		}
		if frag.Price != nil && *frag.Price != 0 {
			item.Price = *frag.Price
		}
		next.Items = append(next.Items, item)
	}
	if fragment.Notes != nil && *fragment.Notes != "" {
		next.Notes = *fragment.Notes
	}

	return next
}

func mergeParty(current models.PartyDetails, fragment models.PartyFragment) models.PartyDetails {
	if fragment.Name != nil {
		current.Name = *fragment.Name
	}
	if fragment.Email != nil {
		current.Email = *fragment.Email
	}
	if fragment.Phone != nil {
		current.Phone = *fragment.Phone
	}
	if fragment.Address != nil {
		current.Address = *fragment.Address
	}
	return current
}

func setPartyField(party models.PartyDetails, field, value string) models.PartyDetails {
	switch field {
	case "name":
		party.Name = value
	case "email":
		party.Email = value
	case "phone":
		party.Phone = value
	case "address":
		party.Address = value
	}
	return party
}

func cloneInvoice(inv models.InvoiceData) models.InvoiceData {
	items := make([]models.InvoiceItem, len(inv.Items))
	copy(items, inv.Items)
	inv.Items = items
	return inv
}

func asString(value interface{}) string {
	s, _ := value.(string)
	return s
}

func asNumber(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
