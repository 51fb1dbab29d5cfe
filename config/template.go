package config

import (
	"fmt"
	"os"

	"invoicestudio/models"

	"gopkg.in/yaml.v3"
)

// templateFile mirrors the optional YAML seed template. Pointers keep
// "not provided" distinct from an explicit empty value, so the template only
// overrides what it names.
type templateFile struct {
	InvoiceNumber *string        `yaml:"invoice_number"`
	Currency      *string        `yaml:"currency"`
	TaxRate       *float64       `yaml:"tax_rate"`
	PaymentTerms  *string        `yaml:"payment_terms"`
	Notes         *string        `yaml:"notes"`
	Sender        *templateParty `yaml:"sender"`
	Recipient     *templateParty `yaml:"recipient"`
}

type templateParty struct {
	Name    *string `yaml:"name"`
	Email   *string `yaml:"email"`
	Phone   *string `yaml:"phone"`
	Address *string `yaml:"address"`
}

// ApplyTemplate overlays the YAML template at path onto the seed invoice.
// An empty path returns the seed untouched.
func ApplyTemplate(seed models.InvoiceData, path string) (models.InvoiceData, error) {
	if path == "" {
		return seed, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return seed, fmt.Errorf("read invoice template: %w", err)
	}

	var f templateFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return seed, fmt.Errorf("parse invoice template: %w", err)
	}

	if f.InvoiceNumber != nil {
		seed.InvoiceNumber = *f.InvoiceNumber
	}
	if f.Currency != nil {
		seed.Currency = *f.Currency
	}
	if f.TaxRate != nil {
		seed.TaxRate = *f.TaxRate
	}
	if f.PaymentTerms != nil {
		seed.PaymentTerms = *f.PaymentTerms
	}
	if f.Notes != nil {
		seed.Notes = *f.Notes
	}
	if f.Sender != nil {
		seed.Sender = overlayParty(seed.Sender, *f.Sender)
	}
	if f.Recipient != nil {
		seed.Recipient = overlayParty(seed.Recipient, *f.Recipient)
	}

	return seed, nil
}

func overlayParty(party models.PartyDetails, t templateParty) models.PartyDetails {
	if t.Name != nil {
		party.Name = *t.Name
	}
	if t.Email != nil {
		party.Email = *t.Email
	}
	if t.Phone != nil {
		party.Phone = *t.Phone
	}
	if t.Address != nil {
		party.Address = *t.Address
	}
	return party
}
