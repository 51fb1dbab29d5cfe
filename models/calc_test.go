package models

import (
	"testing"
	"time"
)

func TestSubtotal(t *testing.T) {
	t.Parallel()

	items := []InvoiceItem{
		{ID: "a", Description: "Design", Quantity: 2, Price: 150},
		{ID: "b", Description: "Hosting", Quantity: 1, Price: 73318},
		{ID: "c", Description: "Zero", Quantity: 3, Price: 0},
	}
	if got := Subtotal(items); got != 2*150+73318 {
		t.Fatalf("Subtotal = %v, want %v", got, 2*150+73318)
	}
}

func TestSubtotalEmpty(t *testing.T) {
	t.Parallel()

	if got := Subtotal(nil); got != 0 {
		t.Fatalf("Subtotal(nil) = %v, want 0", got)
	}
	if got := Subtotal([]InvoiceItem{}); got != 0 {
		t.Fatalf("Subtotal(empty) = %v, want 0", got)
	}
}

func TestTotalsWithTax(t *testing.T) {
	t.Parallel()

	subtotal := 173318.0
	tax := TaxAmount(subtotal, 10)
	if FormatMoney(tax) != "17,331.80" {
		t.Fatalf("TaxAmount formatted = %q, want 17,331.80", FormatMoney(tax))
	}
	if FormatMoney(Total(subtotal, tax)) != "190,649.80" {
		t.Fatalf("Total formatted = %q, want 190,649.80", FormatMoney(Total(subtotal, tax)))
	}
}

func TestZeroTaxRateLeavesTotalAtSubtotal(t *testing.T) {
	t.Parallel()

	subtotal := 5000.0
	tax := TaxAmount(subtotal, 0)
	if tax != 0 {
		t.Fatalf("TaxAmount(%v, 0) = %v, want 0", subtotal, tax)
	}
	if Total(subtotal, tax) != subtotal {
		t.Fatalf("Total = %v, want %v", Total(subtotal, tax), subtotal)
	}
}

func TestCurrencySymbol(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code string
		want string
	}{
		{"USD", "$"},
		{"EUR", "€"},
		{"GBP", "£"},
		{"PKR", "Rs"},
		{"INR", "₹"},
		{"AED", "AED"},
		{"XYZ", "XYZ"}, // unrecognized codes pass through
		{"", ""},
	}
	for _, tc := range cases {
		if got := CurrencySymbol(tc.code); got != tc.want {
			t.Errorf("CurrencySymbol(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	cases := []struct {
		amount float64
		want   string
	}{
		{0, "0.00"},
		{1000, "1,000.00"},
		{73318, "73,318.00"},
		{173318, "173,318.00"},
		{999.999, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{12.5, "12.50"},
		{-73318, "-73,318.00"},
		{-0.004, "-0.00"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.amount); got != tc.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestDefaultInvoiceSeed(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	inv := DefaultInvoice(now)

	if inv.InvoiceNumber != "00001" {
		t.Fatalf("InvoiceNumber = %q, want 00001", inv.InvoiceNumber)
	}
	if inv.Date != "2026-09-01" {
		t.Fatalf("Date = %q, want 2026-09-01", inv.Date)
	}
	if inv.DueDate != "" {
		t.Fatalf("DueDate = %q, want empty", inv.DueDate)
	}
	if _, ok := CurrencySymbols[inv.Currency]; !ok {
		t.Fatalf("Currency %q is not a supported code", inv.Currency)
	}
	if inv.TaxRate != 0 {
		t.Fatalf("TaxRate = %v, want 0", inv.TaxRate)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("seed has %d items, want 2", len(inv.Items))
	}
	if inv.Items[0].ID == inv.Items[1].ID {
		t.Fatalf("seed item ids collide")
	}
	if inv.PaymentTerms == "" {
		t.Fatalf("seed payment terms must be non-empty")
	}
	if inv.Notes != "" {
		t.Fatalf("seed notes = %q, want empty", inv.Notes)
	}
	if got := Subtotal(inv.Items); got != 173318 {
		t.Fatalf("seed subtotal = %v, want 173318", got)
	}
}
