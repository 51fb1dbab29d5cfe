package models

import (
	"fmt"
	"strings"
)

// Subtotal sums quantity*price over all items.
func Subtotal(items []InvoiceItem) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Quantity * item.Price
	}
	return subtotal
}

// TaxAmount computes the tax due on a subtotal for a percentage rate.
func TaxAmount(subtotal, taxRate float64) float64 {
	return subtotal * taxRate / 100
}

// Total is the grand total of the invoice.
func Total(subtotal, taxAmount float64) float64 {
	return subtotal + taxAmount
}

// CurrencySymbol returns the display symbol for a currency code. Unknown
// codes are returned verbatim.
func CurrencySymbol(code string) string {
	if symbol, exists := CurrencySymbols[code]; exists {
		return symbol
	}
	return code
}

// FormatMoney renders an amount with exactly two decimal digits and comma
// thousands grouping, e.g. 73318 -> "73,318.00".
func FormatMoney(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	return sign + grouped.String() + fracPart
}
