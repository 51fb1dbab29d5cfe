package payment

import (
	"fmt"
	"log"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentlink"
	"github.com/stripe/stripe-go/v82/price"
	"github.com/stripe/stripe-go/v82/product"

	"invoicestudio/models"
)

// StripeGenerator implements PaymentLinkGenerator for Stripe
type StripeGenerator struct {
	apiKey string
}

// NewStripeGenerator creates a new Stripe payment link generator
func NewStripeGenerator(apiKey string) PaymentLinkGenerator {
	return &StripeGenerator{
		apiKey: apiKey,
	}
}

// GenerateLink creates a one-time Stripe payment link for an invoice total.
func (s *StripeGenerator) GenerateLink(data *models.PaymentLinkData) (string, string, error) {
	stripe.Key = s.apiKey

	productParams := &stripe.ProductParams{
		Name:        stripe.String(data.ServiceName),
		Description: stripe.String(data.ReferenceNumber),
	}
	product, err := product.New(productParams)
	if err != nil {
		log.Printf("Stripe product error: %v", err)
		return "", "", fmt.Errorf("failed to create Stripe product: %w", err)
	}

	priceParams := &stripe.PriceParams{
		Currency:   stripe.String(strings.ToLower(data.Currency)),
		UnitAmount: stripe.Int64(int64(data.Amount * 100)), // Convert to minor units
		Product:    stripe.String(product.ID),
	}
	price, err := price.New(priceParams)
	if err != nil {
		log.Printf("Stripe price error: %v", err)
		return "", "", fmt.Errorf("failed to create Stripe price: %w", err)
	}

	linkParams := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{
				Price:    stripe.String(price.ID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerCreation: stripe.String("always"),
	}
	link, err := paymentlink.New(linkParams)
	if err != nil {
		log.Printf("Stripe payment link error: %v", err)
		return "", "", fmt.Errorf("failed to create Stripe payment link: %w", err)
	}

	log.Printf("Successfully created Stripe payment link: %s (ID: %s)", link.URL, link.ID)
	return link.URL, link.ID, nil
}
