package main

import (
	"log"
	"net/http"
	"time"

	"invoicestudio/config"
	"invoicestudio/handlers"
	"invoicestudio/models"
	"invoicestudio/payment"
	"invoicestudio/services"

	"github.com/slack-go/slack"
)

func main() {
	cfg := config.LoadConfig()

	seed, err := config.ApplyTemplate(models.DefaultInvoice(time.Now()), cfg.TemplatePath)
	if err != nil {
		log.Fatalf("Failed to load invoice template: %v", err)
	}

	var slackClient *slack.Client
	if cfg.SlackBotToken != "" {
		slackClient = slack.New(cfg.SlackBotToken)
	}

	var links payment.PaymentLinkGenerator
	if cfg.StripeAPIKey != "" {
		links = payment.NewStripeGenerator(cfg.StripeAPIKey)
	}

	editor := services.NewEditorService(seed)
	invoices := services.NewInvoiceService(slackClient)
	extractor := services.NewExtractService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)

	handler := handlers.NewHandler(editor, invoices, extractor, links, cfg.SlackChannelID)
	router := handlers.NewRouter(handler)

	log.Printf("Starting invoice studio on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
