package config

import (
	"log"
	"os"
)

// Config holds application configuration
type Config struct {
	Port           string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiBaseURL  string
	SlackBotToken  string
	SlackChannelID string
	StripeAPIKey   string
	TemplatePath   string
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:           os.Getenv("PORT"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		GeminiBaseURL:  os.Getenv("GEMINI_BASE_URL"),
		SlackBotToken:  os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		StripeAPIKey:   os.Getenv("STRIPE_API_KEY"),
		TemplatePath:   os.Getenv("INVOICE_TEMPLATE"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("PORT environment variable not set, defaulting to %s", cfg.Port)
	}
	if cfg.GeminiAPIKey == "" {
		log.Printf("GEMINI_API_KEY not set, auto-fill extraction is disabled")
	}
	if cfg.SlackBotToken == "" {
		log.Printf("SLACK_BOT_TOKEN not set, Slack sharing is disabled")
	}
	if cfg.StripeAPIKey == "" {
		log.Printf("STRIPE_API_KEY not set, payment links are disabled")
	}

	return cfg
}
