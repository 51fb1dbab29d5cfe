package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"invoicestudio/models"
)

// ErrMissingAPIKey is returned before any network I/O when the extraction
// service has no credential configured.
var ErrMissingAPIKey = errors.New("gemini api key not configured")

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

const extractSystemPrompt = `You are an intelligent invoice assistant. Your task is to extract structured invoice data from the user's natural language input.
The user might provide details about the sender, recipient, items, or general terms.
Return a JSON object that matches the provided schema.
If specific fields (like dates or invoice numbers) are missing, generate reasonable defaults (e.g., today's date, invoice #0001).
Ensure monetary values are numbers.`

// ExtractService calls the Gemini structured-generation endpoint to turn free
// text into a partial invoice. One attempt per call; retries are up to the
// caller.
type ExtractService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewExtractService(apiKey, model, baseURL string) *ExtractService {
	if model == "" {
		model = "gemini-3-flash-preview"
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &ExtractService{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether a credential is present.
func (ex *ExtractService) Configured() bool {
	return ex.apiKey != ""
}

// Extract sends the free text to the model and parses the structured response
// into an invoice fragment. An empty response body yields an empty fragment,
// not an error.
func (ex *ExtractService) Extract(text string) (models.InvoiceFragment, error) {
	if ex.apiKey == "" {
		return models.InvoiceFragment{}, ErrMissingAPIKey
	}

	bodyBytes, err := json.Marshal(ex.buildGenerateRequest(text))
	if err != nil {
		return models.InvoiceFragment{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", ex.baseURL, ex.model)
	req, err := http.NewRequest("POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return models.InvoiceFragment{}, fmt.Errorf("failed to create extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", ex.apiKey)

	log.Printf("[Extract] POST %s (prompt length %d)", url, len(text))
	resp, err := ex.client.Do(req)
	if err != nil {
		return models.InvoiceFragment{}, fmt.Errorf("failed to send extract request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.InvoiceFragment{}, fmt.Errorf("failed to read extract response: %w", err)
	}

	log.Printf("[Extract] Response status: %s", resp.Status)
	if resp.StatusCode != http.StatusOK {
		return models.InvoiceFragment{}, fmt.Errorf("extraction failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return models.InvoiceFragment{}, fmt.Errorf("failed to parse extract response: %w", err)
	}

	var generated string
	if len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
		generated = result.Candidates[0].Content.Parts[0].Text
	}
	if strings.TrimSpace(generated) == "" {
		log.Printf("[Extract] Empty model response, returning empty fragment")
		return models.InvoiceFragment{}, nil
	}

	var fragment models.InvoiceFragment
	if err := json.Unmarshal([]byte(generated), &fragment); err != nil {
		return models.InvoiceFragment{}, fmt.Errorf("failed to parse extracted fragment: %w", err)
	}

	return fragment, nil
}

// buildGenerateRequest constructs the generateContent body, constraining the
// model to JSON output matching the fragment shape.
func (ex *ExtractService) buildGenerateRequest(text string) map[string]interface{} {
	partyProperties := map[string]interface{}{
		"name":    map[string]interface{}{"type": "STRING"},
		"email":   map[string]interface{}{"type": "STRING"},
		"phone":   map[string]interface{}{"type": "STRING"},
		"address": map[string]interface{}{"type": "STRING"},
	}

	responseSchema := map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"invoiceNumber": map[string]interface{}{"type": "STRING"},
			"date":          map[string]interface{}{"type": "STRING"},
			"dueDate":       map[string]interface{}{"type": "STRING"},
			"sender":        map[string]interface{}{"type": "OBJECT", "properties": partyProperties},
			"recipient":     map[string]interface{}{"type": "OBJECT", "properties": partyProperties},
			"items": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"description": map[string]interface{}{"type": "STRING"},
						"quantity":    map[string]interface{}{"type": "NUMBER"},
						"price":       map[string]interface{}{"type": "NUMBER"},
					},
				},
			},
			"notes": map[string]interface{}{"type": "STRING"},
		},
	}

	return map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": fmt.Sprintf("Extract invoice data from this text: %q", text)},
				},
			},
		},
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": extractSystemPrompt},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   responseSchema,
		},
	}
}
