package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync/atomic"

	"invoicestudio/models"
	"invoicestudio/payment"
	"invoicestudio/services"
	"invoicestudio/utils"

	"github.com/go-chi/chi/v5"
)

// Extractor is the slice of the extraction client the handlers need. It is
// an interface so tests can substitute a stub.
type Extractor interface {
	Configured() bool
	Extract(text string) (models.InvoiceFragment, error)
}

// Handler serves the editor API over the current session invoice.
type Handler struct {
	editor       *services.EditorService
	invoices     *services.InvoiceService
	extractor    Extractor
	links        payment.PaymentLinkGenerator // nil when Stripe is unconfigured
	slackChannel string

	// At most one extraction request may be outstanding at a time.
	extractPending atomic.Bool
}

func NewHandler(editor *services.EditorService, invoices *services.InvoiceService, extractor Extractor, links payment.PaymentLinkGenerator, slackChannel string) *Handler {
	return &Handler{
		editor:       editor,
		invoices:     invoices,
		extractor:    extractor,
		links:        links,
		slackChannel: slackChannel,
	}
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.editor.Current())
}

type setFieldRequest struct {
	Section string          `json:"section"`
	Field   string          `json:"field"`
	Value   json.RawMessage `json:"value"`
}

func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	var req setFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Section == "" {
		writeError(w, http.StatusBadRequest, "section is required")
		return
	}

	value := decodeFieldValue(req.Section, req.Field, req.Value)
	writeJSON(w, http.StatusOK, h.editor.SetField(req.Section, req.Field, value))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	inv, id := h.editor.AddItem()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"invoice": inv,
	})
}

type updateItemRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	value := decodeFieldValue("items", req.Field, req.Value)
	writeJSON(w, http.StatusOK, h.editor.UpdateItem(id, req.Field, value))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, h.editor.RemoveItem(id))
}

func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	inv := h.editor.Current()
	subtotal := models.Subtotal(inv.Items)
	taxAmount := models.TaxAmount(subtotal, inv.TaxRate)
	total := models.Total(subtotal, taxAmount)
	symbol := models.CurrencySymbol(inv.Currency)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subtotal":          subtotal,
		"taxAmount":         taxAmount,
		"total":             total,
		"currencySymbol":    symbol,
		"subtotalFormatted": symbol + models.FormatMoney(subtotal),
		"taxFormatted":      symbol + models.FormatMoney(taxAmount),
		"totalFormatted":    symbol + models.FormatMoney(total),
	})
}

type extractRequest struct {
	Text string `json:"text"`
}

// Extract runs the auto-fill call and merges the result. The invoice is only
// touched on success; any failure leaves it exactly as it was.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if !h.extractor.Configured() {
		writeError(w, http.StatusServiceUnavailable, "auto-fill is not configured")
		return
	}

	if !h.extractPending.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "an extraction request is already in progress")
		return
	}
	defer h.extractPending.Store(false)

	fragment, err := h.extractor.Extract(req.Text)
	if err != nil {
		if errors.Is(err, services.ErrMissingAPIKey) {
			writeError(w, http.StatusServiceUnavailable, "auto-fill is not configured")
			return
		}
		log.Printf("Extraction failed: %v", err)
		writeError(w, http.StatusBadGateway, "failed to generate invoice data, please try again")
		return
	}

	writeJSON(w, http.StatusOK, h.editor.MergeExtracted(fragment))
}

// DownloadPDF serves the invoice as a PDF attachment. If generation fails
// the response falls back to the printable text rendering instead of
// erroring out.
func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	inv := h.editor.Current()
	pdfBytes, err := h.invoices.GeneratePDF(inv)
	if err != nil {
		log.Printf("PDF generation failed, falling back to print rendering: %v", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(h.invoices.RenderText(inv)))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.PDFFilename(inv)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func (h *Handler) PrintInvoice(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.invoices.RenderText(h.editor.Current())))
}

type shareRequest struct {
	Channel string `json:"channel"`
}

func (h *Handler) ShareToSlack(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if r.Body != nil {
		// Body is optional; the configured default channel is used otherwise.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	channel := req.Channel
	if channel == "" {
		channel = h.slackChannel
	}
	if channel == "" {
		writeError(w, http.StatusBadRequest, "no Slack channel provided or configured")
		return
	}

	inv := h.editor.Current()
	pdfBytes, err := h.invoices.GeneratePDF(inv)
	if err != nil {
		log.Printf("PDF generation failed for Slack share: %v", err)
		writeError(w, http.StatusBadGateway, "failed to render invoice PDF")
		return
	}

	if err := h.invoices.ShareToSlack(channel, inv, pdfBytes); err != nil {
		if errors.Is(err, services.ErrSlackNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "Slack sharing is not configured")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to share invoice to Slack")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "shared", "channel": channel})
}

func (h *Handler) CreatePaymentLink(w http.ResponseWriter, r *http.Request) {
	if h.links == nil {
		writeError(w, http.StatusServiceUnavailable, "payment links are not configured")
		return
	}

	inv := h.editor.Current()
	subtotal := models.Subtotal(inv.Items)
	total := models.Total(subtotal, models.TaxAmount(subtotal, inv.TaxRate))
	if total <= 0 {
		writeError(w, http.StatusBadRequest, "invoice total must be greater than 0")
		return
	}

	link, paymentID, err := h.links.GenerateLink(&models.PaymentLinkData{
		Amount:          total,
		Currency:        inv.Currency,
		ServiceName:     "Invoice " + inv.InvoiceNumber,
		ReferenceNumber: inv.InvoiceNumber,
	})
	if err != nil {
		log.Printf("Payment link creation failed: %v", err)
		writeError(w, http.StatusBadGateway, "failed to create payment link")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": link, "paymentId": paymentID})
}

// decodeFieldValue turns a raw JSON field value into what the state
// operations expect. Numeric fields accept numbers directly or strings run
// through the clamping parser; everything else is treated as a string.
func decodeFieldValue(section, field string, raw json.RawMessage) interface{} {
	numeric := section == "taxRate" ||
		(section == "items" && (field == "quantity" || field == "price"))

	if len(raw) == 0 {
		if numeric {
			return float64(0)
		}
		return ""
	}

	if numeric {
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return n
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return utils.ParseNumber(s)
		}
		return float64(0)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
