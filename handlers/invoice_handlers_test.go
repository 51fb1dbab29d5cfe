package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"invoicestudio/models"
	"invoicestudio/services"
)

type stubExtractor struct {
	configured bool
	fragment   models.InvoiceFragment
	err        error
	started    chan struct{}
	release    chan struct{}
}

func (s *stubExtractor) Configured() bool { return s.configured }

func (s *stubExtractor) Extract(text string) (models.InvoiceFragment, error) {
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	return s.fragment, s.err
}

type stubLinkGenerator struct {
	url string
	err error
}

func (s *stubLinkGenerator) GenerateLink(data *models.PaymentLinkData) (string, string, error) {
	return s.url, "plink_123", s.err
}

func newTestHandler(ex Extractor) (*Handler, http.Handler) {
	editor := services.NewEditorService(models.DefaultInvoice(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	h := NewHandler(editor, services.NewInvoiceService(nil), ex, nil, "")
	return h, NewRouter(h)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInvoice(t *testing.T, rec *httptest.ResponseRecorder) models.InvoiceData {
	t.Helper()
	var inv models.InvoiceData
	if err := json.Unmarshal(rec.Body.Bytes(), &inv); err != nil {
		t.Fatalf("decode invoice: %v", err)
	}
	return inv
}

func TestGetInvoice(t *testing.T) {
	t.Parallel()

	_, router := newTestHandler(&stubExtractor{})
	rec := doJSON(t, router, "GET", "/api/invoice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	inv := decodeInvoice(t, rec)
	if inv.InvoiceNumber != "00001" || len(inv.Items) != 2 {
		t.Fatalf("unexpected seed state: %+v", inv)
	}
}

func TestSetFieldEndpoint(t *testing.T) {
	t.Parallel()

	_, router := newTestHandler(&stubExtractor{})

	rec := doJSON(t, router, "PUT", "/api/invoice/field", map[string]interface{}{
		"section": "sender", "field": "name", "value": "Studio LLC",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if inv := decodeInvoice(t, rec); inv.Sender.Name != "Studio LLC" {
		t.Fatalf("sender name = %q", inv.Sender.Name)
	}

	// Numeric field provided as text goes through the clamping parser.
	rec = doJSON(t, router, "PUT", "/api/invoice/field", map[string]interface{}{
		"section": "taxRate", "value": "not a number",
	})
	if inv := decodeInvoice(t, rec); inv.TaxRate != 0 {
		t.Fatalf("taxRate = %v, want clamped 0", inv.TaxRate)
	}

	rec = doJSON(t, router, "PUT", "/api/invoice/field", map[string]interface{}{
		"section": "taxRate", "value": 10,
	})
	if inv := decodeInvoice(t, rec); inv.TaxRate != 10 {
		t.Fatalf("taxRate = %v, want 10", inv.TaxRate)
	}
}

func TestItemLifecycle(t *testing.T) {
	t.Parallel()

	_, router := newTestHandler(&stubExtractor{})

	rec := doJSON(t, router, "POST", "/api/invoice/items", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d", rec.Code)
	}
	var added struct {
		ID      string             `json:"id"`
		Invoice models.InvoiceData `json:"invoice"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &added); err != nil {
		t.Fatalf("decode add response: %v", err)
	}
	if added.ID == "" || len(added.Invoice.Items) != 3 {
		t.Fatalf("unexpected add response: %+v", added)
	}

	rec = doJSON(t, router, "PATCH", "/api/invoice/items/"+added.ID, map[string]interface{}{
		"field": "price", "value": 200,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}
	inv := decodeInvoice(t, rec)
	if got := models.Subtotal(inv.Items); got != 173318+200 {
		t.Fatalf("subtotal = %v, want %v", got, 173318+200)
	}

	rec = doJSON(t, router, "DELETE", "/api/invoice/items/"+added.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if inv := decodeInvoice(t, rec); len(inv.Items) != 2 {
		t.Fatalf("items = %d after delete", len(inv.Items))
	}

	// Deleting again is a defined no-op.
	rec = doJSON(t, router, "DELETE", "/api/invoice/items/"+added.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("second delete status = %d", rec.Code)
	}
}

func TestGetTotals(t *testing.T) {
	t.Parallel()

	_, router := newTestHandler(&stubExtractor{})
	doJSON(t, router, "PUT", "/api/invoice/field", map[string]interface{}{
		"section": "taxRate", "value": 10,
	})

	rec := doJSON(t, router, "GET", "/api/invoice/totals", nil)
	var totals struct {
		Subtotal       float64 `json:"subtotal"`
		TaxFormatted   string  `json:"taxFormatted"`
		TotalFormatted string  `json:"totalFormatted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &totals); err != nil {
		t.Fatalf("decode totals: %v", err)
	}
	if totals.Subtotal != 173318 {
		t.Fatalf("subtotal = %v", totals.Subtotal)
	}
	if totals.TaxFormatted != "Rs17,331.80" || totals.TotalFormatted != "Rs190,649.80" {
		t.Fatalf("formatted totals = %q / %q", totals.TaxFormatted, totals.TotalFormatted)
	}
}

func TestExtractEndpointMergesOnSuccess(t *testing.T) {
	t.Parallel()

	number := "INV-42"
	ex := &stubExtractor{
		configured: true,
		fragment:   models.InvoiceFragment{InvoiceNumber: &number},
	}
	_, router := newTestHandler(ex)

	rec := doJSON(t, router, "POST", "/api/invoice/extract", map[string]string{"text": "invoice 42"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if inv := decodeInvoice(t, rec); inv.InvoiceNumber != "INV-42" {
		t.Fatalf("invoiceNumber = %q", inv.InvoiceNumber)
	}
}

func TestExtractEndpointUnconfigured(t *testing.T) {
	t.Parallel()

	_, router := newTestHandler(&stubExtractor{configured: false})
	rec := doJSON(t, router, "POST", "/api/invoice/extract", map[string]string{"text": "anything"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestExtractEndpointFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	ex := &stubExtractor{configured: true, err: errors.New("upstream broke")}
	_, router := newTestHandler(ex)

	rec := doJSON(t, router, "POST", "/api/invoice/extract", map[string]string{"text": "anything"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/api/invoice", nil)
	if inv := decodeInvoice(t, rec); inv.InvoiceNumber != "00001" {
		t.Fatalf("state changed after failed extraction: %q", inv.InvoiceNumber)
	}
}

func TestExtractEndpointSingleOutstandingRequest(t *testing.T) {
	t.Parallel()

	ex := &stubExtractor{
		configured: true,
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	_, router := newTestHandler(ex)

	firstDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		firstDone <- doJSON(t, router, "POST", "/api/invoice/extract", map[string]string{"text": "first"})
	}()

	<-ex.started
	rec := doJSON(t, router, "POST", "/api/invoice/extract", map[string]string{"text": "second"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("concurrent extract status = %d, want 409", rec.Code)
	}

	close(ex.release)
	if rec := <-firstDone; rec.Code != http.StatusOK {
		t.Fatalf("first extract status = %d", rec.Code)
	}
}

func TestDownloadPDF(t *testing.T) {
	t.Parallel()

	_, router := newTestHandler(&stubExtractor{})
	rec := doJSON(t, router, "GET", "/api/invoice/pdf", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Invoice_00001.pdf") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF")
	}
}

func TestPrintInvoice(t *testing.T) {
	t.Parallel()

	_, router := newTestHandler(&stubExtractor{})
	rec := doJSON(t, router, "GET", "/api/invoice/print", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVOICE 00001") {
		t.Fatalf("print rendering missing header: %s", rec.Body.String())
	}
}

func TestShareWithoutConfiguration(t *testing.T) {
	t.Parallel()

	_, router := newTestHandler(&stubExtractor{})

	// No channel in body and none configured.
	rec := doJSON(t, router, "POST", "/api/invoice/share", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	// Channel given but no Slack client behind the service.
	rec = doJSON(t, router, "POST", "/api/invoice/share", map[string]string{"channel": "C123"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestPaymentLinkEndpoint(t *testing.T) {
	t.Parallel()

	editor := services.NewEditorService(models.DefaultInvoice(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	h := NewHandler(editor, services.NewInvoiceService(nil), &stubExtractor{}, &stubLinkGenerator{url: "https://pay.example/abc"}, "")
	router := NewRouter(h)

	rec := doJSON(t, router, "POST", "/api/invoice/payment-link", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["url"] != "https://pay.example/abc" || resp["paymentId"] != "plink_123" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestPaymentLinkUnconfigured(t *testing.T) {
	t.Parallel()

	_, router := newTestHandler(&stubExtractor{})
	rec := doJSON(t, router, "POST", "/api/invoice/payment-link", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
