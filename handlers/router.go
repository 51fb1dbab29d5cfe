package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires the editor API.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/invoice", func(r chi.Router) {
		r.Get("/", h.GetInvoice)
		r.Put("/field", h.SetField)
		r.Get("/totals", h.GetTotals)

		r.Post("/items", h.AddItem)
		r.Patch("/items/{id}", h.UpdateItem)
		r.Delete("/items/{id}", h.RemoveItem)

		r.Post("/extract", h.Extract)
		r.Get("/pdf", h.DownloadPDF)
		r.Get("/print", h.PrintInvoice)
		r.Post("/share", h.ShareToSlack)
		r.Post("/payment-link", h.CreatePaymentLink)
	})

	return r
}
