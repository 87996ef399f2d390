package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classpoint/classpoint-backend/internal/fees"
	"github.com/classpoint/classpoint-backend/internal/notify"
)

type createInvoiceRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// POST /invoices
//
// The student gets an in-app notification for every new invoice; this is
// the fee-reminder path of the mobile app.
func CreateInvoiceHandler(store *fees.SQLStore, notifier *notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createInvoiceRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		inv, err := store.CreateInvoice(r.Context(), fees.Invoice{
			StudentID:   req.StudentID,
			Title:       req.Title,
			AmountCents: req.AmountCents,
			DueDate:     req.DueDate,
		})
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		if _, err := notifier.Push(r.Context(), notify.Notification{
			UserID: inv.StudentID,
			Title:  "New fee invoice: " + inv.Title,
		}); err != nil {
			// best effort: the invoice stands even when the notification fails
			log.Printf("invoice %s: notify student %s: %v", inv.ID, inv.StudentID, err)
		}
		writeJSON(w, http.StatusCreated, inv)
	}
}

type recordPaymentRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Method      string `json:"method" validate:"omitempty,oneof=cash card upi bank_transfer"`
}

// POST /invoices/{invoiceID}/payments
func RecordPaymentHandler(store *fees.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordPaymentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		inv, err := store.RecordPayment(r.Context(), fees.Payment{
			InvoiceID:   chi.URLParam(r, "invoiceID"),
			AmountCents: req.AmountCents,
			Method:      req.Method,
		})
		if errors.Is(err, fees.ErrNotFound) {
			http.Error(w, "invoice not found", 404)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, http.StatusOK, inv)
	}
}

// GET /students/{studentID}/invoices
func StudentInvoicesHandler(store *fees.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.StudentInvoices(r.Context(), chi.URLParam(r, "studentID"))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
