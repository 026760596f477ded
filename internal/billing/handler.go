package billing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicasonrisa/dashboard-api/pkg/logging"
)

// Handler handles HTTP requests for pending bills.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new billing handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// ListPending handles GET /billing/pending.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	bills, err := h.store.ListPending(r.Context())
	if err != nil {
		h.logger.Error("failed to list pending bills", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	if bills == nil {
		bills = []PendingBill{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"bills": bills,
		"count": len(bills),
	})
}

// AssignCode handles PUT /billing/{appointmentID}/code.
func (h *Handler) AssignCode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	var req struct {
		BoletaCodigo string `json:"boletaCodigo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.AssignCode(r.Context(), id, req.BoletaCodigo); err != nil {
		switch {
		case errors.Is(err, ErrEmptyBillingCode):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrBillNotFound):
			http.Error(w, "pending bill not found", http.StatusNotFound)
		default:
			h.logger.Error("failed to assign boleta code", "error", err, "id", id)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		}
		return
	}

	h.logger.Info("boleta code assigned", "id", id, "codigo", req.BoletaCodigo)
	w.WriteHeader(http.StatusNoContent)
}
