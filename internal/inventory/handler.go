package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicasonrisa/dashboard-api/pkg/logging"
)

// Handler handles HTTP requests for inventory.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new inventory handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Create handles POST /inventory.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.store.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingMaterialName),
			errors.Is(err, ErrMissingUnit),
			errors.Is(err, ErrNegativeQuantity),
			errors.Is(err, ErrInvalidExpiry):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to create material", "error", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// List handles GET /inventory.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list inventory", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	if items == nil {
		items = []Item{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"items": items,
		"count": len(items),
	})
}

// Alerts handles GET /inventory/alerts: only amarillo/rojo materials.
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list inventory", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	alerts := make([]Item, 0)
	for _, it := range items {
		if it.EstadoAlerta != AlertVerde {
			alerts = append(alerts, it)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"items": alerts,
		"count": len(alerts),
	})
}

// UpdateQuantity handles PUT /inventory/{itemID}/quantity.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itemID")

	var req struct {
		CantidadActual int `json:"cantidadActual"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateQuantity(r.Context(), id, req.CantidadActual); err != nil {
		switch {
		case errors.Is(err, ErrNegativeQuantity):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrItemNotFound):
			http.Error(w, "material not found", http.StatusNotFound)
		default:
			h.logger.Error("failed to update quantity", "error", err, "id", id)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
