package goals

import (
	"encoding/json"
	"net/http"

	"github.com/clinicasonrisa/dashboard-api/pkg/logging"
)

// Handler handles HTTP requests for treatment goals.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new goals handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Get handles GET /goals: the current half-year progress panel.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	goalList, err := h.service.Compute(r.Context())
	if err != nil {
		h.logger.Error("failed to compute goals", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"goals": goalList,
	})
}
