package reminders

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicasonrisa/dashboard-api/pkg/logging"
)

// Handler handles HTTP requests for reminder messages.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new reminders handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// CreateRequest is the request body for queueing a message.
type CreateRequest struct {
	PacienteID      string      `json:"pacienteId"`
	TratamientoID   string      `json:"tratamientoId"`
	TipoMensaje     MessageType `json:"tipoMensaje"`
	Contenido       string      `json:"contenido"`
	FechaProgramada string      `json:"fechaProgramada"` // RFC3339; empty means now
}

// Create handles POST /reminders.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pacienteID, err := uuid.Parse(req.PacienteID)
	if err != nil {
		http.Error(w, "pacienteId must be a UUID", http.StatusBadRequest)
		return
	}
	if !req.TipoMensaje.IsValid() {
		http.Error(w, "unknown tipoMensaje", http.StatusBadRequest)
		return
	}
	if req.Contenido == "" {
		http.Error(w, "contenido is required", http.StatusBadRequest)
		return
	}

	programada := time.Now().UTC()
	if req.FechaProgramada != "" {
		programada, err = time.Parse(time.RFC3339, req.FechaProgramada)
		if err != nil {
			http.Error(w, "fechaProgramada must be RFC3339", http.StatusBadRequest)
			return
		}
	}

	m := &Message{
		PacienteID:       pacienteID,
		TipoMensaje:      req.TipoMensaje,
		ContenidoEnviado: req.Contenido,
		FechaProgramada:  programada,
	}
	if req.TratamientoID != "" {
		tid, err := uuid.Parse(req.TratamientoID)
		if err != nil {
			http.Error(w, "tratamientoId must be a UUID", http.StatusBadRequest)
			return
		}
		m.TratamientoID = &tid
	}

	if err := h.store.Create(r.Context(), m); err != nil {
		h.logger.Error("failed to create reminder", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(m)
}

// ListDue handles GET /reminders/due.
func (h *Handler) ListDue(w http.ResponseWriter, r *http.Request) {
	due, err := h.store.ListDue(r.Context(), time.Now().UTC())
	if err != nil {
		h.logger.Error("failed to list due reminders", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	if due == nil {
		due = []Message{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"messages": due,
		"count":    len(due),
	})
}

// UpdateRequest is the request body for advancing a message's lifecycle.
type UpdateRequest struct {
	EstadoEnvio  SendStatus `json:"estadoEnvio"`
	ErrorDetalle string     `json:"errorDetalle"`
	Contenido    string     `json:"contenido"`
}

// Update handles PATCH /reminders/{messageID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		http.Error(w, "messageID must be a UUID", http.StatusBadRequest)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch req.EstadoEnvio {
	case StatusEnviado:
		err = h.store.MarkSent(r.Context(), id)
	case StatusFallido:
		err = h.store.MarkFailed(r.Context(), id, req.ErrorDetalle)
	case StatusRecibido:
		err = h.store.RecordReply(r.Context(), id, req.Contenido)
	default:
		http.Error(w, "estadoEnvio must be enviado, fallido or recibido", http.StatusBadRequest)
		return
	}

	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			http.Error(w, "message not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update reminder", "error", err, "id", id)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
