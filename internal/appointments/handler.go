package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinicasonrisa/dashboard-api/pkg/logging"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	scheduler *Scheduler
	store     Store
	logger    *logging.Logger
}

// NewHandler creates a new appointments handler.
func NewHandler(scheduler *Scheduler, store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{scheduler: scheduler, store: store, logger: logger}
}

// Availability handles GET /appointments/availability?date=YYYY-MM-DD[&time=HH:MM].
// Without a time it returns the day's slot catalogue and occupied times;
// with one it answers for that single slot.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	fecha := r.URL.Query().Get("date")
	if fecha == "" {
		http.Error(w, "date query param is required", http.StatusBadRequest)
		return
	}

	if hora := r.URL.Query().Get("time"); hora != "" {
		available, err := h.scheduler.CheckSlot(r.Context(), fecha, hora)
		if err != nil {
			if IsValidationError(err) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			h.logger.Error("slot check failed", "error", err, "fecha", fecha)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"fecha":     fecha,
			"hora":      hora,
			"available": available,
		})
		return
	}

	av, err := h.scheduler.CheckAvailability(r.Context(), fecha)
	if err != nil {
		if IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("availability failed", "error", err, "fecha", fecha)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	if av.Occupied == nil {
		av.Occupied = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(av)
}

// Create handles POST /appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.scheduler.Schedule(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotConflict):
			http.Error(w, err.Error(), http.StatusConflict)
		case IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to schedule appointment", "error", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

// UpdateStatus handles PATCH /appointments/{appointmentID}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	var req struct {
		Estado Status `json:"estado"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.scheduler.UpdateStatus(r.Context(), id, req.Estado)
	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			http.Error(w, "appointment not found", http.StatusNotFound)
		case IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to update status", "error", err, "id", id)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// ListByDay handles GET /appointments?date=YYYY-MM-DD.
func (h *Handler) ListByDay(w http.ResponseWriter, r *http.Request) {
	fecha := r.URL.Query().Get("date")
	if fecha == "" {
		http.Error(w, "date query param is required", http.StatusBadRequest)
		return
	}
	day, err := time.ParseInLocation("2006-01-02", fecha, h.scheduler.loc)
	if err != nil {
		http.Error(w, ErrInvalidSchedule.Error(), http.StatusBadRequest)
		return
	}

	appts, err := h.store.ListByDay(r.Context(), day)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "fecha", fecha)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	if appts == nil {
		appts = []Appointment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"fecha":        fecha,
		"appointments": appts,
		"count":        len(appts),
	})
}
