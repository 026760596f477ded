package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinicasonrisa/dashboard-api/internal/appointments"
	"github.com/clinicasonrisa/dashboard-api/internal/billing"
	"github.com/clinicasonrisa/dashboard-api/internal/goals"
	httpmiddleware "github.com/clinicasonrisa/dashboard-api/internal/http/middleware"
	"github.com/clinicasonrisa/dashboard-api/internal/inventory"
	"github.com/clinicasonrisa/dashboard-api/internal/patients"
	"github.com/clinicasonrisa/dashboard-api/internal/reminders"
	"github.com/clinicasonrisa/dashboard-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	PatientsHandler     *patients.Handler
	AppointmentsHandler *appointments.Handler
	GoalsHandler        *goals.Handler
	BillingHandler      *billing.Handler
	RemindersHandler    *reminders.Handler
	InventoryHandler    *inventory.Handler
	MetricsHandler      http.Handler
	StaffJWTSecret      string
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public read endpoints: the dashboard panels.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.PatientsHandler != nil {
			public.Get("/patients", cfg.PatientsHandler.List)
			public.Get("/patients/{patientID}", cfg.PatientsHandler.Get)
		}
		if cfg.AppointmentsHandler != nil {
			public.Get("/appointments", cfg.AppointmentsHandler.ListByDay)
			public.Get("/appointments/availability", cfg.AppointmentsHandler.Availability)
		}
		if cfg.GoalsHandler != nil {
			public.Get("/goals", cfg.GoalsHandler.Get)
		}
		if cfg.BillingHandler != nil {
			public.Get("/billing/pending", cfg.BillingHandler.ListPending)
		}
		if cfg.InventoryHandler != nil {
			public.Get("/inventory", cfg.InventoryHandler.List)
			public.Get("/inventory/alerts", cfg.InventoryHandler.Alerts)
		}
		if cfg.RemindersHandler != nil {
			public.Get("/reminders/due", cfg.RemindersHandler.ListDue)
		}
	})

	// Write endpoints. Guarded by the staff JWT when a secret is set.
	r.Group(func(staff chi.Router) {
		if cfg.StaffJWTSecret != "" {
			staff.Use(httpmiddleware.StaffJWT(cfg.StaffJWTSecret))
		}
		if cfg.PatientsHandler != nil {
			staff.Post("/patients", cfg.PatientsHandler.Create)
		}
		if cfg.AppointmentsHandler != nil {
			staff.Post("/appointments", cfg.AppointmentsHandler.Create)
			staff.Patch("/appointments/{appointmentID}/status", cfg.AppointmentsHandler.UpdateStatus)
		}
		if cfg.BillingHandler != nil {
			staff.Put("/billing/{appointmentID}/code", cfg.BillingHandler.AssignCode)
		}
		if cfg.RemindersHandler != nil {
			staff.Post("/reminders", cfg.RemindersHandler.Create)
			staff.Patch("/reminders/{messageID}", cfg.RemindersHandler.Update)
		}
		if cfg.InventoryHandler != nil {
			staff.Post("/inventory", cfg.InventoryHandler.Create)
			staff.Put("/inventory/{itemID}/quantity", cfg.InventoryHandler.UpdateQuantity)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
