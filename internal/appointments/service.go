package appointments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinicasonrisa/dashboard-api/internal/observability/metrics"
	"github.com/clinicasonrisa/dashboard-api/internal/patients"
	"github.com/clinicasonrisa/dashboard-api/pkg/logging"
)

var schedulerTracer = otel.Tracer("clinica.internal.appointments")

// PatientDirectory is the slice of the patients repository the scheduler
// needs to confirm a patient reference exists.
type PatientDirectory interface {
	GetByID(ctx context.Context, id string) (*patients.Patient, error)
}

// Scheduler validates and books appointments against the record store.
//
// The conflict check and the booking are two independent round trips, so
// two clients racing for the same slot can both succeed. Closing that
// window would need a uniqueness constraint at the store; this layer only
// re-checks once at submit time.
type Scheduler struct {
	store    Store
	patients PatientDirectory
	logger   *logging.Logger
	metrics  *metrics.SchedulerMetrics
	loc      *time.Location
	now      func() time.Time

	// onCompleted fires after a successful transition to completado, so
	// derived aggregates (goal progress) can drop their caches.
	onCompleted func(ctx context.Context)
}

// SetCompletionListener registers a callback invoked after an
// appointment reaches completado.
func (s *Scheduler) SetCompletionListener(fn func(ctx context.Context)) {
	s.onCompleted = fn
}

// NewScheduler constructs a scheduler. loc is the clinic's timezone; nil
// means the process-local one.
func NewScheduler(store Store, dir PatientDirectory, logger *logging.Logger, m *metrics.SchedulerMetrics, loc *time.Location) *Scheduler {
	if store == nil {
		panic("appointments: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		store:    store,
		patients: dir,
		logger:   logger,
		metrics:  m,
		loc:      loc,
		now:      time.Now,
	}
}

// Availability reports the occupied start times for a calendar day plus
// whether the day itself is offerable.
type Availability struct {
	Fecha     string   `json:"fecha"`
	Offerable bool     `json:"offerable"`
	Slots     []string `json:"slots"`
	Occupied  []string `json:"occupied"`
}

// CheckAvailability returns the day's occupied slots. A store failure
// degrades to "no occupied slots known" rather than blocking the form;
// availability is favored over strict correctness when the backend is
// down.
func (s *Scheduler) CheckAvailability(ctx context.Context, fecha string) (*Availability, error) {
	ctx, span := schedulerTracer.Start(ctx, "appointments.check_availability")
	defer span.End()
	span.SetAttributes(attribute.String("clinica.fecha", fecha))

	day, err := time.ParseInLocation("2006-01-02", fecha, s.loc)
	if err != nil {
		return nil, ErrInvalidSchedule
	}

	av := &Availability{
		Fecha:     fecha,
		Offerable: IsDateOfferable(s.now().In(s.loc), day),
		Slots:     TimeSlots(),
		Occupied:  s.occupiedSlots(ctx, day),
	}
	return av, nil
}

// CheckSlot reports whether a single (fecha, hora) slot is free. It is
// occupied iff some pendiente/confirmado appointment starts at exactly
// that time on that day.
func (s *Scheduler) CheckSlot(ctx context.Context, fecha, hora string) (bool, error) {
	av, err := s.CheckAvailability(ctx, fecha)
	if err != nil {
		return false, err
	}
	if !av.Offerable {
		return false, ErrDateNotOfferable
	}
	if IsSlotOccupied(av.Occupied, hora) {
		s.metrics.ObserveSlotCheck("occupied")
		return false, nil
	}
	s.metrics.ObserveSlotCheck("available")
	return true, nil
}

// occupiedSlots reads the day's active appointments, failing open on
// store errors.
func (s *Scheduler) occupiedSlots(ctx context.Context, day time.Time) []string {
	active, err := s.store.ListActiveByDay(ctx, day)
	if err != nil {
		s.logger.Warn("occupied slots unavailable, treating day as free",
			"error", err, "fecha", day.Format("2006-01-02"))
		s.metrics.ObserveStoreFailure("list_active_by_day")
		return nil
	}
	return OccupiedTimes(active)
}

// Schedule validates the request, re-checks slot occupancy and writes a
// pendiente appointment. On conflict nothing is written.
func (s *Scheduler) Schedule(ctx context.Context, req *ScheduleRequest) (*Appointment, error) {
	ctx, span := schedulerTracer.Start(ctx, "appointments.schedule")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinica.paciente_id", req.PacienteID),
		attribute.String("clinica.tipo", string(req.Tipo)),
	)

	start := s.now()
	defer func() {
		s.metrics.ObserveBookingLatency(s.now().Sub(start).Seconds())
	}()

	if strings.TrimSpace(req.PacienteID) == "" {
		s.metrics.ObserveBooking("invalid")
		return nil, ErrMissingPatient
	}
	if !req.Tipo.IsValid() {
		s.metrics.ObserveBooking("invalid")
		return nil, ErrUnknownTreatmentType
	}

	at, err := s.combine(req.Fecha, req.Hora)
	if err != nil {
		s.metrics.ObserveBooking("invalid")
		return nil, err
	}
	now := s.now()
	if !at.After(now) {
		s.metrics.ObserveBooking("invalid")
		return nil, ErrPastSchedule
	}
	if !IsDateOfferable(now.In(s.loc), at) {
		s.metrics.ObserveBooking("invalid")
		return nil, ErrDateNotOfferable
	}

	duracion := req.DuracionMinutos
	if duracion == 0 {
		duracion = 60
	}
	if duracion < MinDurationMinutes || duracion > MaxDurationMinutes {
		s.metrics.ObserveBooking("invalid")
		return nil, ErrInvalidDuration
	}

	if s.patients != nil {
		if _, err := s.patients.GetByID(ctx, req.PacienteID); err != nil {
			s.metrics.ObserveBooking("invalid")
			return nil, fmt.Errorf("%w: %s", ErrMissingPatient, req.PacienteID)
		}
	}

	// Submit-time re-check. The read fails open like the form's check.
	occupied := s.occupiedSlots(ctx, at)
	if IsSlotOccupied(occupied, req.Hora) {
		s.metrics.ObserveBooking("conflict")
		span.SetAttributes(attribute.Bool("clinica.slot_conflict", true))
		return nil, ErrSlotConflict
	}

	appt := &Appointment{
		PacienteID:      req.PacienteID,
		Tipo:            req.Tipo,
		Descripcion:     req.Descripcion,
		FechaAgendada:   at,
		Estado:          StatusPendiente,
		PiezaDental:     req.PiezaDental,
		Costo:           req.Costo,
		DuracionMinutos: duracion,
	}
	if err := s.store.Insert(ctx, appt); err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("store_error")
		s.metrics.ObserveStoreFailure("insert")
		return nil, err
	}

	s.metrics.ObserveBooking("created")
	s.logger.Info("appointment scheduled",
		"id", appt.ID,
		"paciente_id", appt.PacienteID,
		"tipo", appt.Tipo,
		"fecha_agendada", appt.FechaAgendada,
	)
	return appt, nil
}

// UpdateStatus moves an appointment to the new status. Any status may
// follow any other; no transition table is enforced. Moving to
// completado stamps the completion timestamp.
func (s *Scheduler) UpdateStatus(ctx context.Context, id string, estado Status) (*Appointment, error) {
	ctx, span := schedulerTracer.Start(ctx, "appointments.update_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinica.appointment_id", id),
		attribute.String("clinica.estado", string(estado)),
	)

	if !estado.IsValid() {
		return nil, ErrInvalidStatus
	}

	var completadoAt *time.Time
	if estado == StatusCompletado {
		t := s.now().UTC()
		completadoAt = &t
	}

	appt, err := s.store.UpdateStatus(ctx, id, estado, completadoAt)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if estado == StatusCompletado && s.onCompleted != nil {
		s.onCompleted(ctx)
	}

	s.logger.Info("appointment status updated", "id", id, "estado", estado)
	return appt, nil
}

// combine parses fecha + hora in the clinic timezone.
func (s *Scheduler) combine(fecha, hora string) (time.Time, error) {
	if fecha == "" || hora == "" {
		return time.Time{}, ErrInvalidSchedule
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", fecha+" "+hora, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidSchedule
	}
	return at, nil
}
