package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicasonrisa/dashboard-api/internal/patients"
)

// flakyStore wraps the in-memory store with injectable read failures.
type flakyStore struct {
	*InMemoryStore
	listActiveErr error
}

func (s *flakyStore) ListActiveByDay(ctx context.Context, day time.Time) ([]Appointment, error) {
	if s.listActiveErr != nil {
		return nil, s.listActiveErr
	}
	return s.InMemoryStore.ListActiveByDay(ctx, day)
}

type schedulerFixture struct {
	scheduler *Scheduler
	store     *flakyStore
	patient   *patients.Patient
}

// newSchedulerFixture pins "now" to Wednesday 2025-03-12 09:30 UTC and
// registers one patient.
func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()

	store := &flakyStore{InMemoryStore: NewInMemoryStore()}
	repo := patients.NewInMemoryRepository()
	patient, err := repo.Create(context.Background(), &patients.CreatePatientRequest{
		NumeroHistoria:  "HC-0001",
		Nombres:         "Maria",
		Apellidos:       "Torres",
		FechaNacimiento: "1985-06-20",
		Celular:         "+51900111222",
	})
	require.NoError(t, err)

	s := NewScheduler(store, repo, nil, nil, time.UTC)
	s.now = func() time.Time { return wednesday }

	return &schedulerFixture{scheduler: s, store: store, patient: patient}
}

func (f *schedulerFixture) request() *ScheduleRequest {
	return &ScheduleRequest{
		PacienteID: f.patient.ID,
		Tipo:       TypeProfilaxis,
		Fecha:      "2025-03-13",
		Hora:       "10:00",
	}
}

func TestScheduleCreatesPendingAppointment(t *testing.T) {
	f := newSchedulerFixture(t)

	appt, err := f.scheduler.Schedule(context.Background(), f.request())
	require.NoError(t, err)

	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, StatusPendiente, appt.Estado)
	assert.Equal(t, 60, appt.DuracionMinutos, "omitted duration defaults to one hour")
	assert.Equal(t, "2025-03-13 10:00", appt.FechaAgendada.Format("2006-01-02 15:04"))
	assert.Nil(t, appt.FechaCompletado)
}

func TestScheduleValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ScheduleRequest)
		wantErr error
	}{
		{"missing patient", func(r *ScheduleRequest) { r.PacienteID = " " }, ErrMissingPatient},
		{"unknown treatment type", func(r *ScheduleRequest) { r.Tipo = "ortodoncia" }, ErrUnknownTreatmentType},
		{"empty fecha", func(r *ScheduleRequest) { r.Fecha = "" }, ErrInvalidSchedule},
		{"malformed hora", func(r *ScheduleRequest) { r.Hora = "10h00" }, ErrInvalidSchedule},
		{"in the past", func(r *ScheduleRequest) { r.Fecha = "2025-03-11" }, ErrPastSchedule},
		{"same day", func(r *ScheduleRequest) { r.Fecha = "2025-03-12"; r.Hora = "08:00" }, ErrPastSchedule},
		{"saturday", func(r *ScheduleRequest) { r.Fecha = "2025-03-15" }, ErrDateNotOfferable},
		{"beyond horizon", func(r *ScheduleRequest) { r.Fecha = "2025-06-20" }, ErrDateNotOfferable},
		{"duration too short", func(r *ScheduleRequest) { r.DuracionMinutos = 10 }, ErrInvalidDuration},
		{"duration too long", func(r *ScheduleRequest) { r.DuracionMinutos = 300 }, ErrInvalidDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSchedulerFixture(t)
			req := f.request()
			tt.mutate(req)

			_, err := f.scheduler.Schedule(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestScheduleUnknownPatient(t *testing.T) {
	f := newSchedulerFixture(t)
	req := f.request()
	req.PacienteID = "no-such-patient"

	_, err := f.scheduler.Schedule(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingPatient)
}

func TestScheduleSlotConflict(t *testing.T) {
	f := newSchedulerFixture(t)

	_, err := f.scheduler.Schedule(context.Background(), f.request())
	require.NoError(t, err)

	// Same day, same start time.
	_, err = f.scheduler.Schedule(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Adjacent slot stays bookable even though the first booking runs an
	// hour.
	req := f.request()
	req.Hora = "10:30"
	_, err = f.scheduler.Schedule(context.Background(), req)
	assert.NoError(t, err)

	day, _ := time.ParseInLocation("2006-01-02", "2025-03-13", time.UTC)
	appts, err := f.store.ListByDay(context.Background(), day)
	require.NoError(t, err)
	assert.Len(t, appts, 2, "conflicting booking must not be written")
}

func TestScheduleInactiveSlotIsFree(t *testing.T) {
	f := newSchedulerFixture(t)

	appt, err := f.scheduler.Schedule(context.Background(), f.request())
	require.NoError(t, err)

	_, err = f.scheduler.UpdateStatus(context.Background(), appt.ID, StatusCancelado)
	require.NoError(t, err)

	// The cancelled appointment frees its slot.
	_, err = f.scheduler.Schedule(context.Background(), f.request())
	assert.NoError(t, err)
}

func TestCheckAvailabilityFailsOpen(t *testing.T) {
	f := newSchedulerFixture(t)

	_, err := f.scheduler.Schedule(context.Background(), f.request())
	require.NoError(t, err)

	f.store.listActiveErr = errors.New("connection refused")

	av, err := f.scheduler.CheckAvailability(context.Background(), "2025-03-13")
	require.NoError(t, err)
	assert.True(t, av.Offerable)
	assert.Empty(t, av.Occupied, "store failure reads as a free day")

	// Booking also proceeds on a failed conflict read.
	req := f.request()
	req.Hora = "11:00"
	_, err = f.scheduler.Schedule(context.Background(), req)
	assert.NoError(t, err)
}

func TestCheckAvailability(t *testing.T) {
	f := newSchedulerFixture(t)

	_, err := f.scheduler.Schedule(context.Background(), f.request())
	require.NoError(t, err)

	av, err := f.scheduler.CheckAvailability(context.Background(), "2025-03-13")
	require.NoError(t, err)

	assert.True(t, av.Offerable)
	assert.Len(t, av.Slots, 16)
	assert.Equal(t, []string{"10:00"}, av.Occupied)

	// Saturday is never offerable but still reports its occupancy shape.
	av, err = f.scheduler.CheckAvailability(context.Background(), "2025-03-15")
	require.NoError(t, err)
	assert.False(t, av.Offerable)
}

func TestCheckSlot(t *testing.T) {
	f := newSchedulerFixture(t)

	_, err := f.scheduler.Schedule(context.Background(), f.request())
	require.NoError(t, err)

	free, err := f.scheduler.CheckSlot(context.Background(), "2025-03-13", "10:00")
	require.NoError(t, err)
	assert.False(t, free)

	free, err = f.scheduler.CheckSlot(context.Background(), "2025-03-13", "10:30")
	require.NoError(t, err)
	assert.True(t, free)

	_, err = f.scheduler.CheckSlot(context.Background(), "2025-03-15", "10:00")
	assert.ErrorIs(t, err, ErrDateNotOfferable)
}

func TestUpdateStatusCompletionStamp(t *testing.T) {
	f := newSchedulerFixture(t)

	var invalidated bool
	f.scheduler.SetCompletionListener(func(ctx context.Context) { invalidated = true })

	appt, err := f.scheduler.Schedule(context.Background(), f.request())
	require.NoError(t, err)

	updated, err := f.scheduler.UpdateStatus(context.Background(), appt.ID, StatusCompletado)
	require.NoError(t, err)
	require.NotNil(t, updated.FechaCompletado)
	assert.Equal(t, wednesday.UTC(), *updated.FechaCompletado)
	assert.True(t, invalidated, "completion must notify the listener")

	// Any status may follow any other; going back to pendiente is
	// accepted and the completion stamp is left as-is.
	reverted, err := f.scheduler.UpdateStatus(context.Background(), appt.ID, StatusPendiente)
	require.NoError(t, err)
	assert.Equal(t, StatusPendiente, reverted.Estado)
	assert.NotNil(t, reverted.FechaCompletado)
}

func TestUpdateStatusErrors(t *testing.T) {
	f := newSchedulerFixture(t)

	_, err := f.scheduler.UpdateStatus(context.Background(), "missing", StatusConfirmado)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	appt, err := f.scheduler.Schedule(context.Background(), f.request())
	require.NoError(t, err)

	_, err = f.scheduler.UpdateStatus(context.Background(), appt.ID, "archivado")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err := f.scheduler.UpdateStatus(context.Background(), appt.ID, StatusCancelado)
	require.NoError(t, err)
	assert.Nil(t, updated.FechaCompletado, "only completado stamps the timestamp")
}
