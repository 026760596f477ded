package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a map-backed Store used in tests and local runs
// without a database.
type InMemoryStore struct {
	mu    sync.RWMutex
	appts map[string]*Appointment
}

// NewInMemoryStore creates a new in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{appts: make(map[string]*Appointment)}
}

// Insert stores a new appointment.
func (s *InMemoryStore) Insert(ctx context.Context, appt *Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	appt.FechaCreacion = now
	appt.FechaActualizacion = now

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *appt
	s.appts[appt.ID] = &cp
	return nil
}

// GetByID retrieves an appointment by id.
func (s *InMemoryStore) GetByID(ctx context.Context, id string) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *appt
	return &cp, nil
}

// ListByDay returns all appointments on the given calendar day.
func (s *InMemoryStore) ListByDay(ctx context.Context, day time.Time) ([]Appointment, error) {
	return s.listByDay(day, false), nil
}

// ListActiveByDay returns the day's pendiente/confirmado appointments.
func (s *InMemoryStore) ListActiveByDay(ctx context.Context, day time.Time) ([]Appointment, error) {
	return s.listByDay(day, true), nil
}

func (s *InMemoryStore) listByDay(day time.Time, activeOnly bool) []Appointment {
	from := startOfDay(day)
	to := from.AddDate(0, 0, 1)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Appointment
	for _, appt := range s.appts {
		at := appt.FechaAgendada
		if at.Before(from) || !at.Before(to) {
			continue
		}
		if activeOnly && !appt.Estado.IsActive() {
			continue
		}
		out = append(out, *appt)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FechaAgendada.Before(out[j].FechaAgendada)
	})
	return out
}

// UpdateStatus writes the new status and optional completion timestamp.
func (s *InMemoryStore) UpdateStatus(ctx context.Context, id string, estado Status, completadoAt *time.Time) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	appt.Estado = estado
	if completadoAt != nil {
		t := *completadoAt
		appt.FechaCompletado = &t
	}
	appt.FechaActualizacion = time.Now().UTC()
	cp := *appt
	return &cp, nil
}
