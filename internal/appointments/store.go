package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store defines appointment persistence as seen by the scheduler.
type Store interface {
	Insert(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByDay(ctx context.Context, day time.Time) ([]Appointment, error)
	ListActiveByDay(ctx context.Context, day time.Time) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id string, estado Status, completadoAt *time.Time) (*Appointment, error)
}

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists appointments in the tratamientos table.
type PostgresStore struct {
	db DB
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

// NewPostgresStoreWithDB allows injecting a mock database for testing.
func NewPostgresStoreWithDB(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const apptColumns = `id, paciente_id, tipo, COALESCE(descripcion, ''), fecha_agendada, estado,
	COALESCE(pieza_dental, ''), COALESCE(boleta_codigo, ''), fecha_completado, costo,
	duracion_minutos, fecha_creacion, fecha_actualizacion`

// Insert writes a new appointment row. ID and timestamps are assigned here.
func (s *PostgresStore) Insert(ctx context.Context, appt *Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	appt.FechaCreacion = now
	appt.FechaActualizacion = now

	_, err := s.db.Exec(ctx, `
		INSERT INTO tratamientos (id, paciente_id, tipo, descripcion, fecha_agendada, estado, pieza_dental, costo, duracion_minutos, fecha_creacion, fecha_actualizacion)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, $9, $10, $11)`,
		appt.ID, appt.PacienteID, string(appt.Tipo), appt.Descripcion, appt.FechaAgendada,
		string(appt.Estado), appt.PiezaDental, appt.Costo, appt.DuracionMinutos,
		appt.FechaCreacion, appt.FechaActualizacion,
	)
	if err != nil {
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

// GetByID fetches a single appointment.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := `SELECT ` + apptColumns + ` FROM tratamientos WHERE id = $1`
	appt, err := scanAppointment(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: get: %w", err)
	}
	return appt, nil
}

// ListByDay returns every appointment scheduled on the given calendar
// day, regardless of status, ordered by start time.
func (s *PostgresStore) ListByDay(ctx context.Context, day time.Time) ([]Appointment, error) {
	from := startOfDay(day)
	to := from.AddDate(0, 0, 1)
	rows, err := s.db.Query(ctx, `
		SELECT `+apptColumns+`
		FROM tratamientos
		WHERE fecha_agendada >= $1 AND fecha_agendada < $2
		ORDER BY fecha_agendada ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by day: %w", err)
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// ListActiveByDay returns the day's appointments whose status still
// occupies a slot (pendiente or confirmado).
func (s *PostgresStore) ListActiveByDay(ctx context.Context, day time.Time) ([]Appointment, error) {
	from := startOfDay(day)
	to := from.AddDate(0, 0, 1)
	rows, err := s.db.Query(ctx, `
		SELECT `+apptColumns+`
		FROM tratamientos
		WHERE fecha_agendada >= $1 AND fecha_agendada < $2 AND estado IN ('pendiente', 'confirmado')
		ORDER BY fecha_agendada ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("appointments: list active by day: %w", err)
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// UpdateStatus writes the new status. When completadoAt is non-nil the
// completion timestamp is stamped; other transitions leave it untouched.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, estado Status, completadoAt *time.Time) (*Appointment, error) {
	now := time.Now().UTC()
	var row pgx.Row
	if completadoAt != nil {
		row = s.db.QueryRow(ctx, `
			UPDATE tratamientos
			SET estado = $2, fecha_completado = $3, fecha_actualizacion = $4
			WHERE id = $1
			RETURNING `+apptColumns, id, string(estado), *completadoAt, now)
	} else {
		row = s.db.QueryRow(ctx, `
			UPDATE tratamientos
			SET estado = $2, fecha_actualizacion = $3
			WHERE id = $1
			RETURNING `+apptColumns, id, string(estado), now)
	}
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}
	return appt, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	var out []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows: %w", err)
	}
	return out, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var tipo, estado string
	if err := row.Scan(
		&a.ID,
		&a.PacienteID,
		&tipo,
		&a.Descripcion,
		&a.FechaAgendada,
		&estado,
		&a.PiezaDental,
		&a.BoletaCodigo,
		&a.FechaCompletado,
		&a.Costo,
		&a.DuracionMinutos,
		&a.FechaCreacion,
		&a.FechaActualizacion,
	); err != nil {
		return nil, err
	}
	a.Tipo = TreatmentType(tipo)
	a.Estado = Status(estado)
	return &a, nil
}
