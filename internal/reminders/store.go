package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrMessageNotFound is returned when no message row matches.
var ErrMessageNotFound = errors.New("message not found")

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides CRUD operations for mensajes_whatsapp.
type Store struct {
	db DB
}

// NewStore creates a new reminders store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const messageColumns = `id, paciente_id, tratamiento_id, tipo_mensaje, contenido_enviado,
	COALESCE(contenido_recibido, ''), fecha_programada, fecha_envio, fecha_recepcion,
	estado_envio, COALESCE(error_detalle, ''), fecha_creacion, fecha_actualizacion`

// Create inserts a new message row.
func (s *Store) Create(ctx context.Context, m *Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now().UTC()
	m.FechaCreacion = now
	m.FechaActualizacion = now
	if m.EstadoEnvio == "" {
		m.EstadoEnvio = StatusPendiente
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO mensajes_whatsapp (id, paciente_id, tratamiento_id, tipo_mensaje, contenido_enviado, fecha_programada, estado_envio, fecha_creacion, fecha_actualizacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.PacienteID, m.TratamientoID, string(m.TipoMensaje), m.ContenidoEnviado,
		m.FechaProgramada, string(m.EstadoEnvio), m.FechaCreacion, m.FechaActualizacion,
	)
	if err != nil {
		return fmt.Errorf("reminders: create message: %w", err)
	}
	return nil
}

// ListDue returns all pendiente messages whose fecha_programada is on or
// before the given time.
func (s *Store) ListDue(ctx context.Context, asOf time.Time) ([]Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+messageColumns+`
		FROM mensajes_whatsapp
		WHERE estado_envio = 'pendiente' AND fecha_programada <= $1
		ORDER BY fecha_programada ASC`, asOf)
	if err != nil {
		return nil, fmt.Errorf("reminders: list due: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// ListByPatient returns a patient's message history, newest first.
func (s *Store) ListByPatient(ctx context.Context, pacienteID uuid.UUID, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+messageColumns+`
		FROM mensajes_whatsapp
		WHERE paciente_id = $1
		ORDER BY fecha_creacion DESC LIMIT $2`, pacienteID, limit)
	if err != nil {
		return nil, fmt.Errorf("reminders: list by patient: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// MarkSent transitions a message pendiente → enviado.
func (s *Store) MarkSent(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE mensajes_whatsapp SET estado_envio = 'enviado', fecha_envio = $1, fecha_actualizacion = $1
		WHERE id = $2 AND estado_envio = 'pendiente'`, now, id)
	if err != nil {
		return fmt.Errorf("reminders: mark sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// MarkFailed transitions a message pendiente → fallido with the error detail.
func (s *Store) MarkFailed(ctx context.Context, id uuid.UUID, detalle string) error {
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE mensajes_whatsapp SET estado_envio = 'fallido', error_detalle = $1, fecha_actualizacion = $2
		WHERE id = $3 AND estado_envio = 'pendiente'`, detalle, now, id)
	if err != nil {
		return fmt.Errorf("reminders: mark failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// RecordReply stores a patient reply against a sent message and marks it
// recibido.
func (s *Store) RecordReply(ctx context.Context, id uuid.UUID, contenido string) error {
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE mensajes_whatsapp SET estado_envio = 'recibido', contenido_recibido = $1, fecha_recepcion = $2, fecha_actualizacion = $2
		WHERE id = $3 AND estado_envio IN ('enviado', 'leido')`, contenido, now, id)
	if err != nil {
		return fmt.Errorf("reminders: record reply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func scanMessages(rows pgx.Rows) ([]Message, error) {
	var result []Message
	for rows.Next() {
		var m Message
		var tipo, estado string
		if err := rows.Scan(
			&m.ID, &m.PacienteID, &m.TratamientoID, &tipo, &m.ContenidoEnviado,
			&m.ContenidoRecibido, &m.FechaProgramada, &m.FechaEnvio, &m.FechaRecepcion,
			&estado, &m.ErrorDetalle, &m.FechaCreacion, &m.FechaActualizacion,
		); err != nil {
			return nil, fmt.Errorf("reminders: scan message: %w", err)
		}
		m.TipoMensaje = MessageType(tipo)
		m.EstadoEnvio = SendStatus(estado)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reminders: rows: %w", err)
	}
	return result, nil
}
