// Package billing surfaces completed-but-unbilled appointments and
// records boleta codes against them. It is a read filter plus one field
// write, not a state machine.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrEmptyBillingCode is returned when the boleta code is blank.
	ErrEmptyBillingCode = errors.New("boleta code is required")

	// ErrBillNotFound is returned when no matching appointment exists.
	ErrBillNotFound = errors.New("pending bill not found")
)

// PendingBill is a completed appointment lacking a boleta code, joined
// with the patient identity the cashier needs.
type PendingBill struct {
	ID              string     `json:"id"`
	PacienteID      string     `json:"pacienteId"`
	NumeroHistoria  string     `json:"numeroHistoria"`
	PacienteNombre  string     `json:"pacienteNombre"`
	Tipo            string     `json:"tipo"`
	Descripcion     string     `json:"descripcion,omitempty"`
	FechaCompletado *time.Time `json:"fechaCompletado,omitempty"`
	Costo           *float64   `json:"costo,omitempty"`
}

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store queries and resolves pending bills.
type Store struct {
	db DB
}

// NewStore creates a store backed by pgxpool.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("billing: pgx pool required")
	}
	return &Store{db: pool}
}

// NewStoreWithDB allows injecting a mock database for testing.
func NewStoreWithDB(db DB) *Store {
	return &Store{db: db}
}

// ListPending selects appointments with estado completado and no boleta
// code, most recently completed first.
func (s *Store) ListPending(ctx context.Context) ([]PendingBill, error) {
	rows, err := s.db.Query(ctx, `
		SELECT t.id, t.paciente_id, p.numero_historia, p.nombres || ' ' || p.apellidos,
			t.tipo, COALESCE(t.descripcion, ''), t.fecha_completado, t.costo
		FROM tratamientos t
		JOIN pacientes p ON p.id = t.paciente_id
		WHERE t.estado = 'completado' AND t.boleta_codigo IS NULL
		ORDER BY t.fecha_completado DESC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("billing: list pending: %w", err)
	}
	defer rows.Close()

	var out []PendingBill
	for rows.Next() {
		var b PendingBill
		if err := rows.Scan(
			&b.ID,
			&b.PacienteID,
			&b.NumeroHistoria,
			&b.PacienteNombre,
			&b.Tipo,
			&b.Descripcion,
			&b.FechaCompletado,
			&b.Costo,
		); err != nil {
			return nil, fmt.Errorf("billing: scan pending: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("billing: rows: %w", err)
	}
	return out, nil
}

// AssignCode records the boleta code on a completed appointment. The
// only validation is non-emptiness; resolution removes the row from the
// pending selection.
func (s *Store) AssignCode(ctx context.Context, id, codigo string) error {
	if strings.TrimSpace(codigo) == "" {
		return ErrEmptyBillingCode
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE tratamientos
		SET boleta_codigo = $2, fecha_actualizacion = $3
		WHERE id = $1 AND estado = 'completado'`,
		id, codigo, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("billing: assign code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBillNotFound
	}
	return nil
}
