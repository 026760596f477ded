package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists materials in the materiales table.
type Store struct {
	db  DB
	now func() time.Time
}

// NewStore creates a store backed by pgxpool.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("inventory: pgx pool required")
	}
	return &Store{db: pool, now: time.Now}
}

// NewStoreWithDB allows injecting a mock database for testing.
func NewStoreWithDB(db DB) *Store {
	return &Store{db: db, now: time.Now}
}

const itemColumns = `id, nombre_material, cantidad_actual, unidad_medida, fecha_vencimiento,
	umbral_alerta_bajo, fecha_creacion, fecha_actualizacion`

// Create inserts a new material row.
func (s *Store) Create(ctx context.Context, req *CreateItemRequest) (*Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	var vencimiento *time.Time
	if req.FechaVencimiento != "" {
		v, _ := time.Parse("2006-01-02", req.FechaVencimiento)
		vencimiento = &v
	}

	var createdAt, updatedAt time.Time
	if err := s.db.QueryRow(ctx, `
		INSERT INTO materiales (id, nombre_material, cantidad_actual, unidad_medida, fecha_vencimiento, umbral_alerta_bajo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING fecha_creacion, fecha_actualizacion`,
		id, req.NombreMaterial, req.CantidadActual, req.UnidadMedida, vencimiento, req.UmbralAlertaBajo,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("inventory: insert: %w", err)
	}

	now := s.now().UTC()
	return &Item{
		ID:                 id.String(),
		NombreMaterial:     req.NombreMaterial,
		CantidadActual:     req.CantidadActual,
		UnidadMedida:       req.UnidadMedida,
		FechaVencimiento:   vencimiento,
		UmbralAlertaBajo:   req.UmbralAlertaBajo,
		EstadoAlerta:       AlertFor(req.CantidadActual, req.UmbralAlertaBajo, vencimiento, now),
		FechaCreacion:      createdAt,
		FechaActualizacion: updatedAt,
	}, nil
}

// List returns all materials ordered by name, with derived alert levels.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+itemColumns+`
		FROM materiales
		ORDER BY nombre_material ASC`)
	if err != nil {
		return nil, fmt.Errorf("inventory: list: %w", err)
	}
	defer rows.Close()
	return s.collect(rows)
}

// UpdateQuantity sets the current stock of a material.
func (s *Store) UpdateQuantity(ctx context.Context, id string, cantidad int) error {
	if cantidad < 0 {
		return ErrNegativeQuantity
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE materiales SET cantidad_actual = $2, fecha_actualizacion = $3
		WHERE id = $1`, id, cantidad, s.now().UTC())
	if err != nil {
		return fmt.Errorf("inventory: update quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *Store) collect(rows pgx.Rows) ([]Item, error) {
	now := s.now().UTC()
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID,
			&it.NombreMaterial,
			&it.CantidadActual,
			&it.UnidadMedida,
			&it.FechaVencimiento,
			&it.UmbralAlertaBajo,
			&it.FechaCreacion,
			&it.FechaActualizacion,
		); err != nil {
			return nil, fmt.Errorf("inventory: scan: %w", err)
		}
		it.EstadoAlerta = AlertFor(it.CantidadActual, it.UmbralAlertaBajo, it.FechaVencimiento, now)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory: rows: %w", err)
	}
	return out, nil
}
