package patients

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

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores patients in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const patientColumns = `id, numero_historia, nombres, apellidos, fecha_nacimiento, celular,
	COALESCE(email, ''), alergias, enfermedades_sistemicas, COALESCE(religion, ''),
	fecha_creacion, fecha_actualizacion`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	birth, _ := time.Parse("2006-01-02", req.FechaNacimiento)
	id := uuid.New()
	alergias := req.Alergias
	if alergias == nil {
		alergias = []string{}
	}
	enfermedades := req.EnfermedadesSistemicas
	if enfermedades == nil {
		enfermedades = []string{}
	}

	query := `
		INSERT INTO pacientes (id, numero_historia, nombres, apellidos, fecha_nacimiento, celular, email, alergias, enfermedades_sistemicas, religion)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, NULLIF($10, ''))
		RETURNING fecha_creacion, fecha_actualizacion
	`
	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.NumeroHistoria,
		req.Nombres,
		req.Apellidos,
		birth,
		req.Celular,
		req.Email,
		alergias,
		enfermedades,
		req.Religion,
	).Scan(&createdAt, &updatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateHistoryNumber
		}
		return nil, fmt.Errorf("patients: insert failed: %w", err)
	}

	return &Patient{
		ID:                     id.String(),
		NumeroHistoria:         req.NumeroHistoria,
		Nombres:                req.Nombres,
		Apellidos:              req.Apellidos,
		FechaNacimiento:        birth,
		Celular:                req.Celular,
		Email:                  req.Email,
		Alergias:               alergias,
		EnfermedadesSistemicas: enfermedades,
		Religion:               req.Religion,
		FechaCreacion:          createdAt,
		FechaActualizacion:     updatedAt,
		Edad:                   AgeAt(birth, time.Now().UTC()),
	}, nil
}

// GetByID fetches a patient by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM pacientes WHERE id = $1`
	p, err := scanPatient(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: select failed: %w", err)
	}
	return p, nil
}

// List returns patients ordered by apellidos, nombres.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Patient, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + patientColumns + ` FROM pacientes ORDER BY apellidos, nombres LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("patients: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("patients: scan failed: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("patients: rows failed: %w", err)
	}
	return out, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	if err := row.Scan(
		&p.ID,
		&p.NumeroHistoria,
		&p.Nombres,
		&p.Apellidos,
		&p.FechaNacimiento,
		&p.Celular,
		&p.Email,
		&p.Alergias,
		&p.EnfermedadesSistemicas,
		&p.Religion,
		&p.FechaCreacion,
		&p.FechaActualizacion,
	); err != nil {
		return nil, err
	}
	p.Edad = AgeAt(p.FechaNacimiento, time.Now().UTC())
	return &p, nil
}
