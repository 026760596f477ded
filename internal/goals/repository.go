package goals

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicasonrisa/dashboard-api/internal/appointments"
)

// CompletedCounter supplies per-category counts of completed
// appointments since a period start.
type CompletedCounter interface {
	CountCompletedByType(ctx context.Context, since time.Time) (map[appointments.TreatmentType]int, error)
}

// goalsDB defines the database interface needed by PostgresRepository.
type goalsDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository counts completed treatments from the database.
type PostgresRepository struct {
	db goalsDB
}

// NewPostgresRepository creates a repository backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("goals: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db goalsDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CountCompletedByType groups completed appointments since the period
// start by category.
func (r *PostgresRepository) CountCompletedByType(ctx context.Context, since time.Time) (map[appointments.TreatmentType]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT tipo, COUNT(*)
		FROM tratamientos
		WHERE estado = 'completado' AND fecha_completado >= $1
		GROUP BY tipo`, since)
	if err != nil {
		return nil, fmt.Errorf("goals: count completed: %w", err)
	}
	defer rows.Close()

	counts := make(map[appointments.TreatmentType]int)
	for rows.Next() {
		var tipo string
		var count int
		if err := rows.Scan(&tipo, &count); err != nil {
			return nil, fmt.Errorf("goals: scan count: %w", err)
		}
		counts[appointments.TreatmentType(tipo)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("goals: rows: %w", err)
	}
	return counts, nil
}
