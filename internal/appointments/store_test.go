package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var apptRowColumns = []string{
	"id", "paciente_id", "tipo", "descripcion", "fecha_agendada", "estado",
	"pieza_dental", "boleta_codigo", "fecha_completado", "costo",
	"duracion_minutos", "fecha_creacion", "fecha_actualizacion",
}

func apptRow(id string, at time.Time, estado string) *pgxmock.Rows {
	now := time.Now().UTC()
	return pgxmock.NewRows(apptRowColumns).
		AddRow(id, "pac-1", "profilaxis", "", at, estado, "", "", (*time.Time)(nil), (*float64)(nil), 60, now, now)
}

func TestPostgresStoreInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewPostgresStoreWithDB(mock)
	at := time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO tratamientos").
		WithArgs(pgxmock.AnyArg(), "pac-1", "profilaxis", "", at, "pendiente", "",
			(*float64)(nil), 60, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	appt := &Appointment{
		PacienteID:      "pac-1",
		Tipo:            TypeProfilaxis,
		FechaAgendada:   at,
		Estado:          StatusPendiente,
		DuracionMinutos: 60,
	}
	if err := store.Insert(context.Background(), appt); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if appt.ID == "" {
		t.Fatal("expected insert to assign an id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStoreListActiveByDay(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewPostgresStoreWithDB(mock)
	day := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
	at := day.Add(10 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM tratamientos").
		WithArgs(day, day.AddDate(0, 0, 1)).
		WillReturnRows(apptRow(uuid.New().String(), at, "confirmado"))

	appts, err := store.ListActiveByDay(context.Background(), day)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(appts))
	}
	if appts[0].Estado != StatusConfirmado {
		t.Errorf("expected estado confirmado, got %s", appts[0].Estado)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStoreGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewPostgresStoreWithDB(mock)

	mock.ExpectQuery("SELECT (.+) FROM tratamientos WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(apptRowColumns))

	if _, err := store.GetByID(context.Background(), "missing"); err != ErrAppointmentNotFound {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestPostgresStoreUpdateStatusStampsCompletion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewPostgresStoreWithDB(mock)
	id := uuid.New().String()
	completedAt := time.Date(2025, 3, 13, 11, 0, 0, 0, time.UTC)
	at := completedAt.Add(-time.Hour)

	mock.ExpectQuery("UPDATE tratamientos").
		WithArgs(id, "completado", completedAt, pgxmock.AnyArg()).
		WillReturnRows(apptRow(id, at, "completado"))

	appt, err := store.UpdateStatus(context.Background(), id, StatusCompletado, &completedAt)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if appt.Estado != StatusCompletado {
		t.Errorf("expected estado completado, got %s", appt.Estado)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStoreUpdateStatusWithoutCompletion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewPostgresStoreWithDB(mock)
	id := uuid.New().String()
	at := time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("UPDATE tratamientos").
		WithArgs(id, "cancelado", pgxmock.AnyArg()).
		WillReturnRows(apptRow(id, at, "cancelado"))

	appt, err := store.UpdateStatus(context.Background(), id, StatusCancelado, nil)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if appt.FechaCompletado != nil {
		t.Error("cancellation must not stamp fecha_completado")
	}
}
