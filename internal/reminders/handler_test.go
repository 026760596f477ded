package reminders

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newRemindersRouter(t *testing.T) (http.Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)

	h := NewHandler(NewStore(mock), nil)
	r := chi.NewRouter()
	r.Post("/reminders", h.Create)
	r.Get("/reminders/due", h.ListDue)
	r.Patch("/reminders/{messageID}", h.Update)
	return r, mock
}

func TestHandlerCreate(t *testing.T) {
	router, mock := newRemindersRouter(t)
	pacienteID := uuid.New()

	mock.ExpectExec("INSERT INTO mensajes_whatsapp").
		WithArgs(pgxmock.AnyArg(), pacienteID, (*uuid.UUID)(nil), "confirmacion",
			"Su cita quedó agendada", pgxmock.AnyArg(), "pendiente",
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	body := `{"pacienteId":"` + pacienteID.String() + `","tipoMensaje":"confirmacion","contenido":"Su cita quedó agendada"}`
	req := httptest.NewRequest(http.MethodPost, "/reminders", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandlerCreateValidation(t *testing.T) {
	router, _ := newRemindersRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad uuid", `{"pacienteId":"nope","tipoMensaje":"confirmacion","contenido":"x"}`},
		{"unknown type", `{"pacienteId":"` + uuid.NewString() + `","tipoMensaje":"sms","contenido":"x"}`},
		{"empty content", `{"pacienteId":"` + uuid.NewString() + `","tipoMensaje":"confirmacion","contenido":""}`},
		{"bad schedule", `{"pacienteId":"` + uuid.NewString() + `","tipoMensaje":"confirmacion","contenido":"x","fechaProgramada":"mañana"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/reminders", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestHandlerUpdateLifecycle(t *testing.T) {
	router, mock := newRemindersRouter(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE mensajes_whatsapp SET estado_envio = 'enviado'").
		WithArgs(pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	req := httptest.NewRequest(http.MethodPatch, "/reminders/"+id.String(),
		strings.NewReader(`{"estadoEnvio":"enviado"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rr.Code, rr.Body.String())
	}

	// Lifecycle writes the handler does not know about are rejected.
	req = httptest.NewRequest(http.MethodPatch, "/reminders/"+id.String(),
		strings.NewReader(`{"estadoEnvio":"leido"}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandlerUpdateNotFound(t *testing.T) {
	router, mock := newRemindersRouter(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE mensajes_whatsapp SET estado_envio = 'recibido'").
		WithArgs("NO", pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	req := httptest.NewRequest(http.MethodPatch, "/reminders/"+id.String(),
		strings.NewReader(`{"estadoEnvio":"recibido","contenido":"NO"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
