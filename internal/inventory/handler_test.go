package inventory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newInventoryRouter(t *testing.T) (http.Handler, pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)

	store := NewStoreWithDB(mock)
	h := NewHandler(store, nil)
	r := chi.NewRouter()
	r.Post("/inventory", h.Create)
	r.Get("/inventory", h.List)
	r.Get("/inventory/alerts", h.Alerts)
	r.Put("/inventory/{itemID}/quantity", h.UpdateQuantity)
	return r, mock, store
}

func TestHandlerAlertsFiltersGreen(t *testing.T) {
	router, mock, store := newInventoryRouter(t)
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	rows := pgxmock.NewRows([]string{
		"id", "nombre_material", "cantidad_actual", "unidad_medida", "fecha_vencimiento",
		"umbral_alerta_bajo", "fecha_creacion", "fecha_actualizacion",
	}).
		AddRow(uuid.NewString(), "Composite", 50, "jeringa", (*time.Time)(nil), 10, now, now).
		AddRow(uuid.NewString(), "Sutura", 2, "sobre", (*time.Time)(nil), 10, now, now)

	mock.ExpectQuery("SELECT (.+) FROM materiales").WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/inventory/alerts", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp struct {
		Items []Item `json:"items"`
		Count int    `json:"count"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected only the rojo item, got %d", resp.Count)
	}
	if resp.Items[0].NombreMaterial != "Sutura" {
		t.Errorf("expected Sutura, got %s", resp.Items[0].NombreMaterial)
	}
}

func TestHandlerCreateValidation(t *testing.T) {
	router, _, _ := newInventoryRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/inventory",
		strings.NewReader(`{"nombreMaterial":"","unidadMedida":"caja"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandlerUpdateQuantity(t *testing.T) {
	router, mock, _ := newInventoryRouter(t)
	id := uuid.NewString()

	mock.ExpectExec("UPDATE materiales").
		WithArgs(id, 7, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	req := httptest.NewRequest(http.MethodPut, "/inventory/"+id+"/quantity",
		strings.NewReader(`{"cantidadActual":7}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPut, "/inventory/"+id+"/quantity",
		strings.NewReader(`{"cantidadActual":-3}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative quantity, got %d", rr.Code)
	}
}
