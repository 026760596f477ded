// Package inventory tracks consumable dental materials and derives a
// traffic-light alert level from stock against a low threshold and the
// expiry date.
package inventory

import (
	"strings"
	"time"
)

// AlertLevel is the traffic-light state of a material.
type AlertLevel string

const (
	AlertVerde    AlertLevel = "verde"
	AlertAmarillo AlertLevel = "amarillo"
	AlertRojo     AlertLevel = "rojo"
)

// expiryWarning is how close to the expiry date a material turns amarillo.
const expiryWarning = 30 * 24 * time.Hour

// Item represents one material. EstadoAlerta is derived, never stored.
type Item struct {
	ID                 string     `json:"id"`
	NombreMaterial     string     `json:"nombreMaterial"`
	CantidadActual     int        `json:"cantidadActual"`
	UnidadMedida       string     `json:"unidadMedida"`
	FechaVencimiento   *time.Time `json:"fechaVencimiento,omitempty"`
	UmbralAlertaBajo   int        `json:"umbralAlertaBajo"`
	EstadoAlerta       AlertLevel `json:"estadoAlerta"`
	FechaCreacion      time.Time  `json:"fechaCreacion"`
	FechaActualizacion time.Time  `json:"fechaActualizacion"`
}

// AlertFor derives the alert level as of now: rojo when the stock sits
// at or below the threshold or the material is expired, amarillo when
// stock is within twice the threshold or expiry is under 30 days away,
// verde otherwise.
func AlertFor(cantidad, umbral int, vencimiento *time.Time, now time.Time) AlertLevel {
	if vencimiento != nil && !vencimiento.After(now) {
		return AlertRojo
	}
	if cantidad <= umbral {
		return AlertRojo
	}
	if vencimiento != nil && vencimiento.Sub(now) <= expiryWarning {
		return AlertAmarillo
	}
	if cantidad <= umbral*2 {
		return AlertAmarillo
	}
	return AlertVerde
}

// CreateItemRequest is the request body for registering a material.
type CreateItemRequest struct {
	NombreMaterial   string `json:"nombreMaterial"`
	CantidadActual   int    `json:"cantidadActual"`
	UnidadMedida     string `json:"unidadMedida"`
	FechaVencimiento string `json:"fechaVencimiento"` // YYYY-MM-DD, optional
	UmbralAlertaBajo int    `json:"umbralAlertaBajo"`
}

// Validate checks the required fields.
func (r *CreateItemRequest) Validate() error {
	if strings.TrimSpace(r.NombreMaterial) == "" {
		return ErrMissingMaterialName
	}
	if strings.TrimSpace(r.UnidadMedida) == "" {
		return ErrMissingUnit
	}
	if r.CantidadActual < 0 || r.UmbralAlertaBajo < 0 {
		return ErrNegativeQuantity
	}
	if r.FechaVencimiento != "" {
		if _, err := time.Parse("2006-01-02", r.FechaVencimiento); err != nil {
			return ErrInvalidExpiry
		}
	}
	return nil
}
