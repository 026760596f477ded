package patients

import (
	"strings"
	"time"
)

// Patient represents a clinical record holder. Edad is derived from
// FechaNacimiento at read time and never stored.
type Patient struct {
	ID                     string    `json:"id"`
	NumeroHistoria         string    `json:"numeroHistoria"`
	Nombres                string    `json:"nombres"`
	Apellidos              string    `json:"apellidos"`
	FechaNacimiento        time.Time `json:"fechaNacimiento"`
	Celular                string    `json:"celular"`
	Email                  string    `json:"email,omitempty"`
	Alergias               []string  `json:"alergias"`
	EnfermedadesSistemicas []string  `json:"enfermedadesSistemicas"`
	Religion               string    `json:"religion,omitempty"`
	FechaCreacion          time.Time `json:"fechaCreacion"`
	FechaActualizacion     time.Time `json:"fechaActualizacion"`
	Edad                   int       `json:"edad"`
}

// CreatePatientRequest is the request body for creating a patient.
type CreatePatientRequest struct {
	NumeroHistoria         string   `json:"numeroHistoria"`
	Nombres                string   `json:"nombres"`
	Apellidos              string   `json:"apellidos"`
	FechaNacimiento        string   `json:"fechaNacimiento"` // YYYY-MM-DD
	Celular                string   `json:"celular"`
	Email                  string   `json:"email"`
	Alergias               []string `json:"alergias"`
	EnfermedadesSistemicas []string `json:"enfermedadesSistemicas"`
	Religion               string   `json:"religion"`
}

// Validate checks the required fields.
func (r *CreatePatientRequest) Validate() error {
	if strings.TrimSpace(r.NumeroHistoria) == "" {
		return ErrMissingHistoryNumber
	}
	if strings.TrimSpace(r.Nombres) == "" || strings.TrimSpace(r.Apellidos) == "" {
		return ErrMissingName
	}
	if _, err := time.Parse("2006-01-02", r.FechaNacimiento); err != nil {
		return ErrInvalidBirthDate
	}
	if strings.TrimSpace(r.Celular) == "" {
		return ErrMissingPhone
	}
	return nil
}

// AgeAt returns whole years elapsed between birth and now.
func AgeAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
