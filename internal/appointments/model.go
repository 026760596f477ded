package appointments

import (
	"time"
)

// TreatmentType is one of the eight fixed dental procedure categories.
type TreatmentType string

const (
	TypeProfilaxis     TreatmentType = "profilaxis"
	TypeRestauracion   TreatmentType = "restauracion"
	TypeCorona         TreatmentType = "corona"
	TypePuente         TreatmentType = "puente"
	TypeBlanqueamiento TreatmentType = "blanqueamiento"
	TypeEndodoncia     TreatmentType = "endodoncia"
	TypePPR            TreatmentType = "PPR"
	TypeOtro           TreatmentType = "otro"
)

// TreatmentTypes lists all categories in declaration order. The goals
// report preserves this order.
func TreatmentTypes() []TreatmentType {
	return []TreatmentType{
		TypeProfilaxis,
		TypeRestauracion,
		TypeCorona,
		TypePuente,
		TypeBlanqueamiento,
		TypeEndodoncia,
		TypePPR,
		TypeOtro,
	}
}

// IsValid reports whether t is a recognized category.
func (t TreatmentType) IsValid() bool {
	switch t {
	case TypeProfilaxis, TypeRestauracion, TypeCorona, TypePuente,
		TypeBlanqueamiento, TypeEndodoncia, TypePPR, TypeOtro:
		return true
	}
	return false
}

// Status is the lifecycle stage of an appointment.
type Status string

const (
	StatusPendiente  Status = "pendiente"
	StatusConfirmado Status = "confirmado"
	StatusCompletado Status = "completado"
	StatusCancelado  Status = "cancelado"
	StatusPospuesto  Status = "pospuesto"
)

// IsValid reports whether s is a recognized status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPendiente, StatusConfirmado, StatusCompletado, StatusCancelado, StatusPospuesto:
		return true
	}
	return false
}

// IsActive reports whether the status occupies its slot for conflict
// detection. Completed, cancelled and postponed appointments free theirs.
func (s Status) IsActive() bool {
	return s == StatusPendiente || s == StatusConfirmado
}

// Appointment represents one scheduled or completed procedure.
type Appointment struct {
	ID                 string        `json:"id"`
	PacienteID         string        `json:"pacienteId"`
	Tipo               TreatmentType `json:"tipo"`
	Descripcion        string        `json:"descripcion,omitempty"`
	FechaAgendada      time.Time     `json:"fechaAgendada"`
	Estado             Status        `json:"estado"`
	PiezaDental        string        `json:"piezaDental,omitempty"`
	BoletaCodigo       string        `json:"boletaCodigo,omitempty"`
	FechaCompletado    *time.Time    `json:"fechaCompletado,omitempty"`
	Costo              *float64      `json:"costo,omitempty"`
	DuracionMinutos    int           `json:"duracionMinutos"`
	FechaCreacion      time.Time     `json:"fechaCreacion"`
	FechaActualizacion time.Time     `json:"fechaActualizacion"`
}

// ScheduleRequest is the request body for booking an appointment.
type ScheduleRequest struct {
	PacienteID      string        `json:"pacienteId"`
	Tipo            TreatmentType `json:"tipo"`
	Fecha           string        `json:"fecha"` // YYYY-MM-DD
	Hora            string        `json:"hora"`  // HH:MM
	DuracionMinutos int           `json:"duracionMinutos"`
	PiezaDental     string        `json:"piezaDental"`
	Descripcion     string        `json:"descripcion"`
	Costo           *float64      `json:"costo"`
}
