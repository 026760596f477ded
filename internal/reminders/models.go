// Package reminders tracks WhatsApp outreach rows for upcoming
// appointments: confirmation requests and day-before reminders. Delivery
// itself happens outside this service; this layer owns the rows and
// their send lifecycle.
package reminders

import (
	"time"

	"github.com/google/uuid"
)

// MessageType classifies an outreach row.
type MessageType string

const (
	TypeRecordatorio        MessageType = "recordatorio"
	TypeConfirmacion        MessageType = "confirmacion"
	TypeRespuestaPaciente   MessageType = "respuestaPaciente"
	TypeNotificacionInterna MessageType = "notificacionInterna"
)

// IsValid reports whether t is a recognized message type.
func (t MessageType) IsValid() bool {
	switch t {
	case TypeRecordatorio, TypeConfirmacion, TypeRespuestaPaciente, TypeNotificacionInterna:
		return true
	}
	return false
}

// SendStatus tracks the delivery lifecycle of a message row.
type SendStatus string

const (
	StatusPendiente SendStatus = "pendiente"
	StatusEnviado   SendStatus = "enviado"
	StatusFallido   SendStatus = "fallido"
	StatusRecibido  SendStatus = "recibido"
	StatusLeido     SendStatus = "leido"
)

// Message represents one WhatsApp message row.
type Message struct {
	ID                 uuid.UUID   `json:"id"`
	PacienteID         uuid.UUID   `json:"pacienteId"`
	TratamientoID      *uuid.UUID  `json:"tratamientoId,omitempty"`
	TipoMensaje        MessageType `json:"tipoMensaje"`
	ContenidoEnviado   string      `json:"contenidoEnviado"`
	ContenidoRecibido  string      `json:"contenidoRecibido,omitempty"`
	FechaProgramada    time.Time   `json:"fechaProgramada"`
	FechaEnvio         *time.Time  `json:"fechaEnvio,omitempty"`
	FechaRecepcion     *time.Time  `json:"fechaRecepcion,omitempty"`
	EstadoEnvio        SendStatus  `json:"estadoEnvio"`
	ErrorDetalle       string      `json:"errorDetalle,omitempty"`
	FechaCreacion      time.Time   `json:"fechaCreacion"`
	FechaActualizacion time.Time   `json:"fechaActualizacion"`
}

// ReminderLeadTime is how long before the appointment the day-before
// reminder is scheduled.
const ReminderLeadTime = 24 * time.Hour

// ScheduleFor computes when a reminder for an appointment should go out.
func ScheduleFor(fechaAgendada time.Time) time.Time {
	return fechaAgendada.Add(-ReminderLeadTime)
}
