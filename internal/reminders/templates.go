package reminders

import (
	"fmt"
	"time"
)

// ReminderTemplate generates the day-before reminder text.
func ReminderTemplate(patientName, tipo string, fechaAgendada time.Time) string {
	name := patientName
	if name == "" {
		name = "paciente"
	}
	return fmt.Sprintf(
		"Hola %s, le recordamos su cita de %s el %s a las %s. Responda SI para confirmar o NO para reprogramar.",
		name, tipo,
		fechaAgendada.Format("02/01/2006"),
		fechaAgendada.Format("15:04"),
	)
}

// ConfirmationTemplate generates the booking confirmation text sent
// right after an appointment is scheduled.
func ConfirmationTemplate(patientName, tipo string, fechaAgendada time.Time) string {
	name := patientName
	if name == "" {
		name = "paciente"
	}
	return fmt.Sprintf(
		"Hola %s, su cita de %s quedó agendada para el %s a las %s. ¡Le esperamos!",
		name, tipo,
		fechaAgendada.Format("02/01/2006"),
		fechaAgendada.Format("15:04"),
	)
}
