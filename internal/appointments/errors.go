package appointments

import "errors"

var (
	// ErrMissingPatient is returned when pacienteId is empty or unknown.
	ErrMissingPatient = errors.New("paciente is required")

	// ErrUnknownTreatmentType is returned for a tipo outside the eight categories.
	ErrUnknownTreatmentType = errors.New("unknown treatment type")

	// ErrInvalidSchedule is returned when fecha/hora is missing or malformed.
	ErrInvalidSchedule = errors.New("fecha and hora must be YYYY-MM-DD and HH:MM")

	// ErrPastSchedule is returned when the combined timestamp is not strictly in the future.
	ErrPastSchedule = errors.New("appointment must be scheduled in the future")

	// ErrDateNotOfferable is returned for weekends or dates beyond the booking horizon.
	ErrDateNotOfferable = errors.New("date is not offerable")

	// ErrInvalidDuration is returned when duration is outside [15, 240] minutes.
	ErrInvalidDuration = errors.New("duration must be between 15 and 240 minutes")

	// ErrInvalidStatus is returned for a status outside the five recognized values.
	ErrInvalidStatus = errors.New("unknown appointment status")

	// ErrSlotConflict is returned when the requested slot is occupied at submit time.
	ErrSlotConflict = errors.New("time slot already occupied")

	// ErrAppointmentNotFound is returned when an appointment is not found.
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// IsValidationError reports whether err is one of the request-shaped
// failures that should surface as a 400 rather than a conflict or a
// store problem.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingPatient) ||
		errors.Is(err, ErrUnknownTreatmentType) ||
		errors.Is(err, ErrInvalidSchedule) ||
		errors.Is(err, ErrPastSchedule) ||
		errors.Is(err, ErrDateNotOfferable) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidStatus)
}
