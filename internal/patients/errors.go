package patients

import "errors"

var (
	// ErrMissingHistoryNumber is returned when numero_historia is empty.
	ErrMissingHistoryNumber = errors.New("numero de historia is required")

	// ErrMissingName is returned when nombres or apellidos is empty.
	ErrMissingName = errors.New("nombres and apellidos are required")

	// ErrInvalidBirthDate is returned when fecha_nacimiento is missing or malformed.
	ErrInvalidBirthDate = errors.New("fecha de nacimiento must be YYYY-MM-DD")

	// ErrMissingPhone is returned when celular is empty.
	ErrMissingPhone = errors.New("celular is required")

	// ErrDuplicateHistoryNumber is returned when numero_historia is already taken.
	ErrDuplicateHistoryNumber = errors.New("numero de historia already exists")

	// ErrPatientNotFound is returned when a patient is not found.
	ErrPatientNotFound = errors.New("patient not found")
)
