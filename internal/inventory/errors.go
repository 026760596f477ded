package inventory

import "errors"

var (
	// ErrMissingMaterialName is returned when nombre_material is empty.
	ErrMissingMaterialName = errors.New("nombre de material is required")

	// ErrMissingUnit is returned when unidad_medida is empty.
	ErrMissingUnit = errors.New("unidad de medida is required")

	// ErrNegativeQuantity is returned for negative stock or threshold values.
	ErrNegativeQuantity = errors.New("quantities must not be negative")

	// ErrInvalidExpiry is returned when fecha_vencimiento is malformed.
	ErrInvalidExpiry = errors.New("fecha de vencimiento must be YYYY-MM-DD")

	// ErrItemNotFound is returned when a material is not found.
	ErrItemNotFound = errors.New("material not found")
)
