package entity

import "time"

// MovementType tipo de movimiento de inventario.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada MovementType = "ENTRADA" // aumenta stock
	MovementTypeSalida  MovementType = "SALIDA"  // disminuye stock
)

// Valid indica si el tipo es ENTRADA o SALIDA.
func (t MovementType) Valid() bool {
	return t == MovementTypeEntrada || t == MovementTypeSalida
}

// Movement es un registro del libro de inventario. Solo se crea; nunca se modifica ni se borra.
type Movement struct {
	ID           string
	Type         MovementType
	Quantity     int64 // siempre positivo; el signo lo da Type
	ProductID    string
	ExecutedByID string
	Date         time.Time

	// Resueltos en lecturas
	ProductName string
	ExecutedBy  *UserRef
}
