package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un platillo o producto del inventario del restaurante.
// Stock solo cambia vía movimientos (Movement); OpeningStock es el stock con el que se creó.
type Product struct {
	ID           string
	Name         string // único
	Description  string
	Price        decimal.Decimal // >= 0
	Stock        int64           // >= 0
	OpeningStock int64
	Category     Category
	ImageURL     string
	IsActive     bool
	CreatedByID  string
	CreatedBy    *UserRef // resuelto en lecturas; nil si no se cargó
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DeletePolicy decide qué hacer al borrar un producto que tiene movimientos.
type DeletePolicy string

const (
	// DeletePolicyDeactivate marca isActive=false y conserva el historial.
	DeletePolicyDeactivate DeletePolicy = "deactivate"
	// DeletePolicyReject rechaza el borrado con REFERENTIAL_CONFLICT.
	DeletePolicyReject DeletePolicy = "reject"
)
