package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// CreatedByID es opcional: si falta se usa el usuario del token. Price y Stock
// son punteros para distinguir "ausente" de cero.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description string           `json:"description" validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price" validate:"required,min=0"`
	Stock       *int64           `json:"stock" validate:"required,min=0"`
	Category    string           `json:"category" validate:"required,oneof=DESAYUNO ALMUERZO CENA BEBIDA POSTRE"`
	ImageURL    string           `json:"image_url" validate:"omitempty,max=500"`
	CreatedByID string           `json:"created_by_id" validate:"omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto. Los campos nil no se tocan.
// Un Stock distinto al actual se registra como movimiento de ajuste.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,min=0"`
	Stock       *int64           `json:"stock" validate:"omitempty,min=0"`
	Category    *string          `json:"category" validate:"omitempty,oneof=DESAYUNO ALMUERZO CENA BEBIDA POSTRE"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,max=500"`
	IsActive    *bool            `json:"is_active"`
}

// ProductFilterRequest query de GET /api/products.
type ProductFilterRequest struct {
	Category   string `query:"category" validate:"omitempty,oneof=DESAYUNO ALMUERZO CENA BEBIDA POSTRE"`
	ActiveOnly bool   `query:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	Stock        int64            `json:"stock"`
	OpeningStock int64            `json:"opening_stock"`
	Category     string           `json:"category"`
	ImageURL     string           `json:"image_url"`
	IsActive     bool             `json:"is_active"`
	CreatedByID  string           `json:"created_by_id"`
	CreatedBy    *UserRefResponse `json:"created_by,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// DeleteProductResponse resultado de DELETE /api/products/:id.
// Result es "deleted" (borrado físico) o "deactivated" (tenía movimientos).
type DeleteProductResponse struct {
	ID      string `json:"id"`
	Result  string `json:"result"`
	Message string `json:"message"`
}

// Resultados posibles de DeleteProductResponse.
const (
	DeleteResultDeleted     = "deleted"
	DeleteResultDeactivated = "deactivated"
)

// MenuItemResponse producto tal como se muestra en el menú público.
type MenuItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Available   bool            `json:"available"` // stock > 0
}

// MenuSectionResponse una categoría del menú con sus productos activos.
type MenuSectionResponse struct {
	Category string             `json:"category"`
	Items    []MenuItemResponse `json:"items"`
}
