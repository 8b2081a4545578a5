package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/movements.
// ExecutedByID es opcional: si falta se usa el usuario del token.
type RegisterMovementRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	Type         string `json:"type" validate:"required,oneof=ENTRADA SALIDA"`
	Quantity     int64  `json:"quantity" validate:"gt=0"`
	ExecutedByID string `json:"executed_by_id" validate:"omitempty"`
}

// MovementFilterRequest query de GET /api/movements. From/To en RFC 3339 o YYYY-MM-DD.
type MovementFilterRequest struct {
	ProductID string `query:"product_id"`
	From      string `query:"from"`
	To        string `query:"to"`
	Limit     int    `query:"limit" validate:"min=0,max=500"`
	Offset    int    `query:"offset" validate:"min=0"`
}

// MovementResponse salida de un movimiento con nombre de producto e identidad del ejecutor.
type MovementResponse struct {
	ID           string           `json:"id"`
	Type         string           `json:"type"`
	Quantity     int64            `json:"quantity"`
	ProductID    string           `json:"product_id"`
	ProductName  string           `json:"product_name"`
	ExecutedByID string           `json:"executed_by_id"`
	ExecutedBy   *UserRefResponse `json:"executed_by,omitempty"`
	Date         time.Time        `json:"date"`
}

// LedgerCheckResponse conciliación del libro de un producto.
type LedgerCheckResponse struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	OpeningStock  int64  `json:"opening_stock"`
	TotalEntradas int64  `json:"total_entradas"`
	TotalSalidas  int64  `json:"total_salidas"`
	ExpectedStock int64  `json:"expected_stock"`
	ActualStock   int64  `json:"actual_stock"`
	Consistent    bool   `json:"consistent"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto bajo el umbral de stock.
type ReplenishmentSuggestionDTO struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Category          string          `json:"category"`
	CurrentStock      int64           `json:"current_stock"`
	Threshold         int64           `json:"threshold"`
	IdealStock        int64           `json:"ideal_stock"`        // umbral × 1.5
	SuggestedQuantity int64           `json:"suggested_quantity"` // IdealStock - CurrentStock
	UnitsSoldLast30d  int64           `json:"units_sold_last_30d"`
	RevenueAtRisk     decimal.Decimal `json:"revenue_at_risk"` // SuggestedQuantity × precio
	Priority          int             `json:"priority"`        // 1 = más urgente
}
