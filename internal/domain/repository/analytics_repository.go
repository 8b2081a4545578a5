package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// MovementStats agregado de movimientos en un período.
type MovementStats struct {
	Count int
	// SalidaValue es Σ(cantidad SALIDA × precio actual del producto); es una estimación.
	SalidaValue decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura del dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	CountActiveProducts(ctx context.Context) (int, error)
	CountUsers(ctx context.Context) (int, error)
	GetMovementStats(ctx context.Context, from, to time.Time) (MovementStats, error)
	// GetLowStock devuelve productos activos con stock < threshold, ascendente por stock.
	// Limit 0 = sin límite.
	GetLowStock(ctx context.Context, threshold int64, limit int) ([]*entity.Product, error)
	// GetUnitsSold suma la cantidad de SALIDA por producto en el período.
	GetUnitsSold(ctx context.Context, from, to time.Time) (map[string]int64, error)
}
