package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
)

// MovementFilter filtros del listado de movimientos. Limit 0 = sin límite.
type MovementFilter struct {
	ProductID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
	Ascending bool // por defecto fecha descendente
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// No existe Update ni Delete: el libro es de solo inserción.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// List incluye el nombre del producto y la identidad del ejecutor.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
	// SumByProduct devuelve el total de entradas y salidas del producto (Opening queda en 0).
	SumByProduct(ctx context.Context, productID string) (inventory.Balance, error)
}
