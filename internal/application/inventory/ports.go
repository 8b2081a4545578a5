package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback de todas las escrituras.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		userRepo repository.UserRepository,
	) error) error
}

// KardexReport datos de entrada del reporte PDF de un producto.
type KardexReport struct {
	Product     *entity.Product
	Lines       []inventory.KardexLine
	Balance     inventory.Balance
	GeneratedAt time.Time
}

// ReportGenerator genera el kardex en PDF (implementado en infrastructure/pdf).
type ReportGenerator interface {
	GenerateKardexPDF(ctx context.Context, report KardexReport) ([]byte, error)
}
