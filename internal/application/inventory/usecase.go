package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// LedgerUseCase registra movimientos de inventario de forma transaccional
// (ENTRADA, SALIDA) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	reports     ReportGenerator
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso. reports puede ser nil (sin reporte PDF).
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	reports ReportGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		reports:     reports,
		now:         time.Now,
	}
}

// ListMovements lista movimientos por fecha descendente con nombre de producto y ejecutor.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, in dto.MovementFilterRequest) ([]dto.MovementResponse, error) {
	page := dto.PageRequest{Limit: in.Limit, Offset: in.Offset}
	page.DefaultPage()
	filter := repository.MovementFilter{
		ProductID: strings.TrimSpace(in.ProductID),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	if in.From != "" {
		from, err := parseDate(in.From, false)
		if err != nil {
			return nil, domain.InvalidArgument("from inválido %q", in.From)
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := parseDate(in.To, true)
		if err != nil {
			return nil, domain.InvalidArgument("to inválido %q", in.To)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.InvalidArgument("from no puede ser posterior a to")
	}

	list, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *dto.NewMovementResponse(m))
	}
	return items, nil
}

// RecordMovement valida la entrada, inicia una transacción, bloquea el producto
// (SELECT FOR UPDATE), aplica el movimiento y hace Commit o Rollback.
// ExecutedByID vacío toma el usuario del actor.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, actor entity.Actor, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	t := entity.MovementType(in.Type)
	if err := inventory.ValidateMovement(t, in.Quantity); err != nil {
		return nil, err
	}
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, domain.InvalidArgument("product_id es obligatorio")
	}
	executedBy := strings.TrimSpace(in.ExecutedByID)
	if executedBy == "" {
		executedBy = actor.UserID
	}
	if executedBy == "" {
		return nil, domain.InvalidArgument("executed_by_id es obligatorio")
	}

	var out *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		userRepo repository.UserRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto no encontrado")
		}
		user, err := userRepo.GetByID(ctx, executedBy)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NotFound("usuario no encontrado")
		}
		mov, err := uc.ApplyInTx(ctx, productRepo, movRepo, product, t, in.Quantity, executedBy, uc.now())
		if err != nil {
			return err
		}
		mov.ProductName = product.Name
		mov.ExecutedBy = &entity.UserRef{Name: user.Name, Email: user.Email}
		out = mov
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("movement_id", out.ID).
		Str("product_id", out.ProductID).
		Str("type", string(out.Type)).
		Int64("quantity", out.Quantity).
		Str("executed_by", out.ExecutedByID).
		Msg("movimiento registrado")
	return dto.NewMovementResponse(out), nil
}

// ApplyInTx aplica un movimiento usando los repositorios del caller (misma transacción).
// product debe venir bloqueado (GetByIDForUpdate); su Stock queda actualizado.
// Si retorna error (ej: INSUFFICIENT_STOCK), el caller debe hacer rollback.
func (uc *LedgerUseCase) ApplyInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	product *entity.Product,
	t entity.MovementType,
	quantity int64,
	executedByID string,
	now time.Time,
) (*entity.Movement, error) {
	newStock, err := inventory.Apply(product.Stock, t, quantity)
	if err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ID:           uuid.New().String(),
		Type:         t,
		Quantity:     quantity,
		ProductID:    product.ID,
		ExecutedByID: executedByID,
		Date:         now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStock(ctx, product.ID, newStock); err != nil {
		return nil, err
	}
	product.Stock = newStock
	product.UpdatedAt = now
	return mov, nil
}

// Reconcile compara el stock actual del producto con lo que exige su libro.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, productID string) (*dto.LedgerCheckResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto no encontrado")
	}
	balance, err := uc.movRepo.SumByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	balance.Opening = product.OpeningStock
	return &dto.LedgerCheckResponse{
		ProductID:     product.ID,
		ProductName:   product.Name,
		OpeningStock:  balance.Opening,
		TotalEntradas: balance.Entradas,
		TotalSalidas:  balance.Salidas,
		ExpectedStock: balance.Expected(),
		ActualStock:   product.Stock,
		Consistent:    balance.Consistent(product.Stock),
	}, nil
}

// ProductReport genera el kardex en PDF: movimientos del más antiguo al más
// reciente con saldo corrido. Devuelve los bytes y un nombre de archivo sugerido.
func (uc *LedgerUseCase) ProductReport(ctx context.Context, productID string) ([]byte, string, error) {
	if uc.reports == nil {
		return nil, "", fmt.Errorf("inventory: generador de reportes no configurado")
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	if product == nil {
		return nil, "", domain.NotFound("producto no encontrado")
	}
	movs, err := uc.movRepo.List(ctx, repository.MovementFilter{ProductID: productID, Ascending: true})
	if err != nil {
		return nil, "", err
	}
	balance := inventory.Balance{Opening: product.OpeningStock}
	for _, m := range movs {
		balance.Add(m.Type, m.Quantity)
	}
	now := uc.now()
	pdf, err := uc.reports.GenerateKardexPDF(ctx, KardexReport{
		Product:     product,
		Lines:       inventory.Kardex(product.OpeningStock, movs),
		Balance:     balance,
		GeneratedAt: now,
	})
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("kardex_%s_%s.pdf", product.ID, now.Format("20060102")), nil
}

// parseDate acepta RFC 3339 o YYYY-MM-DD. Con endOfDay, una fecha sin hora cubre el día completo.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return d.Add(24*time.Hour - time.Nanosecond), nil
	}
	return d, nil
}
