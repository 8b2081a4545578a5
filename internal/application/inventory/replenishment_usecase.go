package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: productos activos bajo el umbral
// de stock, con la cantidad sugerida de ENTRADA y un ranking por demanda reciente.
type ReplenishmentUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	threshold     int64
	now           func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(analyticsRepo repository.AnalyticsRepository, threshold int) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		analyticsRepo: analyticsRepo,
		threshold:     int64(threshold),
		now:           time.Now,
	}
}

// GenerateReplenishmentList devuelve los productos bajo el umbral con la cantidad
// sugerida (umbral × 1.5 − stock) ordenados por unidades vendidas en los últimos 30 días.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Productos por debajo del umbral
	low, err := uc.analyticsRepo.GetLowStock(ctx, uc.threshold, 0)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Demanda reciente (SALIDA) por producto
	end := uc.now()
	start := end.AddDate(0, 0, -30)
	sold, err := uc.analyticsRepo.GetUnitsSold(ctx, start, end)
	if err != nil {
		return nil, err
	}

	// 3. Construir los DTOs
	ideal := decimal.NewFromInt(uc.threshold).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		qty := ideal - p.Stock
		if qty < 0 {
			qty = 0
		}
		units := sold[p.ID]
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:         p.ID,
			ProductName:       p.Name,
			Category:          string(p.Category),
			CurrentStock:      p.Stock,
			Threshold:         uc.threshold,
			IdealStock:        ideal,
			SuggestedQuantity: qty,
			UnitsSoldLast30d:  units,
			RevenueAtRisk:     p.Price.Mul(decimal.NewFromInt(qty)),
		})
	}

	// 4. Ordenar: mayor demanda primero, luego mayor déficit
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.UnitsSoldLast30d != b.UnitsSoldLast30d {
			return a.UnitsSoldLast30d > b.UnitsSoldLast30d
		}
		return a.SuggestedQuantity > b.SuggestedQuantity
	})

	// 5. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
