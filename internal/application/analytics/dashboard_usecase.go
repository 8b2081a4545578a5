// Package analytics contiene el caso de uso del resumen del dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

const dashboardLowStockItems = 5 // número de productos en el widget de stock bajo

// DashboardUseCase genera el resumen del día para el dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	threshold     int
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso. threshold es el umbral de stock bajo.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, threshold int) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, threshold: threshold, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro llamadas en paralelo:
//  1. CountActiveProducts     → TotalProducts
//  2. CountUsers              → TotalUsers
//  3. GetMovementStats(hoy)   → TodayMovements + TodaySalesEstimate
//  4. GetLowStock(umbral, 5)  → LowStock
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	type countResult struct {
		n   int
		err error
	}
	type statsResult struct {
		stats repository.MovementStats
		err   error
	}
	type lowStockResult struct {
		products []*entity.Product
		err      error
	}

	productsCh := make(chan countResult, 1)
	usersCh := make(chan countResult, 1)
	statsCh := make(chan statsResult, 1)
	lowCh := make(chan lowStockResult, 1)

	go func() {
		n, err := uc.analyticsRepo.CountActiveProducts(ctx)
		productsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountUsers(ctx)
		usersCh <- countResult{n, err}
	}()
	go func() {
		s, err := uc.analyticsRepo.GetMovementStats(ctx, todayStart, todayEnd)
		statsCh <- statsResult{s, err}
	}()
	go func() {
		list, err := uc.analyticsRepo.GetLowStock(ctx, int64(uc.threshold), dashboardLowStockItems)
		lowCh <- lowStockResult{list, err}
	}()

	products := <-productsCh
	users := <-usersCh
	stats := <-statsCh
	low := <-lowCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: total de productos: %w", products.err)
	}
	if users.err != nil {
		return nil, fmt.Errorf("dashboard: total de usuarios: %w", users.err)
	}
	if stats.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos de hoy: %w", stats.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	lowItems := make([]dto.LowStockItemDTO, 0, len(low.products))
	for _, p := range low.products {
		lowItems = append(lowItems, dto.LowStockItemDTO{
			ProductID:   p.ID,
			ProductName: p.Name,
			Category:    string(p.Category),
			Stock:       p.Stock,
		})
	}

	return &dto.DashboardSummaryDTO{
		TotalProducts:      products.n,
		TotalUsers:         users.n,
		TodayMovements:     stats.stats.Count,
		TodaySalesEstimate: stats.stats.SalidaValue.Round(2),
		SalesEstimated:     true,
		LowStockThreshold:  uc.threshold,
		LowStock:           lowItems,
		DateLabel:          dayLabel(now),
	}, nil
}

// dayLabel devuelve una etiqueta legible del día, ej: "16 de octubre de 2026".
func dayLabel(t time.Time) string {
	months := [...]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}
