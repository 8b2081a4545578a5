package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

type stubAnalytics struct {
	products  int
	users     int
	stats     repository.MovementStats
	low       []*entity.Product
	statsErr  error
	gotFrom   time.Time
	gotTo     time.Time
	gotLimit  int
	threshold int64
}

func (s *stubAnalytics) CountActiveProducts(context.Context) (int, error) { return s.products, nil }
func (s *stubAnalytics) CountUsers(context.Context) (int, error)          { return s.users, nil }

func (s *stubAnalytics) GetMovementStats(_ context.Context, from, to time.Time) (repository.MovementStats, error) {
	s.gotFrom, s.gotTo = from, to
	return s.stats, s.statsErr
}

func (s *stubAnalytics) GetLowStock(_ context.Context, threshold int64, limit int) ([]*entity.Product, error) {
	s.threshold, s.gotLimit = threshold, limit
	return s.low, nil
}

func (s *stubAnalytics) GetUnitsSold(context.Context, time.Time, time.Time) (map[string]int64, error) {
	return nil, nil
}

func TestGetSummary(t *testing.T) {
	repo := &stubAnalytics{
		products: 12,
		users:    3,
		stats:    repository.MovementStats{Count: 7, SalidaValue: decimal.RequireFromString("45000.456")},
		low: []*entity.Product{
			{ID: "p1", Name: "Arroz", Category: entity.CategoryAlmuerzo, Stock: 2},
		},
	}
	uc := NewDashboardUseCase(repo, 50)
	uc.now = func() time.Time { return time.Date(2026, time.October, 16, 15, 30, 0, 0, time.UTC) }

	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, got.TotalProducts)
	assert.Equal(t, 3, got.TotalUsers)
	assert.Equal(t, 7, got.TodayMovements)
	assert.Equal(t, "45000.46", got.TodaySalesEstimate.StringFixed(2))
	assert.True(t, got.SalesEstimated)
	assert.Equal(t, 50, got.LowStockThreshold)
	require.Len(t, got.LowStock, 1)
	assert.Equal(t, "Arroz", got.LowStock[0].ProductName)
	assert.Equal(t, "ALMUERZO", got.LowStock[0].Category)
	assert.Equal(t, "16 de octubre de 2026", got.DateLabel)

	assert.Equal(t, time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC), repo.gotFrom)
	assert.Equal(t, 16, repo.gotTo.Day())
	assert.Equal(t, 23, repo.gotTo.Hour())
	assert.Equal(t, 5, repo.gotLimit)
	assert.Equal(t, int64(50), repo.threshold)
}

func TestGetSummary_PropagaError(t *testing.T) {
	boom := errors.New("db caída")
	uc := NewDashboardUseCase(&stubAnalytics{statsErr: boom}, 50)

	_, err := uc.GetSummary(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestDayLabel(t *testing.T) {
	for i, want := range []string{"enero", "junio", "diciembre"} {
		month := []time.Month{time.January, time.June, time.December}[i]
		assert.Equal(t, fmt.Sprintf("1 de %s de 2025", want), dayLabel(time.Date(2025, month, 1, 0, 0, 0, 0, time.UTC)))
	}
}
