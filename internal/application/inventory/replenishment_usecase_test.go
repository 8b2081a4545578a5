package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
)

func TestGenerateReplenishmentList(t *testing.T) {
	f := newFixture(t)
	sopa := f.seedProduct(t, "Sopa", 30)
	jugo := f.seedProduct(t, "Jugo", 45)
	arroz := f.seedProduct(t, "Arroz", 5)
	f.seedProduct(t, "Pan", 80) // sobre el umbral

	// Jugo es el más vendido aunque tiene más stock que los demás
	_, err := f.record(t, jugo.ID, "SALIDA", 20)
	require.NoError(t, err)
	_, err = f.record(t, sopa.ID, "SALIDA", 4)
	require.NoError(t, err)

	uc := inventory.NewReplenishmentUseCase(f.store.Analytics(), 50)
	list, err := uc.GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, jugo.ID, list[0].ProductID)
	assert.Equal(t, int64(20), list[0].UnitsSoldLast30d)
	assert.Equal(t, int64(25), list[0].CurrentStock)
	assert.Equal(t, int64(75), list[0].IdealStock)
	assert.Equal(t, int64(50), list[0].SuggestedQuantity)
	assert.Equal(t, 1, list[0].Priority)

	assert.Equal(t, sopa.ID, list[1].ProductID)
	assert.Equal(t, int64(49), list[1].SuggestedQuantity)
	assert.True(t, decimal.NewFromInt(49*12000).Equal(list[1].RevenueAtRisk))

	// sin ventas: desempata por mayor déficit
	assert.Equal(t, arroz.ID, list[2].ProductID)
	assert.Equal(t, int64(70), list[2].SuggestedQuantity)
	assert.Equal(t, 3, list[2].Priority)
}

func TestGenerateReplenishmentList_SinProductosBajos(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "Pan", 80)

	list, err := inventory.NewReplenishmentUseCase(f.store.Analytics(), 50).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestGenerateReplenishmentList_IgnoraInactivos(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Flan", 1)
	require.NoError(t, f.store.Products().Deactivate(context.Background(), p.ID))

	list, err := inventory.NewReplenishmentUseCase(f.store.Analytics(), 50).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
