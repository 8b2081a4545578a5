package inventory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
)

func TestValidateMovement(t *testing.T) {
	tests := []struct {
		name string
		t    entity.MovementType
		qty  int64
		ok   bool
	}{
		{"entrada válida", entity.MovementTypeEntrada, 1, true},
		{"salida válida", entity.MovementTypeSalida, 10, true},
		{"cantidad cero", entity.MovementTypeEntrada, 0, false},
		{"cantidad negativa", entity.MovementTypeSalida, -3, false},
		{"tipo desconocido", entity.MovementType("AJUSTE"), 5, false},
		{"tipo en minúsculas", entity.MovementType("entrada"), 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := inventory.ValidateMovement(tt.t, tt.qty)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "debe ser INVALID_ARGUMENT: %v", err)
		})
	}
}

func TestApply(t *testing.T) {
	stock, err := inventory.Apply(10, entity.MovementTypeEntrada, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), stock)

	stock, err = inventory.Apply(15, entity.MovementTypeSalida, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stock, "una salida igual al stock deja 0")

	stock, err = inventory.Apply(15, entity.MovementTypeSalida, 20)
	require.Error(t, err)
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))
	assert.Equal(t, int64(15), stock, "el stock no cambia si la salida falla")
	assert.Contains(t, err.Error(), "Disponible: 15, solicitado: 20")
}

func TestApplyEntradaDesbordada(t *testing.T) {
	stock, err := inventory.Apply(10, entity.MovementTypeEntrada, math.MaxInt64)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
	assert.Equal(t, int64(10), stock, "el stock no cambia si la entrada desborda")

	stock, err = inventory.Apply(0, entity.MovementTypeEntrada, math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), stock, "el máximo exacto se acepta")
}

func TestAdjustment(t *testing.T) {
	typ, qty, ok := inventory.Adjustment(10, 25)
	assert.True(t, ok)
	assert.Equal(t, entity.MovementTypeEntrada, typ)
	assert.Equal(t, int64(15), qty)

	typ, qty, ok = inventory.Adjustment(10, 4)
	assert.True(t, ok)
	assert.Equal(t, entity.MovementTypeSalida, typ)
	assert.Equal(t, int64(6), qty)

	_, _, ok = inventory.Adjustment(7, 7)
	assert.False(t, ok)
}

func TestBalance(t *testing.T) {
	b := inventory.Balance{Opening: 10}
	b.Add(entity.MovementTypeEntrada, 5)
	b.Add(entity.MovementTypeSalida, 15)
	b.Add(entity.MovementTypeEntrada, 2)

	assert.Equal(t, int64(7), b.Entradas)
	assert.Equal(t, int64(15), b.Salidas)
	assert.Equal(t, int64(2), b.Expected())
	assert.True(t, b.Consistent(2))
	assert.False(t, b.Consistent(3))
}

func TestKardex(t *testing.T) {
	movs := []*entity.Movement{
		{ID: "1", Type: entity.MovementTypeEntrada, Quantity: 5},
		{ID: "2", Type: entity.MovementTypeSalida, Quantity: 15},
		{ID: "3", Type: entity.MovementTypeEntrada, Quantity: 8},
	}
	lines := inventory.Kardex(10, movs)
	require.Len(t, lines, 3)
	assert.Equal(t, int64(15), lines[0].Balance)
	assert.Equal(t, int64(0), lines[1].Balance)
	assert.Equal(t, int64(8), lines[2].Balance)
	assert.Equal(t, "3", lines[2].Movement.ID)

	assert.Empty(t, inventory.Kardex(4, nil))
}
