package inventory

import (
	"math"

	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// ValidateMovement verifica tipo y cantidad antes de tocar la persistencia.
func ValidateMovement(t entity.MovementType, quantity int64) error {
	if !t.Valid() {
		return domain.InvalidArgument("tipo inválido %q. Debe ser ENTRADA o SALIDA", t)
	}
	if quantity <= 0 {
		return domain.InvalidArgument("la cantidad debe ser mayor a 0")
	}
	return nil
}

// Apply devuelve el stock resultante de aplicar un movimiento sobre el stock actual
// (servicio de dominio). Una SALIDA mayor al stock devuelve INSUFFICIENT_STOCK.
func Apply(stock int64, t entity.MovementType, quantity int64) (int64, error) {
	if err := ValidateMovement(t, quantity); err != nil {
		return stock, err
	}
	if t == entity.MovementTypeSalida {
		if quantity > stock {
			return stock, domain.InsufficientStock(stock, quantity)
		}
		return stock - quantity, nil
	}
	if quantity > math.MaxInt64-stock {
		return stock, domain.InvalidArgument("la cantidad excede el máximo permitido")
	}
	return stock + quantity, nil
}

// Adjustment traduce un cambio directo de stock (edición del producto) al movimiento
// que lo produce. ok es false cuando no hay diferencia.
func Adjustment(current, target int64) (t entity.MovementType, quantity int64, ok bool) {
	switch {
	case target > current:
		return entity.MovementTypeEntrada, target - current, true
	case target < current:
		return entity.MovementTypeSalida, current - target, true
	default:
		return "", 0, false
	}
}

// Balance resume el libro de un producto.
type Balance struct {
	Opening  int64
	Entradas int64
	Salidas  int64
}

// Expected es el stock que el libro exige: apertura + entradas - salidas.
func (b Balance) Expected() int64 {
	return b.Opening + b.Entradas - b.Salidas
}

// Add acumula un movimiento en el balance.
func (b *Balance) Add(t entity.MovementType, quantity int64) {
	switch t {
	case entity.MovementTypeEntrada:
		b.Entradas += quantity
	case entity.MovementTypeSalida:
		b.Salidas += quantity
	}
}

// Consistent indica si el stock actual coincide con el libro.
func (b Balance) Consistent(stock int64) bool {
	return b.Expected() == stock
}

// KardexLine es una línea del kardex: el movimiento y el saldo tras aplicarlo.
type KardexLine struct {
	Movement *entity.Movement
	Balance  int64
}

// Kardex recorre los movimientos en orden cronológico (el slice debe venir ordenado
// por fecha ascendente) y calcula el saldo corrido desde el stock de apertura.
func Kardex(opening int64, movements []*entity.Movement) []KardexLine {
	lines := make([]KardexLine, 0, len(movements))
	balance := opening
	for _, m := range movements {
		switch m.Type {
		case entity.MovementTypeEntrada:
			balance += m.Quantity
		case entity.MovementTypeSalida:
			balance -= m.Quantity
		}
		lines = append(lines, KardexLine{Movement: m, Balance: balance})
	}
	return lines
}
