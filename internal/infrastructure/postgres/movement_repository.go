package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, type, quantity, product_id, executed_by_id, date)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		m.ID, string(m.Type), m.Quantity, m.ProductID, m.ExecutedByID, m.Date,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("producto o usuario no encontrado")
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// List lista movimientos con nombre de producto y ejecutor resueltos.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT m.id, m.type, m.quantity, m.product_id, m.executed_by_id, m.date, p.name, u.name, u.email
		FROM movements m
		JOIN products p ON p.id = m.product_id
		JOIN users u ON u.id = m.executed_by_id
		WHERE TRUE`
	var args []any
	pos := 1
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND m.date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND m.date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	if filter.Ascending {
		query += " ORDER BY m.date ASC, m.id ASC"
	} else {
		query += " ORDER BY m.date DESC, m.id DESC"
	}
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var typ string
		var executor entity.UserRef
		if err := rows.Scan(&m.ID, &typ, &m.Quantity, &m.ProductID, &m.ExecutedByID, &m.Date,
			&m.ProductName, &executor.Name, &executor.Email); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		m.ExecutedBy = &executor
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountByProduct cuenta los movimientos de un producto.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// SumByProduct suma entradas y salidas del producto.
func (r *MovementRepo) SumByProduct(ctx context.Context, productID string) (inventory.Balance, error) {
	var b inventory.Balance
	err := r.q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE type = 'ENTRADA'), 0)::bigint,
			COALESCE(SUM(quantity) FILTER (WHERE type = 'SALIDA'), 0)::bigint
		FROM movements WHERE product_id = $1`, productID).Scan(&b.Entradas, &b.Salidas)
	if err != nil {
		return inventory.Balance{}, fmt.Errorf("sum movements: %w", err)
	}
	return b, nil
}
