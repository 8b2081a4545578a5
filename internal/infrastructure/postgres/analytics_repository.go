package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas read-only del dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// CountActiveProducts cuenta productos activos.
func (r *AnalyticsRepo) CountActiveProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// CountUsers cuenta usuarios.
func (r *AnalyticsRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// GetMovementStats cuenta movimientos en [from, to] y valoriza las salidas al precio actual.
func (r *AnalyticsRepo) GetMovementStats(ctx context.Context, from, to time.Time) (repository.MovementStats, error) {
	var s repository.MovementStats
	err := r.q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(m.quantity * p.price) FILTER (WHERE m.type = 'SALIDA'), 0)
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.date >= $1 AND m.date <= $2`, from, to).Scan(&s.Count, &s.SalidaValue)
	if err != nil {
		return repository.MovementStats{}, fmt.Errorf("movement stats: %w", err)
	}
	return s, nil
}

// GetLowStock devuelve productos activos con stock por debajo del umbral. LIMIT NULL = sin límite.
func (r *AnalyticsRepo) GetLowStock(ctx context.Context, threshold int64, limit int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT`+productColumns+productFrom+`
		WHERE p.is_active AND p.stock < $1
		ORDER BY p.stock ASC, p.name ASC
		LIMIT NULLIF($2::int, 0)`, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetUnitsSold suma las salidas por producto en [from, to].
func (r *AnalyticsRepo) GetUnitsSold(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, SUM(quantity)::bigint
		FROM movements
		WHERE type = 'SALIDA' AND date >= $1 AND date <= $2
		GROUP BY product_id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("units sold: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan units sold: %w", err)
		}
		out[id] = n
	}
	return out, rows.Err()
}
