// Package memory implementa los puertos de persistencia en memoria.
// Se usa con DB_DRIVER=memory (desarrollo local sin PostgreSQL) y en los tests
// de casos de uso y handlers.
//
// Las transacciones se serializan con un mutex y trabajan sobre una copia del
// estado: si el callback devuelve error la copia se descarta, si no reemplaza
// al estado vigente.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ inventory.TxRunner             = (*Store)(nil)
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.UserRepository      = (*UserRepo)(nil)
	_ repository.MovementRepository  = (*MovementRepo)(nil)
	_ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)
)

type productRow struct {
	product entity.Product
	seq     int64
}

type userRow struct {
	user entity.User
	seq  int64
}

type state struct {
	seq       int64
	users     map[string]userRow
	products  map[string]productRow
	movements []entity.Movement // orden de inserción
}

func newState() *state {
	return &state{
		users:    make(map[string]userRow),
		products: make(map[string]productRow),
	}
}

func (s *state) clone() *state {
	c := &state{
		seq:       s.seq,
		users:     make(map[string]userRow, len(s.users)),
		products:  make(map[string]productRow, len(s.products)),
		movements: make([]entity.Movement, len(s.movements)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	copy(c.movements, s.movements)
	return c
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// view abstrae el acceso al estado: con lock (Store) o directo (dentro de una tx).
type view interface {
	with(fn func(st *state) error) error
}

type txView struct{ st *state }

func (v txView) with(fn func(st *state) error) error { return fn(v.st) }

// Store es el almacén en memoria. Seguro para uso concurrente.
type Store struct {
	mu sync.Mutex
	st *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) with(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Products devuelve el repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{v: s} }

// Users devuelve el repositorio de usuarios fuera de transacción.
func (s *Store) Users() *UserRepo { return &UserRepo{v: s} }

// Movements devuelve el repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{v: s} }

// Analytics devuelve el repositorio de lectura del dashboard.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{v: s} }

// Run ejecuta fn sobre una copia del estado y la confirma solo si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	userRepo repository.UserRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	tx := txView{st: work}
	if err := fn(&ProductRepo{v: tx}, &MovementRepo{v: tx}, &UserRepo{v: tx}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// ── Productos ────────────────────────────────────────────────────────────────

// ProductRepo implementa repository.ProductRepository en memoria.
type ProductRepo struct{ v view }

// Create persiste un nuevo producto. El nombre es único y el creador debe existir.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.users[p.CreatedByID]; !ok {
			return domain.NotFound("usuario creador no encontrado")
		}
		for _, row := range st.products {
			if row.product.Name == p.Name {
				return domain.Conflict("ya existe un producto con el nombre %q", p.Name)
			}
		}
		stored := *p
		stored.CreatedBy = nil
		st.products[p.ID] = productRow{product: stored, seq: st.next()}
		return nil
	})
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(func(st *state) error {
		if row, ok := st.products[id]; ok {
			out = resolveProduct(st, row.product)
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate equivale a GetByID: la transacción ya tiene el lock global.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetByName obtiene un producto por nombre exacto.
func (r *ProductRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(func(st *state) error {
		for _, row := range st.products {
			if row.product.Name == name {
				out = resolveProduct(st, row.product)
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List lista productos ordenados por fecha de creación descendente.
func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.with(func(st *state) error {
		rows := make([]productRow, 0, len(st.products))
		for _, row := range st.products {
			if filter.Category != "" && row.product.Category != filter.Category {
				continue
			}
			if filter.ActiveOnly && !row.product.IsActive {
				continue
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			if !a.product.CreatedAt.Equal(b.product.CreatedAt) {
				return a.product.CreatedAt.After(b.product.CreatedAt)
			}
			return a.seq > b.seq
		})
		for _, row := range rows {
			out = append(out, resolveProduct(st, row.product))
		}
		return nil
	})
	return out, err
}

// Update actualiza los campos editables. Stock no se toca aquí (ver UpdateStock).
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.with(func(st *state) error {
		row, ok := st.products[p.ID]
		if !ok {
			return domain.NotFound("producto no encontrado")
		}
		for id, other := range st.products {
			if id != p.ID && other.product.Name == p.Name {
				return domain.Conflict("ya existe un producto con el nombre %q", p.Name)
			}
		}
		row.product.Name = p.Name
		row.product.Description = p.Description
		row.product.Price = p.Price
		row.product.Category = p.Category
		row.product.ImageURL = p.ImageURL
		row.product.IsActive = p.IsActive
		row.product.UpdatedAt = p.UpdatedAt
		st.products[p.ID] = row
		return nil
	})
}

// UpdateStock fija el stock del producto. Un valor negativo es INVALID_ARGUMENT.
func (r *ProductRepo) UpdateStock(_ context.Context, id string, stock int64) error {
	return r.v.with(func(st *state) error {
		row, ok := st.products[id]
		if !ok {
			return domain.NotFound("producto no encontrado")
		}
		if stock < 0 {
			return domain.InvalidArgument("el stock no puede ser negativo")
		}
		row.product.Stock = stock
		row.product.UpdatedAt = time.Now()
		st.products[id] = row
		return nil
	})
}

// Deactivate marca el producto como inactivo (borrado lógico).
func (r *ProductRepo) Deactivate(_ context.Context, id string) error {
	return r.v.with(func(st *state) error {
		row, ok := st.products[id]
		if !ok {
			return domain.NotFound("producto no encontrado")
		}
		row.product.IsActive = false
		row.product.UpdatedAt = time.Now()
		st.products[id] = row
		return nil
	})
}

// Delete elimina un producto por ID. Falla con REFERENTIAL_CONFLICT si tiene movimientos.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.NotFound("producto no encontrado")
		}
		for _, m := range st.movements {
			if m.ProductID == id {
				return domain.ReferentialConflict("el producto tiene movimientos asociados")
			}
		}
		delete(st.products, id)
		return nil
	})
}

func resolveProduct(st *state, p entity.Product) *entity.Product {
	out := p
	if u, ok := st.users[p.CreatedByID]; ok {
		out.CreatedBy = &entity.UserRef{Name: u.user.Name, Email: u.user.Email}
	}
	return &out
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

// UserRepo implementa repository.UserRepository en memoria.
type UserRepo struct{ v view }

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.with(func(st *state) error {
		for _, row := range st.users {
			if row.user.Email == u.Email {
				return domain.Conflict("el email ya está registrado")
			}
		}
		st.users[u.ID] = userRow{user: *u, seq: st.next()}
		return nil
	})
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.with(func(st *state) error {
		if row, ok := st.users[id]; ok {
			u := row.user
			out = &u
		}
		return nil
	})
	return out, err
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.with(func(st *state) error {
		for _, row := range st.users {
			if row.user.Email == email {
				u := row.user
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List lista usuarios por fecha de creación descendente.
func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.v.with(func(st *state) error {
		rows := make([]userRow, 0, len(st.users))
		for _, row := range st.users {
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			if !a.user.CreatedAt.Equal(b.user.CreatedAt) {
				return a.user.CreatedAt.After(b.user.CreatedAt)
			}
			return a.seq > b.seq
		})
		for _, row := range rows {
			u := row.user
			out = append(out, &u)
		}
		return nil
	})
	return out, err
}

// UpdateRole actualiza el rol del usuario.
func (r *UserRepo) UpdateRole(_ context.Context, u *entity.User) error {
	return r.v.with(func(st *state) error {
		row, ok := st.users[u.ID]
		if !ok {
			return domain.NotFound("usuario no encontrado")
		}
		row.user.Role = u.Role
		row.user.UpdatedAt = u.UpdatedAt
		st.users[u.ID] = row
		return nil
	})
}

// ── Movimientos ──────────────────────────────────────────────────────────────

// MovementRepo implementa repository.MovementRepository en memoria.
type MovementRepo struct{ v view }

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.products[m.ProductID]; !ok {
			return domain.NotFound("producto no encontrado")
		}
		if _, ok := st.users[m.ExecutedByID]; !ok {
			return domain.NotFound("usuario no encontrado")
		}
		stored := *m
		stored.ProductName = ""
		stored.ExecutedBy = nil
		st.movements = append(st.movements, stored)
		return nil
	})
}

// List lista movimientos con nombre de producto y ejecutor resueltos.
func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.v.with(func(st *state) error {
		type indexed struct {
			m   entity.Movement
			idx int
		}
		var rows []indexed
		for i, m := range st.movements {
			if filter.ProductID != "" && m.ProductID != filter.ProductID {
				continue
			}
			if filter.From != nil && m.Date.Before(*filter.From) {
				continue
			}
			if filter.To != nil && m.Date.After(*filter.To) {
				continue
			}
			rows = append(rows, indexed{m: m, idx: i})
		}
		sort.Slice(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			if !a.m.Date.Equal(b.m.Date) {
				if filter.Ascending {
					return a.m.Date.Before(b.m.Date)
				}
				return a.m.Date.After(b.m.Date)
			}
			if filter.Ascending {
				return a.idx < b.idx
			}
			return a.idx > b.idx
		})
		if filter.Offset > 0 {
			if filter.Offset >= len(rows) {
				rows = nil
			} else {
				rows = rows[filter.Offset:]
			}
		}
		if filter.Limit > 0 && len(rows) > filter.Limit {
			rows = rows[:filter.Limit]
		}
		for _, row := range rows {
			m := row.m
			if p, ok := st.products[m.ProductID]; ok {
				m.ProductName = p.product.Name
			}
			if u, ok := st.users[m.ExecutedByID]; ok {
				m.ExecutedBy = &entity.UserRef{Name: u.user.Name, Email: u.user.Email}
			}
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

// CountByProduct cuenta los movimientos de un producto.
func (r *MovementRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	n := 0
	err := r.v.with(func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// SumByProduct suma entradas y salidas del producto.
func (r *MovementRepo) SumByProduct(_ context.Context, productID string) (domaininv.Balance, error) {
	var b domaininv.Balance
	err := r.v.with(func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				b.Add(m.Type, m.Quantity)
			}
		}
		return nil
	})
	return b, err
}

// ── Analítica ────────────────────────────────────────────────────────────────

// AnalyticsRepo implementa repository.AnalyticsRepository en memoria.
type AnalyticsRepo struct{ v view }

// CountActiveProducts cuenta productos activos.
func (r *AnalyticsRepo) CountActiveProducts(_ context.Context) (int, error) {
	n := 0
	err := r.v.with(func(st *state) error {
		for _, row := range st.products {
			if row.product.IsActive {
				n++
			}
		}
		return nil
	})
	return n, err
}

// CountUsers cuenta usuarios.
func (r *AnalyticsRepo) CountUsers(_ context.Context) (int, error) {
	n := 0
	err := r.v.with(func(st *state) error {
		n = len(st.users)
		return nil
	})
	return n, err
}

// GetMovementStats cuenta movimientos en [from, to] y valoriza las salidas al precio actual.
func (r *AnalyticsRepo) GetMovementStats(_ context.Context, from, to time.Time) (repository.MovementStats, error) {
	stats := repository.MovementStats{SalidaValue: decimal.Zero}
	err := r.v.with(func(st *state) error {
		for _, m := range st.movements {
			if m.Date.Before(from) || m.Date.After(to) {
				continue
			}
			stats.Count++
			if m.Type != entity.MovementTypeSalida {
				continue
			}
			if p, ok := st.products[m.ProductID]; ok {
				stats.SalidaValue = stats.SalidaValue.Add(p.product.Price.Mul(decimal.NewFromInt(m.Quantity)))
			}
		}
		return nil
	})
	return stats, err
}

// GetLowStock devuelve productos activos con stock por debajo del umbral. limit <= 0 = sin límite.
func (r *AnalyticsRepo) GetLowStock(_ context.Context, threshold int64, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.with(func(st *state) error {
		var list []entity.Product
		for _, row := range st.products {
			if row.product.IsActive && row.product.Stock < threshold {
				list = append(list, row.product)
			}
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].Stock != list[j].Stock {
				return list[i].Stock < list[j].Stock
			}
			return list[i].Name < list[j].Name
		})
		if limit > 0 && len(list) > limit {
			list = list[:limit]
		}
		for _, p := range list {
			out = append(out, resolveProduct(st, p))
		}
		return nil
	})
	return out, err
}

// GetUnitsSold suma las salidas por producto en [from, to].
func (r *AnalyticsRepo) GetUnitsSold(_ context.Context, from, to time.Time) (map[string]int64, error) {
	out := make(map[string]int64)
	err := r.v.with(func(st *state) error {
		for _, m := range st.movements {
			if m.Type != entity.MovementTypeSalida || m.Date.Before(from) || m.Date.After(to) {
				continue
			}
			out[m.ProductID] += m.Quantity
		}
		return nil
	})
	return out, err
}
