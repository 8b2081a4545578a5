package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/memory"
)

type spyTxRunner struct {
	inner inventory.TxRunner
	calls atomic.Int32
}

func (s *spyTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	userRepo repository.UserRepository,
) error) error {
	s.calls.Add(1)
	return s.inner.Run(ctx, fn)
}

type fakeReports struct {
	got inventory.KardexReport
}

func (f *fakeReports) GenerateKardexPDF(_ context.Context, r inventory.KardexReport) ([]byte, error) {
	f.got = r
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	store   *memory.Store
	ledger  *inventory.LedgerUseCase
	spy     *spyTxRunner
	reports *fakeReports
	admin   entity.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	spy := &spyTxRunner{inner: store}
	reports := &fakeReports{}
	admin := seedUser(t, store, "admin@restaurante.com", entity.RoleAdmin)
	return &fixture{
		store:   store,
		ledger:  inventory.NewLedgerUseCase(spy, store.Products(), store.Movements(), reports),
		spy:     spy,
		reports: reports,
		admin:   entity.Actor{UserID: admin.ID, Role: admin.Role},
	}
}

func seedUser(t *testing.T, store *memory.Store, email string, role entity.Role) *entity.User {
	t.Helper()
	now := time.Now()
	u := &entity.User{ID: "u-" + email, Email: email, Name: email, Role: role, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) seedProduct(t *testing.T, name string, stock int64) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:           "p-" + name,
		Name:         name,
		Price:        decimal.NewFromInt(12000),
		Stock:        stock,
		OpeningStock: stock,
		Category:     entity.CategoryAlmuerzo,
		IsActive:     true,
		CreatedByID:  f.admin.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) record(t *testing.T, productID, typ string, qty int64) (*dto.MovementResponse, error) {
	t.Helper()
	return f.ledger.RecordMovement(context.Background(), f.admin, dto.RegisterMovementRequest{
		ProductID: productID, Type: typ, Quantity: qty,
	})
}

func (f *fixture) stock(t *testing.T, id string) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func TestRecordMovement_SecuenciaSopa(t *testing.T) {
	f := newFixture(t)
	soup := f.seedProduct(t, "Sopa", 10)

	mov, err := f.record(t, soup.ID, "ENTRADA", 5)
	require.NoError(t, err)
	assert.Equal(t, "Sopa", mov.ProductName)
	assert.Equal(t, f.admin.UserID, mov.ExecutedByID)
	require.NotNil(t, mov.ExecutedBy)
	assert.Equal(t, "admin@restaurante.com", mov.ExecutedBy.Email)
	assert.Equal(t, int64(15), f.stock(t, soup.ID))

	_, err = f.record(t, soup.ID, "SALIDA", 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, int64(15), f.stock(t, soup.ID), "un rechazo no modifica el stock")

	_, err = f.record(t, soup.ID, "SALIDA", 15)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.stock(t, soup.ID))

	n, err := f.store.Movements().CountByProduct(context.Background(), soup.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "la salida rechazada no deja movimiento")

	check, err := f.ledger.Reconcile(context.Background(), soup.ID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.Equal(t, int64(10), check.OpeningStock)
	assert.Equal(t, int64(5), check.TotalEntradas)
	assert.Equal(t, int64(15), check.TotalSalidas)
	assert.Equal(t, int64(0), check.ExpectedStock)
}

func TestRecordMovement_ValidaAntesDePersistir(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Arepa", 3)

	for _, in := range []dto.RegisterMovementRequest{
		{ProductID: p.ID, Type: "ENTRADA", Quantity: 0},
		{ProductID: p.ID, Type: "SALIDA", Quantity: -1},
		{ProductID: p.ID, Type: "AJUSTE", Quantity: 2},
		{ProductID: "", Type: "ENTRADA", Quantity: 2},
	} {
		_, err := f.ledger.RecordMovement(context.Background(), f.admin, in)
		require.Error(t, err)
		assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err), "%+v", in)
	}
	assert.Zero(t, f.spy.calls.Load(), "no debe abrirse transacción con entrada inválida")
	assert.Equal(t, int64(3), f.stock(t, p.ID))
}

func TestRecordMovement_ReferenciasInexistentes(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Jugo", 4)

	_, err := f.record(t, "no-existe", "ENTRADA", 1)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = f.ledger.RecordMovement(context.Background(), f.admin, dto.RegisterMovementRequest{
		ProductID: p.ID, Type: "ENTRADA", Quantity: 1, ExecutedByID: "fantasma",
	})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, int64(4), f.stock(t, p.ID))
}

func TestRecordMovement_EntradaDesbordadaNoPersiste(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Pandebono", 10)

	_, err := f.record(t, p.ID, "ENTRADA", math.MaxInt64)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
	assert.Equal(t, int64(10), f.stock(t, p.ID))

	n, err := f.store.Movements().CountByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "no debe quedar movimiento registrado")
}

func TestRecordMovement_ProductoInactivoAceptaMovimientos(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Tinto", 2)
	require.NoError(t, f.store.Products().Deactivate(context.Background(), p.ID))

	_, err := f.record(t, p.ID, "ENTRADA", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.stock(t, p.ID))
}

func TestRecordMovement_SalidasConcurrentesNuncaNegativas(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Bandeja", 10)

	const workers = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.RecordMovement(context.Background(), f.admin, dto.RegisterMovementRequest{
				ProductID: p.ID, Type: "SALIDA", Quantity: 3,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			if errors.Is(err, domain.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, workers-3, fail)
	assert.Equal(t, int64(1), f.stock(t, p.ID))

	check, err := f.ledger.Reconcile(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
}

func TestReconcile_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Reconcile(context.Background(), "nada")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListMovements_Filtros(t *testing.T) {
	f := newFixture(t)
	a := f.seedProduct(t, "Empanada", 10)
	b := f.seedProduct(t, "Limonada", 10)

	_, err := f.record(t, a.ID, "ENTRADA", 1)
	require.NoError(t, err)
	_, err = f.record(t, b.ID, "SALIDA", 2)
	require.NoError(t, err)
	last, err := f.record(t, a.ID, "SALIDA", 3)
	require.NoError(t, err)

	all, err := f.ledger.ListMovements(context.Background(), dto.MovementFilterRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, last.ID, all[0].ID, "orden por fecha descendente")

	onlyA, err := f.ledger.ListMovements(context.Background(), dto.MovementFilterRequest{ProductID: a.ID})
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)
	for _, m := range onlyA {
		assert.Equal(t, "Empanada", m.ProductName)
	}

	page, err := f.ledger.ListMovements(context.Background(), dto.MovementFilterRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	future, err := f.ledger.ListMovements(context.Background(), dto.MovementFilterRequest{From: "2999-01-01"})
	require.NoError(t, err)
	assert.Empty(t, future)

	_, err = f.ledger.ListMovements(context.Background(), dto.MovementFilterRequest{From: "2026-10-20", To: "2026-10-01"})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))

	_, err = f.ledger.ListMovements(context.Background(), dto.MovementFilterRequest{From: "ayer"})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
}

func TestProductReport(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Ajiaco", 4)
	_, err := f.record(t, p.ID, "ENTRADA", 6)
	require.NoError(t, err)
	_, err = f.record(t, p.ID, "SALIDA", 7)
	require.NoError(t, err)

	pdf, filename, err := f.ledger.ProductReport(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Contains(t, filename, "kardex_"+p.ID+"_")

	got := f.reports.got
	require.Len(t, got.Lines, 2)
	assert.Equal(t, int64(10), got.Lines[0].Balance)
	assert.Equal(t, int64(3), got.Lines[1].Balance)
	assert.True(t, got.Balance.Consistent(got.Product.Stock))

	_, _, err = f.ledger.ProductReport(context.Background(), "nada")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestProductReport_SinGenerador(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedgerUseCase(store, store.Products(), store.Movements(), nil)

	_, _, err := ledger.ProductReport(context.Background(), "x")
	assert.Error(t, err)
}
