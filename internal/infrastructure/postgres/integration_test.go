//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/application/usecase"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Restaurante-api/pkg/config"
)

// startPostgres levanta un PostgreSQL efímero, aplica las migraciones y devuelve el pool.
// Uso: go test -tags integration ./internal/infrastructure/postgres/...
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("restaurante_test"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.Migrate(dsn))
	require.NoError(t, postgres.Migrate(dsn), "la segunda corrida no debe fallar")

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type pgFixture struct {
	pool     *pgxpool.Pool
	products *postgres.ProductRepo
	users    *postgres.UserRepo
	movs     *postgres.MovementRepo
	ledger   *inventory.LedgerUseCase
	catalog  *usecase.ProductUseCase
	actor    entity.Actor
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	pool := startPostgres(t)
	tx := postgres.NewTxRunner(pool)
	f := &pgFixture{
		pool:     pool,
		products: postgres.NewProductRepository(pool),
		users:    postgres.NewUserRepository(pool),
		movs:     postgres.NewMovementRepository(pool),
	}
	f.ledger = inventory.NewLedgerUseCase(tx, f.products, f.movs, nil)
	f.catalog = usecase.NewProductUseCase(tx, f.products, f.users, f.ledger, entity.DeletePolicyDeactivate)

	now := time.Now()
	admin := &entity.User{ID: "admin-1", Email: "admin@restaurante.com", Name: "Admin", Role: entity.RoleAdmin, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.users.Create(context.Background(), admin))
	f.actor = entity.Actor{UserID: admin.ID, Role: admin.Role}
	return f
}

func (f *pgFixture) createProduct(t *testing.T, name string, stock int64) *dto.ProductResponse {
	t.Helper()
	price := decimal.RequireFromString("12500.50")
	p, err := f.catalog.Create(context.Background(), f.actor, dto.CreateProductRequest{
		Name: name, Price: &price, Stock: &stock, Category: "ALMUERZO",
	})
	require.NoError(t, err)
	return p
}

func TestPostgres_RepositoriosYRestricciones(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	p := f.createProduct(t, "Sopa", 10)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, decimal.RequireFromString("12500.50").Equal(got.Price))
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "admin@restaurante.com", got.CreatedBy.Email)

	missing, err := f.products.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)

	dup := *got
	dup.ID = "otro"
	assert.True(t, errors.Is(f.products.Create(ctx, &dup), domain.ErrConflict))

	dupUser := &entity.User{ID: "u-2", Email: "admin@restaurante.com", Role: entity.RoleUser, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	assert.True(t, errors.Is(f.users.Create(ctx, dupUser), domain.ErrConflict))

	bad := &entity.Movement{ID: "m-x", Type: entity.MovementTypeEntrada, Quantity: 1, ProductID: "no-existe", ExecutedByID: f.actor.UserID, Date: time.Now()}
	assert.Equal(t, domain.KindNotFound, domain.KindOf(f.movs.Create(ctx, bad)))

	err = f.products.UpdateStock(ctx, p.ID, -1)
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err), "el CHECK de stock no debe llegar como 500")

	_, err = f.ledger.RecordMovement(ctx, f.actor, dto.RegisterMovementRequest{ProductID: p.ID, Type: "ENTRADA", Quantity: math.MaxInt64})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
	got, err = f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Stock)
}

func TestPostgres_SecuenciaSopaYConciliacion(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	p := f.createProduct(t, "Sopa", 10)

	_, err := f.ledger.RecordMovement(ctx, f.actor, dto.RegisterMovementRequest{ProductID: p.ID, Type: "ENTRADA", Quantity: 5})
	require.NoError(t, err)

	_, err = f.ledger.RecordMovement(ctx, f.actor, dto.RegisterMovementRequest{ProductID: p.ID, Type: "SALIDA", Quantity: 20})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	mov, err := f.ledger.RecordMovement(ctx, f.actor, dto.RegisterMovementRequest{ProductID: p.ID, Type: "SALIDA", Quantity: 15})
	require.NoError(t, err)
	assert.Equal(t, "Sopa", mov.ProductName)

	check, err := f.ledger.Reconcile(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.Equal(t, int64(0), check.ActualStock)

	list, err := f.ledger.ListMovements(ctx, dto.MovementFilterRequest{ProductID: p.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "SALIDA", list[0].Type)
	require.NotNil(t, list[0].ExecutedBy)
	assert.Equal(t, "Admin", list[0].ExecutedBy.Name)
}

func TestPostgres_SalidasConcurrentes(t *testing.T) {
	f := newPGFixture(t)
	p := f.createProduct(t, "Bandeja", 10)

	const workers = 8
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.RecordMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
				ProductID: p.ID, Type: "SALIDA", Quantity: 3,
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok, "FOR UPDATE serializa las salidas")
	got, err := f.products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Stock)
}

func TestPostgres_TxRunnerRollback(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	p := f.createProduct(t, "Ajiaco", 4)
	boom := errors.New("falla")

	err := postgres.NewTxRunner(f.pool).Run(ctx, func(products repository.ProductRepository, movs repository.MovementRepository, _ repository.UserRepository) error {
		if err := movs.Create(ctx, &entity.Movement{
			ID: "m-1", Type: entity.MovementTypeEntrada, Quantity: 6, ProductID: p.ID, ExecutedByID: f.actor.UserID, Date: time.Now(),
		}); err != nil {
			return err
		}
		if err := products.UpdateStock(ctx, p.ID, 10); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Stock)
	n, err := f.movs.CountByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostgres_AjusteYBorrado(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	fresh := f.createProduct(t, "Jugo", 3)
	used := f.createProduct(t, "Limonada", 3)

	stock := int64(9)
	out, err := f.catalog.Update(ctx, f.actor, used.ID, dto.UpdateProductRequest{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, int64(9), out.Stock)

	res, err := f.catalog.Delete(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.DeleteResultDeleted, res.Result)

	res, err = f.catalog.Delete(ctx, used.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.DeleteResultDeactivated, res.Result)

	analytics := postgres.NewAnalyticsRepository(f.pool)
	active, err := analytics.CountActiveProducts(ctx)
	require.NoError(t, err)
	assert.Zero(t, active)

	low, err := analytics.GetLowStock(ctx, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, low)
}
