// seed carga los datos iniciales del restaurante (usuarios, platillos y movimientos)
// usando los mismos casos de uso que la API, de modo que el libro queda cuadrado.
//
// Uso: go run ./cmd/seed [-csv menu.csv] [-encoding latin1|utf8]
//
// El CSV opcional usa ';' como separador y las columnas:
// nombre;descripcion;precio;stock;categoria;imagen
// Es idempotente: los usuarios y productos que ya existen se omiten.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/application/usecase"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Restaurante-api/pkg/config"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
)

type seedUser struct {
	email, name string
	role        entity.Role
}

type seedMovement struct {
	product  string
	t        entity.MovementType
	quantity int64
	by       string // email
}

var users = []seedUser{
	{email: "admin@restaurant.com", name: "Administrator", role: entity.RoleAdmin},
	{email: "user@restaurant.com", name: "Regular User", role: entity.RoleUser},
}

var products = []dto.CreateProductRequest{
	{Name: "Pollo Teriyaki", Description: "Delicioso pollo con salsa teriyaki acompañado de arroz y vegetales", Price: priceOf("15.99"), Stock: qty(100), Category: "ALMUERZO", ImageURL: "https://example.com/pollo-teriyaki.jpg"},
	{Name: "Pasta Penne", Description: "Pasta penne con salsa de tomate y albahaca fresca", Price: priceOf("12.99"), Stock: qty(75), Category: "ALMUERZO", ImageURL: "https://example.com/pasta-penne.jpg"},
	{Name: "Pizza Margherita", Description: "Pizza clásica con tomate, mozzarella y albahaca", Price: priceOf("29.99"), Stock: qty(50), Category: "CENA", ImageURL: "https://example.com/pizza-margherita.jpg"},
	{Name: "Pancakes", Description: "Pancakes esponjosos con miel y frutas frescas", Price: priceOf("7.99"), Stock: qty(30), Category: "DESAYUNO", ImageURL: "https://example.com/pancakes.jpg"},
	{Name: "Hamburguesa Clásica", Description: "Hamburguesa de carne con lechuga, tomate y papas fritas", Price: priceOf("13.99"), Stock: qty(40), Category: "ALMUERZO", ImageURL: "https://example.com/hamburguesa.jpg"},
}

var movements = []seedMovement{
	{product: "Pollo Teriyaki", t: entity.MovementTypeEntrada, quantity: 20, by: "admin@restaurant.com"},
	{product: "Pollo Teriyaki", t: entity.MovementTypeSalida, quantity: 5, by: "user@restaurant.com"},
	{product: "Pasta Penne", t: entity.MovementTypeEntrada, quantity: 30, by: "admin@restaurant.com"},
	{product: "Pizza Margherita", t: entity.MovementTypeSalida, quantity: 10, by: "user@restaurant.com"},
}

func main() {
	csvPath := flag.String("csv", "", "CSV opcional con platillos adicionales")
	encoding := flag.String("encoding", "latin1", "codificación del CSV: latin1 | utf8")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.DB.Driver != config.DriverPostgres {
		log.Fatal().Str("db_driver", cfg.DB.Driver).Msg("seed requiere DB_DRIVER=postgres")
	}

	ctx := context.Background()
	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)

	ledger := inventory.NewLedgerUseCase(txRunner, productRepo, movRepo, nil)
	productUC := usecase.NewProductUseCase(txRunner, productRepo, userRepo, ledger, entity.DeletePolicy(cfg.Inventory.DeletePolicy))
	userUC := usecase.NewUserUseCase(userRepo)

	// 1. Usuarios
	ids := make(map[string]string, len(users))
	for _, u := range users {
		existing, err := userRepo.GetByEmail(ctx, u.email)
		if err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("buscar usuario")
		}
		if existing != nil {
			ids[u.email] = existing.ID
			continue
		}
		created, err := userUC.Register(ctx, dto.RegisterRequest{Email: u.email, Name: u.name})
		if err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("crear usuario")
		}
		if u.role != entity.RoleUser {
			if _, err := userUC.UpdateRole(ctx, created.ID, string(u.role)); err != nil {
				log.Fatal().Err(err).Str("email", u.email).Msg("asignar rol")
			}
		}
		ids[u.email] = created.ID
		log.Info().Str("email", u.email).Str("role", string(u.role)).Msg("usuario creado")
	}
	admin := entity.Actor{UserID: ids["admin@restaurant.com"], Role: entity.RoleAdmin}

	// 2. Platillos (los movimientos solo se registran para los creados en esta corrida)
	created := make(map[string]string)
	for _, p := range products {
		id, ok, err := createProduct(ctx, productUC, admin, p)
		if err != nil {
			log.Fatal().Err(err).Str("product", p.Name).Msg("crear producto")
		}
		if ok {
			created[p.Name] = id
			log.Info().Str("product", p.Name).Msg("producto creado")
		}
	}

	// 3. Movimientos vía el libro
	for _, m := range movements {
		productID, ok := created[m.product]
		if !ok {
			continue
		}
		executor := ids[m.by]
		_, err := ledger.RecordMovement(ctx, entity.Actor{UserID: executor}, dto.RegisterMovementRequest{
			ProductID: productID,
			Type:      string(m.t),
			Quantity:  m.quantity,
		})
		if err != nil {
			log.Fatal().Err(err).Str("product", m.product).Msg("registrar movimiento")
		}
	}

	// 4. CSV opcional
	if *csvPath != "" {
		n, err := importCSV(ctx, productUC, admin, *csvPath, *encoding)
		if err != nil {
			log.Fatal().Err(err).Str("file", *csvPath).Msg("importar CSV")
		}
		log.Info().Int("products", n).Str("file", *csvPath).Msg("CSV importado")
	}

	log.Info().Int("products", len(created)).Msg("seed completado")
}

// createProduct crea el producto si no existe. ok es false cuando ya existía.
func createProduct(ctx context.Context, uc *usecase.ProductUseCase, actor entity.Actor, in dto.CreateProductRequest) (string, bool, error) {
	out, err := uc.Create(ctx, actor, in)
	if errors.Is(err, domain.ErrConflict) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out.ID, true, nil
}

// importCSV lee platillos desde un CSV separado por ';'. Con latin1 decodifica
// ISO-8859-1 (exportaciones de hojas de cálculo en Windows).
func importCSV(ctx context.Context, uc *usecase.ProductUseCase, actor entity.Actor, path, encoding string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(encoding) {
	case "latin1", "iso-8859-1":
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	case "utf8", "utf-8":
	default:
		return 0, fmt.Errorf("codificación no soportada %q", encoding)
	}

	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("leer CSV: %w", err)
	}

	n := 0
	for i, rec := range records {
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "nombre") {
			continue
		}
		in, err := parseRecord(rec)
		if err != nil {
			return n, fmt.Errorf("línea %d: %w", i+1, err)
		}
		_, ok, err := createProduct(ctx, uc, actor, in)
		if err != nil {
			return n, fmt.Errorf("línea %d: %w", i+1, err)
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func parseRecord(rec []string) (dto.CreateProductRequest, error) {
	if len(rec) < 5 {
		return dto.CreateProductRequest{}, fmt.Errorf("se esperaban al menos 5 columnas, hay %d", len(rec))
	}
	price, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(rec[2]), ",", ".", 1))
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("precio inválido %q", rec[2])
	}
	stock, err := strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("stock inválido %q", rec[3])
	}
	in := dto.CreateProductRequest{
		Name:        rec[0],
		Description: rec[1],
		Price:       &price,
		Stock:       &stock,
		Category:    strings.ToUpper(strings.TrimSpace(rec[4])),
	}
	if len(rec) > 5 {
		in.ImageURL = rec[5]
	}
	return in, nil
}

func priceOf(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func qty(n int64) *int64 { return &n }
