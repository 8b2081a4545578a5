package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Restaurante-api/internal/domain/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. Stock solo cambia vía movimientos:
// un cambio de stock en Update se registra como ajuste en el libro.
type ProductUseCase struct {
	txRunner     inventory.TxRunner
	repo         repository.ProductRepository
	userRepo     repository.UserRepository
	ledger       *inventory.LedgerUseCase
	deletePolicy entity.DeletePolicy
}

// NewProductUseCase construye el caso de uso. Una política vacía equivale a deactivate.
func NewProductUseCase(
	txRunner inventory.TxRunner,
	repo repository.ProductRepository,
	userRepo repository.UserRepository,
	ledger *inventory.LedgerUseCase,
	deletePolicy entity.DeletePolicy,
) *ProductUseCase {
	if deletePolicy == "" {
		deletePolicy = entity.DeletePolicyDeactivate
	}
	return &ProductUseCase{
		txRunner:     txRunner,
		repo:         repo,
		userRepo:     userRepo,
		ledger:       ledger,
		deletePolicy: deletePolicy,
	}
}

// Create crea un producto. El stock inicial queda como OpeningStock (sin movimientos).
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := NormalizeName(in.Name)
	if name == "" {
		return nil, domain.InvalidArgument("el nombre es obligatorio")
	}
	if in.Price == nil {
		return nil, domain.InvalidArgument("el precio es obligatorio")
	}
	if err := validatePrice(*in.Price); err != nil {
		return nil, err
	}
	if in.Stock == nil {
		return nil, domain.InvalidArgument("el stock es obligatorio")
	}
	if *in.Stock < 0 {
		return nil, domain.InvalidArgument("el stock no puede ser negativo")
	}
	category := entity.Category(in.Category)
	if !category.Valid() {
		return nil, domain.InvalidArgument("categoría inválida %q", in.Category)
	}
	createdBy := strings.TrimSpace(in.CreatedByID)
	if createdBy == "" {
		createdBy = actor.UserID
	}
	if createdBy == "" {
		return nil, domain.InvalidArgument("created_by_id es obligatorio")
	}

	creator, err := uc.userRepo.GetByID(ctx, createdBy)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, domain.NotFound("usuario creador no encontrado")
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("ya existe un producto con el nombre %q", name)
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price.Round(2),
		Stock:        *in.Stock,
		OpeningStock: *in.Stock,
		Category:     category,
		ImageURL:     strings.TrimSpace(in.ImageURL),
		IsActive:     true,
		CreatedByID:  createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	product.CreatedBy = &entity.UserRef{Name: creator.Name, Email: creator.Email}
	return dto.NewProductResponse(product), nil
}

// GetByID obtiene un producto por ID (también los inactivos).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto no encontrado")
	}
	return dto.NewProductResponse(product), nil
}

// List lista productos por fecha de creación descendente.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) ([]dto.ProductResponse, error) {
	filter := repository.ProductFilter{ActiveOnly: in.ActiveOnly}
	if in.Category != "" {
		filter.Category = entity.Category(in.Category)
		if !filter.Category.Valid() {
			return nil, domain.InvalidArgument("categoría inválida %q", in.Category)
		}
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.NewProductResponse(p))
	}
	return items, nil
}

// Update actualiza un producto dentro de una transacción. Un Stock distinto al
// actual genera un movimiento ENTRADA/SALIDA ejecutado por el actor.
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, domain.InvalidArgument("el stock no puede ser negativo")
	}

	var out *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		_ repository.UserRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto no encontrado")
		}
		if in.Name != nil {
			name := NormalizeName(*in.Name)
			if name == "" {
				return domain.InvalidArgument("el nombre es obligatorio")
			}
			if name != product.Name {
				other, err := productRepo.GetByName(ctx, name)
				if err != nil {
					return err
				}
				if other != nil && other.ID != product.ID {
					return domain.Conflict("ya existe un producto con el nombre %q", name)
				}
			}
			product.Name = name
		}
		if in.Description != nil {
			product.Description = strings.TrimSpace(*in.Description)
		}
		if in.Price != nil {
			product.Price = in.Price.Round(2)
		}
		if in.Category != nil {
			c := entity.Category(*in.Category)
			if !c.Valid() {
				return domain.InvalidArgument("categoría inválida %q", *in.Category)
			}
			product.Category = c
		}
		if in.ImageURL != nil {
			product.ImageURL = strings.TrimSpace(*in.ImageURL)
		}
		if in.IsActive != nil {
			product.IsActive = *in.IsActive
		}
		now := time.Now()
		product.UpdatedAt = now
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}

		if in.Stock != nil {
			if t, qty, ok := domaininv.Adjustment(product.Stock, *in.Stock); ok {
				if actor.UserID == "" {
					return domain.InvalidArgument("se requiere un usuario para ajustar el stock")
				}
				if _, err := uc.ledger.ApplyInTx(ctx, productRepo, movRepo, product, t, qty, actor.UserID, now); err != nil {
					return err
				}
				log.Debug().Str("product_id", product.ID).Str("type", string(t)).Int64("quantity", qty).
					Msg("ajuste de stock por edición de producto")
			}
		}

		out, err = productRepo.GetByID(ctx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewProductResponse(out), nil
}

// Delete borra el producto si no tiene movimientos; si los tiene aplica la
// política configurada (desactivar o rechazar con REFERENTIAL_CONFLICT).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) (*dto.DeleteProductResponse, error) {
	var out *dto.DeleteProductResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		_ repository.UserRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto no encontrado")
		}
		n, err := movRepo.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			if err := productRepo.Delete(ctx, id); err != nil {
				return err
			}
			out = &dto.DeleteProductResponse{ID: id, Result: dto.DeleteResultDeleted, Message: "producto eliminado"}
			return nil
		}
		if uc.deletePolicy == entity.DeletePolicyReject {
			return domain.ReferentialConflict("el producto tiene %d movimientos asociados", n)
		}
		if err := productRepo.Deactivate(ctx, id); err != nil {
			return err
		}
		out = &dto.DeleteProductResponse{
			ID:      id,
			Result:  dto.DeleteResultDeactivated,
			Message: "el producto tiene movimientos asociados; se marcó como inactivo",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Menu agrupa los productos activos por categoría en orden de menú.
// Las categorías sin productos no se incluyen.
func (uc *ProductUseCase) Menu(ctx context.Context) ([]dto.MenuSectionResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	byCategory := make(map[entity.Category][]dto.MenuItemResponse)
	for _, p := range list {
		byCategory[p.Category] = append(byCategory[p.Category], dto.MenuItemResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			Available:   p.Stock > 0,
		})
	}
	sections := make([]dto.MenuSectionResponse, 0, len(byCategory))
	for _, c := range entity.Categories() {
		if items, ok := byCategory[c]; ok {
			sections = append(sections, dto.MenuSectionResponse{Category: string(c), Items: items})
		}
	}
	return sections, nil
}

// NormalizeName recorta espacios y normaliza a NFC, de modo que "Café" escrito
// con tilde combinada y precompuesta colisione por unicidad.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.InvalidArgument("el precio no puede ser negativo")
	}
	if p.GreaterThanOrEqual(maxPrice) {
		return domain.InvalidArgument("el precio excede el máximo permitido")
	}
	return nil
}

// maxPrice límite de NUMERIC(10,2).
var maxPrice = decimal.New(1, 8)
