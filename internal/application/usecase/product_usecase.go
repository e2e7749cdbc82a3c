package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// ProductUseCase casos de uso CRUD para productos. Toda escritura valida que la categoría exista.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories, log: log.Component("products"), now: time.Now}
}

func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *dto.NewProductResponse(p))
	}
	return out, nil
}

func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ProductNotFound(id)
	}
	return dto.NewProductResponse(p), nil
}

// Create crea un producto en una categoría existente.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, err := validateProduct(in.Name, in.Price)
	if err != nil {
		return nil, err
	}
	category, err := uc.category(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	p := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		Price:        in.Price,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		CreatedAt:    uc.now(),
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", p.ID).Str("category_id", p.CategoryID).Msg("producto creado")
	return dto.NewProductResponse(p), nil
}

// Update valida primero la categoría y luego el producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	name, err := validateProduct(in.Name, in.Price)
	if err != nil {
		return nil, err
	}
	category, err := uc.category(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ProductNotFound(id)
	}
	p.Name = name
	p.Price = in.Price
	p.CategoryID = category.ID
	p.CategoryName = category.Name
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", id).Msg("producto actualizado")
	return dto.NewProductResponse(p), nil
}

// Delete elimina el producto; sus vínculos con grupos desaparecen en cascada.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ProductNotFound(id)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

func (uc *ProductUseCase) category(ctx context.Context, id string) (*entity.Category, error) {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.CategoryNotFound(id)
	}
	return c, nil
}

func validateProduct(name string, price decimal.Decimal) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ProductNameEmpty()
	}
	if price.IsNegative() {
		return "", domain.ProductPriceNegative()
	}
	return name, nil
}
