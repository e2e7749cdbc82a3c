package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	repo repository.CategoryRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, log: log.Component("categories"), now: time.Now}
}

func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *dto.NewCategoryResponse(c))
	}
	return out, nil
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.CategoryNotFound(id)
	}
	return dto.NewCategoryResponse(c), nil
}

// Create crea una categoría; el nombre es obligatorio y único sin distinguir mayúsculas.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.CategoryNameEmpty()
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.CategoryNameExists(name)
	}
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: uc.now()}
	if err := uc.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.CategoryNameExists(name)
		}
		return nil, err
	}
	uc.log.Info().Str("category_id", c.ID).Str("name", name).Msg("categoría creada")
	return dto.NewCategoryResponse(c), nil
}

// Update renombra la categoría. La unicidad solo se revisa si el nombre cambia, excluyendo la propia categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.CategoryNameEmpty()
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.CategoryNotFound(id)
	}
	if !entity.SameName(c.Name, name) {
		existing, err := uc.repo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.CategoryNameExists(name)
		}
	}
	c.Name = name
	if err := uc.repo.Update(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.CategoryNameExists(name)
		}
		return nil, err
	}
	uc.log.Info().Str("category_id", id).Str("name", name).Msg("categoría actualizada")
	return dto.NewCategoryResponse(c), nil
}

func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.CategoryNotFound(id)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.CategoryHasProducts(id)
		}
		return err
	}
	uc.log.Info().Str("category_id", id).Msg("categoría eliminada")
	return nil
}
