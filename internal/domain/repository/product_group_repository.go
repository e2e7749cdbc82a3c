package repository

import (
	"context"

	"github.com/jhoicas/myshop-api/internal/domain/entity"
)

// ProductGroupRepository define el puerto de persistencia para ProductGroup y sus vínculos.
type ProductGroupRepository interface {
	List(ctx context.Context) ([]*entity.ProductGroup, error)
	// GetByID carga el grupo con sus vínculos de membresía.
	GetByID(ctx context.Context, id string) (*entity.ProductGroup, error)
	GetByName(ctx context.Context, name string) (*entity.ProductGroup, error)
	// Create persiste la fila del grupo y todos sus vínculos.
	Create(ctx context.Context, group *entity.ProductGroup) error
	// Update persiste los campos del grupo y sincroniza los vínculos con group.Products.
	Update(ctx context.Context, group *entity.ProductGroup) error
	// Delete elimina el grupo; los vínculos se borran en cascada.
	Delete(ctx context.Context, id string) error
}
