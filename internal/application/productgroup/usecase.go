// Package productgroup orquesta los grupos de productos y sus dos políticas de descuento:
// la de la petición (Create/Update) y la de cambio de membresía (AddProduct/RemoveProduct).
package productgroup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/application/ports"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/pricing"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// UseCase casos de uso de grupos de productos.
type UseCase struct {
	groups   repository.ProductGroupRepository
	products repository.ProductRepository
	uow      ports.UnitOfWork
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	groups repository.ProductGroupRepository,
	products repository.ProductRepository,
	uow ports.UnitOfWork,
	log *logger.Logger,
) *UseCase {
	return &UseCase{groups: groups, products: products, uow: uow, log: log.Component("product_groups"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// List devuelve todos los grupos con sus productos y el total vigente.
func (uc *UseCase) List(ctx context.Context) ([]dto.ProductGroupResponse, error) {
	groups, err := uc.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductGroupResponse, 0, len(groups))
	for _, g := range groups {
		members, total, err := uc.resolve(ctx, g.ProductIDs())
		if err != nil {
			return nil, err
		}
		out = append(out, *toResponse(g, members, total))
	}
	return out, nil
}

// GetByID devuelve el grupo con sus productos.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.ProductGroupResponse, error) {
	g, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	members, total, err := uc.resolve(ctx, g.ProductIDs())
	if err != nil {
		return nil, err
	}
	return toResponse(g, members, total), nil
}

// Create crea el grupo con sus vínculos y el descuento resuelto según la petición.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateProductGroupRequest) (*dto.ProductGroupResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ProductGroupNameEmpty()
	}
	var out *dto.ProductGroupResponse
	err := uc.uow.Run(ctx, func(ctx context.Context) error {
		existing, err := uc.groups.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ProductGroupNameExists(name)
		}

		members, total, err := uc.resolve(ctx, dedupe(in.ProductIDs))
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return domain.ProductGroupEmpty()
		}
		discount, err := pricing.Resolve(total, toInput(in.DiscountFields))
		if err != nil {
			return policyRejection(err)
		}

		now := uc.now()
		g := &entity.ProductGroup{
			ID:        uuid.New().String(),
			Name:      name,
			Image:     strings.TrimSpace(in.Image),
			CreatedAt: now,
		}
		g.ReplaceProducts(productIDs(members), now)
		apply(g, discount)

		if err := uc.groups.Create(ctx, g); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ProductGroupNameExists(name)
			}
			return err
		}
		uc.log.Info().Str("group_id", g.ID).Int("products", len(members)).
			Str("total", total.String()).Str("price_with_discount", g.PriceWithDiscount.String()).
			Msg("grupo de productos creado")
		out = toResponse(g, members, total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifica nombre, imagen y descuento. Con ProductIDs no vacío reemplaza la membresía completa;
// vacío conserva la actual.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateProductGroupRequest) (*dto.ProductGroupResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ProductGroupNameEmpty()
	}
	var out *dto.ProductGroupResponse
	err := uc.uow.Run(ctx, func(ctx context.Context) error {
		g, err := uc.get(ctx, id)
		if err != nil {
			return err
		}
		if !entity.SameName(g.Name, name) {
			existing, err := uc.groups.GetByName(ctx, name)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != id {
				return domain.ProductGroupNameExists(name)
			}
		}

		var members []*entity.Product
		var total decimal.Decimal
		if len(in.ProductIDs) > 0 {
			members, total, err = uc.resolve(ctx, dedupe(in.ProductIDs))
			if err != nil {
				return err
			}
			if len(members) > 0 {
				g.ReplaceProducts(productIDs(members), uc.now())
			}
		} else {
			members, total, err = uc.resolve(ctx, g.ProductIDs())
			if err != nil {
				return err
			}
		}
		// Vale para ambas ramas: un grupo vaciado por RemoveProduct no admite descuento.
		if len(members) == 0 {
			return domain.ProductGroupEmpty()
		}

		discount, err := pricing.Resolve(total, toInput(in.DiscountFields))
		if err != nil {
			return policyRejection(err)
		}
		g.Name = name
		g.Image = strings.TrimSpace(in.Image)
		apply(g, discount)

		if err := uc.groups.Update(ctx, g); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ProductGroupNameExists(name)
			}
			return err
		}
		uc.log.Info().Str("group_id", id).Int("products", len(g.Products)).
			Str("price_with_discount", g.PriceWithDiscount.String()).Msg("grupo de productos actualizado")
		out = toResponse(g, members, total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina el grupo; los vínculos caen en cascada.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.uow.Run(ctx, func(ctx context.Context) error {
		if _, err := uc.get(ctx, id); err != nil {
			return err
		}
		if err := uc.groups.Delete(ctx, id); err != nil {
			return err
		}
		uc.log.Info().Str("group_id", id).Msg("grupo de productos eliminado")
		return nil
	})
}

// AddProduct agrega un producto al grupo y recalcula el descuento con la política de membresía.
func (uc *UseCase) AddProduct(ctx context.Context, groupID, productID string) (*dto.ProductGroupResponse, error) {
	var out *dto.ProductGroupResponse
	err := uc.uow.Run(ctx, func(ctx context.Context) error {
		g, err := uc.get(ctx, groupID)
		if err != nil {
			return err
		}
		p, err := uc.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ProductNotFound(productID)
		}
		if !g.AddProduct(productID, uc.now()) {
			return domain.ProductAlreadyInGroup(productID, groupID)
		}
		out, err = uc.recalculateAndSave(ctx, g)
		if err != nil {
			return err
		}
		uc.log.Info().Str("group_id", groupID).Str("product_id", productID).Msg("producto agregado al grupo")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveProduct quita un producto del grupo y recalcula. Quitar el último deja el descuento en cero.
func (uc *UseCase) RemoveProduct(ctx context.Context, groupID, productID string) (*dto.ProductGroupResponse, error) {
	var out *dto.ProductGroupResponse
	err := uc.uow.Run(ctx, func(ctx context.Context) error {
		g, err := uc.get(ctx, groupID)
		if err != nil {
			return err
		}
		if !g.RemoveProduct(productID) {
			return domain.ProductNotInGroup(productID, groupID)
		}
		out, err = uc.recalculateAndSave(ctx, g)
		if err != nil {
			return err
		}
		uc.log.Info().Str("group_id", groupID).Str("product_id", productID).Msg("producto quitado del grupo")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// recalculateAndSave reprecia contra la membresía actual conservando el porcentaje guardado.
func (uc *UseCase) recalculateAndSave(ctx context.Context, g *entity.ProductGroup) (*dto.ProductGroupResponse, error) {
	members, total, err := uc.resolve(ctx, g.ProductIDs())
	if err != nil {
		return nil, err
	}
	apply(g, pricing.Reprice(total, g.DiscountPercentage))
	if err := uc.groups.Update(ctx, g); err != nil {
		return nil, err
	}
	return toResponse(g, members, total), nil
}

func (uc *UseCase) get(ctx context.Context, id string) (*entity.ProductGroup, error) {
	g, err := uc.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.ProductGroupNotFound(id)
	}
	return g, nil
}

// resolve carga cada producto por ID (sin caché) y suma sus precios. Los IDs que ya no existen se omiten.
func (uc *UseCase) resolve(ctx context.Context, ids []string) ([]*entity.Product, decimal.Decimal, error) {
	members := make([]*entity.Product, 0, len(ids))
	prices := make([]decimal.Decimal, 0, len(ids))
	for _, id := range ids {
		p, err := uc.products.GetByID(ctx, id)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if p == nil {
			uc.log.Warn().Str("product_id", id).Msg("producto no encontrado al calcular el total del grupo, se omite")
			continue
		}
		members = append(members, p)
		prices = append(prices, p.Price)
	}
	return members, pricing.TotalPrice(prices), nil
}

func policyRejection(err error) error {
	var pe *pricing.PolicyError
	if !errors.As(err, &pe) {
		return err
	}
	switch pe.Reason {
	case pricing.ReasonMultipleMethods:
		return domain.ProductGroupOnlyOneDiscountMethod()
	case pricing.ReasonPriceAboveTotal:
		return domain.ProductGroupPriceAboveTotal()
	case pricing.ReasonPercentAbove100:
		return domain.ProductGroupPercentageAbove100()
	case pricing.ReasonAmountAboveTotal:
		return domain.ProductGroupAmountAboveTotal()
	}
	return err
}

func apply(g *entity.ProductGroup, d pricing.Discount) {
	g.PriceWithDiscount = d.PriceWithDiscount
	g.DiscountPercentage = d.DiscountPercentage
	g.DiscountedAmount = d.DiscountedAmount
}

func toInput(f dto.DiscountFields) pricing.DiscountInput {
	return pricing.DiscountInput{
		PriceWithDiscount:  f.PriceWithDiscount,
		DiscountPercentage: f.DiscountPercentage,
		DiscountedAmount:   f.DiscountedAmount,
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func productIDs(products []*entity.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func toResponse(g *entity.ProductGroup, members []*entity.Product, total decimal.Decimal) *dto.ProductGroupResponse {
	products := make([]dto.ProductResponse, 0, len(members))
	for _, p := range members {
		products = append(products, *dto.NewProductResponse(p))
	}
	return &dto.ProductGroupResponse{
		ID:         g.ID,
		Name:       g.Name,
		Image:      g.Image,
		TotalPrice: total,
		Products:   products,
		CreatedAt:  g.CreatedAt,
		DiscountFields: dto.DiscountFields{
			PriceWithDiscount:  g.PriceWithDiscount,
			DiscountPercentage: g.DiscountPercentage,
			DiscountedAmount:   g.DiscountedAmount,
		},
	}
}
