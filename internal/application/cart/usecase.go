// Package cart cotiza un carrito de productos sueltos y grupos con descuento. Solo lectura.
package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/myshop-api/internal/application/dto"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

// Sum suma el precio de dos productos; un producto nil cuenta como 0.
func Sum(p1, p2 *entity.Product) decimal.Decimal {
	total := decimal.Zero
	if p1 != nil {
		total = total.Add(p1.Price)
	}
	if p2 != nil {
		total = total.Add(p2.Price)
	}
	return total
}

// UseCase cálculo de totales del carrito.
type UseCase struct {
	products repository.ProductRepository
	groups   repository.ProductGroupRepository
	log      *logger.Logger
}

func NewUseCase(products repository.ProductRepository, groups repository.ProductGroupRepository, log *logger.Logger) *UseCase {
	return &UseCase{products: products, groups: groups, log: log.Component("cart")}
}

// Calculate: los productos sueltos suman a precio completo en ambos totales; cada grupo aporta sus
// miembros al conteo, la suma fresca de sus precios al total y su precio con descuento guardado al
// total con descuento.
func (uc *UseCase) Calculate(ctx context.Context, in dto.CartRequest) (*dto.CartResponse, error) {
	out := &dto.CartResponse{
		ProductTotalPrice:             decimal.Zero,
		ProductTotalPriceWithDiscount: decimal.Zero,
	}
	for _, id := range in.ProductIDs {
		p, err := uc.products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ProductNotFound(id)
		}
		out.ProductCount++
		out.ProductTotalPrice = out.ProductTotalPrice.Add(p.Price)
		out.ProductTotalPriceWithDiscount = out.ProductTotalPriceWithDiscount.Add(p.Price)
	}
	for _, id := range in.ProductGroupIDs {
		g, err := uc.groups.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, domain.ProductGroupNotFound(id)
		}
		for _, productID := range g.ProductIDs() {
			p, err := uc.products.GetByID(ctx, productID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				uc.log.Warn().Str("group_id", id).Str("product_id", productID).Msg("producto del grupo no encontrado, se omite")
				continue
			}
			out.ProductCount++
			out.ProductTotalPrice = out.ProductTotalPrice.Add(p.Price)
		}
		out.ProductTotalPriceWithDiscount = out.ProductTotalPriceWithDiscount.Add(g.PriceWithDiscount)
	}
	uc.log.Debug().Int("product_count", out.ProductCount).Str("total", out.ProductTotalPrice.String()).Msg("carrito calculado")
	return out, nil
}
