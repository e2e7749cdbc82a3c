package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountFields los tres métodos de descuento; en la entrada solo uno puede ser positivo.
type DiscountFields struct {
	PriceWithDiscount  decimal.Decimal `json:"price_with_discount"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountedAmount   decimal.Decimal `json:"discounted_amount"`
}

// CreateProductGroupRequest entrada para crear un grupo de productos.
type CreateProductGroupRequest struct {
	Name       string   `json:"name" validate:"max=200"`
	Image      string   `json:"image" validate:"max=500"`
	ProductIDs []string `json:"product_ids" validate:"dive,required"`
	DiscountFields
}

// UpdateProductGroupRequest entrada para actualizar un grupo. ProductIDs vacío conserva la membresía actual.
type UpdateProductGroupRequest struct {
	Name       string   `json:"name" validate:"max=200"`
	Image      string   `json:"image" validate:"max=500"`
	ProductIDs []string `json:"product_ids" validate:"dive,required"`
	DiscountFields
}

// ProductGroupResponse salida de un grupo con sus productos.
type ProductGroupResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Image      string            `json:"image"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	Products   []ProductResponse `json:"products"`
	CreatedAt  time.Time         `json:"created_at"`
	DiscountFields
}
