package dto

import "github.com/shopspring/decimal"

// CartRequest productos sueltos y grupos a cotizar.
type CartRequest struct {
	ProductIDs      []string `json:"product_ids" validate:"dive,required"`
	ProductGroupIDs []string `json:"product_group_ids" validate:"dive,required"`
}

// CartResponse totales del carrito.
type CartResponse struct {
	ProductCount                  int             `json:"product_count"`
	ProductTotalPrice             decimal.Decimal `json:"product_total_price"`
	ProductTotalPriceWithDiscount decimal.Decimal `json:"product_total_price_with_discount"`
}
