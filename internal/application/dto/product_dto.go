package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name       string          `json:"name" validate:"max=200"`
	Price      decimal.Decimal `json:"price"`
	CategoryID string          `json:"category_id" validate:"required"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Name       string          `json:"name" validate:"max=200"`
	Price      decimal.Decimal `json:"price"`
	CategoryID string          `json:"category_id" validate:"required"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
