package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Pertenece a una Category por referencia (sin cascada).
type Product struct {
	ID           string
	Name         string
	Price        decimal.Decimal // precio de venta, nunca negativo
	CategoryID   string
	CategoryName string // solo lectura, viene del JOIN
	CreatedAt    time.Time
}
