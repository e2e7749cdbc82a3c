package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductGroup es un conjunto de productos que se vende con un único descuento derivado.
// De los tres campos de descuento solo uno se recibe como entrada; los otros dos se calculan.
type ProductGroup struct {
	ID                 string
	Name               string
	Image              string
	PriceWithDiscount  decimal.Decimal
	DiscountPercentage decimal.Decimal // 0..100
	DiscountedAmount   decimal.Decimal
	CreatedAt          time.Time
	Products           []ProductGroupProduct
}

// ProductGroupProduct es el vínculo de pertenencia grupo ↔ producto. El par (grupo, producto) es único.
type ProductGroupProduct struct {
	ProductGroupID string
	ProductID      string
	CreatedAt      time.Time
}

// HasProduct indica si el producto ya pertenece al grupo.
func (g *ProductGroup) HasProduct(productID string) bool {
	for _, link := range g.Products {
		if link.ProductID == productID {
			return true
		}
	}
	return false
}

// AddProduct agrega el vínculo si no existe. Devuelve false si ya estaba.
func (g *ProductGroup) AddProduct(productID string, now time.Time) bool {
	if g.HasProduct(productID) {
		return false
	}
	g.Products = append(g.Products, ProductGroupProduct{
		ProductGroupID: g.ID,
		ProductID:      productID,
		CreatedAt:      now,
	})
	return true
}

// RemoveProduct quita el vínculo. Devuelve false si el producto no pertenecía al grupo.
func (g *ProductGroup) RemoveProduct(productID string) bool {
	for i, link := range g.Products {
		if link.ProductID == productID {
			g.Products = append(g.Products[:i], g.Products[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceProducts reemplaza toda la membresía por los productos indicados.
func (g *ProductGroup) ReplaceProducts(productIDs []string, now time.Time) {
	g.Products = make([]ProductGroupProduct, 0, len(productIDs))
	for _, id := range productIDs {
		g.AddProduct(id, now)
	}
}

// ProductIDs devuelve los IDs de los productos miembros en orden de inserción.
func (g *ProductGroup) ProductIDs() []string {
	ids := make([]string, 0, len(g.Products))
	for _, link := range g.Products {
		ids = append(ids, link.ProductID)
	}
	return ids
}
