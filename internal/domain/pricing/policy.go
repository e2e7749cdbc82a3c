package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountInput campos de descuento tal como llegan en la petición. Cero o negativo = no especificado.
type DiscountInput struct {
	PriceWithDiscount  decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountedAmount   decimal.Decimal
}

// Discount valores resueltos que se persisten en el grupo.
type Discount struct {
	PriceWithDiscount  decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountedAmount   decimal.Decimal
}

// Reason motivo de rechazo de la política de descuento.
type Reason int

const (
	ReasonMultipleMethods Reason = iota + 1
	ReasonPriceAboveTotal
	ReasonPercentAbove100
	ReasonAmountAboveTotal
)

// PolicyError rechazo de Resolve. Specified lista los campos que venían informados.
type PolicyError struct {
	Reason    Reason
	Specified []string
}

func (e *PolicyError) Error() string {
	switch e.Reason {
	case ReasonMultipleMethods:
		return fmt.Sprintf("pricing: más de un método de descuento (%s)", strings.Join(e.Specified, ", "))
	case ReasonPriceAboveTotal:
		return "pricing: price_with_discount supera el total"
	case ReasonPercentAbove100:
		return "pricing: discount_percentage supera 100"
	case ReasonAmountAboveTotal:
		return "pricing: discounted_amount supera el total"
	default:
		return "pricing: descuento inválido"
	}
}

// NoDiscount grupo sin descuento: precio = total.
func NoDiscount(total decimal.Decimal) Discount {
	return Discount{
		PriceWithDiscount:  total,
		DiscountPercentage: decimal.Zero,
		DiscountedAmount:   decimal.Zero,
	}
}

// Resolve aplica la política de creación/actualización: gana el único campo informado en la petición.
//   - ninguno informado → sin descuento
//   - más de uno → ReasonMultipleMethods
//   - uno → se valida su cota y se derivan los otros dos
func Resolve(total decimal.Decimal, in DiscountInput) (Discount, error) {
	names := specified(in)
	switch {
	case len(names) == 0:
		return NoDiscount(total), nil
	case len(names) > 1:
		return Discount{}, &PolicyError{Reason: ReasonMultipleMethods, Specified: names}
	}

	switch {
	case in.PriceWithDiscount.IsPositive():
		if in.PriceWithDiscount.GreaterThan(total) {
			return Discount{}, &PolicyError{Reason: ReasonPriceAboveTotal, Specified: names}
		}
		return Discount{
			PriceWithDiscount:  in.PriceWithDiscount,
			DiscountPercentage: PercentageFromPriceWithDiscount(total, in.PriceWithDiscount),
			DiscountedAmount:   total.Sub(in.PriceWithDiscount),
		}, nil
	case in.DiscountPercentage.IsPositive():
		if in.DiscountPercentage.GreaterThan(hundred) {
			return Discount{}, &PolicyError{Reason: ReasonPercentAbove100, Specified: names}
		}
		return fromPercentage(total, in.DiscountPercentage), nil
	default:
		if in.DiscountedAmount.GreaterThan(total) {
			return Discount{}, &PolicyError{Reason: ReasonAmountAboveTotal, Specified: names}
		}
		return Discount{
			PriceWithDiscount:  total.Sub(in.DiscountedAmount),
			DiscountPercentage: PercentageFromDiscountedAmount(total, in.DiscountedAmount),
			DiscountedAmount:   in.DiscountedAmount,
		}, nil
	}
}

// Reprice aplica la política de cambio de membresía: sobrevive el porcentaje guardado.
//   - total <= 0 (grupo vacío) → los tres campos en cero
//   - porcentaje guardado > 0 → se conserva y se recalculan precio y monto contra el nuevo total
//   - sin porcentaje → sin descuento
func Reprice(total, storedPercentage decimal.Decimal) Discount {
	if total.LessThanOrEqual(decimal.Zero) {
		return Discount{
			PriceWithDiscount:  decimal.Zero,
			DiscountPercentage: decimal.Zero,
			DiscountedAmount:   decimal.Zero,
		}
	}
	if storedPercentage.IsPositive() {
		return fromPercentage(total, storedPercentage)
	}
	return NoDiscount(total)
}

func fromPercentage(total, pct decimal.Decimal) Discount {
	return Discount{
		PriceWithDiscount:  PriceWithDiscountFromPercentage(total, pct),
		DiscountPercentage: pct,
		DiscountedAmount:   DiscountedAmountFromPercentage(total, pct),
	}
}

func specified(in DiscountInput) []string {
	var names []string
	if in.PriceWithDiscount.IsPositive() {
		names = append(names, "price_with_discount")
	}
	if in.DiscountPercentage.IsPositive() {
		names = append(names, "discount_percentage")
	}
	if in.DiscountedAmount.IsPositive() {
		names = append(names, "discounted_amount")
	}
	return names
}
