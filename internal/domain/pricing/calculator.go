package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// TotalPrice suma los precios de los productos del grupo.
func TotalPrice(prices []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	return total
}

// PriceWithDiscountFromPercentage = total * (100 - pct) / 100, con pct acotado a [0, 100].
func PriceWithDiscountFromPercentage(total, pct decimal.Decimal) decimal.Decimal {
	pct = clampPercentage(pct)
	return total.Mul(hundred.Sub(pct)).Div(hundred)
}

// DiscountedAmountFromPercentage = total * pct / 100, con pct acotado a [0, 100].
func DiscountedAmountFromPercentage(total, pct decimal.Decimal) decimal.Decimal {
	pct = clampPercentage(pct)
	return total.Mul(pct).Div(hundred)
}

// PercentageFromPriceWithDiscount devuelve 0 si total <= 0 o si el precio no es menor que el total.
func PercentageFromPriceWithDiscount(total, priceWithDiscount decimal.Decimal) decimal.Decimal {
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if priceWithDiscount.GreaterThanOrEqual(total) {
		return decimal.Zero
	}
	return total.Sub(priceWithDiscount).Div(total).Mul(hundred)
}

// PercentageFromDiscountedAmount devuelve 0 si total <= 0 o amount <= 0, y 100 si amount >= total.
func PercentageFromDiscountedAmount(total, amount decimal.Decimal) decimal.Decimal {
	if total.LessThanOrEqual(decimal.Zero) || amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if amount.GreaterThanOrEqual(total) {
		return hundred
	}
	return amount.Div(total).Mul(hundred)
}

// ValidPrices indica si total > 0 y exactamente uno de los tres campos es positivo.
func ValidPrices(total, priceWithDiscount, pct, amount decimal.Decimal) bool {
	if total.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return len(specified(DiscountInput{
		PriceWithDiscount:  priceWithDiscount,
		DiscountPercentage: pct,
		DiscountedAmount:   amount,
	})) == 1
}

func clampPercentage(pct decimal.Decimal) decimal.Decimal {
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
