package valuation

import (
	"github.com/shopspring/decimal"
)

// UnitsFor returns the number of units bought for amount at the given unit
// price, rounded to 4 places. Returns zero when the price is not positive.
func UnitsFor(amount, unitPrice decimal.Decimal) decimal.Decimal {
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return amount.Div(unitPrice).Round(4)
}

// MarketValue returns units * price rounded to 2 places.
func MarketValue(units, price decimal.Decimal) decimal.Decimal {
	return units.Mul(price).Round(2)
}

// ProfitLoss returns current - invested.
func ProfitLoss(current, invested decimal.Decimal) decimal.Decimal {
	return current.Sub(invested)
}

// ReturnsPercent returns (current - invested) / invested * 100 rounded to 2
// places, or zero when invested is not positive.
func ReturnsPercent(current, invested decimal.Decimal) decimal.Decimal {
	if invested.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return current.Sub(invested).Div(invested).Mul(hundred).Round(2)
}
