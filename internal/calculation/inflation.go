package calculation

import (
	"github.com/shopspring/decimal"
)

var (
	decimalOne  = decimal.NewFromInt(1)
	decimalZero = decimal.Zero
)

// PriceLevel returns the cumulative inflation factor (1+rate)^years.
func PriceLevel(rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return decimalOne
	}
	return decimalOne.Add(rate).Pow(decimal.NewFromInt(int64(years)))
}

// ToReal deflates a nominal value at the given year offset back to the
// purchasing power of the plan's starting year.
func ToReal(nominal, inflationRate decimal.Decimal, yearsFromStart int) decimal.Decimal {
	level := PriceLevel(inflationRate, yearsFromStart)
	if level.IsZero() {
		return nominal
	}
	return nominal.Div(level)
}

// FutureValue projects a today's-dollars amount forward to its nominal
// value after the given number of years. Spending rows use this with the
// plan's baseline inflation rate, anchored at the row's own start age.
func FutureValue(today, inflationRate decimal.Decimal, years int) decimal.Decimal {
	return today.Mul(PriceLevel(inflationRate, years))
}
