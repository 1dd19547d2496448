package calculation

import (
	"github.com/akakileti/nestegg/internal/domain"
	"github.com/shopspring/decimal"
)

// Rates outside this range make compounding numerically meaningless, so
// every effective rate is clamped into it before use.
var (
	minSaneRate = decimal.NewFromFloat(-0.9)
	maxSaneRate = decimal.NewFromFloat(1.5)
)

// ClampRate pins a growth or inflation rate into the sane numeric range.
func ClampRate(rate decimal.Decimal) decimal.Decimal {
	if rate.LessThan(minSaneRate) {
		return minSaneRate
	}
	if rate.GreaterThan(maxSaneRate) {
		return maxSaneRate
	}
	return rate
}

// DeriveScenarioRates expands the plan's base rates and margins into the
// three bands. The pairing is inverted on purpose: the pessimistic band
// combines low growth with high inflation and the optimistic band high
// growth with low inflation, so each band brackets the real outcome.
func DeriveScenarioRates(plan *domain.Plan) []domain.ScenarioRates {
	growthMargin := plan.InvestmentGrowthMargin.Abs()
	inflationMargin := plan.InflationMargin.Abs()

	return []domain.ScenarioRates{
		{
			Kind:          domain.ScenarioMin,
			GrowthRate:    ClampRate(plan.InvestmentGrowthRate.Sub(growthMargin)),
			InflationRate: ClampRate(plan.InflationRate.Add(inflationMargin)),
		},
		{
			Kind:          domain.ScenarioAvg,
			GrowthRate:    ClampRate(plan.InvestmentGrowthRate),
			InflationRate: ClampRate(plan.InflationRate),
		},
		{
			Kind:          domain.ScenarioMax,
			GrowthRate:    ClampRate(plan.InvestmentGrowthRate.Add(growthMargin)),
			InflationRate: ClampRate(plan.InflationRate.Sub(inflationMargin)),
		},
	}
}
