package domain

import (
	"github.com/shopspring/decimal"
)

// ScenarioKind identifies one of the three growth/inflation bands.
type ScenarioKind string

const (
	ScenarioMin ScenarioKind = "min"
	ScenarioAvg ScenarioKind = "avg"
	ScenarioMax ScenarioKind = "max"
)

// ScenarioKinds lists the bands in their fixed output order.
var ScenarioKinds = []ScenarioKind{ScenarioMin, ScenarioAvg, ScenarioMax}

// Label returns a human-readable name for the band.
func (k ScenarioKind) Label() string {
	switch k {
	case ScenarioMin:
		return "Pessimistic"
	case ScenarioAvg:
		return "Average"
	case ScenarioMax:
		return "Optimistic"
	}
	return string(k)
}

// ScenarioRates is the fixed (growth, inflation) pair driving one band.
// The pairing is inverted: the pessimistic band combines low growth with
// high inflation, the optimistic band high growth with low inflation.
type ScenarioRates struct {
	Kind          ScenarioKind    `json:"kind"`
	GrowthRate    decimal.Decimal `json:"growth_rate"`
	InflationRate decimal.Decimal `json:"inflation_rate"`
}

// AccountSnapshot is one account's balance at the end of a simulated year.
type AccountSnapshot struct {
	Label   string          `json:"label"`
	Nominal decimal.Decimal `json:"nominal"`
	Real    decimal.Decimal `json:"real"`
}

// YearPoint is one simulated year within one scenario. Nominal is the
// pooled post-growth balance; Real is the same balance deflated to the
// purchasing power of the plan's start age using the scenario's inflation
// rate.
type YearPoint struct {
	Age          int               `json:"age"`
	Year         int               `json:"year"`
	Contribution decimal.Decimal   `json:"contribution"`
	Spending     decimal.Decimal   `json:"spending"`
	Nominal      decimal.Decimal   `json:"nominal"`
	Real         decimal.Decimal   `json:"real"`
	Accounts     []AccountSnapshot `json:"accounts,omitempty"`
}

// ScenarioSeries is the full projection for one band, in increasing age
// order beginning at the plan's start age.
type ScenarioSeries struct {
	Kind   ScenarioKind  `json:"kind"`
	Label  string        `json:"label"`
	Rates  ScenarioRates `json:"rates"`
	Points []YearPoint   `json:"points"`
}

// FinalBalance returns the nominal balance of the last projected year.
func (s *ScenarioSeries) FinalBalance() decimal.Decimal {
	if len(s.Points) == 0 {
		return decimal.Zero
	}
	return s.Points[len(s.Points)-1].Nominal
}

// DepletionAge returns the first age at which the pooled balance reaches
// zero during drawdown, or -1 if the portfolio lasts the full horizon.
func (s *ScenarioSeries) DepletionAge() int {
	for _, pt := range s.Points {
		if pt.Spending.GreaterThan(decimal.Zero) && pt.Nominal.LessThanOrEqual(decimal.Zero) {
			return pt.Age
		}
	}
	return -1
}

// ProjectionResult bundles the three scenario series with the warnings
// collected while resolving schedules and simulating.
type ProjectionResult struct {
	Scenarios []ScenarioSeries `json:"scenarios"`
	Warnings  []string         `json:"warnings"`
}

// Series returns the series for the given band, or nil.
func (r *ProjectionResult) Series(kind ScenarioKind) *ScenarioSeries {
	for i := range r.Scenarios {
		if r.Scenarios[i].Kind == kind {
			return &r.Scenarios[i]
		}
	}
	return nil
}
