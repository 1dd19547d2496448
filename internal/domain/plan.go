package domain

import (
	"github.com/shopspring/decimal"
)

// TaxTreatment determines where in the yearly ledger update an account's
// tax rate is applied.
type TaxTreatment string

const (
	// TaxNone applies no tax anywhere in the ledger update.
	TaxNone TaxTreatment = "none"
	// TaxOnEntry reduces each deposited contribution by the tax rate.
	TaxOnEntry TaxTreatment = "entry"
	// TaxOnGrowth reduces each year's growth increment by the tax rate.
	TaxOnGrowth TaxTreatment = "growth"
	// TaxOnExit grosses up withdrawals so the after-tax proceeds match the
	// account's proportional share of the spending target.
	TaxOnExit TaxTreatment = "exit"
)

// Valid reports whether tt is one of the four known treatments. The empty
// string is accepted and treated as TaxNone.
func (tt TaxTreatment) Valid() bool {
	switch tt {
	case "", TaxNone, TaxOnEntry, TaxOnGrowth, TaxOnExit:
		return true
	}
	return false
}

// ContributionBreakpoint schedules contributions into an account starting at
// FromAge. The contribution in year k of the breakpoint is
// Base * (1+GrowthRate)^k. If Years is nil the breakpoint runs until the next
// breakpoint starts, or until retirement for the last one.
type ContributionBreakpoint struct {
	FromAge    int             `yaml:"from_age" json:"from_age"`
	Base       decimal.Decimal `yaml:"base" json:"base"`
	GrowthRate decimal.Decimal `yaml:"growth_rate" json:"growth_rate"`
	Years      *int            `yaml:"years,omitempty" json:"years,omitempty"`
}

// Window returns the breakpoint's start age and explicit duration, if any.
func (c ContributionBreakpoint) Window() (int, int, bool) {
	if c.Years != nil {
		return c.FromAge, *c.Years, true
	}
	return c.FromAge, 0, false
}

// GrowthOverride replaces the scenario's baseline growth rate for one
// account while active.
type GrowthOverride struct {
	FromAge int             `yaml:"from_age" json:"from_age"`
	Rate    decimal.Decimal `yaml:"rate" json:"rate"`
	Years   *int            `yaml:"years,omitempty" json:"years,omitempty"`
}

// Window returns the override's start age and explicit duration, if any.
func (g GrowthOverride) Window() (int, int, bool) {
	if g.Years != nil {
		return g.FromAge, *g.Years, true
	}
	return g.FromAge, 0, false
}

// SpendingBreakpoint schedules retirement spending. AnnualSpending is
// expressed in today's dollars as of the plan's start age; the engine
// projects it to a flat nominal amount at the row's own FromAge.
type SpendingBreakpoint struct {
	FromAge        int             `yaml:"from_age" json:"from_age"`
	AnnualSpending decimal.Decimal `yaml:"annual_spending" json:"annual_spending"`
	Years          *int            `yaml:"years,omitempty" json:"years,omitempty"`
}

// Window returns the breakpoint's start age and explicit duration, if any.
func (s SpendingBreakpoint) Window() (int, int, bool) {
	if s.Years != nil {
		return s.FromAge, *s.Years, true
	}
	return s.FromAge, 0, false
}

// Account is one savings line. Its balance evolves once per simulated year
// per scenario; the input struct itself is never mutated.
type Account struct {
	Label           string                   `yaml:"label" json:"label"`
	InitialBalance  decimal.Decimal          `yaml:"initial_balance" json:"initial_balance"`
	TaxTreatment    TaxTreatment             `yaml:"tax_treatment,omitempty" json:"tax_treatment,omitempty"`
	TaxRate         decimal.Decimal          `yaml:"tax_rate,omitempty" json:"tax_rate,omitempty"`
	Contributions   []ContributionBreakpoint `yaml:"contributions" json:"contributions"`
	GrowthOverrides []GrowthOverride         `yaml:"growth_overrides,omitempty" json:"growth_overrides,omitempty"`
}

// Plan is the root input for one projection run. It is a read-only value;
// callers supply a fresh Plan for each recomputation.
type Plan struct {
	StartAge  int `yaml:"start_age" json:"start_age"`
	RetireAge int `yaml:"retire_age" json:"retire_age"`

	InflationRate          decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	InflationMargin        decimal.Decimal `yaml:"inflation_margin" json:"inflation_margin"`
	InvestmentGrowthRate   decimal.Decimal `yaml:"investment_growth_rate" json:"investment_growth_rate"`
	InvestmentGrowthMargin decimal.Decimal `yaml:"investment_growth_margin" json:"investment_growth_margin"`

	// YearsAfterRetirement is the post-retirement drawdown window. The
	// config layer defaults it to 30 when unset.
	YearsAfterRetirement int `yaml:"years_after_retirement,omitempty" json:"years_after_retirement,omitempty"`

	// Convenience fields: a plan with no accounts but a top-level balance
	// or contribution gets a single synthesized "Main" account.
	InitialBalance     decimal.Decimal `yaml:"initial_balance,omitempty" json:"initial_balance,omitempty"`
	AnnualContribution decimal.Decimal `yaml:"annual_contribution,omitempty" json:"annual_contribution,omitempty"`

	Accounts         []Account            `yaml:"accounts" json:"accounts"`
	SpendingSchedule []SpendingBreakpoint `yaml:"spending_schedule,omitempty" json:"spending_schedule,omitempty"`

	// BaseYear anchors the calendar year of the first projected point.
	// Zero means "use the current year".
	BaseYear int `yaml:"base_year,omitempty" json:"base_year,omitempty"`
}

// HorizonEndAge returns the last simulated age (inclusive).
func (p *Plan) HorizonEndAge() int {
	years := p.YearsAfterRetirement
	if years < 0 {
		years = 0
	}
	return p.RetireAge + years
}

// EffectiveAccounts returns the plan's accounts, synthesizing a single
// "Main" account from the top-level convenience fields when the list is
// empty and either field is set.
func (p *Plan) EffectiveAccounts() []Account {
	if len(p.Accounts) > 0 {
		return p.Accounts
	}
	if p.InitialBalance.IsZero() && p.AnnualContribution.IsZero() {
		return nil
	}
	years := p.RetireAge - p.StartAge
	if years < 1 {
		years = 1
	}
	var contributions []ContributionBreakpoint
	if p.AnnualContribution.GreaterThan(decimal.Zero) {
		contributions = []ContributionBreakpoint{{
			FromAge:    p.StartAge,
			Base:       p.AnnualContribution,
			GrowthRate: decimal.Zero,
			Years:      &years,
		}}
	}
	return []Account{{
		Label:          "Main",
		InitialBalance: p.InitialBalance,
		TaxTreatment:   TaxNone,
		Contributions:  contributions,
	}}
}
