package config

import (
	"fmt"
	"os"

	"github.com/akakileti/nestegg/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Validation bounds for the request boundary. The engine itself assumes
// these hold on entry.
const (
	MinAge = 10
	MaxAge = 110

	// DefaultYearsAfterRetirement is the drawdown window applied when a
	// plan does not set one.
	DefaultYearsAfterRetirement = 30

	MaxYearsAfterRetirement = 60
)

var (
	minRate = decimal.NewFromFloat(-0.5)
	maxRate = decimal.NewFromFloat(1.0)
)

// InputParser loads and validates plan documents.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML (or JSON, which yaml.v3 accepts)
// file, applies defaults and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse unmarshals, defaults and validates a plan document.
func (ip *InputParser) Parse(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	ip.ApplyDefaults(&plan)
	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

// ApplyDefaults fills in the drawdown window and account labels.
func (ip *InputParser) ApplyDefaults(plan *domain.Plan) {
	if plan.YearsAfterRetirement == 0 {
		plan.YearsAfterRetirement = DefaultYearsAfterRetirement
	}
	for i := range plan.Accounts {
		if plan.Accounts[i].Label == "" {
			plan.Accounts[i].Label = fmt.Sprintf("Account %d", i+1)
		}
		if plan.Accounts[i].TaxTreatment == "" {
			plan.Accounts[i].TaxTreatment = domain.TaxNone
		}
	}
}

// ValidatePlan enforces the request boundary: bounded ages, bounded rates,
// retire age after start age. Schedule-shape problems (overlaps, gaps) are
// not checked here; the engine reports those per breakpoint.
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if plan.StartAge < MinAge || plan.StartAge > MaxAge {
		return fmt.Errorf("start age must be between %d and %d", MinAge, MaxAge)
	}
	if plan.RetireAge < MinAge || plan.RetireAge > MaxAge {
		return fmt.Errorf("retire age must be between %d and %d", MinAge, MaxAge)
	}
	if plan.RetireAge <= plan.StartAge {
		return fmt.Errorf("retire age (%d) must be greater than start age (%d)", plan.RetireAge, plan.StartAge)
	}
	if plan.YearsAfterRetirement < 0 || plan.YearsAfterRetirement > MaxYearsAfterRetirement {
		return fmt.Errorf("years after retirement must be between 0 and %d", MaxYearsAfterRetirement)
	}

	if err := validateRate("inflation rate", plan.InflationRate); err != nil {
		return err
	}
	if err := validateRate("investment growth rate", plan.InvestmentGrowthRate); err != nil {
		return err
	}
	if plan.InflationMargin.LessThan(decimal.Zero) {
		return fmt.Errorf("inflation margin cannot be negative")
	}
	if plan.InvestmentGrowthMargin.LessThan(decimal.Zero) {
		return fmt.Errorf("investment growth margin cannot be negative")
	}
	if plan.InitialBalance.LessThan(decimal.Zero) {
		return fmt.Errorf("initial balance cannot be negative")
	}
	if plan.AnnualContribution.LessThan(decimal.Zero) {
		return fmt.Errorf("annual contribution cannot be negative")
	}

	horizonEnd := plan.HorizonEndAge()
	for i, account := range plan.Accounts {
		if err := ip.validateAccount(&account, plan.StartAge, horizonEnd); err != nil {
			return fmt.Errorf("account %d (%s): %w", i, account.Label, err)
		}
	}
	for i, row := range plan.SpendingSchedule {
		if row.AnnualSpending.LessThan(decimal.Zero) {
			return fmt.Errorf("spending breakpoint %d: annual spending cannot be negative", i)
		}
		if err := validateWindow(row.FromAge, row.Years, plan.StartAge, horizonEnd); err != nil {
			return fmt.Errorf("spending breakpoint %d: %w", i, err)
		}
	}
	return nil
}

func (ip *InputParser) validateAccount(account *domain.Account, startAge, horizonEnd int) error {
	if !account.TaxTreatment.Valid() {
		return fmt.Errorf("unknown tax treatment %q", account.TaxTreatment)
	}
	if account.TaxRate.LessThan(decimal.Zero) || account.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate must be at least 0 and below 1")
	}
	if account.InitialBalance.LessThan(decimal.Zero) {
		return fmt.Errorf("initial balance cannot be negative")
	}
	for i, row := range account.Contributions {
		if row.Base.LessThan(decimal.Zero) {
			return fmt.Errorf("contribution breakpoint %d: base cannot be negative", i)
		}
		if err := validateRate("contribution growth rate", row.GrowthRate); err != nil {
			return fmt.Errorf("contribution breakpoint %d: %w", i, err)
		}
		if err := validateWindow(row.FromAge, row.Years, startAge, horizonEnd); err != nil {
			return fmt.Errorf("contribution breakpoint %d: %w", i, err)
		}
	}
	for i, row := range account.GrowthOverrides {
		if err := validateRate("override rate", row.Rate); err != nil {
			return fmt.Errorf("growth override %d: %w", i, err)
		}
		if err := validateWindow(row.FromAge, row.Years, startAge, horizonEnd); err != nil {
			return fmt.Errorf("growth override %d: %w", i, err)
		}
	}
	return nil
}

func validateRate(label string, rate decimal.Decimal) error {
	if rate.LessThan(minRate) || rate.GreaterThan(maxRate) {
		return fmt.Errorf("%s must be between %s and %s", label, minRate, maxRate)
	}
	return nil
}

func validateWindow(fromAge int, years *int, startAge, horizonEnd int) error {
	if fromAge < startAge || fromAge > horizonEnd {
		return fmt.Errorf("from age %d must lie within [%d, %d]", fromAge, startAge, horizonEnd)
	}
	if years != nil && *years < 1 {
		return fmt.Errorf("years must be at least 1 when set")
	}
	return nil
}

// CreateExamplePlan returns a plan document suitable for `nestegg example`.
func (ip *InputParser) CreateExamplePlan() *domain.Plan {
	contribYears := 35
	overrideYears := 10
	spendYears := 25
	return &domain.Plan{
		StartAge:               30,
		RetireAge:              65,
		InflationRate:          decimal.NewFromFloat(0.03),
		InflationMargin:        decimal.NewFromFloat(0.01),
		InvestmentGrowthRate:   decimal.NewFromFloat(0.06),
		InvestmentGrowthMargin: decimal.NewFromFloat(0.02),
		YearsAfterRetirement:   DefaultYearsAfterRetirement,
		Accounts: []domain.Account{
			{
				Label:          "401k",
				InitialBalance: decimal.NewFromInt(25000),
				TaxTreatment:   domain.TaxOnExit,
				TaxRate:        decimal.NewFromFloat(0.15),
				Contributions: []domain.ContributionBreakpoint{
					{FromAge: 30, Base: decimal.NewFromInt(6000), GrowthRate: decimal.NewFromFloat(0.03), Years: &contribYears},
				},
			},
			{
				Label:          "Brokerage",
				InitialBalance: decimal.NewFromInt(10000),
				TaxTreatment:   domain.TaxOnGrowth,
				TaxRate:        decimal.NewFromFloat(0.20),
				Contributions: []domain.ContributionBreakpoint{
					{FromAge: 35, Base: decimal.NewFromInt(3000), GrowthRate: decimal.Zero},
				},
				GrowthOverrides: []domain.GrowthOverride{
					{FromAge: 55, Rate: decimal.NewFromFloat(0.04), Years: &overrideYears},
				},
			},
		},
		SpendingSchedule: []domain.SpendingBreakpoint{
			{FromAge: 65, AnnualSpending: decimal.NewFromInt(40000), Years: &spendYears},
		},
	}
}

// SavePlan writes a plan as YAML.
func SavePlan(plan *domain.Plan, filename string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
