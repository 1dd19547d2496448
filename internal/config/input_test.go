package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/akakileti/nestegg/internal/calculation"
	"github.com/akakileti/nestegg/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const examplePlanYAML = `
start_age: 30
retire_age: 65
inflation_rate: 0.03
inflation_margin: 0.01
investment_growth_rate: 0.06
investment_growth_margin: 0.02
accounts:
  - label: 401k
    initial_balance: 25000
    tax_treatment: exit
    tax_rate: 0.15
    contributions:
      - from_age: 30
        base: 6000
        growth_rate: 0.03
        years: 35
spending_schedule:
  - from_age: 65
    annual_spending: 40000
    years: 25
`

func TestParseValidPlan(t *testing.T) {
	parser := NewInputParser()
	plan, err := parser.Parse([]byte(examplePlanYAML))
	require.NoError(t, err)

	assert.Equal(t, 30, plan.StartAge)
	assert.Equal(t, 65, plan.RetireAge)
	assert.Equal(t, DefaultYearsAfterRetirement, plan.YearsAfterRetirement, "Should default the drawdown window")
	require.Len(t, plan.Accounts, 1)
	assert.Equal(t, domain.TaxOnExit, plan.Accounts[0].TaxTreatment)
	assert.True(t, plan.Accounts[0].InitialBalance.Equal(decimal.NewFromInt(25000)))
	require.Len(t, plan.Accounts[0].Contributions, 1)
	require.NotNil(t, plan.Accounts[0].Contributions[0].Years)
	assert.Equal(t, 35, *plan.Accounts[0].Contributions[0].Years)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(examplePlanYAML), 0o644))

	parser := NewInputParser()
	plan, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 65, plan.RetireAge)
}

func TestLoadFromFileMissing(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestValidatePlanRejections(t *testing.T) {
	years := 25
	base := func() *domain.Plan {
		return &domain.Plan{
			StartAge:             30,
			RetireAge:            65,
			InflationRate:        decimal.NewFromFloat(0.03),
			InvestmentGrowthRate: decimal.NewFromFloat(0.06),
			YearsAfterRetirement: 30,
			Accounts: []domain.Account{
				{Label: "a", InitialBalance: decimal.NewFromInt(1000), TaxTreatment: domain.TaxNone},
			},
			SpendingSchedule: []domain.SpendingBreakpoint{
				{FromAge: 65, AnnualSpending: decimal.NewFromInt(40000), Years: &years},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Plan)
		wantErr string
	}{
		{
			name:    "retire age not after start age",
			mutate:  func(p *domain.Plan) { p.RetireAge = 30 },
			wantErr: "must be greater than start age",
		},
		{
			name:    "start age below bound",
			mutate:  func(p *domain.Plan) { p.StartAge = 5 },
			wantErr: "start age must be between",
		},
		{
			name:    "retire age above bound",
			mutate:  func(p *domain.Plan) { p.RetireAge = 150 },
			wantErr: "retire age must be between",
		},
		{
			name:    "inflation rate out of range",
			mutate:  func(p *domain.Plan) { p.InflationRate = decimal.NewFromFloat(2.0) },
			wantErr: "inflation rate must be between",
		},
		{
			name:    "negative margin",
			mutate:  func(p *domain.Plan) { p.InflationMargin = decimal.NewFromFloat(-0.01) },
			wantErr: "inflation margin cannot be negative",
		},
		{
			name:    "unknown tax treatment",
			mutate:  func(p *domain.Plan) { p.Accounts[0].TaxTreatment = "deferred" },
			wantErr: "unknown tax treatment",
		},
		{
			name:    "tax rate of one",
			mutate:  func(p *domain.Plan) { p.Accounts[0].TaxRate = decimal.NewFromInt(1) },
			wantErr: "tax rate",
		},
		{
			name: "breakpoint outside horizon",
			mutate: func(p *domain.Plan) {
				p.SpendingSchedule[0].FromAge = 108
			},
			wantErr: "must lie within",
		},
		{
			name: "zero years on a breakpoint",
			mutate: func(p *domain.Plan) {
				zero := 0
				p.SpendingSchedule[0].Years = &zero
			},
			wantErr: "years must be at least 1",
		},
	}

	parser := NewInputParser()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := base()
			tc.mutate(plan)
			err := parser.ValidatePlan(plan)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidatePlanAcceptsBase(t *testing.T) {
	parser := NewInputParser()
	plan := parser.CreateExamplePlan()
	assert.NoError(t, parser.ValidatePlan(plan))
}

func TestExamplePlanRoundTripsAndProjects(t *testing.T) {
	parser := NewInputParser()
	example := parser.CreateExamplePlan()

	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, SavePlan(example, path))

	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	engine := calculation.NewProjectionEngine()
	result, err := engine.RunProjection(context.Background(), loaded)
	require.NoError(t, err)
	assert.Len(t, result.Scenarios, 3)
}
