package calculation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akakileti/nestegg/internal/domain"
	"github.com/akakileti/nestegg/internal/schedule"
	"github.com/shopspring/decimal"
)

// shortfall smaller than this is decimal division noise, not depletion.
var shortfallEpsilon = decimal.New(1, -6)

// ProjectionEngine turns an immutable Plan into the three scenario series.
// A run has no side effects on the plan; every invocation allocates fresh
// per-scenario balance state.
type ProjectionEngine struct {
	Logger Logger
}

// NewProjectionEngine creates an engine with a no-op logger.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{Logger: NopLogger{}}
}

// SetLogger replaces the engine's logger. A nil logger falls back to the
// no-op implementation.
func (pe *ProjectionEngine) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	pe.Logger = logger
}

// resolvedAccount pairs an account with its dense schedules. The schedules
// are read-only and shared across the three scenario runs.
type resolvedAccount struct {
	account       domain.Account
	contributions schedule.Schedule[domain.ContributionBreakpoint]
	overrides     schedule.Schedule[domain.GrowthOverride]
}

// resolvedPlan is the engine's working form of a plan: schedules resolved
// once, spending targets precomputed per row start.
type resolvedPlan struct {
	plan     *domain.Plan
	accounts []resolvedAccount
	spending schedule.Schedule[domain.SpendingBreakpoint]
	baseYear int
}

// RunProjection resolves the plan's schedules, derives the scenario bands
// and simulates each band year by year. Schedule errors block the run;
// gaps and drawdown shortfalls come back as warnings alongside the series.
func (pe *ProjectionEngine) RunProjection(ctx context.Context, plan *domain.Plan) (*domain.ProjectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("plan is required")
	}
	if plan.RetireAge <= plan.StartAge {
		return nil, fmt.Errorf("retire age %d must be greater than start age %d", plan.RetireAge, plan.StartAge)
	}

	resolved, warnings, err := pe.resolvePlan(plan)
	if err != nil {
		return nil, err
	}

	rates := DeriveScenarioRates(plan)
	pe.Logger.Debugf("projecting ages %d..%d across %d scenarios", plan.StartAge, plan.HorizonEndAge(), len(rates))

	// Scenario runs share only the read-only resolved schedules, so they
	// can proceed in parallel. Output order stays fixed by band.
	series := make([]domain.ScenarioSeries, len(rates))
	scenarioWarnings := make([][]string, len(rates))
	var wg sync.WaitGroup
	for i, sr := range rates {
		wg.Add(1)
		go func(i int, sr domain.ScenarioRates) {
			defer wg.Done()
			series[i], scenarioWarnings[i] = simulateScenario(resolved, sr)
		}(i, sr)
	}
	wg.Wait()

	for _, w := range scenarioWarnings {
		warnings = append(warnings, w...)
	}
	for _, w := range warnings {
		pe.Logger.Warnf("%s", w)
	}

	return &domain.ProjectionResult{Scenarios: series, Warnings: warnings}, nil
}

// resolvePlan builds the dense schedules for every account and for the
// spending list. Error-severity issues abort with a ResolveError naming
// the offending breakpoints; gaps are returned as warning strings.
func (pe *ProjectionEngine) resolvePlan(plan *domain.Plan) (*resolvedPlan, []string, error) {
	accounts := plan.EffectiveAccounts()
	if len(accounts) == 0 {
		return nil, nil, fmt.Errorf("plan requires at least one account or an initial balance/contribution")
	}

	var warnings []string
	var errIssues []schedule.Issue

	resolved := &resolvedPlan{plan: plan, baseYear: plan.BaseYear}
	if resolved.baseYear == 0 {
		resolved.baseYear = time.Now().Year()
	}

	horizonEnd := plan.HorizonEndAge()
	for _, account := range accounts {
		contributions, contribIssues := schedule.Resolve(account.Contributions, plan.RetireAge, account.Label+" contributions")
		overrides, overrideIssues := schedule.Resolve(account.GrowthOverrides, horizonEnd+1, account.Label+" growth overrides")

		errIssues = append(errIssues, schedule.Errs(contribIssues)...)
		errIssues = append(errIssues, schedule.Errs(overrideIssues)...)
		for _, issue := range schedule.Warnings(contribIssues) {
			warnings = append(warnings, issue.String())
		}
		for _, issue := range schedule.Warnings(overrideIssues) {
			warnings = append(warnings, issue.String())
		}

		resolved.accounts = append(resolved.accounts, resolvedAccount{
			account:       account,
			contributions: contributions,
			overrides:     overrides,
		})
	}

	spending, spendingIssues := schedule.Resolve(plan.SpendingSchedule, horizonEnd+1, "spending")
	errIssues = append(errIssues, schedule.Errs(spendingIssues)...)
	for _, issue := range schedule.Warnings(spendingIssues) {
		warnings = append(warnings, issue.String())
	}
	resolved.spending = spending

	if len(errIssues) > 0 {
		return nil, nil, &schedule.ResolveError{Label: "plan", Issues: errIssues}
	}
	return resolved, warnings, nil
}

// spendingTarget returns the nominal withdrawal target at the given age.
// A spending row is defined once in today's dollars and projected to a
// flat nominal amount at the row's own start age using the plan's
// baseline inflation rate; it does not vary by scenario band.
func (rp *resolvedPlan) spendingTarget(age int) decimal.Decimal {
	row, _, ok := rp.spending.ActiveAt(age)
	if !ok {
		return decimalZero
	}
	if row.AnnualSpending.LessThanOrEqual(decimalZero) {
		return decimalZero
	}
	return FutureValue(row.AnnualSpending, rp.plan.InflationRate, row.FromAge-rp.plan.StartAge)
}

// simulateScenario folds one band over the full horizon. Per simulated
// age the order is fixed: contributions, withdrawal debits (once past
// retirement), growth, snapshot.
func simulateScenario(rp *resolvedPlan, rates domain.ScenarioRates) (domain.ScenarioSeries, []string) {
	plan := rp.plan
	ledgers := make([]*accountLedger, len(rp.accounts))
	for i, ra := range rp.accounts {
		ledgers[i] = newAccountLedger(ra.account, ra.contributions, ra.overrides)
	}

	horizonEnd := plan.HorizonEndAge()
	points := make([]domain.YearPoint, 0, horizonEnd-plan.StartAge+1)
	var warnings []string
	depletionReported := false

	for age := plan.StartAge; age <= horizonEnd; age++ {
		offset := age - plan.StartAge

		contribution := decimalZero
		for _, ledger := range ledgers {
			contribution = contribution.Add(ledger.contribute(age))
		}

		spending := decimalZero
		if age >= plan.RetireAge {
			target := rp.spendingTarget(age)
			if target.GreaterThan(decimalZero) {
				accounts := make([]WithdrawalAccount, len(ledgers))
				for i, ledger := range ledgers {
					accounts[i] = ledger.withdrawalAccount()
				}
				allocation := AllocateWithdrawals(target, accounts)
				for i, ledger := range ledgers {
					ledger.debit(allocation.Debits[i])
				}
				spending = allocation.TotalDebited()
				if allocation.Shortfall.GreaterThan(shortfallEpsilon) && !depletionReported {
					warnings = append(warnings, fmt.Sprintf(
						"%s: spending target exceeds pooled balance at age %d; balances deplete to zero", rates.Kind, age))
					depletionReported = true
				}
			}
		}

		total := decimalZero
		snapshots := make([]domain.AccountSnapshot, len(ledgers))
		for i, ledger := range ledgers {
			ledger.applyGrowth(age, rates.GrowthRate)
			total = total.Add(ledger.balance)
			snapshots[i] = domain.AccountSnapshot{
				Label:   ledger.account.Label,
				Nominal: ledger.balance,
				Real:    ToReal(ledger.balance, rates.InflationRate, offset),
			}
		}

		points = append(points, domain.YearPoint{
			Age:          age,
			Year:         rp.baseYear + offset,
			Contribution: contribution,
			Spending:     spending,
			Nominal:      total,
			Real:         ToReal(total, rates.InflationRate, offset),
			Accounts:     snapshots,
		})
	}

	return domain.ScenarioSeries{
		Kind:   rates.Kind,
		Label:  rates.Kind.Label(),
		Rates:  rates,
		Points: points,
	}, warnings
}
