package calculation

import (
	"github.com/akakileti/nestegg/internal/domain"
	"github.com/akakileti/nestegg/internal/schedule"
	"github.com/shopspring/decimal"
)

// accountLedger owns one account's balance for one scenario run. The
// yearly update order is fixed: contribution, withdrawal debit, growth.
// Balances never go negative; every debit is clamped at the balance.
type accountLedger struct {
	account       domain.Account
	contributions schedule.Schedule[domain.ContributionBreakpoint]
	overrides     schedule.Schedule[domain.GrowthOverride]
	balance       decimal.Decimal
}

func newAccountLedger(
	account domain.Account,
	contributions schedule.Schedule[domain.ContributionBreakpoint],
	overrides schedule.Schedule[domain.GrowthOverride],
) *accountLedger {
	balance := account.InitialBalance
	if balance.LessThan(decimalZero) {
		balance = decimalZero
	}
	return &accountLedger{
		account:       account,
		contributions: contributions,
		overrides:     overrides,
		balance:       balance,
	}
}

// contribute applies the scheduled contribution for this age and returns
// the amount actually deposited. A negative resolved amount (a breakpoint
// with a steep negative growth rate, say) is treated as zero, never as a
// withdrawal. Taxed-on-entry accounts deposit the after-tax amount.
func (l *accountLedger) contribute(age int) decimal.Decimal {
	row, k, ok := l.contributions.ActiveAt(age)
	if !ok {
		return decimalZero
	}
	amount := row.Base.Mul(PriceLevel(row.GrowthRate, k))
	if amount.LessThanOrEqual(decimalZero) {
		return decimalZero
	}
	if l.account.TaxTreatment == domain.TaxOnEntry {
		amount = amount.Mul(decimalOne.Sub(l.taxRate()))
		if amount.LessThan(decimalZero) {
			amount = decimalZero
		}
	}
	l.balance = l.balance.Add(amount)
	return amount
}

// debit removes up to amount from the balance and returns what was
// actually taken.
func (l *accountLedger) debit(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThanOrEqual(decimalZero) {
		return decimalZero
	}
	if amount.GreaterThan(l.balance) {
		amount = l.balance
	}
	l.balance = l.balance.Sub(amount)
	return amount
}

// applyGrowth compounds the balance for one year. An active growth
// override wins over the scenario's baseline rate; either way the rate is
// clamped to the sane range. Taxed-on-growth accounts keep only the
// after-tax share of a positive increment.
func (l *accountLedger) applyGrowth(age int, baselineRate decimal.Decimal) {
	rate := baselineRate
	if row, _, ok := l.overrides.ActiveAt(age); ok {
		rate = row.Rate
	}
	rate = ClampRate(rate)

	increment := l.balance.Mul(rate)
	if l.account.TaxTreatment == domain.TaxOnGrowth && increment.GreaterThan(decimalZero) {
		increment = increment.Mul(decimalOne.Sub(l.taxRate()))
	}
	l.balance = l.balance.Add(increment)
	if l.balance.LessThan(decimalZero) {
		l.balance = decimalZero
	}
}

// taxRate returns the account's tax rate pinned into [0, 1].
func (l *accountLedger) taxRate() decimal.Decimal {
	rate := l.account.TaxRate
	if rate.LessThan(decimalZero) {
		return decimalZero
	}
	if rate.GreaterThan(decimalOne) {
		return decimalOne
	}
	return rate
}

// withdrawalAccount exposes the allocator's view of this ledger.
func (l *accountLedger) withdrawalAccount() WithdrawalAccount {
	return WithdrawalAccount{
		Balance:      l.balance,
		TaxTreatment: l.account.TaxTreatment,
		TaxRate:      l.taxRate(),
	}
}
