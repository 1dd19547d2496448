package calculation

import (
	"github.com/akakileti/nestegg/internal/domain"
	"github.com/shopspring/decimal"
)

// WithdrawalAccount is the allocator's read-only view of one account at
// the moment of a withdrawal.
type WithdrawalAccount struct {
	Balance      decimal.Decimal
	TaxTreatment domain.TaxTreatment
	TaxRate      decimal.Decimal
}

// WithdrawalResult reports what the allocator decided for one year.
// Debits holds each account's gross debit in input order; Proceeds is the
// after-tax cash raised; Shortfall is the unmet part of the target.
type WithdrawalResult struct {
	Debits    []decimal.Decimal
	Proceeds  decimal.Decimal
	Shortfall decimal.Decimal
}

// TotalDebited sums the gross debits across accounts.
func (r WithdrawalResult) TotalDebited() decimal.Decimal {
	total := decimalZero
	for _, d := range r.Debits {
		total = total.Add(d)
	}
	return total
}

// AllocateWithdrawals splits a spending target across accounts in
// proportion to their balances, with no priority ordering. Taxed-on-exit
// accounts are debited a grossed-up amount so the after-tax proceeds still
// match their proportional share. Every debit is capped at the account's
// balance; when the pool cannot cover the target the shortfall is simply
// not collected. A zero pooled balance yields no withdrawal at all.
func AllocateWithdrawals(target decimal.Decimal, accounts []WithdrawalAccount) WithdrawalResult {
	result := WithdrawalResult{Debits: make([]decimal.Decimal, len(accounts))}
	for i := range result.Debits {
		result.Debits[i] = decimalZero
	}
	if target.LessThanOrEqual(decimalZero) {
		return result
	}

	total := decimalZero
	for _, acct := range accounts {
		if acct.Balance.GreaterThan(decimalZero) {
			total = total.Add(acct.Balance)
		}
	}
	if total.LessThanOrEqual(decimalZero) {
		result.Shortfall = target
		return result
	}

	for i, acct := range accounts {
		if acct.Balance.LessThanOrEqual(decimalZero) {
			continue
		}
		share := target.Mul(acct.Balance).Div(total)

		gross := share
		keepRatio := decimalOne
		if acct.TaxTreatment == domain.TaxOnExit {
			keepRatio = decimalOne.Sub(acct.TaxRate)
			if keepRatio.GreaterThan(decimalZero) {
				gross = share.Div(keepRatio)
			} else {
				// A confiscatory rate cannot be grossed up; take the share
				// as-is and let the proceeds fall short.
				keepRatio = decimalZero
			}
		}
		if gross.GreaterThan(acct.Balance) {
			gross = acct.Balance
		}

		result.Debits[i] = gross
		result.Proceeds = result.Proceeds.Add(gross.Mul(keepRatio))
	}

	shortfall := target.Sub(result.Proceeds)
	if shortfall.GreaterThan(decimalZero) {
		result.Shortfall = shortfall
	}
	return result
}
