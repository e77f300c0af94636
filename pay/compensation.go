/*
compensation.go - Monthly wages and bonus per recruiter

PURPOSE:
  Turns ledger history into money. For a selected pay month the calculator
  reads two earlier source months and folds their rows into a wages sum and
  a bonus sum.

PAYROLL CYCLE OFFSETS:
  wagesMonth = payMonth - 1 month
  bonusMonth = wagesMonth - 1 month

  Wages run one cycle behind the pay month; commissions settle one cycle
  after that, once conversion counts are confirmed. The two source months
  are deliberately distinct and must never be conflated.

FAIL-SOFT RULE:
  A single malformed or half-entered row must not abort a month's payroll.
  Missing numerics count as zero, missing hours and multipliers fall back
  to role defaults, and an uncovered rate date zeroes that row's wages
  while the rest of the month still computes. The first rate gap is
  reported so the operator can repair the bands.

SEE ALSO:
  - rates.go: the hourly rate step function
  - commission.go: the box2 tier table
  - ledger/ledger.go: the rows consumed here
*/
package pay

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoaoAdministrator/proago-recruitment-sub000/ledger"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/roster"
)

// History is the slice of the ledger the calculator needs.
type History interface {
	RowsInMonth(recruiterID, yearMonth string) []ledger.HistoryRow
}

// Pay is the computed figures for one recruiter and pay month.
type Pay struct {
	Wages decimal.Decimal
	Bonus decimal.Decimal

	// WagesMonth and BonusMonth record which source months funded the
	// figures, for payroll display.
	WagesMonth string
	BonusMonth string
}

// ComputePay derives wages and bonus for a recruiter and pay month
// (YYYY-MM) from ledger history and the configured rate bands.
//
// The returned error is non-fatal: it reports the first rate-band gap hit
// while summing wages, with the affected rows already counted as zero.
// Callers surface it as a configuration warning, not a failure.
func ComputePay(rec roster.Recruiter, payMonth string, hist History, bands []RateBand) (Pay, error) {
	wagesMonth, err := shiftMonth(payMonth, -1)
	if err != nil {
		return Pay{}, fmt.Errorf("invalid pay month %q: %w", payMonth, err)
	}
	bonusMonth, _ := shiftMonth(payMonth, -2)

	result := Pay{
		Wages:      decimal.Zero,
		Bonus:      decimal.Zero,
		WagesMonth: wagesMonth,
		BonusMonth: bonusMonth,
	}

	var rateGap error
	for _, row := range hist.RowsInMonth(rec.ID, wagesMonth) {
		rate, err := RateFor(bands, row.DateISO)
		if err != nil {
			if rateGap == nil && errors.Is(err, ErrNoApplicableRate) {
				rateGap = err
			}
			continue
		}
		hours := roster.DefaultHours(rowRole(row, rec))
		if row.Hours != nil {
			hours = *row.Hours
		}
		result.Wages = result.Wages.Add(decimal.NewFromFloat(hours).Mul(rate))
	}

	for _, row := range hist.RowsInMonth(rec.ID, bonusMonth) {
		multiplier := roster.DefaultMultiplier(rowRole(row, rec))
		if row.CommissionMultiplier != nil {
			multiplier = *row.CommissionMultiplier
		}
		base := RookieCommission(row.Box2Total())
		result.Bonus = result.Bonus.Add(base.Mul(decimal.NewFromFloat(multiplier)))
	}

	return result, rateGap
}

// rowRole prefers the role recorded at shift time over the current one, so
// promotions do not rewrite past pay.
func rowRole(row ledger.HistoryRow, rec roster.Recruiter) string {
	if row.RoleAtShift != "" {
		return row.RoleAtShift
	}
	return rec.Role
}

// shiftMonth moves a YYYY-MM month by delta months.
func shiftMonth(yearMonth string, delta int) (string, error) {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, delta, 0).Format("2006-01"), nil
}
