package pay

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE BANDS - Date-indexed hourly rates
// =============================================================================

// RateBand is one step of the hourly-rate step function. A band applies from
// StartISO (inclusive) until the next band starts; the latest band is
// open-ended. Bands are operator-maintained settings; this package only
// reads them.
type RateBand struct {
	StartISO string
	Rate     decimal.Decimal
}

// RateFor resolves the hourly rate applicable on dateISO (YYYY-MM-DD).
//
// The input slice may arrive in any order; bands are sorted here by start
// date before selection. The band with the latest start not after dateISO
// wins. No interpolation: the rate is a step function.
//
// If dateISO precedes every band, a *NoApplicableRateError is returned.
// Operators should keep one band with an epoch-safe start date configured.
func RateFor(bands []RateBand, dateISO string) (decimal.Decimal, error) {
	sorted := make([]RateBand, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartISO < sorted[j].StartISO })

	rate := decimal.Zero
	found := false
	for _, b := range sorted {
		if b.StartISO <= dateISO {
			rate = b.Rate
			found = true
			continue
		}
		break
	}
	if !found {
		return decimal.Zero, &NoApplicableRateError{Date: dateISO}
	}
	return rate, nil
}
