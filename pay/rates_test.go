package pay_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaoAdministrator/proago-recruitment-sub000/pay"
)

func band(start string, rate int64) pay.RateBand {
	return pay.RateBand{StartISO: start, Rate: decimal.NewFromInt(rate)}
}

func TestRateFor_StepFunction(t *testing.T) {
	bands := []pay.RateBand{band("2025-01-01", 15), band("2025-06-01", 17)}

	r, err := pay.RateFor(bands, "2025-03-01")
	require.NoError(t, err)
	assert.True(t, r.Equal(decimal.NewFromInt(15)), "mid-band date uses the first band")

	r, err = pay.RateFor(bands, "2025-07-01")
	require.NoError(t, err)
	assert.True(t, r.Equal(decimal.NewFromInt(17)), "later date uses the newer band")
}

func TestRateFor_BandStartIsInclusive(t *testing.T) {
	bands := []pay.RateBand{band("2025-01-01", 15), band("2025-06-01", 17)}

	r, err := pay.RateFor(bands, "2025-06-01")
	require.NoError(t, err)
	assert.True(t, r.Equal(decimal.NewFromInt(17)))
}

func TestRateFor_UnsortedInput(t *testing.T) {
	// Resolver must not assume pre-sorted bands.
	bands := []pay.RateBand{band("2025-06-01", 17), band("2025-01-01", 15)}

	r, err := pay.RateFor(bands, "2025-03-01")
	require.NoError(t, err)
	assert.True(t, r.Equal(decimal.NewFromInt(15)))
}

func TestRateFor_DateBeforeAllBands_Fails(t *testing.T) {
	bands := []pay.RateBand{band("2025-01-01", 15), band("2025-06-01", 17)}

	_, err := pay.RateFor(bands, "2024-12-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, pay.ErrNoApplicableRate)

	var gap *pay.NoApplicableRateError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, "2024-12-01", gap.Date)
}

func TestRateFor_NoBands_Fails(t *testing.T) {
	_, err := pay.RateFor(nil, "2025-01-01")
	assert.ErrorIs(t, err, pay.ErrNoApplicableRate)
}
