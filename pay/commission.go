package pay

import "github.com/shopspring/decimal"

// =============================================================================
// COMMISSION TIERS - Box2 count to base bonus
// =============================================================================

// rookieTiers maps a shift's box2 conversion count to its base bonus.
// The steps are uneven on purpose: every second conversion is worth more,
// pushing recruiters toward the next pair.
var rookieTiers = [11]int64{0, 0, 25, 40, 70, 85, 120, 135, 175, 190, 235}

// rookieOverflowStep is the per-conversion bonus beyond ten box2s.
const rookieOverflowStep = 15

// RookieCommission returns the base bonus for a box2 conversion count.
// Counts above ten continue linearly from the top tier. Negative counts
// are treated as zero. The caller multiplies the base by the recruiter's
// role or shift multiplier to get the final bonus contribution.
func RookieCommission(box2 int) decimal.Decimal {
	if box2 <= 0 {
		return decimal.Zero
	}
	if box2 <= 10 {
		return decimal.NewFromInt(rookieTiers[box2])
	}
	over := int64(box2-10) * rookieOverflowStep
	return decimal.NewFromInt(rookieTiers[10] + over)
}
