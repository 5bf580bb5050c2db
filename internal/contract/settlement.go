package contract

import (
	"math"
	"time"

	"github.com/roach88/tally/internal/iou"
)

// secondsPerPeriod is one 30-day compounding period.
const secondsPerPeriod = 30 * 24 * 60 * 60

// PeriodsLate returns the number of FULL 30-day periods elapsed between
// the instrument's due date and now. Zero or negative means the payment
// is on time (a partial period does not count).
func PeriodsLate(due, now time.Time) int64 {
	elapsed := now.Unix() - due.Unix()
	if elapsed < 0 {
		// Integer division truncates toward zero; force floor semantics
		// so -1s late is period -1, matching floor((now-due)/30d).
		return -((-elapsed + secondsPerPeriod - 1) / secondsPerPeriod)
	}
	return elapsed / secondsPerPeriod
}

// RequiredSettlement computes the exact payment that closes the
// instrument at the given instant:
//
//	monthsLate <= 0: principal, no interest
//	monthsLate  > 0: floor(principal * (1 + rate/100)^monthsLate)
//
// The compounding deliberately runs in floating point with a final floor
// truncation (not rounding); changing either would break agreement with
// existing validators over the same log.
//
// KNOWN HAZARD: the result depends on the caller's "now". Two honest
// validators evaluating the same payment seconds apart can cross a 30-day
// boundary and disagree on the required amount. The product decision of
// whether to freeze the evaluation instant into the transaction is still
// open; until then callers that persist a verdict should also persist the
// instant they validated at, so the verdict can be reproduced.
func RequiredSettlement(in iou.Instrument, now time.Time) int64 {
	months := PeriodsLate(in.DueDate, now)
	if months <= 0 {
		return in.Principal
	}

	factor := 1 + float64(in.InterestRatePercent)/100
	compounded := float64(in.Principal) * math.Pow(factor, float64(months))
	return int64(math.Floor(compounded))
}
