// Package gate implements the pure purchase decision: compare the item price
// against the remaining daily and monthly allowance. No I/O, no clock.
package gate

import "github.com/tenbis-tools/tenbuy/internal/model"

// Policy configures the boundary rule. With the default inclusive boundary,
// a price exactly equal to the remaining allowance proceeds (spending down to
// zero is allowed). ExclusiveBoundary flips both checks to strict less-than,
// in case the vendor's own rule turns out to be exclusive.
type Policy struct {
	ExclusiveBoundary bool
}

// Decide returns the verdict for buying an item at price given the allowance.
// The daily check runs before the monthly one so the more immediately
// actionable reason is surfaced first.
func (p Policy) Decide(a model.Allowance, price float64) model.Verdict {
	if p.insufficient(a.DailyRemaining, price) {
		return model.Verdict{
			Reason:    model.BlockDailyInsufficient,
			Shortfall: price - a.DailyRemaining,
		}
	}
	if p.insufficient(a.MonthlyRemaining, price) {
		return model.Verdict{
			Reason:    model.BlockMonthlyInsufficient,
			Shortfall: price - a.MonthlyRemaining,
		}
	}
	return model.Verdict{Proceed: true}
}

func (p Policy) insufficient(remaining, price float64) bool {
	if p.ExclusiveBoundary {
		return price >= remaining
	}
	return price > remaining
}
