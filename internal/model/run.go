// Package model holds the purchase domain types shared across tenbuy.
package model

import "time"

// Item is the single configured purchase target. Immutable for a run.
type Item struct {
	URL   string
	Price float64
}

// Allowance is the remaining spendable amount as reported by the vendor's
// transactions report. Fresh per run, authoritative only for that run.
type Allowance struct {
	DailyRemaining   float64
	MonthlyRemaining float64

	// Context figures shown on the same report, kept for the journal and
	// rendered output. The gate never consults them.
	DailyLimit     float64
	MonthlyLimit   float64
	SpentToday     float64
	SpentThisMonth float64

	AsOf time.Time
}

// RunMode controls whether the final commit step actually places an order.
type RunMode struct {
	DryRun bool
}

// BlockReason says which allowance made the gate refuse the purchase.
type BlockReason string

const (
	BlockDailyInsufficient   BlockReason = "daily_insufficient"
	BlockMonthlyInsufficient BlockReason = "monthly_insufficient"
)

// Verdict is the gate's go/no-go decision. Shortfall is how much the
// insufficient allowance is short of the item price.
type Verdict struct {
	Proceed   bool
	Reason    BlockReason
	Shortfall float64
}

// Confirmation pairs the proof artifacts of a placed (or simulated) order.
// Both paths share the same timestamp-derived identifier.
type Confirmation struct {
	ID             string
	ScreenshotPath string
	DocumentPath   string
	CapturedAt     time.Time
}

// OutcomeKind is the terminal classification of one run.
type OutcomeKind string

const (
	OutcomePurchased OutcomeKind = "purchased"
	OutcomeSimulated OutcomeKind = "simulated"
	OutcomeSkipped   OutcomeKind = "skipped_budget"
	OutcomeFailed    OutcomeKind = "failed"

	// OutcomePurchasedUnconfirmed means the commit succeeded but the proof
	// artifacts could not be produced. Money was spent; surface loudly.
	OutcomePurchasedUnconfirmed OutcomeKind = "purchased_unconfirmed"
)

// Outcome is the single terminal value one invocation produces.
type Outcome struct {
	RunID      string
	Kind       OutcomeKind
	StartedAt  time.Time
	FinishedAt time.Time

	Item Item
	Mode RunMode

	// Allowance is set once the balance read succeeds.
	Allowance *Allowance

	// Set for skipped_budget.
	Reason    BlockReason
	Shortfall float64

	// Set for failed and purchased_unconfirmed.
	Stage Stage
	Err   error

	// Set for purchased and simulated.
	Confirmation *Confirmation
}
