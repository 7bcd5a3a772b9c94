// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"time"

	"github.com/tenbis-tools/tenbuy/internal/model"
)

// FormatAmount formats a shekel amount. Whole amounts drop the decimals.
// e.g., 200 -> "₪200", 37.5 -> "₪37.50"
func FormatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("₪%.0f", v)
	}
	return fmt.Sprintf("₪%.2f", v)
}

// FormatOutcome renders an outcome kind as a short human label.
func FormatOutcome(kind model.OutcomeKind) string {
	switch kind {
	case model.OutcomePurchased:
		return "purchased"
	case model.OutcomeSimulated:
		return "simulated (dry run)"
	case model.OutcomeSkipped:
		return "skipped (budget)"
	case model.OutcomeFailed:
		return "failed"
	case model.OutcomePurchasedUnconfirmed:
		return "PURCHASED, proof missing"
	default:
		return string(kind)
	}
}

// FormatBlockReason renders a skip reason with its shortfall.
// e.g., "daily allowance short by ₪150"
func FormatBlockReason(reason model.BlockReason, shortfall float64) string {
	which := "daily"
	if reason == model.BlockMonthlyInsufficient {
		which = "monthly"
	}
	return fmt.Sprintf("%s allowance short by %s", which, FormatAmount(shortfall))
}

// FormatTimestamp renders a journal timestamp in local time.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
