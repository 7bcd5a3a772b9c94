package cli

import (
	"testing"

	"github.com/tenbis-tools/tenbuy/internal/model"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{200, "₪200"},
		{0, "₪0"},
		{37.5, "₪37.50"},
		{1234, "₪1234"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.in); got != c.want {
			t.Fatalf("FormatAmount(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatBlockReason(t *testing.T) {
	got := FormatBlockReason(model.BlockDailyInsufficient, 150)
	if got != "daily allowance short by ₪150" {
		t.Fatalf("daily reason = %q", got)
	}

	got = FormatBlockReason(model.BlockMonthlyInsufficient, 20)
	if got != "monthly allowance short by ₪20" {
		t.Fatalf("monthly reason = %q", got)
	}
}

func TestFormatOutcome_UnconfirmedIsLoud(t *testing.T) {
	got := FormatOutcome(model.OutcomePurchasedUnconfirmed)
	if got != "PURCHASED, proof missing" {
		t.Fatalf("unconfirmed label = %q", got)
	}
}
