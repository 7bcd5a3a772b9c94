package balance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tenbis-tools/tenbuy/internal/browser"
	"github.com/tenbis-tools/tenbuy/internal/model"
)

// fakePage serves label containers from a map. Unimplemented Page methods
// panic via the embedded nil interface, which is fine for these tests.
type fakePage struct {
	browser.Page
	containers map[string]string
	navErr     error
}

func (f *fakePage) WaitVisible(_ context.Context, _ browser.Selector, _ time.Duration) error {
	return f.navErr
}

func (f *fakePage) Click(_ context.Context, _ browser.Selector) error {
	return f.navErr
}

func (f *fakePage) ContainerText(_ context.Context, sel browser.Selector) (string, error) {
	txt, ok := f.containers[sel.Text]
	if !ok {
		return "", fmt.Errorf("no element matching text %q", sel.Text)
	}
	return txt, nil
}

func reportPage() *fakePage {
	return &fakePage{containers: map[string]string{
		"Monthly limit":    "Monthly limit ₪700",
		"Daily limit":      "Daily limit ₪ 50",
		"Spent this month": "Spent this month 100₪",
		"Spent today":      "Spent today ₪0",
		"Monthly balance":  "Monthly balance ₪600",
		"Daily balance":    "Daily balance ₪50",
	}}
}

func TestRead_ParsesAllFields(t *testing.T) {
	r := New(reportPage(), "Dana", time.Second)

	a, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a.DailyRemaining != 50 || a.MonthlyRemaining != 600 {
		t.Fatalf("remaining = %.0f/%.0f, want 50/600", a.DailyRemaining, a.MonthlyRemaining)
	}
	if a.DailyLimit != 50 || a.MonthlyLimit != 700 {
		t.Fatalf("limits = %.0f/%.0f, want 50/700", a.DailyLimit, a.MonthlyLimit)
	}
	if a.SpentToday != 0 || a.SpentThisMonth != 100 {
		t.Fatalf("spent = %.0f/%.0f, want 0/100", a.SpentToday, a.SpentThisMonth)
	}
	if a.AsOf.IsZero() {
		t.Fatal("AsOf not set")
	}
}

func TestRead_ExplicitZeroIsZero(t *testing.T) {
	p := reportPage()
	p.containers["Daily balance"] = "Daily balance ₪0"

	a, err := New(p, "Dana", time.Second).Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a.DailyRemaining != 0 {
		t.Fatalf("DailyRemaining = %.2f, want 0", a.DailyRemaining)
	}
}

func TestRead_MissingFieldIsElementNotFound(t *testing.T) {
	p := reportPage()
	delete(p.containers, "Daily balance")

	_, err := New(p, "Dana", time.Second).Read(context.Background())
	if !errors.Is(err, model.ErrElementNotFound) {
		t.Fatalf("err = %v, want ErrElementNotFound", err)
	}
}

func TestRead_UnparsableFieldIsParseFailure(t *testing.T) {
	p := reportPage()
	p.containers["Monthly balance"] = "Monthly balance unavailable"

	_, err := New(p, "Dana", time.Second).Read(context.Background())
	if !errors.Is(err, model.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	// Never defaults to zero on a parse failure.
	if errors.Is(err, model.ErrElementNotFound) {
		t.Fatalf("err = %v, tagged with two classes", err)
	}
}

func TestRead_UnreachableReportIsNavigationFailure(t *testing.T) {
	p := reportPage()
	p.navErr = errors.New("timeout waiting for account menu")

	_, err := New(p, "Dana", time.Second).Read(context.Background())
	if !errors.Is(err, model.ErrNavigation) {
		t.Fatalf("err = %v, want ErrNavigation", err)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"₪400", 400},
		{"₪ 400", 400},
		{"400₪", 400},
		{"Daily balance ₪37.50", 37.5},
	}
	for _, c := range cases {
		got, err := parseAmount(c.in)
		if err != nil {
			t.Fatalf("parseAmount(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("parseAmount(%q) = %.2f, want %.2f", c.in, got, c.want)
		}
	}

	if _, err := parseAmount("no amount here"); err == nil {
		t.Fatal("parseAmount accepted text with no amount")
	}
}
