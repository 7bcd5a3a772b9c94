// Package balance extracts the remaining spending allowance from the
// vendor's transactions report.
//
// Three failure classes are kept distinct: the report is unreachable
// (model.ErrNavigation), a field is missing (model.ErrElementNotFound), and a
// field's text is unparsable (model.ErrParse). A zero balance is only ever
// reported when the page explicitly says zero.
package balance

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/tenbis-tools/tenbuy/internal/browser"
	"github.com/tenbis-tools/tenbuy/internal/model"
)

// Report field labels as rendered by the vendor.
const (
	labelDailyBalance   = "Daily balance"
	labelMonthlyBalance = "Monthly balance"
	labelDailyLimit     = "Daily limit"
	labelMonthlyLimit   = "Monthly limit"
	labelSpentToday     = "Spent today"
	labelSpentThisMonth = "Spent this month"

	reportMenuItem = "Transactions Report"
)

// Handles ₪400, ₪ 400, 400₪ and decimal variants.
var amountRe = regexp.MustCompile(`₪\s*([0-9]+(?:\.[0-9]+)?)|([0-9]+(?:\.[0-9]+)?)\s*₪`)

// Reader reads the allowance off the transactions report.
type Reader struct {
	page      browser.Page
	firstName string
	wait      time.Duration
	now       func() time.Time
}

// New returns a Reader. firstName selects the account menu button, which the
// vendor labels "Hi, <first name>".
func New(page browser.Page, firstName string, wait time.Duration) *Reader {
	if wait <= 0 {
		wait = 30 * time.Second
	}
	return &Reader{page: page, firstName: firstName, wait: wait, now: time.Now}
}

// Read opens the transactions report and extracts a fresh Allowance.
func (r *Reader) Read(ctx context.Context) (model.Allowance, error) {
	if err := r.openReport(ctx); err != nil {
		return model.Allowance{}, err
	}

	a := model.Allowance{AsOf: r.now()}
	fields := []struct {
		label string
		dst   *float64
	}{
		{labelMonthlyLimit, &a.MonthlyLimit},
		{labelDailyLimit, &a.DailyLimit},
		{labelSpentThisMonth, &a.SpentThisMonth},
		{labelSpentToday, &a.SpentToday},
		{labelMonthlyBalance, &a.MonthlyRemaining},
		{labelDailyBalance, &a.DailyRemaining},
	}
	for _, f := range fields {
		v, err := r.amountByLabel(ctx, f.label)
		if err != nil {
			return model.Allowance{}, err
		}
		*f.dst = v
	}
	return a, nil
}

func (r *Reader) openReport(ctx context.Context) error {
	menu := browser.Selector{Role: "button", Name: "Hi, " + r.firstName}
	if err := r.page.WaitVisible(ctx, menu, r.wait); err != nil {
		return fmt.Errorf("%w: account menu: %v", model.ErrNavigation, err)
	}
	if err := r.page.Click(ctx, menu); err != nil {
		return fmt.Errorf("%w: account menu: %v", model.ErrNavigation, err)
	}

	item := browser.Selector{Text: reportMenuItem, Exact: true}
	if err := r.page.WaitVisible(ctx, item, 5*time.Second); err != nil {
		return fmt.Errorf("%w: report menu item: %v", model.ErrNavigation, err)
	}
	if err := r.page.Click(ctx, item); err != nil {
		return fmt.Errorf("%w: report menu item: %v", model.ErrNavigation, err)
	}
	return nil
}

// amountByLabel reads the value rendered next to a report label. The value
// shares a container with the label, so the container's inner text holds both.
func (r *Reader) amountByLabel(ctx context.Context, label string) (float64, error) {
	txt, err := r.page.ContainerText(ctx, browser.Selector{Text: label, Exact: true})
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", model.ErrElementNotFound, label, err)
	}
	v, err := parseAmount(txt)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", model.ErrParse, label, err)
	}
	return v, nil
}

func parseAmount(text string) (float64, error) {
	m := amountRe.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("no shekel amount in %q", text)
	}
	digits := m[1]
	if digits == "" {
		digits = m[2]
	}
	return strconv.ParseFloat(digits, 64)
}
