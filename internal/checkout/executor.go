// Package checkout drives the cart → checkout → confirmation sequence for a
// single item. Stages run strictly in order; the first failure aborts the
// rest and is tagged with the stage that produced it. Nothing here retries
// and nothing here rolls back: a failed execution leaves the browsing context
// as-is and the orchestrator treats the outcome as unknown.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/tenbis-tools/tenbuy/internal/browser"
	"github.com/tenbis-tools/tenbuy/internal/model"
)

// Result says how far the executor got on success.
type Result string

const (
	// ResultCommitted means the order was actually placed.
	ResultCommitted Result = "committed"
	// ResultSimulated means every step up to the commit ran for real and the
	// commit itself was skipped (dry-run).
	ResultSimulated Result = "simulated"
)

// Vendor checkout controls.
var (
	addItemButton    = browser.Selector{Role: "button", NameRegex: `^Add item`}
	toPaymentButton  = browser.Selector{Role: "button", Name: "Proceed to payment"}
	placeOrderButton = browser.Selector{Role: "button", NameRegex: `^Place order`}
	orderedMessage   = browser.Selector{Text: "Coupon ordered successfully"}
)

// Executor runs the purchase flow on the shared browsing context.
type Executor struct {
	page browser.Page
	wait time.Duration
}

// New returns an Executor with the given per-stage element wait.
func New(page browser.Page, wait time.Duration) *Executor {
	if wait <= 0 {
		wait = 15 * time.Second
	}
	return &Executor{page: page, wait: wait}
}

// Execute runs the staged flow exactly once. In dry-run mode it halts after
// the confirm step is reachable and reports ResultSimulated; every prior step
// runs for real so the dry-run trace is representative.
func (e *Executor) Execute(ctx context.Context, item model.Item, mode model.RunMode) (Result, error) {
	if err := e.page.Goto(ctx, item.URL); err != nil {
		return "", stageErr(model.StageNavigateToItem, model.ErrNavigation, err)
	}

	if err := e.waitAndClick(ctx, addItemButton); err != nil {
		return "", stageErr(model.StageAddToCart, model.ErrElementNotFound, err)
	}

	if err := e.waitAndClick(ctx, toPaymentButton); err != nil {
		return "", stageErr(model.StageProceedToCheckout, model.ErrElementNotFound, err)
	}

	if err := e.page.WaitVisible(ctx, placeOrderButton, e.wait); err != nil {
		return "", stageErr(model.StageReachConfirm, model.ErrElementNotFound, err)
	}

	if mode.DryRun {
		return ResultSimulated, nil
	}

	if err := e.page.Click(ctx, placeOrderButton); err != nil {
		return "", stageErr(model.StageCommit, model.ErrElementNotFound, err)
	}
	if err := e.page.WaitVisible(ctx, orderedMessage, e.wait); err != nil {
		return "", stageErr(model.StageCommit, model.ErrElementNotFound, err)
	}

	return ResultCommitted, nil
}

func (e *Executor) waitAndClick(ctx context.Context, sel browser.Selector) error {
	if err := e.page.WaitVisible(ctx, sel, e.wait); err != nil {
		return err
	}
	return e.page.Click(ctx, sel)
}

func stageErr(stage model.Stage, class, err error) *model.StageError {
	return &model.StageError{
		Stage: stage,
		Err:   fmt.Errorf("%w: %v", class, err),
	}
}
