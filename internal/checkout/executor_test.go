package checkout

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/tenbis-tools/tenbuy/internal/browser"
	"github.com/tenbis-tools/tenbuy/internal/model"
)

// tracePage records every action and can be told to fail a specific step.
type tracePage struct {
	browser.Page
	trace    []string
	failStep string
}

func (p *tracePage) step(name string) error {
	p.trace = append(p.trace, name)
	if name == p.failStep {
		return fmt.Errorf("injected failure at %s", name)
	}
	return nil
}

func (p *tracePage) Goto(_ context.Context, url string) error {
	return p.step("goto " + url)
}

func (p *tracePage) WaitVisible(_ context.Context, sel browser.Selector, _ time.Duration) error {
	return p.step("wait " + selKey(sel))
}

func (p *tracePage) Click(_ context.Context, sel browser.Selector) error {
	return p.step("click " + selKey(sel))
}

func selKey(sel browser.Selector) string {
	if sel.Role != "" {
		if sel.NameRegex != "" {
			return sel.NameRegex
		}
		return sel.Name
	}
	return sel.Text
}

var testItem = model.Item{URL: "https://vendor.test/item/1", Price: 200}

func run(t *testing.T, p *tracePage, dryRun bool) (Result, error) {
	t.Helper()
	return New(p, time.Second).Execute(context.Background(), testItem, model.RunMode{DryRun: dryRun})
}

func TestExecute_Committed(t *testing.T) {
	p := &tracePage{}
	res, err := run(t, p, false)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res != ResultCommitted {
		t.Fatalf("result = %s, want %s", res, ResultCommitted)
	}
	want := []string{
		"goto https://vendor.test/item/1",
		"wait ^Add item", "click ^Add item",
		"wait Proceed to payment", "click Proceed to payment",
		"wait ^Place order",
		"click ^Place order",
		"wait Coupon ordered successfully",
	}
	if !reflect.DeepEqual(p.trace, want) {
		t.Fatalf("trace = %v, want %v", p.trace, want)
	}
}

func TestExecute_DryRunStopsAtConfirm(t *testing.T) {
	live := &tracePage{}
	if _, err := run(t, live, false); err != nil {
		t.Fatalf("live Execute: %v", err)
	}

	dry := &tracePage{}
	res, err := run(t, dry, true)
	if err != nil {
		t.Fatalf("dry Execute: %v", err)
	}
	if res != ResultSimulated {
		t.Fatalf("result = %s, want %s", res, ResultSimulated)
	}

	// Identical traces up through the confirm step, divergence only at commit.
	preCommit := len(dry.trace)
	if !reflect.DeepEqual(dry.trace, live.trace[:preCommit]) {
		t.Fatalf("dry trace %v is not a prefix of live trace %v", dry.trace, live.trace)
	}
	for _, step := range dry.trace {
		if step == "click ^Place order" {
			t.Fatal("dry run clicked the commit button")
		}
	}
}

func TestExecute_FailureTaggedWithFailingStage(t *testing.T) {
	cases := []struct {
		failStep string
		stage    model.Stage
	}{
		{"goto https://vendor.test/item/1", model.StageNavigateToItem},
		{"wait ^Add item", model.StageAddToCart},
		{"click ^Add item", model.StageAddToCart},
		{"wait Proceed to payment", model.StageProceedToCheckout},
		{"wait ^Place order", model.StageReachConfirm},
		{"click ^Place order", model.StageCommit},
		{"wait Coupon ordered successfully", model.StageCommit},
	}

	for _, c := range cases {
		p := &tracePage{failStep: c.failStep}
		_, err := run(t, p, false)
		if err == nil {
			t.Fatalf("failing %q: no error", c.failStep)
		}
		if got := model.StageOf(err, ""); got != c.stage {
			t.Fatalf("failing %q: stage = %s, want %s", c.failStep, got, c.stage)
		}
		// The failing step is the last thing attempted, no later stage runs.
		if p.trace[len(p.trace)-1] != c.failStep {
			t.Fatalf("failing %q: trace continued to %q", c.failStep, p.trace[len(p.trace)-1])
		}
	}
}

func TestExecute_NavigationFailureClass(t *testing.T) {
	p := &tracePage{failStep: "goto https://vendor.test/item/1"}
	_, err := run(t, p, false)
	if !errors.Is(err, model.ErrNavigation) {
		t.Fatalf("err = %v, want ErrNavigation", err)
	}
}
