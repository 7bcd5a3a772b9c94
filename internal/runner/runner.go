// Package runner sequences one budget-gated purchase invocation:
//
//	ReadBalance → Decide → {Blocked → Skipped | Proceed → Execute →
//	{Failed | Committed/Simulated → Record → Done}}
//
// One pass, no state revisited, no in-run retry. The runner is the only
// place a terminal outcome is decided; every other component just returns
// results. A run that ends Skipped or Failed before commit has caused no
// budget state change, so an external rerun needs no reconciliation.
package runner

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tenbis-tools/tenbuy/internal/checkout"
	"github.com/tenbis-tools/tenbuy/internal/model"
)

// BalanceReader produces a fresh allowance from the vendor.
type BalanceReader interface {
	Read(ctx context.Context) (model.Allowance, error)
}

// Gate is the pure purchase decision.
type Gate interface {
	Decide(a model.Allowance, price float64) model.Verdict
}

// Executor drives the cart-to-confirmation sequence.
type Executor interface {
	Execute(ctx context.Context, item model.Item, mode model.RunMode) (checkout.Result, error)
}

// Recorder captures the confirmation artifacts.
type Recorder interface {
	Capture(ctx context.Context) (model.Confirmation, error)
}

// Journal persists terminal outcomes. Optional.
type Journal interface {
	Append(o model.Outcome) error
}

// Runner wires the components of one invocation.
type Runner struct {
	Balance  BalanceReader
	Gate     Gate
	Executor Executor
	Recorder Recorder
	Journal  Journal

	now func() time.Time
}

// New returns a Runner over the given components. journal may be nil.
func New(balance BalanceReader, gate Gate, exec Executor, rec Recorder, journal Journal) *Runner {
	return &Runner{
		Balance:  balance,
		Gate:     gate,
		Executor: exec,
		Recorder: rec,
		Journal:  journal,
		now:      time.Now,
	}
}

// Run performs a single invocation and returns its terminal outcome.
func (r *Runner) Run(ctx context.Context, item model.Item, mode model.RunMode) model.Outcome {
	o := model.Outcome{
		RunID:     uuid.NewString(),
		StartedAt: r.now(),
		Item:      item,
		Mode:      mode,
	}

	allowance, err := r.Balance.Read(ctx)
	if err != nil {
		o.Kind = model.OutcomeFailed
		o.Stage = model.StageReadBalance
		o.Err = err
		return r.finish(o)
	}
	o.Allowance = &allowance

	verdict := r.Gate.Decide(allowance, item.Price)
	if !verdict.Proceed {
		o.Kind = model.OutcomeSkipped
		o.Reason = verdict.Reason
		o.Shortfall = verdict.Shortfall
		return r.finish(o)
	}

	result, err := r.Executor.Execute(ctx, item, mode)
	if err != nil {
		o.Kind = model.OutcomeFailed
		o.Stage = model.StageOf(err, model.StageNavigateToItem)
		o.Err = err
		return r.finish(o)
	}

	conf, err := r.Recorder.Capture(ctx)
	if err != nil {
		o.Stage = model.StageRecord
		o.Err = err
		if result == checkout.ResultCommitted {
			// Money was spent; the missing proof must not read as a
			// purchase failure.
			o.Kind = model.OutcomePurchasedUnconfirmed
		} else {
			o.Kind = model.OutcomeFailed
		}
		return r.finish(o)
	}

	o.Confirmation = &conf
	if result == checkout.ResultCommitted {
		o.Kind = model.OutcomePurchased
	} else {
		o.Kind = model.OutcomeSimulated
	}
	return r.finish(o)
}

func (r *Runner) finish(o model.Outcome) model.Outcome {
	o.FinishedAt = r.now()
	if r.Journal != nil {
		if err := r.Journal.Append(o); err != nil {
			// The outcome stands; a journal write failure only loses audit.
			log.Printf("tenbuy: journal append failed for run %s: %v", o.RunID, err)
		}
	}
	return o
}
