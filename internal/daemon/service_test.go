package daemon

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tenbis-tools/tenbuy/internal/model"
)

func outcome(kind model.OutcomeKind) model.Outcome {
	return model.Outcome{
		RunID:      "run-1",
		Kind:       kind,
		StartedAt:  time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 8, 24, 9, 1, 0, 0, time.UTC),
	}
}

func TestRecordCounts(t *testing.T) {
	s := New(Config{}, nil)

	s.record(outcome(model.OutcomePurchased))
	s.record(outcome(model.OutcomeSkipped))
	s.record(outcome(model.OutcomeFailed))
	s.record(outcome(model.OutcomePurchasedUnconfirmed))

	st := s.status()
	if st.RunCount != 4 {
		t.Fatalf("run count = %d, want 4", st.RunCount)
	}
	if st.PurchasedCount != 2 || st.SkippedCount != 1 || st.FailedCount != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/1", st.PurchasedCount, st.SkippedCount, st.FailedCount)
	}
	if !st.UnconfirmedSeen {
		t.Fatal("unconfirmed purchase not flagged")
	}
	if st.LastRun == nil || st.LastRun.Outcome != model.OutcomePurchasedUnconfirmed {
		t.Fatalf("last run = %+v", st.LastRun)
	}
}

func TestRunOnceInvokesRunFunc(t *testing.T) {
	calls := 0
	s := New(Config{}, func(context.Context) model.Outcome {
		calls++
		return outcome(model.OutcomeSkipped)
	})

	s.runOnce(context.Background())
	if calls != 1 {
		t.Fatalf("run func calls = %d, want 1", calls)
	}
	if s.status().SkippedCount != 1 {
		t.Fatal("runOnce did not record the outcome")
	}
}

func TestStatusHandler(t *testing.T) {
	s := New(Config{Interval: time.Hour}, nil)
	o := outcome(model.OutcomeSkipped)
	o.Reason = model.BlockDailyInsufficient
	s.record(o)

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest("GET", "/v1/status", nil))

	if rec.Code != 200 {
		t.Fatalf("status code = %d", rec.Code)
	}
	var st Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if st.IntervalSec != 3600 {
		t.Fatalf("interval = %d, want 3600", st.IntervalSec)
	}
	if st.LastRun == nil || st.LastRun.Reason != string(model.BlockDailyInsufficient) {
		t.Fatalf("last run = %+v", st.LastRun)
	}
}

func TestIntervalFloor(t *testing.T) {
	s := New(Config{Interval: time.Second}, nil)
	if s.cfg.Interval != 24*time.Hour {
		t.Fatalf("interval = %v, want 24h floor", s.cfg.Interval)
	}
}
