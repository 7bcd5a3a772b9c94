// Package daemon provides the in-binary scheduler: it invokes the purchase
// run once per interval and serves a small HTTP status API. The purchase core
// stays schedule-free; this is the "periodic invocation" collaborator.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/tenbis-tools/tenbuy/internal/model"
)

// RunFunc performs one complete invocation and returns its outcome.
type RunFunc func(ctx context.Context) model.Outcome

// Config controls the daemon runtime behavior.
type Config struct {
	Interval time.Duration
	Addr     string
	// RunOnStart triggers an invocation immediately instead of waiting for
	// the first tick.
	RunOnStart bool
}

// LastRun is the compact view of the most recent invocation.
type LastRun struct {
	RunID      string            `json:"run_id"`
	Outcome    model.OutcomeKind `json:"outcome"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	DryRun     bool              `json:"dry_run"`
	Reason     string            `json:"reason,omitempty"`
	Stage      string            `json:"stage,omitempty"`
	Cause      string            `json:"cause,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	IntervalSec     int       `json:"interval_sec"`
	RunCount        int64     `json:"run_count"`
	NextRunAt       time.Time `json:"next_run_at"`
	LastRun         *LastRun  `json:"last_run,omitempty"`
	PurchasedCount  int64     `json:"purchased_count"`
	SkippedCount    int64     `json:"skipped_count"`
	FailedCount     int64     `json:"failed_count"`
	UnconfirmedSeen bool      `json:"unconfirmed_seen"`
}

// Service runs invocations on a ticker and reports over HTTP.
type Service struct {
	cfg Config
	run RunFunc

	mu          sync.RWMutex
	startedAt   time.Time
	nextRunAt   time.Time
	runCount    int64
	purchased   int64
	skipped     int64
	failed      int64
	unconfirmed bool
	lastRun     *LastRun
}

// New returns a new daemon service invoking run on each tick.
func New(cfg Config, run RunFunc) *Service {
	if cfg.Interval < time.Minute {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8786"
	}
	return &Service{
		cfg:       cfg,
		run:       run,
		startedAt: time.Now(),
	}
}

// Run serves the status API and ticks until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if s.cfg.RunOnStart {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	s.setNextRun(time.Now().Add(s.cfg.Interval))

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.runOnce(ctx)
			s.setNextRun(time.Now().Add(s.cfg.Interval))
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) runOnce(ctx context.Context) {
	o := s.run(ctx)
	s.record(o)

	if o.Kind == model.OutcomeFailed || o.Kind == model.OutcomePurchasedUnconfirmed {
		log.Printf("tenbuy daemon: run %s ended %s (stage %s): %v", o.RunID, o.Kind, o.Stage, o.Err)
	} else {
		log.Printf("tenbuy daemon: run %s ended %s", o.RunID, o.Kind)
	}
}

func (s *Service) record(o model.Outcome) {
	last := &LastRun{
		RunID:      o.RunID,
		Outcome:    o.Kind,
		StartedAt:  o.StartedAt,
		FinishedAt: o.FinishedAt,
		DryRun:     o.Mode.DryRun,
		Stage:      string(o.Stage),
	}
	if o.Kind == model.OutcomeSkipped {
		last.Reason = string(o.Reason)
	}
	if o.Err != nil {
		last.Cause = o.Err.Error()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runCount++
	s.lastRun = last
	switch o.Kind {
	case model.OutcomePurchased, model.OutcomeSimulated:
		s.purchased++
	case model.OutcomeSkipped:
		s.skipped++
	case model.OutcomeFailed:
		s.failed++
	case model.OutcomePurchasedUnconfirmed:
		s.purchased++
		s.unconfirmed = true
	}
}

func (s *Service) setNextRun(at time.Time) {
	s.mu.Lock()
	s.nextRunAt = at
	s.mu.Unlock()
}

func (s *Service) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		StartedAt:       s.startedAt,
		IntervalSec:     int(s.cfg.Interval.Seconds()),
		RunCount:        s.runCount,
		NextRunAt:       s.nextRunAt,
		LastRun:         s.lastRun,
		PurchasedCount:  s.purchased,
		SkippedCount:    s.skipped,
		FailedCount:     s.failed,
		UnconfirmedSeen: s.unconfirmed,
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.status())
}
