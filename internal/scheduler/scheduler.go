// Package scheduler runs the daily pipeline on an in-process midnight timer.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abdulachik/amanecer/internal/pipeline"
)

// ErrAlreadyRunning is returned by Start when the loop is already active.
var ErrAlreadyRunning = errors.New("scheduler already running")

// ComponentPipeline is the health component updated after each run.
const ComponentPipeline = "pipeline"

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context) (pipeline.Result, error)
}

// Config holds scheduler configuration.
type Config struct {
	Runner Runner
	Health *Health
	// Interval between runs after the first one. Defaults to 24h.
	Interval time.Duration
	// Delay computes the wait before the first run. Defaults to UntilNextMidnight.
	Delay func(now time.Time) time.Duration
	Now   func() time.Time
}

// Scheduler owns at most one timer loop.
type Scheduler struct {
	runner   Runner
	health   *Health
	interval time.Duration
	delay    func(time.Time) time.Duration
	now      func() time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// New creates a new scheduler.
func New(cfg Config) *Scheduler {
	s := &Scheduler{
		runner:   cfg.Runner,
		health:   cfg.Health,
		interval: cfg.Interval,
		delay:    cfg.Delay,
		now:      cfg.Now,
	}
	if s.health == nil {
		s.health = NewHealth()
	}
	if s.interval <= 0 {
		s.interval = 24 * time.Hour
	}
	if s.delay == nil {
		s.delay = UntilNextMidnight
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// UntilNextMidnight returns the wait until the next local midnight of now's
// location. At exactly midnight it returns a full day.
func UntilNextMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}

// Start launches the timer loop. The loop ends when Stop is called or ctx is
// cancelled. Runs started by the loop are not cancelled by either.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		select {
		case <-s.done:
		default:
			return ErrAlreadyRunning
		}
	}

	wait := s.delay(s.now())
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	slog.Info("starting scheduler", "first_run_in", wait.Round(time.Second), "interval", s.interval)

	go s.loop(ctx, wait, s.stop, s.done)
	return nil
}

// Stop prevents future runs and waits for an in-flight run to finish.
// Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop = nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	slog.Info("scheduler stopped")
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil || s.stop == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// RunNow runs the pipeline immediately and records the outcome.
func (s *Scheduler) RunNow(ctx context.Context) (pipeline.Result, error) {
	return s.execute(ctx)
}

// Health returns the health tracker.
func (s *Scheduler) Health() *Health {
	return s.health
}

func (s *Scheduler) loop(ctx context.Context, wait time.Duration, stop, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	runCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return
		case <-timer.C:
			// A stop that raced with the timer wins.
			select {
			case <-stop:
				return
			default:
			}
			if _, err := s.execute(runCtx); err != nil {
				slog.Error("scheduled run failed", "error", err)
			}
			timer.Reset(s.interval)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context) (pipeline.Result, error) {
	res, err := s.runner.Run(ctx)
	if err != nil {
		s.health.SetUnhealthy(ComponentPipeline, err)
		return res, err
	}
	s.health.SetHealthy(ComponentPipeline, fmt.Sprintf("%s %s", res.State, res.Date))
	return res, nil
}
