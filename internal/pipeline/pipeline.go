// Package pipeline runs the daily job that fills tomorrow's phrase slot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abdulachik/amanecer/internal/generator"
	"github.com/abdulachik/amanecer/internal/metrics"
	"github.com/abdulachik/amanecer/internal/phrase"
)

// State is the terminal state of a pipeline run.
type State string

const (
	// StateDone means a new phrase was inserted.
	StateDone State = "done"
	// StateSkipped means the slot already held a phrase.
	StateSkipped State = "skipped"
	// StateFailed means the insert failed.
	StateFailed State = "failed"
)

// Result describes a finished run.
type Result struct {
	State  State
	Date   string
	Phrase *phrase.Phrase
	IsAI   bool
}

// PhraseGenerator produces a phrase and never fails.
type PhraseGenerator interface {
	Generate(ctx context.Context) generator.Generated
}

// Pipeline checks, generates and inserts the phrase for tomorrow.
type Pipeline struct {
	store     phrase.Gateway
	generator PhraseGenerator
	now       func() time.Time
	flight    singleflight.Group
}

// Config holds pipeline dependencies.
type Config struct {
	Store     phrase.Gateway
	Generator PhraseGenerator
	// Now defaults to time.Now.
	Now func() time.Time
}

// New creates a new pipeline.
func New(cfg Config) *Pipeline {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		store:     cfg.Store,
		generator: cfg.Generator,
		now:       now,
	}
}

// TargetDate returns the slot the next run will fill.
func (p *Pipeline) TargetDate() string {
	return phrase.Tomorrow(p.now())
}

// Run fills tomorrow's slot if it is empty. Concurrent runs for the same
// date share one execution. An error is returned only when the insert fails.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	date := p.TargetDate()

	v, err, shared := p.flight.Do(date, func() (interface{}, error) {
		return p.run(ctx, date)
	})
	if shared {
		slog.Debug("joined in-flight pipeline run", "date", date)
	}

	res, _ := v.(Result)
	return res, err
}

func (p *Pipeline) run(ctx context.Context, date string) (Result, error) {
	start := p.now()
	res, err := p.fill(ctx, date)

	elapsed := p.now().Sub(start).Seconds()
	metrics.RecordPipelineRun(string(res.State), elapsed, err == nil, float64(p.now().Unix()))

	return res, err
}

func (p *Pipeline) fill(ctx context.Context, date string) (Result, error) {
	slog.Info("starting daily phrase run", "date", date)

	existing, err := p.store.GetByDate(ctx, date)
	switch {
	case err == nil:
		slog.Info("phrase already exists for date, skipping", "date", date, "id", existing.ID)
		return Result{State: StateSkipped, Date: date, Phrase: existing}, nil
	case errors.Is(err, phrase.ErrNotFound):
	default:
		// The check is best-effort; the store's unique constraint decides.
		slog.Warn("existence check failed, treating slot as free", "date", date, "error", err)
	}

	gen := p.generator.Generate(ctx)

	stored, err := p.store.Insert(ctx, phrase.NewPhrase{
		Content:  gen.Content,
		Author:   gen.Author,
		Category: gen.Category,
		Date:     date,
	})
	if errors.Is(err, phrase.ErrSlotTaken) {
		slog.Info("phrase inserted concurrently for date, skipping", "date", date)
		return Result{State: StateSkipped, Date: date, IsAI: gen.IsAI}, nil
	}
	if err != nil {
		slog.Error("failed to insert phrase", "date", date, "error", err)
		return Result{State: StateFailed, Date: date, IsAI: gen.IsAI}, fmt.Errorf("insert phrase for %s: %w", date, err)
	}

	slog.Info("phrase inserted",
		"date", stored.CreatedAt,
		"id", stored.ID,
		"author", stored.Author,
		"ai", gen.IsAI,
	)
	return Result{State: StateDone, Date: date, Phrase: stored, IsAI: gen.IsAI}, nil
}
