// Package reader serves the phrases that have already been published.
package reader

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/abdulachik/amanecer/internal/phrase"
)

// PastWindow is how many past phrases RandomPast draws from.
const PastWindow = 20

// Service reads phrases from a gateway.
type Service struct {
	store phrase.Gateway
	intn  func(n int) int
}

// New creates a new reader service.
func New(store phrase.Gateway) *Service {
	return &Service{store: store, intn: rand.Intn}
}

// Today returns today's phrase, or the most recent one when today's slot is
// still empty. It returns phrase.ErrNotFound only when the store is empty.
func (s *Service) Today(ctx context.Context, now time.Time) (*phrase.Phrase, error) {
	date := phrase.FormatDate(now)

	p, err := s.store.GetByDate(ctx, date)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, phrase.ErrNotFound) {
		return nil, fmt.Errorf("get phrase for %s: %w", date, err)
	}

	p, err = s.store.GetMostRecent(ctx)
	if err != nil {
		if errors.Is(err, phrase.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get most recent phrase: %w", err)
	}
	return p, nil
}

// RandomPast returns a random phrase from before today, skipping the one
// dated exclude. Pass an empty exclude to consider the whole window.
func (s *Service) RandomPast(ctx context.Context, now time.Time, exclude string) (*phrase.Phrase, error) {
	past, err := s.store.ListPast(ctx, phrase.FormatDate(now), PastWindow)
	if err != nil {
		return nil, fmt.Errorf("list past phrases: %w", err)
	}

	candidates := past[:0:0]
	for _, p := range past {
		if exclude != "" && p.CreatedAt == exclude {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return nil, phrase.ErrNotFound
	}

	picked := candidates[s.intn(len(candidates))]
	return &picked, nil
}
