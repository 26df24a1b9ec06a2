// Package phrasetest provides an in-memory phrase.Gateway for tests.
package phrasetest

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/abdulachik/amanecer/internal/phrase"
)

// Memory is an in-memory phrase.Gateway. Errors set on it are returned by
// the matching operation; call counters let tests assert on side effects.
type Memory struct {
	mu              sync.Mutex
	rows            []phrase.Phrase
	nextID          int
	AllowDuplicates bool

	GetErr    error
	ListErr   error
	InsertErr error

	GetCalls    int
	InsertCalls int
}

var _ phrase.Gateway = (*Memory)(nil)

// NewMemory returns a gateway holding the given phrases.
func NewMemory(rows ...phrase.Phrase) *Memory {
	m := &Memory{}
	for _, r := range rows {
		m.nextID++
		if r.ID == "" {
			r.ID = strconv.Itoa(m.nextID)
		}
		m.rows = append(m.rows, r)
	}
	return m
}

// Rows returns a copy of the stored phrases in insertion order.
func (m *Memory) Rows() []phrase.Phrase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]phrase.Phrase(nil), m.rows...)
}

func (m *Memory) GetByDate(ctx context.Context, date string) (*phrase.Phrase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, r := range m.rows {
		if r.CreatedAt == date {
			p := r
			return &p, nil
		}
	}
	return nil, phrase.ErrNotFound
}

func (m *Memory) GetMostRecent(ctx context.Context) (*phrase.Phrase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if len(m.rows) == 0 {
		return nil, phrase.ErrNotFound
	}
	latest := m.rows[0]
	for _, r := range m.rows[1:] {
		if r.CreatedAt > latest.CreatedAt {
			latest = r
		}
	}
	return &latest, nil
}

func (m *Memory) ListPast(ctx context.Context, before string, limit int) ([]phrase.Phrase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []phrase.Phrase
	for _, r := range m.rows {
		if r.CreatedAt < before {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, p phrase.NewPhrase) (*phrase.Phrase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls++
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	if !m.AllowDuplicates {
		for _, r := range m.rows {
			if r.CreatedAt == p.Date {
				return nil, phrase.ErrSlotTaken
			}
		}
	}
	m.nextID++
	row := phrase.Phrase{
		ID:        strconv.Itoa(m.nextID),
		Content:   p.Content,
		Author:    p.Author,
		Category:  p.Category,
		CreatedAt: p.Date,
	}
	m.rows = append(m.rows, row)
	return &row, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return phrase.ErrNotFound
}

func (m *Memory) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}
