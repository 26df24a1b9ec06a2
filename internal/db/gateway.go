package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/abdulachik/amanecer/internal/phrase"
)

var _ phrase.Gateway = (*Store)(nil)

// GetByDate returns the phrase stored for date.
func (s *Store) GetByDate(ctx context.Context, date string) (*phrase.Phrase, error) {
	row, err := s.GetPhraseByDate(ctx, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, phrase.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get phrase by date: %w", err)
	}
	return toPhrase(row), nil
}

// GetMostRecent returns the phrase with the latest date.
func (s *Store) GetMostRecent(ctx context.Context) (*phrase.Phrase, error) {
	row, err := s.GetLatestPhrase(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, phrase.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest phrase: %w", err)
	}
	return toPhrase(row), nil
}

// ListPast returns up to limit phrases dated before the given date, newest first.
func (s *Store) ListPast(ctx context.Context, before string, limit int) ([]phrase.Phrase, error) {
	rows, err := s.ListPhrasesBefore(ctx, ListPhrasesBeforeParams{
		Before: before,
		Limit:  int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list phrases before %s: %w", before, err)
	}

	phrases := make([]phrase.Phrase, 0, len(rows))
	for _, row := range rows {
		phrases = append(phrases, *toPhrase(row))
	}
	return phrases, nil
}

// Insert stores a new phrase. A second phrase for the same date fails with
// phrase.ErrSlotTaken.
func (s *Store) Insert(ctx context.Context, p phrase.NewPhrase) (*phrase.Phrase, error) {
	row, err := s.CreatePhrase(ctx, CreatePhraseParams{
		ID:        uuid.NewString(),
		Content:   p.Content,
		Author:    p.Author,
		Category:  sql.NullString{String: p.Category, Valid: p.Category != ""},
		CreatedAt: p.Date,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, phrase.ErrSlotTaken
		}
		return nil, fmt.Errorf("insert phrase: %w", err)
	}
	return toPhrase(row), nil
}

// Delete removes the phrase with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.DeletePhrase(ctx, id)
	if err != nil {
		return fmt.Errorf("delete phrase: %w", err)
	}
	if n == 0 {
		return phrase.ErrNotFound
	}
	return nil
}

// Count returns the number of stored phrases.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.CountPhrases(ctx)
	if err != nil {
		return 0, fmt.Errorf("count phrases: %w", err)
	}
	return n, nil
}

func toPhrase(row PhraseRow) *phrase.Phrase {
	return &phrase.Phrase{
		ID:        row.ID,
		Content:   row.Content,
		Author:    row.Author,
		Category:  row.Category.String,
		CreatedAt: row.CreatedAt,
	}
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
// The only unique key besides the random primary key is created_at.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sqliteErr.Error(), "UNIQUE")
	}
	return false
}
