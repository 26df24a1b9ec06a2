// Package phrase defines the daily phrase model and the gateway the rest of
// the application uses to reach the phrases table.
package phrase

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the format of a slot key.
const DateLayout = "2006-01-02"

// DefaultAuthor is used when a phrase has no known author.
const DefaultAuthor = "Anónimo"

var (
	// ErrNotFound is returned when no phrase matches a lookup.
	ErrNotFound = errors.New("phrase not found")

	// ErrSlotTaken is returned by Insert when a phrase already exists for the date.
	ErrSlotTaken = errors.New("phrase already exists for date")
)

// Phrase is a stored daily phrase.
type Phrase struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Category  string `json:"category,omitempty"`
	CreatedAt string `json:"created_at"`
}

// NewPhrase holds the fields needed to insert a phrase.
type NewPhrase struct {
	Content  string
	Author   string
	Category string
	Date     string
}

// Fallback is the phrase used whenever generation is unavailable.
var Fallback = NewPhrase{
	Content:  "Cada amanecer trae nuevas esperanzas y nuevas oportunidades.",
	Author:   DefaultAuthor,
	Category: "esperanza",
}

// Gateway is the narrow capability over the phrases table.
type Gateway interface {
	// GetByDate returns the phrase whose slot equals date, or ErrNotFound.
	GetByDate(ctx context.Context, date string) (*Phrase, error)

	// GetMostRecent returns the phrase with the latest slot, or ErrNotFound.
	GetMostRecent(ctx context.Context) (*Phrase, error)

	// ListPast returns up to limit phrases with a slot before the given date,
	// newest first.
	ListPast(ctx context.Context, before string, limit int) ([]Phrase, error)

	// Insert stores a phrase and returns it with its assigned ID.
	Insert(ctx context.Context, p NewPhrase) (*Phrase, error)

	// Delete removes a phrase by ID, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored phrases.
	Count(ctx context.Context) (int64, error)
}

// FormatDate returns the slot key for t in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Tomorrow returns the slot key for the calendar day after now.
func Tomorrow(now time.Time) string {
	return FormatDate(now.AddDate(0, 0, 1))
}

// ParseDate validates a slot key.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// NormalizeDate reduces a date or timestamp string to its slot key.
func NormalizeDate(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}
