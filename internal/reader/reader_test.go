package reader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/amanecer/internal/phrase"
	"github.com/abdulachik/amanecer/internal/phrase/phrasetest"
)

var today = time.Date(2025, 3, 11, 9, 0, 0, 0, time.Local)

func row(date, content string) phrase.Phrase {
	return phrase.Phrase{Content: content, Author: "Anónimo", CreatedAt: date}
}

func TestService_Today(t *testing.T) {
	ctx := context.Background()

	t.Run("returns today's phrase", func(t *testing.T) {
		store := phrasetest.NewMemory(row("2025-03-10", "ayer"), row("2025-03-11", "hoy"), row("2025-03-12", "mañana"))
		p, err := New(store).Today(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, "hoy", p.Content)
	})

	t.Run("falls back to most recent", func(t *testing.T) {
		store := phrasetest.NewMemory(row("2025-03-08", "antes"), row("2025-03-10", "ayer"))
		p, err := New(store).Today(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, "ayer", p.Content)
	})

	t.Run("empty store", func(t *testing.T) {
		_, err := New(phrasetest.NewMemory()).Today(ctx, today)
		assert.ErrorIs(t, err, phrase.ErrNotFound)
	})

	t.Run("store error", func(t *testing.T) {
		store := phrasetest.NewMemory()
		store.GetErr = errors.New("connection refused")
		_, err := New(store).Today(ctx, today)
		require.Error(t, err)
		assert.NotErrorIs(t, err, phrase.ErrNotFound)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestService_RandomPast(t *testing.T) {
	ctx := context.Background()
	store := phrasetest.NewMemory(
		row("2025-03-08", "uno"),
		row("2025-03-09", "dos"),
		row("2025-03-10", "tres"),
		row("2025-03-11", "hoy"),
	)

	t.Run("never returns today or later", func(t *testing.T) {
		s := New(store)
		for i := 0; i < 50; i++ {
			p, err := s.RandomPast(ctx, today, "")
			require.NoError(t, err)
			assert.Less(t, p.CreatedAt, "2025-03-11")
		}
	})

	t.Run("excludes given date", func(t *testing.T) {
		s := New(store)
		for i := 0; i < 50; i++ {
			p, err := s.RandomPast(ctx, today, "2025-03-09")
			require.NoError(t, err)
			assert.NotEqual(t, "2025-03-09", p.CreatedAt)
		}
	})

	t.Run("picks by index", func(t *testing.T) {
		s := New(store)
		s.intn = func(n int) int {
			assert.Equal(t, 3, n)
			return n - 1
		}
		p, err := s.RandomPast(ctx, today, "")
		require.NoError(t, err)
		assert.Equal(t, "uno", p.Content)
	})

	t.Run("only excluded phrase left", func(t *testing.T) {
		s := New(phrasetest.NewMemory(row("2025-03-10", "ayer")))
		_, err := s.RandomPast(ctx, today, "2025-03-10")
		assert.ErrorIs(t, err, phrase.ErrNotFound)
	})

	t.Run("empty store", func(t *testing.T) {
		_, err := New(phrasetest.NewMemory()).RandomPast(ctx, today, "")
		assert.ErrorIs(t, err, phrase.ErrNotFound)
	})

	t.Run("list error", func(t *testing.T) {
		failing := phrasetest.NewMemory()
		failing.ListErr = errors.New("timeout")
		_, err := New(failing).RandomPast(ctx, today, "")
		require.Error(t, err)
		assert.NotErrorIs(t, err, phrase.ErrNotFound)
	})
}
