package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/amanecer/internal/phrase"
)

var phraseColumns = []string{"id", "content", "author", "category", "created_at"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Gateway) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewGateway(mock)
}

func TestGateway_GetByDate(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock, g := newMock(t)
		mock.ExpectQuery("SELECT .* FROM phrases WHERE created_at = ").
			WithArgs("2025-03-11").
			WillReturnRows(pgxmock.NewRows(phraseColumns).
				AddRow("7f1c", "Sigue adelante.", "Anónimo", "perseverancia", "2025-03-11"))

		p, err := g.GetByDate(ctx, "2025-03-11")
		require.NoError(t, err)
		assert.Equal(t, "7f1c", p.ID)
		assert.Equal(t, "Sigue adelante.", p.Content)
		assert.Equal(t, "perseverancia", p.Category)
		assert.Equal(t, "2025-03-11", p.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, g := newMock(t)
		mock.ExpectQuery("SELECT .* FROM phrases WHERE created_at = ").
			WithArgs("2025-03-12").
			WillReturnRows(pgxmock.NewRows(phraseColumns))

		_, err := g.GetByDate(ctx, "2025-03-12")
		assert.ErrorIs(t, err, phrase.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error is not a miss", func(t *testing.T) {
		mock, g := newMock(t)
		mock.ExpectQuery("SELECT .* FROM phrases WHERE created_at = ").
			WithArgs("2025-03-12").
			WillReturnError(errors.New("connection reset"))

		_, err := g.GetByDate(ctx, "2025-03-12")
		require.Error(t, err)
		assert.NotErrorIs(t, err, phrase.ErrNotFound)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestGateway_GetMostRecent(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock, g := newMock(t)
		mock.ExpectQuery("SELECT .* FROM phrases ORDER BY created_at DESC LIMIT 1").
			WillReturnRows(pgxmock.NewRows(phraseColumns).
				AddRow("a1", "Hoy es tu día.", "Anónimo", "", "2025-03-09"))

		p, err := g.GetMostRecent(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-09", p.CreatedAt)
		assert.Empty(t, p.Category)
	})

	t.Run("empty table", func(t *testing.T) {
		mock, g := newMock(t)
		mock.ExpectQuery("SELECT .* FROM phrases ORDER BY created_at DESC LIMIT 1").
			WillReturnRows(pgxmock.NewRows(phraseColumns))

		_, err := g.GetMostRecent(ctx)
		assert.ErrorIs(t, err, phrase.ErrNotFound)
	})
}

func TestGateway_ListPast(t *testing.T) {
	mock, g := newMock(t)
	mock.ExpectQuery("SELECT .* FROM phrases WHERE created_at < .* ORDER BY created_at DESC LIMIT").
		WithArgs("2025-03-11", 20).
		WillReturnRows(pgxmock.NewRows(phraseColumns).
			AddRow("b2", "Dos", "Anónimo", "vida", "2025-03-10").
			AddRow("b1", "Uno", "Anónimo", "vida", "2025-03-09"))

	phrases, err := g.ListPast(context.Background(), "2025-03-11", 20)
	require.NoError(t, err)
	require.Len(t, phrases, 2)
	assert.Equal(t, "2025-03-10", phrases[0].CreatedAt)
	assert.Equal(t, "2025-03-09", phrases[1].CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_Insert(t *testing.T) {
	ctx := context.Background()
	input := phrase.NewPhrase{
		Content:  "Cree en ti.",
		Author:   "Anónimo",
		Category: "actitud",
		Date:     "2025-03-11",
	}

	t.Run("returns stored row", func(t *testing.T) {
		mock, g := newMock(t)
		mock.ExpectQuery("INSERT INTO phrases").
			WithArgs("Cree en ti.", "Anónimo", "actitud", "2025-03-11").
			WillReturnRows(pgxmock.NewRows(phraseColumns).
				AddRow("c3", "Cree en ti.", "Anónimo", "actitud", "2025-03-11"))

		p, err := g.Insert(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "c3", p.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate date", func(t *testing.T) {
		mock, g := newMock(t)
		mock.ExpectQuery("INSERT INTO phrases").
			WithArgs("Cree en ti.", "Anónimo", "actitud", "2025-03-11").
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

		_, err := g.Insert(ctx, input)
		assert.ErrorIs(t, err, phrase.ErrSlotTaken)
	})

	t.Run("other write failure", func(t *testing.T) {
		mock, g := newMock(t)
		mock.ExpectQuery("INSERT INTO phrases").
			WithArgs("Cree en ti.", "Anónimo", "actitud", "2025-03-11").
			WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied"})

		_, err := g.Insert(ctx, input)
		require.Error(t, err)
		assert.NotErrorIs(t, err, phrase.ErrSlotTaken)
		assert.Contains(t, err.Error(), "insert phrase")
	})
}

func TestGateway_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock, g := newMock(t)
		mock.ExpectExec("DELETE FROM phrases").
			WithArgs("c3").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, g.Delete(ctx, "c3"))
	})

	t.Run("unknown id", func(t *testing.T) {
		mock, g := newMock(t)
		mock.ExpectExec("DELETE FROM phrases").
			WithArgs("zz").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, g.Delete(ctx, "zz"), phrase.ErrNotFound)
	})
}

func TestGateway_Count(t *testing.T) {
	mock, g := newMock(t)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	n, err := g.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestGateway_EnsureSchema(t *testing.T) {
	mock, g := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS phrases").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS phrases_created_at_key").
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))

	require.NoError(t, g.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "vida", nullIfEmpty("vida"))
}
