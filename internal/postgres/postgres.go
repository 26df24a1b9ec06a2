// Package postgres implements phrase.Gateway on a Postgres database, such as
// the one behind a Supabase project.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdulachik/amanecer/internal/phrase"
)

// uniqueViolation is the SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// PgxIface is the subset of *pgxpool.Pool used by the gateway.
type PgxIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PoolConfig holds tunable parameters for the connection pool.
type PoolConfig struct {
	MaxConns int
	MinConns int
}

// NewPool creates a connection pool and verifies it with a ping.
func NewPool(ctx context.Context, dsn string, opts ...PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	if len(opts) > 0 && opts[0].MaxConns > 0 {
		config.MaxConns = int32(opts[0].MaxConns)
	}
	if len(opts) > 0 && opts[0].MinConns > 0 {
		config.MinConns = int32(opts[0].MinConns)
	}
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Gateway reads and writes the phrases table through pgx.
type Gateway struct {
	pool PgxIface
}

var _ phrase.Gateway = (*Gateway)(nil)

// NewGateway creates a gateway over pool.
func NewGateway(pool PgxIface) *Gateway {
	return &Gateway{pool: pool}
}

// Close releases the pool.
func (g *Gateway) Close() error {
	g.pool.Close()
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS phrases (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	content text NOT NULL,
	author text NOT NULL,
	category text,
	created_at date NOT NULL
)`

const uniqueIndex = `CREATE UNIQUE INDEX IF NOT EXISTS phrases_created_at_key ON phrases (created_at)`

// EnsureSchema creates the phrases table and the one-phrase-per-date index
// if they are missing.
func (g *Gateway) EnsureSchema(ctx context.Context) error {
	if _, err := g.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create phrases table: %w", err)
	}
	if _, err := g.pool.Exec(ctx, uniqueIndex); err != nil {
		return fmt.Errorf("create created_at index: %w", err)
	}
	return nil
}

const selectColumns = `id::text, content, author, COALESCE(category, ''), created_at::text`

func scanPhrase(row pgx.Row) (*phrase.Phrase, error) {
	var p phrase.Phrase
	if err := row.Scan(&p.ID, &p.Content, &p.Author, &p.Category, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByDate returns the phrase stored for date.
func (g *Gateway) GetByDate(ctx context.Context, date string) (*phrase.Phrase, error) {
	query := `SELECT ` + selectColumns + ` FROM phrases WHERE created_at = $1::date LIMIT 1`

	p, err := scanPhrase(g.pool.QueryRow(ctx, query, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, phrase.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get phrase by date: %w", err)
	}
	return p, nil
}

// GetMostRecent returns the phrase with the latest date.
func (g *Gateway) GetMostRecent(ctx context.Context) (*phrase.Phrase, error) {
	query := `SELECT ` + selectColumns + ` FROM phrases ORDER BY created_at DESC LIMIT 1`

	p, err := scanPhrase(g.pool.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, phrase.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest phrase: %w", err)
	}
	return p, nil
}

// ListPast returns up to limit phrases dated before the given date, newest first.
func (g *Gateway) ListPast(ctx context.Context, before string, limit int) ([]phrase.Phrase, error) {
	query := `SELECT ` + selectColumns + ` FROM phrases WHERE created_at < $1::date ORDER BY created_at DESC LIMIT $2`

	rows, err := g.pool.Query(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list phrases before %s: %w", before, err)
	}
	defer rows.Close()

	var phrases []phrase.Phrase
	for rows.Next() {
		p, err := scanPhrase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan phrase: %w", err)
		}
		phrases = append(phrases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phrases: %w", err)
	}
	return phrases, nil
}

// Insert stores a new phrase; a duplicate date fails with phrase.ErrSlotTaken.
func (g *Gateway) Insert(ctx context.Context, p phrase.NewPhrase) (*phrase.Phrase, error) {
	query := `INSERT INTO phrases (content, author, category, created_at)
		VALUES ($1, $2, $3, $4::date)
		RETURNING ` + selectColumns

	stored, err := scanPhrase(g.pool.QueryRow(ctx, query, p.Content, p.Author, nullIfEmpty(p.Category), p.Date))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, phrase.ErrSlotTaken
		}
		return nil, fmt.Errorf("insert phrase: %w", err)
	}
	return stored, nil
}

// Delete removes the phrase with the given ID.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	tag, err := g.pool.Exec(ctx, `DELETE FROM phrases WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete phrase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return phrase.ErrNotFound
	}
	return nil
}

// Count returns the number of stored phrases.
func (g *Gateway) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := g.pool.QueryRow(ctx, `SELECT COUNT(*) FROM phrases`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count phrases: %w", err)
	}
	return n, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
