package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the SQL statements for the phrases table.
type Queries struct {
	db DBTX
}

// New creates Queries bound to a connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// PhraseRow is a row of the phrases table.
type PhraseRow struct {
	ID        string
	Content   string
	Author    string
	Category  sql.NullString
	CreatedAt string
}

const phraseColumns = `id, content, author, category, created_at`

func scanPhrase(row interface{ Scan(...interface{}) error }) (PhraseRow, error) {
	var p PhraseRow
	err := row.Scan(&p.ID, &p.Content, &p.Author, &p.Category, &p.CreatedAt)
	return p, err
}

const getPhraseByDate = `SELECT ` + phraseColumns + ` FROM phrases WHERE created_at = ? LIMIT 1`

func (q *Queries) GetPhraseByDate(ctx context.Context, createdAt string) (PhraseRow, error) {
	return scanPhrase(q.db.QueryRowContext(ctx, getPhraseByDate, createdAt))
}

const getLatestPhrase = `SELECT ` + phraseColumns + ` FROM phrases ORDER BY created_at DESC LIMIT 1`

func (q *Queries) GetLatestPhrase(ctx context.Context) (PhraseRow, error) {
	return scanPhrase(q.db.QueryRowContext(ctx, getLatestPhrase))
}

const listPhrasesBefore = `SELECT ` + phraseColumns + ` FROM phrases WHERE created_at < ? ORDER BY created_at DESC LIMIT ?`

type ListPhrasesBeforeParams struct {
	Before string
	Limit  int64
}

func (q *Queries) ListPhrasesBefore(ctx context.Context, arg ListPhrasesBeforeParams) ([]PhraseRow, error) {
	rows, err := q.db.QueryContext(ctx, listPhrasesBefore, arg.Before, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PhraseRow
	for rows.Next() {
		p, err := scanPhrase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createPhrase = `INSERT INTO phrases (` + phraseColumns + `) VALUES (?, ?, ?, ?, ?) RETURNING ` + phraseColumns

type CreatePhraseParams struct {
	ID        string
	Content   string
	Author    string
	Category  sql.NullString
	CreatedAt string
}

func (q *Queries) CreatePhrase(ctx context.Context, arg CreatePhraseParams) (PhraseRow, error) {
	row := q.db.QueryRowContext(ctx, createPhrase,
		arg.ID,
		arg.Content,
		arg.Author,
		arg.Category,
		arg.CreatedAt,
	)
	return scanPhrase(row)
}

const deletePhrase = `DELETE FROM phrases WHERE id = ?`

func (q *Queries) DeletePhrase(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePhrase, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countPhrases = `SELECT COUNT(*) FROM phrases`

func (q *Queries) CountPhrases(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPhrases).Scan(&count)
	return count, err
}

const countPhrasesByCategory = `SELECT COALESCE(category, ''), COUNT(*) FROM phrases GROUP BY COALESCE(category, '') ORDER BY COUNT(*) DESC`

type CountPhrasesByCategoryRow struct {
	Category string
	Count    int64
}

func (q *Queries) CountPhrasesByCategory(ctx context.Context) ([]CountPhrasesByCategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, countPhrasesByCategory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CountPhrasesByCategoryRow
	for rows.Next() {
		var i CountPhrasesByCategoryRow
		if err := rows.Scan(&i.Category, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
