// Package supabase implements phrase.Gateway over the PostgREST API of a
// Supabase project.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abdulachik/amanecer/internal/phrase"
)

const (
	restPath   = "/rest/v1/"
	table      = "phrases"
	selectCols = "id,content,author,category,created_at"
)

// Gateway talks to the phrases table through PostgREST.
type Gateway struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ phrase.Gateway = (*Gateway)(nil)

// Config holds configuration for the Supabase gateway.
type Config struct {
	URL    string
	APIKey string
}

// New creates a new Supabase gateway.
func New(cfg Config) *Gateway {
	return &Gateway{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// row is a phrases row as returned by PostgREST.
type row struct {
	ID        json.RawMessage `json:"id"`
	Content   string          `json:"content"`
	Author    string          `json:"author"`
	Category  *string         `json:"category"`
	CreatedAt string          `json:"created_at"`
}

func (r row) toPhrase() phrase.Phrase {
	p := phrase.Phrase{
		ID:        rawID(r.ID),
		Content:   r.Content,
		Author:    r.Author,
		CreatedAt: phrase.NormalizeDate(r.CreatedAt),
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	return p
}

// rawID accepts both string (uuid) and numeric (bigserial) ids.
func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// apiError is the PostgREST error body.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// GetByDate returns the phrase stored for date.
func (g *Gateway) GetByDate(ctx context.Context, date string) (*phrase.Phrase, error) {
	q := url.Values{}
	q.Set("select", selectCols)
	q.Set("created_at", "eq."+date)
	q.Set("limit", "1")

	rows, err := g.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("get phrase by date: %w", err)
	}
	if len(rows) == 0 {
		return nil, phrase.ErrNotFound
	}
	p := rows[0].toPhrase()
	return &p, nil
}

// GetMostRecent returns the phrase with the latest date.
func (g *Gateway) GetMostRecent(ctx context.Context) (*phrase.Phrase, error) {
	q := url.Values{}
	q.Set("select", selectCols)
	q.Set("order", "created_at.desc")
	q.Set("limit", "1")

	rows, err := g.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("get latest phrase: %w", err)
	}
	if len(rows) == 0 {
		return nil, phrase.ErrNotFound
	}
	p := rows[0].toPhrase()
	return &p, nil
}

// ListPast returns up to limit phrases dated before the given date, newest first.
func (g *Gateway) ListPast(ctx context.Context, before string, limit int) ([]phrase.Phrase, error) {
	q := url.Values{}
	q.Set("select", selectCols)
	q.Set("created_at", "lt."+before)
	q.Set("order", "created_at.desc")
	q.Set("limit", strconv.Itoa(limit))

	rows, err := g.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list phrases before %s: %w", before, err)
	}

	phrases := make([]phrase.Phrase, 0, len(rows))
	for _, r := range rows {
		phrases = append(phrases, r.toPhrase())
	}
	return phrases, nil
}

// insertRequest is one row of an insert body.
type insertRequest struct {
	Content   string  `json:"content"`
	Author    string  `json:"author"`
	Category  *string `json:"category"`
	CreatedAt string  `json:"created_at"`
}

// Insert stores a new phrase; a duplicate date fails with phrase.ErrSlotTaken.
func (g *Gateway) Insert(ctx context.Context, p phrase.NewPhrase) (*phrase.Phrase, error) {
	reqBody := []insertRequest{{
		Content:   p.Content,
		Author:    p.Author,
		CreatedAt: p.Date,
	}}
	if p.Category != "" {
		reqBody[0].Category = &p.Category
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	q := url.Values{}
	q.Set("select", selectCols)

	resp, err := g.do(ctx, http.MethodPost, q, bytes.NewReader(body), map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return nil, fmt.Errorf("insert phrase: %w", err)
	}

	var rows []row
	if err := json.Unmarshal(resp.body, &rows); err != nil {
		return nil, fmt.Errorf("parse insert response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert phrase: no row returned")
	}
	stored := rows[0].toPhrase()
	return &stored, nil
}

// Delete removes the phrase with the given ID.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("select", "id")

	resp, err := g.do(ctx, http.MethodDelete, q, nil, map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return fmt.Errorf("delete phrase: %w", err)
	}

	var rows []row
	if err := json.Unmarshal(resp.body, &rows); err != nil {
		return fmt.Errorf("parse delete response: %w", err)
	}
	if len(rows) == 0 {
		return phrase.ErrNotFound
	}
	return nil
}

// Count returns the number of stored phrases using an exact count header.
func (g *Gateway) Count(ctx context.Context) (int64, error) {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")

	resp, err := g.do(ctx, http.MethodGet, q, nil, map[string]string{
		"Prefer": "count=exact",
	})
	if err != nil {
		return 0, fmt.Errorf("count phrases: %w", err)
	}

	n, err := parseContentRange(resp.header.Get("Content-Range"))
	if err != nil {
		return 0, fmt.Errorf("count phrases: %w", err)
	}
	return n, nil
}

// parseContentRange extracts the total from "0-0/42" or "*/0".
func parseContentRange(v string) (int64, error) {
	idx := strings.LastIndex(v, "/")
	if idx == -1 || idx == len(v)-1 {
		return 0, fmt.Errorf("missing total in Content-Range %q", v)
	}
	total := v[idx+1:]
	if total == "*" {
		return 0, fmt.Errorf("unknown total in Content-Range %q", v)
	}
	return strconv.ParseInt(total, 10, 64)
}

func (g *Gateway) list(ctx context.Context, q url.Values) ([]row, error) {
	resp, err := g.do(ctx, http.MethodGet, q, nil, nil)
	if err != nil {
		return nil, err
	}

	var rows []row
	if err := json.Unmarshal(resp.body, &rows); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return rows, nil
}

type response struct {
	header http.Header
	body   []byte
}

func (g *Gateway) do(ctx context.Context, method string, q url.Values, body io.Reader, headers map[string]string) (*response, error) {
	endpoint := g.baseURL + restPath + table + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", g.apiKey)
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		_ = json.Unmarshal(respBody, &apiErr)
		if resp.StatusCode == http.StatusConflict || apiErr.Code == "23505" {
			return nil, phrase.ErrSlotTaken
		}
		if apiErr.Message != "" {
			return nil, fmt.Errorf("API error (status %d, code %s): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return &response{header: resp.Header, body: respBody}, nil
}
