// Package generator produces the daily motivational phrase with the Gemini
// API and falls back to a fixed phrase whenever that is not possible.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abdulachik/amanecer/internal/metrics"
	"github.com/abdulachik/amanecer/internal/phrase"
)

var (
	// ErrNoAPIKey is returned by Compose when no API key is configured.
	ErrNoAPIKey = errors.New("generation API key not configured")

	// ErrMalformed is returned when the model output is not the expected JSON object.
	ErrMalformed = errors.New("malformed model output")
)

// Generated is a phrase ready to be stored.
type Generated struct {
	Content  string
	Author   string
	Category string
	IsAI     bool
}

// Fallback returns the fixed phrase used when generation is unavailable.
func Fallback() Generated {
	return Generated{
		Content:  phrase.Fallback.Content,
		Author:   phrase.Fallback.Author,
		Category: phrase.Fallback.Category,
		IsAI:     false,
	}
}

// Completer sends a prompt to a text-generation model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator creates motivational phrases.
type Generator struct {
	client Completer
	prompt string
}

// Config holds generator configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// New creates a generator backed by Gemini. Without an API key it only ever
// returns the fallback phrase.
func New(cfg Config) *Generator {
	if cfg.APIKey == "" {
		return &Generator{prompt: PhrasePrompt}
	}
	return NewWithCompleter(NewGeminiClient(GeminiConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}))
}

// NewWithCompleter creates a generator over any model client.
func NewWithCompleter(c Completer) *Generator {
	return &Generator{client: c, prompt: PhrasePrompt}
}

// Enabled reports whether the generator can reach a model.
func (g *Generator) Enabled() bool {
	return g.client != nil
}

// Compose asks the model for a phrase and returns every failure to the caller.
func (g *Generator) Compose(ctx context.Context) (Generated, error) {
	if g.client == nil {
		return Generated{}, ErrNoAPIKey
	}

	text, err := g.client.Complete(ctx, g.prompt)
	if err != nil {
		return Generated{}, fmt.Errorf("complete: %w", err)
	}

	out, err := ParsePhrase(text)
	if err != nil {
		return Generated{}, err
	}
	return out, nil
}

// Generate returns a model phrase, or the fallback phrase when the model is
// not configured, unreachable, or answers with something unusable. It never fails.
func (g *Generator) Generate(ctx context.Context) Generated {
	out, err := g.Compose(ctx)
	if err == nil {
		slog.Info("phrase generated by model", "category", out.Category)
		metrics.RecordGeneration(true, "")
		return out
	}

	reason := fallbackReason(err)
	if errors.Is(err, ErrNoAPIKey) {
		slog.Warn("generation API key not configured, using fallback phrase")
	} else {
		slog.Error("phrase generation failed, using fallback phrase", "reason", reason, "error", err)
	}
	metrics.RecordGeneration(false, reason)

	return Fallback()
}

func fallbackReason(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrNoAPIKey):
		return "no_api_key"
	case errors.Is(err, ErrMalformed):
		return "parse_error"
	case errors.As(err, &statusErr):
		return "http_status"
	default:
		return "transport"
	}
}

// modelPhrase is the JSON object the prompt asks for.
type modelPhrase struct {
	Content  string `json:"content"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// ParsePhrase parses model output into a phrase. A surrounding markdown code
// fence is removed first. Content must be present; a missing author becomes
// phrase.DefaultAuthor.
func ParsePhrase(text string) (Generated, error) {
	clean := StripCodeFence(text)

	var mp modelPhrase
	if err := json.Unmarshal([]byte(clean), &mp); err != nil {
		return Generated{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if strings.TrimSpace(mp.Content) == "" {
		return Generated{}, fmt.Errorf("%w: missing content", ErrMalformed)
	}
	if strings.TrimSpace(mp.Author) == "" {
		mp.Author = phrase.DefaultAuthor
	}

	return Generated{
		Content:  mp.Content,
		Author:   mp.Author,
		Category: mp.Category,
		IsAI:     true,
	}, nil
}

// StripCodeFence removes a leading ```json or ``` fence and a trailing ```.
func StripCodeFence(text string) string {
	clean := strings.TrimSpace(text)
	for _, fence := range []string{"```json", "```"} {
		if strings.HasPrefix(clean, fence) {
			clean = strings.TrimPrefix(clean, fence)
			clean = strings.TrimSpace(clean)
			clean = strings.TrimSuffix(clean, "```")
			clean = strings.TrimSpace(clean)
		}
	}
	return clean
}
