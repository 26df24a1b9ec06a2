package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	text  string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.text, f.err
}

var expectedFallback = Generated{
	Content:  "Cada amanecer trae nuevas esperanzas y nuevas oportunidades.",
	Author:   "Anónimo",
	Category: "esperanza",
	IsAI:     false,
}

func TestGenerate_NoAPIKey(t *testing.T) {
	g := New(Config{})
	assert.False(t, g.Enabled())

	for i := 0; i < 3; i++ {
		assert.Equal(t, expectedFallback, g.Generate(context.Background()))
	}

	_, err := g.Compose(context.Background())
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGenerate_ModelPhrase(t *testing.T) {
	fc := &fakeCompleter{text: `{"content":"El éxito es la suma de pequeños esfuerzos.","author":"Robert Collier","category":"éxito"}`}
	g := NewWithCompleter(fc)

	got := g.Generate(context.Background())
	assert.Equal(t, Generated{
		Content:  "El éxito es la suma de pequeños esfuerzos.",
		Author:   "Robert Collier",
		Category: "éxito",
		IsAI:     true,
	}, got)
	assert.Equal(t, 1, fc.calls)
}

func TestGenerate_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeCompleter
		reason string
	}{
		{"transport error", &fakeCompleter{err: errors.New("dial tcp: timeout")}, "transport"},
		{"non-200 status", &fakeCompleter{err: &StatusError{StatusCode: 500, Body: "boom"}}, "http_status"},
		{"plain text", &fakeCompleter{text: "¡Nunca te rindas!"}, "parse_error"},
		{"truncated json", &fakeCompleter{text: `{"content": "Sigue`}, "parse_error"},
		{"missing content", &fakeCompleter{text: `{"author":"Anónimo","category":"vida"}`}, "parse_error"},
		{"content wrong type", &fakeCompleter{text: `{"content": 42}`}, "parse_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithCompleter(tt.client)

			assert.Equal(t, expectedFallback, g.Generate(context.Background()))

			_, err := g.Compose(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.reason, fallbackReason(err))
		})
	}
}

func TestGenerate_AgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiReply("```json\n{\"content\":\"Hoy es un buen día para empezar.\",\"author\":\"Anónimo\",\"category\":\"motivación\"}\n```"))
	}))
	defer server.Close()

	g := New(Config{APIKey: "k", BaseURL: server.URL})
	require.True(t, g.Enabled())

	got := g.Generate(context.Background())
	assert.True(t, got.IsAI)
	assert.Equal(t, "Hoy es un buen día para empezar.", got.Content)
	assert.Equal(t, "motivación", got.Category)
}

func TestParsePhrase(t *testing.T) {
	plain := `{"content":"La paciencia es amarga, pero su fruto es dulce.","author":"Rousseau","category":"constancia"}`

	t.Run("fence round trip", func(t *testing.T) {
		want, err := ParsePhrase(plain)
		require.NoError(t, err)

		for _, wrapped := range []string{
			"```json\n" + plain + "\n```",
			"```\n" + plain + "\n```",
			"  ```json " + plain + " ```  ",
		} {
			got, err := ParsePhrase(wrapped)
			require.NoError(t, err, wrapped)
			assert.Equal(t, want, got)
		}
	})

	t.Run("missing author defaults", func(t *testing.T) {
		got, err := ParsePhrase(`{"content":"Atrévete.","category":"actitud"}`)
		require.NoError(t, err)
		assert.Equal(t, "Anónimo", got.Author)
	})

	t.Run("category optional", func(t *testing.T) {
		got, err := ParsePhrase(`{"content":"Atrévete.","author":"X"}`)
		require.NoError(t, err)
		assert.Empty(t, got.Category)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParsePhrase("Aquí tienes tu frase: sé feliz")
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "\n\n```json\n{\"a\":1}\n```\n", `{"a":1}`},
		{"opening fence only", "```json\n{\"a\":1}", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.input))
		})
	}
}
