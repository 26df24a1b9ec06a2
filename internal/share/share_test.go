package share

import (
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/amanecer/internal/phrase"
)

func TestTweetText(t *testing.T) {
	result := TweetText("Cada día es una nueva oportunidad.", "Anónimo")
	assert.Equal(t, "\"Cada día es una nueva oportunidad.\" - Anónimo", result)
}

func TestTwitterIntentURL(t *testing.T) {
	raw := TwitterIntentURL("Sé tú & brilla.", "Anónimo")

	assert.True(t, strings.HasPrefix(raw, "https://twitter.com/intent/tweet?text="))
	assert.True(t, strings.HasSuffix(raw, "&hashtags=motivacion,inspiracion,frases"))
	assert.NotContains(t, raw, "+")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "\"Sé tú & brilla.\" - Anónimo", u.Query().Get("text"))
	assert.Equal(t, "motivacion,inspiracion,frases", u.Query().Get("hashtags"))
}

func TestInstagramCaption(t *testing.T) {
	result := InstagramCaption("Nunca te rindas.", "Anónimo")
	expected := "\"Nunca te rindas.\"\n\n- Anónimo\n\n#motivacion #inspiracion #frases #crecimientopersonal"
	assert.Equal(t, expected, result)
}

func TestTruncateContent(t *testing.T) {
	t.Run("short content unchanged", func(t *testing.T) {
		content := "Nunca te rindas."
		assert.Equal(t, content, TruncateContent(content, "Anónimo", TwitterMaxLength))
	})

	t.Run("long content truncated", func(t *testing.T) {
		content := strings.Repeat("palabra ", 60)
		result := TruncateContent(content, "Anónimo", TwitterMaxLength)

		assert.True(t, strings.HasSuffix(result, "..."))
		assert.LessOrEqual(t, TweetLength(result, "Anónimo"), TwitterMaxLength)
		assert.Less(t, utf8.RuneCountInString(result), utf8.RuneCountInString(content))
	})

	t.Run("truncates at word boundary", func(t *testing.T) {
		content := "uno dos tres cuatro cinco seis siete ocho nueve diez"
		result := TruncateContent(content, "A", 70)

		trimmed := strings.TrimSuffix(result, "...")
		assert.True(t, strings.HasPrefix(content, trimmed))
		next := content[len(trimmed)]
		assert.Equal(t, byte(' '), next, "should cut before a space")
	})

	t.Run("multibyte runes counted once", func(t *testing.T) {
		content := strings.Repeat("ñ", 300)
		result := TruncateContent(content, "Anónimo", TwitterMaxLength)

		assert.True(t, utf8.ValidString(result))
		assert.Equal(t, TwitterMaxLength, TweetLength(result, "Anónimo"))
	})

	t.Run("no room for content", func(t *testing.T) {
		assert.Equal(t, "", TruncateContent("Hola", "Anónimo", 10))
	})
}

func TestFitsInLimit(t *testing.T) {
	tests := []struct {
		text  string
		limit int
		fits  bool
	}{
		{"Hola", 10, true},
		{"Hola", 4, true},
		{"Hola", 3, false},
		{"", 1, true},
		{"año", 3, true},
		{"año", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.fits, FitsInLimit(tt.text, tt.limit))
		})
	}
}

func TestFor(t *testing.T) {
	p := phrase.Phrase{Content: "El éxito es la suma de pequeños esfuerzos.", Author: "Robert Collier"}

	links := For(p)

	u, err := url.Parse(links.TwitterURL)
	require.NoError(t, err)
	assert.Equal(t, "\"El éxito es la suma de pequeños esfuerzos.\" - Robert Collier", u.Query().Get("text"))
	assert.Contains(t, links.InstagramCaption, "- Robert Collier")
}
