// Package share formats a phrase for posting on social networks.
package share

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/abdulachik/amanecer/internal/phrase"
)

const (
	// TwitterMaxLength is the maximum character count for a tweet.
	TwitterMaxLength = 280

	twitterIntentBase = "https://twitter.com/intent/tweet"
	twitterHashtags   = "motivacion,inspiracion,frases"
	instagramHashtags = "#motivacion #inspiracion #frases #crecimientopersonal"
)

// Links is the share block attached to API responses.
type Links struct {
	TwitterURL       string `json:"twitter_url"`
	InstagramCaption string `json:"instagram_caption"`
}

// For builds the share block for a phrase. Tweet text is truncated so the
// composed tweet, hashtags included, fits in TwitterMaxLength.
func For(p phrase.Phrase) Links {
	return Links{
		TwitterURL:       TwitterIntentURL(TruncateContent(p.Content, p.Author, TwitterMaxLength), p.Author),
		InstagramCaption: InstagramCaption(p.Content, p.Author),
	}
}

// TweetText formats a phrase as `"content" - author`.
func TweetText(content, author string) string {
	return fmt.Sprintf("\"%s\" - %s", content, author)
}

// TwitterIntentURL returns a tweet composer URL prefilled with the phrase.
func TwitterIntentURL(content, author string) string {
	// Spaces as %20 to match what browsers produce for intent links.
	text := strings.ReplaceAll(url.QueryEscape(TweetText(content, author)), "+", "%20")
	return fmt.Sprintf("%s?text=%s&hashtags=%s", twitterIntentBase, text, twitterHashtags)
}

// InstagramCaption formats a phrase as a caption ready to paste.
func InstagramCaption(content, author string) string {
	return fmt.Sprintf("\"%s\"\n\n- %s\n\n%s", content, author, instagramHashtags)
}

// tweetOverhead is the rune count a tweet adds around the content.
func tweetOverhead(author string) int {
	hashtags := 0
	for _, tag := range strings.Split(twitterHashtags, ",") {
		hashtags += 2 + utf8.RuneCountInString(tag) // space + '#'
	}
	return utf8.RuneCountInString(TweetText("", author)) + hashtags
}

// TruncateContent shortens content so the tweet built from it fits within
// limit. Cuts at a word boundary when one is close enough.
func TruncateContent(content, author string, limit int) string {
	available := limit - tweetOverhead(author)
	if utf8.RuneCountInString(content) <= available {
		return content
	}
	if available <= 3 {
		if available <= 0 {
			return ""
		}
		return string([]rune(content)[:available])
	}

	keep := available - 3
	truncated := string([]rune(content)[:keep])

	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > 0 && utf8.RuneCountInString(truncated[:lastSpace]) > keep/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimRight(truncated, " .,;:!?") + "..."
}

// FitsInLimit checks if text fits within limit runes.
func FitsInLimit(text string, limit int) bool {
	return utf8.RuneCountInString(text) <= limit
}

// TweetLength is the rune count of the composed tweet, hashtags included.
func TweetLength(content, author string) int {
	return utf8.RuneCountInString(content) + tweetOverhead(author)
}
