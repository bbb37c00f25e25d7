package fields

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxInputLength = 1000

var (
	scriptBlock    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	nonDigitOrPlus = regexp.MustCompile(`[^\d+]`)
	keywordNoise   = regexp.MustCompile(`[^\w\s\-.]`)
)

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"that": true, "the": true, "to": true, "was": true, "will": true, "with": true,
}

var (
	positiveWords = []string{"good", "great", "excellent", "amazing", "wonderful", "fantastic",
		"love", "happy", "excited", "yes", "sure", "definitely"}
	negativeWords = []string{"bad", "terrible", "awful", "poor", "horrible", "hate",
		"sad", "angry", "no", "never", "unfortunately"}
)

// Sentiment is a coarse label derived from word lists.
type Sentiment string

// Sentiment labels.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// SanitizeInput removes script blocks, escapes HTML, caps the length and trims
// surrounding whitespace.
func SanitizeInput(text string) string {
	sanitized := scriptBlock.ReplaceAllString(text, "")
	sanitized = html.EscapeString(sanitized)

	return strings.TrimSpace(cutAtRune(sanitized, maxInputLength))
}

// cutAtRune returns at most n bytes of s without splitting a rune.
func cutAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// FormatTechStack renders a tech list for display.
func FormatTechStack(techs []string) string {
	if len(techs) == 0 {
		return "Not specified"
	}
	if len(techs) <= 3 {
		return strings.Join(techs, ", ")
	}
	return fmt.Sprintf("%s, and %d more", strings.Join(techs[:3], ", "), len(techs)-3)
}

// FormatPhoneNumber normalizes a phone number. Numbers with a leading '+' keep
// their digits, bare ten-digit numbers are rendered as (XXX) XXX-XXXX.
func FormatPhoneNumber(phone string) string {
	cleaned := nonDigitOrPlus.ReplaceAllString(phone, "")
	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	if len(cleaned) == 10 {
		return fmt.Sprintf("(%s) %s-%s", cleaned[:3], cleaned[3:6], cleaned[6:])
	}
	return cleaned
}

// TruncateText shortens text to maxLength, ending it with suffix when cut.
func TruncateText(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}
	cut := maxLength - len(suffix)
	if cut < 0 {
		cut = 0
	}
	return cutAtRune(text, cut) + suffix
}

// ExtractKeywords lowercases text, drops punctuation other than hyphens and
// dots, and returns the words that are not stop words and longer than two characters.
func ExtractKeywords(text string) []string {
	cleaned := keywordNoise.ReplaceAllString(strings.ToLower(text), " ")

	keywords := []string{}
	for _, word := range strings.Fields(cleaned) {
		if stopWords[word] || len(word) <= 2 {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// ExtractSentiment counts positive and negative marker words appearing in text.
func ExtractSentiment(text string) Sentiment {
	lower := strings.ToLower(text)

	positive := countContained(lower, positiveWords)
	negative := countContained(lower, negativeWords)

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func countContained(text string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			count++
		}
	}
	return count
}
