package fields

import (
	"regexp"
	"strings"
)

var (
	emailInText   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	yearsWithUnit = regexp.MustCompile(`(\d+\.?\d*)\s*(?:years?|yrs?)`)
	bareNumber    = regexp.MustCompile(`\b(\d+\.?\d*)\b`)
	listSeparator = regexp.MustCompile(`[,;/]`)
)

// phoneRule is one entry in the ordered phone extraction table.
type phoneRule struct {
	name    string
	pattern *regexp.Regexp
}

// phoneRules are evaluated in order; the first rule that matches wins even
// when a later rule would also match.
var phoneRules = []phoneRule{
	{name: "international", pattern: regexp.MustCompile(`\+?1?\d{9,15}`)},
	{name: "separated", pattern: regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)},
	{name: "parenthesized", pattern: regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)},
}

// ExtractEmail returns the first email address found anywhere in text.
func ExtractEmail(text string) (string, bool) {
	match := emailInText.FindString(text)
	return match, match != ""
}

// ExtractPhone returns the first phone number found in text using the
// ordered phone rules.
func ExtractPhone(text string) (string, bool) {
	for _, rule := range phoneRules {
		if match := rule.pattern.FindString(text); match != "" {
			return match, true
		}
	}
	return "", false
}

// ExtractYears returns the numeric part of a years-of-experience answer.
// "<number> years", "<number> yrs" and friends are preferred; otherwise the
// first bare number in the text is used.
func ExtractYears(text string) (string, bool) {
	if m := yearsWithUnit.FindStringSubmatch(strings.ToLower(text)); m != nil {
		return m[1], true
	}
	if m := bareNumber.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// ParseList splits text on commas, semicolons and slashes, trims each item
// and drops empty items. Input order is preserved.
func ParseList(text string) []string {
	items := []string{}
	for _, piece := range listSeparator.Split(text, -1) {
		if item := strings.TrimSpace(piece); item != "" {
			items = append(items, item)
		}
	}
	return items
}
