// Package fields provides validation and extraction of candidate fields from free-text replies.
package fields

import (
	"regexp"
	"strconv"
)

var (
	emailPattern       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern       = regexp.MustCompile(`^\+?\d{10,15}$`)
	phoneSeparators    = regexp.MustCompile(`[\s\-().]`)
	firstNumberToken   = regexp.MustCompile(`(\d+\.?\d*)`)
	maxYearsExperience = 50.0
)

// ValidEmail reports whether s is a well-formed email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s reduces to 10-15 digits with an optional leading '+'
// once whitespace, hyphens, parentheses and dots are removed.
func ValidPhone(s string) bool {
	cleaned := phoneSeparators.ReplaceAllString(s, "")
	return phonePattern.MatchString(cleaned)
}

// ValidYears reports whether the first numeric token in s lies within [0, 50].
func ValidYears(s string) bool {
	_, ok := ParseYears(s)
	return ok
}

// ParseYears returns the first numeric token in s when it is a plausible
// number of years of experience.
func ParseYears(s string) (float64, bool) {
	match := firstNumberToken.FindString(s)
	if match == "" {
		return 0, false
	}

	years, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	if years < 0 || years > maxYearsExperience {
		return 0, false
	}
	return years, true
}
