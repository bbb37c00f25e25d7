// Package techstack classifies technology names into fixed categories and
// scores a candidate's stack against a required list.
package techstack

import (
	"math"
	"strings"
	"unicode"
)

// shortKeyword is the length below which a keyword must equal a whole word of
// the token instead of any substring of it ("go" must not match "django").
const shortKeyword = 3

// Category is a technology grouping.
type Category string

// Categories in classification order. Other collects anything unmatched.
const (
	Languages    Category = "languages"
	Frameworks   Category = "frameworks"
	Databases    Category = "databases"
	Tools        Category = "tools"
	MLFrameworks Category = "ml_frameworks"
	Other        Category = "other"
)

type categoryKeywords struct {
	category Category
	keywords []string
}

// table is checked top to bottom; a token lands in the first category with a
// keyword contained in it.
var table = []categoryKeywords{
	{Languages, []string{"python", "javascript", "java", "c++", "c#", "go", "golang", "rust", "ruby", "php", "swift", "kotlin", "typescript"}},
	{Frameworks, []string{"react", "angular", "vue", "django", "flask", "fastapi", "spring", "express", "nodejs", "node.js", "nextjs", "next.js", "laravel"}},
	{Databases, []string{"mysql", "postgresql", "mongodb", "redis", "cassandra", "dynamodb", "sqlite", "oracle", "sql server"}},
	{Tools, []string{"docker", "kubernetes", "git", "jenkins", "aws", "azure", "gcp", "terraform", "ansible"}},
	{MLFrameworks, []string{"tensorflow", "pytorch", "scikit-learn", "keras", "pandas", "numpy", "opencv"}},
}

// Categorized maps each category to the tokens assigned to it, in input order.
type Categorized map[Category][]string

// AllCategories lists every category including Other, in classification order.
func AllCategories() []Category {
	return []Category{Languages, Frameworks, Databases, Tools, MLFrameworks, Other}
}

// ClassifyOne returns the category of a single token.
func ClassifyOne(tech string) Category {
	lower := strings.ToLower(strings.TrimSpace(tech))
	words := splitWords(lower)
	for _, entry := range table {
		for _, kw := range entry.keywords {
			if keywordMatches(lower, words, kw) {
				return entry.category
			}
		}
	}
	return Other
}

func keywordMatches(token string, words []string, keyword string) bool {
	if len(keyword) >= shortKeyword {
		return strings.Contains(token, keyword)
	}
	for _, w := range words {
		if w == keyword {
			return true
		}
	}
	return false
}

// splitWords breaks a token on anything that is not a letter, digit, '+', '#' or '.'.
func splitWords(token string) []string {
	return strings.FieldsFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})
}

// Classify assigns every token to exactly one category. All categories are
// present in the result, empty ones with an empty slice.
func Classify(techs []string) Categorized {
	out := make(Categorized, len(table)+1)
	for _, c := range AllCategories() {
		out[c] = []string{}
	}
	for _, tech := range techs {
		c := ClassifyOne(tech)
		out[c] = append(out[c], tech)
	}
	return out
}

// First returns the first token in category c.
func (c Categorized) First(category Category) (string, bool) {
	if items := c[category]; len(items) > 0 {
		return items[0], true
	}
	return "", false
}

// MatchScore returns the percentage (0-100, two decimals) of required
// technologies that appear as a substring of any candidate technology.
func MatchScore(candidate, required []string) float64 {
	if len(required) == 0 {
		return 100.0
	}
	if len(candidate) == 0 {
		return 0.0
	}

	lowered := make([]string, len(candidate))
	for i, tech := range candidate {
		lowered[i] = strings.ToLower(tech)
	}

	matches := 0
	for _, req := range required {
		req = strings.ToLower(req)
		for _, tech := range lowered {
			if strings.Contains(tech, req) {
				matches++
				break
			}
		}
	}

	score := float64(matches) / float64(len(required)) * 100
	return math.Round(score*100) / 100
}
