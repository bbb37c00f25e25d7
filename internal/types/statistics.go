package types

// Experience bucket labels, lowest first.
const (
	ExperienceUnder2  = "0-2 years"
	Experience2To5    = "2-5 years"
	Experience5To10   = "5-10 years"
	Experience10AndUp = "10+ years"
)

// ExperienceBuckets lists the bucket labels in ascending order.
var ExperienceBuckets = []string{ExperienceUnder2, Experience2To5, Experience5To10, Experience10AndUp}

// Statistics aggregates counts over all stored candidate records.
type Statistics struct {
	TotalCandidates    int            `json:"total_candidates"`
	Positions          map[string]int `json:"positions"`
	Locations          map[string]int `json:"locations"`
	TechStackFrequency map[string]int `json:"tech_stack_frequency"`
	ExperienceRanges   map[string]int `json:"experience_ranges"`
}

// NewStatistics returns empty statistics with every experience bucket at zero.
func NewStatistics() *Statistics {
	s := &Statistics{
		Positions:          map[string]int{},
		Locations:          map[string]int{},
		TechStackFrequency: map[string]int{},
		ExperienceRanges:   map[string]int{},
	}
	for _, b := range ExperienceBuckets {
		s.ExperienceRanges[b] = 0
	}
	return s
}

// ExperienceBucket returns the bucket label for a number of years.
func ExperienceBucket(years float64) string {
	switch {
	case years < 2:
		return ExperienceUnder2
	case years < 5:
		return Experience2To5
	case years < 10:
		return Experience5To10
	default:
		return Experience10AndUp
	}
}
