package store

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/talentscout/internal/techstack"
	"github.com/jonathan/talentscout/internal/types"
)

const unknownValue = "Unknown"

// Statistics tallies positions, locations, tech-stack entries and experience
// buckets over every stored record.
func (s *FileStore) Statistics(ctx context.Context) (*types.Statistics, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Tally(all), nil
}

// Tally computes statistics over records. A record without a position or
// location counts as "Unknown"; a missing experience counts as zero years,
// and an experience whose first word is not a number is left out of the
// experience buckets only.
func Tally(records []*types.CandidateRecord) *types.Statistics {
	stats := types.NewStatistics()
	stats.TotalCandidates = len(records)

	for _, r := range records {
		stats.Positions[orUnknown(r.Position)]++
		stats.Locations[orUnknown(r.Location)]++
		for _, tech := range r.TechStack {
			stats.TechStackFrequency[tech]++
		}
		if years, ok := leadingYears(r.Experience); ok {
			stats.ExperienceRanges[types.ExperienceBucket(years)]++
		}
	}
	return stats
}

func orUnknown(v string) string {
	if v == "" {
		return unknownValue
	}
	return v
}

func leadingYears(experience string) (float64, bool) {
	if experience == "" {
		return 0, true
	}
	words := strings.Fields(experience)
	if len(words) == 0 {
		return 0, false
	}
	years, err := strconv.ParseFloat(words[0], 64)
	if err != nil {
		return 0, false
	}
	return years, true
}

// Match is a stored record scored against a required tech list.
type Match struct {
	Record *types.CandidateRecord
	Score  float64
}

// MatchCandidates scores every stored record against required and returns
// those with a positive score, best first. Ties keep newest-first order.
func (s *FileStore) MatchCandidates(ctx context.Context, required []string) ([]Match, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := []Match{}
	for _, r := range all {
		score := techstack.MatchScore(r.TechStack, required)
		if score > 0 {
			matches = append(matches, Match{Record: r, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}
