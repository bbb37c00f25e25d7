package techstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_BasicStack(t *testing.T) {
	got := Classify([]string{"Python", "Django", "PostgreSQL", "Docker"})

	assert.Equal(t, []string{"Python"}, got[Languages])
	assert.Equal(t, []string{"Django"}, got[Frameworks])
	assert.Equal(t, []string{"PostgreSQL"}, got[Databases])
	assert.Equal(t, []string{"Docker"}, got[Tools])
	assert.Empty(t, got[MLFrameworks])
	assert.Empty(t, got[Other])
}

func TestClassify_FirstCategoryWins(t *testing.T) {
	tests := []struct {
		tech string
		want Category
	}{
		// "javascript" contains "java", both languages
		{"JavaScript", Languages},
		// short keywords only match whole words
		{"MongoDB", Databases},
		{"Django", Frameworks},
		{"Go", Languages},
		{"Go 1.22", Languages},
		{"Golang", Languages},
		{"GoLang 1.22", Languages},
		{"C#", Languages},
		{"C++", Languages},
		{"PyTorch", MLFrameworks},
		{"Kubernetes", Tools},
		{"Figma", Other},
	}

	for _, tt := range tests {
		t.Run(tt.tech, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyOne(tt.tech))
		})
	}
}

func TestClassify_EveryTokenOnce(t *testing.T) {
	techs := []string{"Go", "Rust", "React", "Redis", "Terraform", "Pandas", "Figma"}
	got := Classify(techs)

	total := 0
	for _, c := range AllCategories() {
		total += len(got[c])
	}
	assert.Equal(t, len(techs), total)
}

func TestCategorized_First(t *testing.T) {
	got := Classify([]string{"Ruby", "Rust", "Vue"})

	first, ok := got.First(Languages)
	assert.True(t, ok)
	assert.Equal(t, "Ruby", first)

	_, ok = got.First(Databases)
	assert.False(t, ok)
}

func TestMatchScore(t *testing.T) {
	assert.Equal(t, 100.0, MatchScore([]string{"Python", "Django", "PostgreSQL"}, []string{"Python", "Django"}))
	assert.Equal(t, 100.0, MatchScore(nil, nil))
	assert.Equal(t, 0.0, MatchScore(nil, []string{"Go"}))

	partial := MatchScore([]string{"Python", "Flask"}, []string{"Python", "Django", "React"})
	assert.Equal(t, 33.33, partial)
}
