package conversation

import (
	"fmt"

	"github.com/jonathan/talentscout/internal/techstack"
)

const maxFallbackQuestions = 5

// categoryQuestions holds one template per category, in the order they are asked.
var categoryQuestions = []struct {
	category techstack.Category
	template string
}{
	{techstack.Languages, "What are some key features of %s that make it suitable for your projects?"},
	{techstack.Frameworks, "Describe your experience building applications with %s. What was your most challenging project?"},
	{techstack.Databases, "How do you optimize queries in %s for better performance?"},
}

var closingQuestions = []string{
	"Describe a challenging technical problem you solved recently and your approach to solving it.",
	"How do you stay updated with the latest trends and technologies in your tech stack?",
}

// FallbackQuestions builds the deterministic question list used when the
// collaborator cannot generate questions: one question about the first
// technology of each populated category, then the closing questions.
func FallbackQuestions(techs []string) []string {
	categorized := techstack.Classify(techs)

	var questions []string
	for _, cq := range categoryQuestions {
		if tech, ok := categorized.First(cq.category); ok {
			questions = append(questions, fmt.Sprintf(cq.template, tech))
		}
	}
	questions = append(questions, closingQuestions...)
	if len(questions) > maxFallbackQuestions {
		questions = questions[:maxFallbackQuestions]
	}

	numbered := make([]string, len(questions))
	for i, q := range questions {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, q)
	}
	return numbered
}
