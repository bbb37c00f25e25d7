package conversation

import "strings"

// Stage is one node in the fixed conversation sequence.
type Stage string

// Stages in forward order. Greeting and CollectName both collect the name.
const (
	StageGreeting           Stage = "greeting"
	StageCollectName        Stage = "collect_name"
	StageCollectEmail       Stage = "collect_email"
	StageCollectPhone       Stage = "collect_phone"
	StageCollectExperience  Stage = "collect_experience"
	StageCollectPosition    Stage = "collect_position"
	StageCollectLocation    Stage = "collect_location"
	StageCollectTechStack   Stage = "collect_tech_stack"
	StageTechnicalQuestions Stage = "technical_questions"
	StageFarewell           Stage = "farewell"
)

// Stages lists every stage in order.
var Stages = []Stage{
	StageGreeting,
	StageCollectName,
	StageCollectEmail,
	StageCollectPhone,
	StageCollectExperience,
	StageCollectPosition,
	StageCollectLocation,
	StageCollectTechStack,
	StageTechnicalQuestions,
	StageFarewell,
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// exitKeywords end the conversation when found anywhere in the input.
var exitKeywords = []string{"exit", "quit", "bye", "goodbye", "end", "stop"}

// IsExitCommand reports whether text contains an exit keyword, ignoring case.
// Matching is by substring, so words such as "weekend" also qualify.
func IsExitCommand(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range exitKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
