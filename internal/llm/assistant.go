package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/talentscout/internal/prompts"
	"github.com/jonathan/talentscout/internal/types"
)

const promptFile = "assistant.json"

// Assistant turns candidate context into interview questions and short
// conversational replies using an LLM client.
type Assistant struct {
	client Client
}

// NewAssistant wraps client.
func NewAssistant(client Client) *Assistant {
	return &Assistant{client: client}
}

// GenerateQuestions asks the model for 3-5 numbered screening questions
// about the given technologies.
func (a *Assistant) GenerateQuestions(ctx context.Context, techStack []string) (string, error) {
	if len(techStack) == 0 {
		return "", fmt.Errorf("tech stack is empty")
	}

	prompt, err := prompts.Render(promptFile, "technical-questions", map[string]string{
		"TechStack": strings.Join(techStack, ", "),
	})
	if err != nil {
		return "", err
	}

	text, err := a.client.GenerateContent(ctx, prompt, TierStandard, QuestionOptions)
	if err != nil {
		return "", fmt.Errorf("failed to generate technical questions: %w", err)
	}

	text = CleanReply(text)
	if text == "" {
		return "", fmt.Errorf("model returned no questions")
	}
	return text, nil
}

// Reply produces a 2-3 sentence answer to free-form input given what is known
// about the candidate.
func (a *Assistant) Reply(ctx context.Context, input string, record *types.CandidateRecord) (string, error) {
	candidateJSON, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal candidate context: %w", err)
	}

	prompt, err := prompts.Render(promptFile, "contextual-reply", map[string]string{
		"CandidateJSON": string(candidateJSON),
		"Input":         input,
	})
	if err != nil {
		return "", err
	}

	text, err := a.client.GenerateContent(ctx, prompt, TierLite, ReplyOptions)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	text = CleanReply(text)
	if text == "" {
		return "", fmt.Errorf("model returned an empty reply")
	}
	return text, nil
}
