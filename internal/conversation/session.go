// Package conversation drives the linear screening dialogue: it walks a
// candidate through a fixed sequence of stages, extracting one field per stage.
package conversation

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talentscout/internal/fields"
	"github.com/jonathan/talentscout/internal/types"
)

// Role identifies who authored a transcript turn.
type Role string

// Transcript roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the session transcript.
type Turn struct {
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Sentiment fields.Sentiment `json:"sentiment,omitempty"`
}

// Session is the state of one conversation. It is owned by a single caller
// and passed to Engine.Process on every turn.
type Session struct {
	ID         uuid.UUID
	Stage      Stage
	Record     *types.CandidateRecord
	Active     bool
	Transcript []Turn
	StartedAt  time.Time
}

// NewSession returns an active session at the greeting stage with an empty record.
func NewSession() *Session {
	return &Session{
		ID:        uuid.New(),
		Stage:     StageGreeting,
		Record:    &types.CandidateRecord{},
		Active:    true,
		StartedAt: time.Now(),
	}
}

// Progress returns how many of the collectable fields are filled in.
func (s *Session) Progress() (completed, total int) {
	for _, field := range types.ProgressFields {
		if s.Record.Has(field) {
			completed++
		}
	}
	return completed, len(types.ProgressFields)
}

func (s *Session) addUserTurn(content string) {
	s.Transcript = append(s.Transcript, Turn{
		Role:      RoleUser,
		Content:   content,
		Sentiment: fields.ExtractSentiment(content),
	})
}

func (s *Session) addAssistantTurn(content string) {
	s.Transcript = append(s.Transcript, Turn{Role: RoleAssistant, Content: content})
}
