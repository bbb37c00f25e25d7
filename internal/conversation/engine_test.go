package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/talentscout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCollaborator struct {
	questions    string
	questionsErr error
	reply        string
	replyErr     error

	questionCalls [][]string
	replyInputs   []string
}

func (s *stubCollaborator) GenerateQuestions(_ context.Context, techStack []string) (string, error) {
	s.questionCalls = append(s.questionCalls, techStack)
	return s.questions, s.questionsErr
}

func (s *stubCollaborator) Reply(_ context.Context, input string, _ *types.CandidateRecord) (string, error) {
	s.replyInputs = append(s.replyInputs, input)
	return s.reply, s.replyErr
}

func newTestEngine(c Collaborator) *Engine {
	return NewEngine(c, nil)
}

func TestProcess_EndToEndScenario(t *testing.T) {
	e := newTestEngine(&stubCollaborator{questions: "1. What is a goroutine?"})
	s := NewSession()
	ctx := context.Background()

	resp := e.Process(ctx, s, "Jane")
	assert.Equal(t, StageCollectEmail, resp.Stage)
	assert.Equal(t, StageCollectEmail, s.Stage)
	assert.True(t, resp.Advanced)
	assert.Equal(t, "Jane", s.Record.Name)

	resp = e.Process(ctx, s, "jane@x.com")
	assert.Equal(t, StageCollectPhone, resp.Stage)
	assert.Equal(t, "jane@x.com", s.Record.Email)

	resp = e.Process(ctx, s, "abc")
	assert.Equal(t, StageCollectPhone, resp.Stage)
	assert.False(t, resp.Advanced)
	assert.False(t, s.Record.Has("phone"))
	assert.Contains(t, resp.Message, "valid phone number")
}

func TestProcess_InvalidEmailNeverAdvances(t *testing.T) {
	e := newTestEngine(nil)
	s := NewSession()
	s.Stage = StageCollectEmail

	for i := 0; i < 5; i++ {
		resp := e.Process(context.Background(), s, "not an email")
		assert.Equal(t, StageCollectEmail, resp.Stage)
		assert.Equal(t, StageCollectEmail, s.Stage)
		assert.False(t, s.Record.Has("email"))
		assert.Contains(t, resp.Message, "valid email address")
	}
}

func TestProcess_FullConversation(t *testing.T) {
	collab := &stubCollaborator{
		questions: "1. How do goroutines differ from threads?\n2. Explain Django signals.",
		reply:     "Happy to help with anything else.",
	}
	e := newTestEngine(collab)
	s := NewSession()
	ctx := context.Background()

	steps := []struct {
		input string
		stage Stage
	}{
		{"jane doe", StageCollectEmail},
		{"you can reach me at jane.doe@example.com", StageCollectPhone},
		{"+14155552671", StageCollectExperience},
		{"about 4.5 yrs", StageCollectPosition},
		{"software engineer", StageCollectLocation},
		{"san francisco, ca", StageCollectTechStack},
		{"Go, Django; PostgreSQL / Docker", StageTechnicalQuestions},
		{"Goroutines are cheap green threads.", StageFarewell},
	}

	for _, step := range steps {
		resp := e.Process(ctx, s, step.input)
		require.Equal(t, step.stage, resp.Stage, "input %q", step.input)
		assert.True(t, resp.Advanced)
		assert.False(t, resp.Ended)
	}

	rec := s.Record
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "jane.doe@example.com", rec.Email)
	assert.Equal(t, "+14155552671", rec.Phone)
	assert.Equal(t, "4.5 years", rec.Experience)
	assert.Equal(t, "Software Engineer", rec.Position)
	assert.Equal(t, "San Francisco, Ca", rec.Location)
	assert.Equal(t, []string{"Go", "Django", "PostgreSQL", "Docker"}, rec.TechStack)
	assert.Equal(t, "Goroutines are cheap green threads.", rec.TechnicalAnswers)

	require.Len(t, collab.questionCalls, 1)
	assert.Equal(t, []string{"Go", "Django", "PostgreSQL", "Docker"}, collab.questionCalls[0])

	completed, total := s.Progress()
	assert.Equal(t, 7, completed)
	assert.Equal(t, 7, total)

	// Farewell stage delegates to the collaborator and stays put.
	resp := e.Process(ctx, s, "when will I hear back?")
	assert.Equal(t, StageFarewell, resp.Stage)
	assert.False(t, resp.Advanced)
	assert.Equal(t, "Happy to help with anything else.", resp.Message)
	assert.Equal(t, []string{"when will I hear back?"}, collab.replyInputs)
}

func TestProcess_TechStackUsesGeneratedQuestions(t *testing.T) {
	e := newTestEngine(&stubCollaborator{questions: "1. Explain the GIL."})
	s := NewSession()
	s.Stage = StageCollectTechStack

	resp := e.Process(context.Background(), s, "Python, Flask, Redis, Docker")
	assert.False(t, resp.UsedFallback)
	assert.Contains(t, resp.Message, "**Python**, **Flask**, **Redis**, **Docker**")
	assert.Contains(t, resp.Message, "Technical Assessment Questions")
	assert.Contains(t, resp.Message, "(Python, Flask, Redis...)")
	assert.Contains(t, resp.Message, "1. Explain the GIL.")
}

func TestProcess_TechStackFallbackOnCollaboratorError(t *testing.T) {
	e := newTestEngine(&stubCollaborator{questionsErr: errors.New("service unavailable")})
	s := NewSession()
	s.Stage = StageCollectTechStack

	resp := e.Process(context.Background(), s, "Python, Django, PostgreSQL")
	assert.True(t, resp.Advanced)
	assert.True(t, resp.UsedFallback)
	assert.Equal(t, StageTechnicalQuestions, s.Stage)
	assert.Contains(t, resp.Message, "1. What are some key features of Python")
	assert.Contains(t, resp.Message, "2. Describe your experience building applications with Django")
	assert.Contains(t, resp.Message, "3. How do you optimize queries in PostgreSQL")
	assert.Contains(t, resp.Message, "5. How do you stay updated")
	assert.NotContains(t, resp.Message, "service unavailable")
}

func TestProcess_TechStackWithoutCollaborator(t *testing.T) {
	e := newTestEngine(nil)
	s := NewSession()
	s.Stage = StageCollectTechStack

	resp := e.Process(context.Background(), s, "Figma")
	assert.True(t, resp.UsedFallback)
	assert.Contains(t, resp.Message, "1. Describe a challenging technical problem")
}

func TestProcess_EmptyTechStackRejected(t *testing.T) {
	collab := &stubCollaborator{questions: "unused"}
	e := newTestEngine(collab)
	s := NewSession()
	s.Stage = StageCollectTechStack

	resp := e.Process(context.Background(), s, " , ; ")
	assert.Equal(t, StageCollectTechStack, resp.Stage)
	assert.Nil(t, s.Record.TechStack)
	assert.Empty(t, collab.questionCalls)
}

func TestProcess_TechStackNotMutatedByAnswers(t *testing.T) {
	e := newTestEngine(nil)
	s := NewSession()
	s.Stage = StageCollectTechStack

	e.Process(context.Background(), s, "Go, Rust")
	e.Process(context.Background(), s, "Python, Java")

	assert.Equal(t, []string{"Go", "Rust"}, s.Record.TechStack)
	assert.Equal(t, "Python, Java", s.Record.TechnicalAnswers)
}

func TestProcess_ExitFromAnyStage(t *testing.T) {
	for _, stage := range Stages {
		t.Run(string(stage), func(t *testing.T) {
			collab := &stubCollaborator{}
			e := newTestEngine(collab)
			s := NewSession()
			s.Stage = stage
			s.Record.Name = "Jane"

			resp := e.Process(context.Background(), s, "I want to QUIT now")
			assert.True(t, resp.Ended)
			assert.False(t, resp.Advanced)
			assert.Equal(t, stage, s.Stage)
			assert.False(t, s.Active)
			assert.Contains(t, resp.Message, "Thank you, Jane!")
			assert.Empty(t, collab.questionCalls)
			assert.Empty(t, collab.replyInputs)
		})
	}
}

func TestProcess_InactiveSession(t *testing.T) {
	e := newTestEngine(nil)
	s := NewSession()
	s.Active = false

	resp := e.Process(context.Background(), s, "Jane")
	assert.True(t, resp.Ended)
	assert.Equal(t, StageGreeting, s.Stage)
	assert.False(t, s.Record.Has("name"))
}

func TestProcess_FarewellFallbackReply(t *testing.T) {
	e := newTestEngine(&stubCollaborator{replyErr: errors.New("timeout")})
	s := NewSession()
	s.Stage = StageFarewell

	resp := e.Process(context.Background(), s, "what's next?")
	assert.True(t, resp.UsedFallback)
	assert.Equal(t, contextualFallback, resp.Message)
	assert.Equal(t, StageFarewell, s.Stage)
}

func TestProcess_Transcript(t *testing.T) {
	e := newTestEngine(nil)
	s := NewSession()

	e.Process(context.Background(), s, "Jane")
	e.Process(context.Background(), s, "this is great: jane@x.com")

	require.Len(t, s.Transcript, 4)
	assert.Equal(t, RoleUser, s.Transcript[0].Role)
	assert.Equal(t, RoleAssistant, s.Transcript[1].Role)
	assert.Equal(t, "positive", string(s.Transcript[2].Sentiment))
}

func TestProcess_EmptyNameRejected(t *testing.T) {
	e := newTestEngine(nil)
	s := NewSession()

	resp := e.Process(context.Background(), s, "   ")
	assert.Equal(t, StageGreeting, resp.Stage)
	assert.False(t, s.Record.Has("name"))
}

func TestIsExitCommand(t *testing.T) {
	for _, in := range []string{"exit", "QUIT", "goodbye", "ok bye", "Stop please", "the end"} {
		assert.True(t, IsExitCommand(in), in)
	}
	for _, in := range []string{"continue", "yes", "Jane", ""} {
		assert.False(t, IsExitCommand(in), in)
	}
}

func TestFallbackQuestions(t *testing.T) {
	q := FallbackQuestions([]string{"Python", "Django", "PostgreSQL", "Docker"})
	require.Len(t, q, 5)
	assert.Equal(t, "1. What are some key features of Python that make it suitable for your projects?", q[0])
	assert.Equal(t, "4. Describe a challenging technical problem you solved recently and your approach to solving it.", q[3])

	q = FallbackQuestions([]string{"React", "Vue"})
	require.Len(t, q, 3)
	assert.Equal(t, "1. Describe your experience building applications with React. What was your most challenging project?", q[0])

	q = FallbackQuestions([]string{"Golang", "Redis"})
	require.Len(t, q, 4)
	assert.Equal(t, "1. What are some key features of Golang that make it suitable for your projects?", q[0])

	q = FallbackQuestions(nil)
	assert.Len(t, q, 2)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Jane Doe", titleCase("jane DOE"))
	assert.Equal(t, "O'Neil", titleCase("o'neil"))
	assert.Equal(t, "New York, Ny", titleCase("new york, NY"))
}

func TestMessages(t *testing.T) {
	assert.Contains(t, GreetingMessage(), "TalentScout")
	assert.Contains(t, FarewellMessage(&types.CandidateRecord{}), "Thank you, there!")
	assert.Contains(t, FarewellMessage(&types.CandidateRecord{}), "(registered email)")
	assert.Contains(t, summaryMessage(&types.CandidateRecord{Name: "Jane"}), "Phone:      N/A")
}
