package conversation

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/jonathan/talentscout/internal/fields"
	"github.com/jonathan/talentscout/internal/types"
)

// Collaborator is the external language-model service. Implementations
// return an error when they cannot produce text; the engine then falls back
// to deterministic content.
type Collaborator interface {
	GenerateQuestions(ctx context.Context, techStack []string) (string, error)
	Reply(ctx context.Context, input string, record *types.CandidateRecord) (string, error)
}

// Response is the outcome of one processed turn.
type Response struct {
	Message      string
	Stage        Stage
	Advanced     bool // the stage accepted input and moved forward
	Ended        bool // an exit keyword was seen; the shell should persist the record
	UsedFallback bool // the collaborator failed and deterministic text was used
}

// stepResult is what a stage handler reports back to Process.
type stepResult struct {
	message  string
	accepted bool
	fallback bool
}

type stageStep struct {
	next Stage
	run  func(ctx context.Context, s *Session, input string) stepResult
}

// Engine runs the stage machine. It holds no per-conversation state.
type Engine struct {
	collaborator Collaborator
	logger       *slog.Logger
	steps        map[Stage]stageStep
}

// NewEngine creates an engine. collaborator may be nil, in which case the
// deterministic fallbacks are always used.
func NewEngine(collaborator Collaborator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{collaborator: collaborator, logger: logger}
	e.steps = map[Stage]stageStep{
		StageGreeting:           {next: StageCollectEmail, run: e.collectName},
		StageCollectName:        {next: StageCollectEmail, run: e.collectName},
		StageCollectEmail:       {next: StageCollectPhone, run: e.collectEmail},
		StageCollectPhone:       {next: StageCollectExperience, run: e.collectPhone},
		StageCollectExperience:  {next: StageCollectPosition, run: e.collectExperience},
		StageCollectPosition:    {next: StageCollectLocation, run: e.collectPosition},
		StageCollectLocation:    {next: StageCollectTechStack, run: e.collectLocation},
		StageCollectTechStack:   {next: StageTechnicalQuestions, run: e.collectTechStack},
		StageTechnicalQuestions: {next: StageFarewell, run: e.collectAnswers},
		StageFarewell:           {next: StageFarewell, run: e.openDialogue},
	}
	return e
}

// Greeting returns the opening message for a new session.
func (e *Engine) Greeting() string {
	return GreetingMessage()
}

// Process handles one user message. Exit keywords are checked before any
// stage logic and end the conversation from any stage. A rejected input
// leaves both the stage and the record untouched.
func (e *Engine) Process(ctx context.Context, s *Session, input string) Response {
	input = strings.TrimSpace(input)

	if !s.Active {
		return Response{Message: FarewellMessage(s.Record), Stage: s.Stage, Ended: true}
	}

	s.addUserTurn(input)

	if IsExitCommand(input) {
		s.Active = false
		msg := FarewellMessage(s.Record)
		s.addAssistantTurn(msg)
		e.logger.Debug("conversation ended",
			slog.String("session", s.ID.String()),
			slog.String("stage", string(s.Stage)))
		return Response{Message: msg, Stage: s.Stage, Ended: true}
	}

	step, ok := e.steps[s.Stage]
	if !ok {
		// Unknown stages behave like the open dialogue at the end.
		step = e.steps[StageFarewell]
	}

	result := step.run(ctx, s, input)
	resp := Response{Message: result.message, Stage: s.Stage, UsedFallback: result.fallback}

	if result.accepted && step.next != s.Stage {
		e.logger.Debug("stage advanced",
			slog.String("session", s.ID.String()),
			slog.String("from", string(s.Stage)),
			slog.String("to", string(step.next)))
		s.Stage = step.next
		resp.Stage = step.next
		resp.Advanced = true
	}

	s.addAssistantTurn(resp.Message)
	return resp
}

func rejected(stage Stage) stepResult {
	return stepResult{message: retryMessages[stage]}
}

func accepted(message string) stepResult {
	return stepResult{message: message, accepted: true}
}

func (e *Engine) collectName(_ context.Context, s *Session, input string) stepResult {
	if input == "" {
		return rejected(s.Stage)
	}
	s.Record.Name = titleCase(input)
	return accepted(nameAccepted(s.Record.Name))
}

func (e *Engine) collectEmail(_ context.Context, s *Session, input string) stepResult {
	email, ok := fields.ExtractEmail(input)
	if !ok {
		return rejected(s.Stage)
	}
	s.Record.Email = email
	return accepted(emailAccepted(email))
}

func (e *Engine) collectPhone(_ context.Context, s *Session, input string) stepResult {
	phone, ok := fields.ExtractPhone(input)
	if !ok {
		return rejected(s.Stage)
	}
	s.Record.Phone = phone
	return accepted(phoneAccepted(phone))
}

func (e *Engine) collectExperience(_ context.Context, s *Session, input string) stepResult {
	years, ok := fields.ExtractYears(input)
	if !ok {
		return rejected(s.Stage)
	}
	s.Record.Experience = years + " years"
	return accepted(experienceAccepted(years))
}

func (e *Engine) collectPosition(_ context.Context, s *Session, input string) stepResult {
	if input == "" {
		return rejected(s.Stage)
	}
	s.Record.Position = titleCase(input)
	return accepted(positionAccepted(s.Record.Position))
}

func (e *Engine) collectLocation(_ context.Context, s *Session, input string) stepResult {
	if input == "" {
		return rejected(s.Stage)
	}
	s.Record.Location = titleCase(input)
	return accepted(locationAccepted(s.Record.Location))
}

func (e *Engine) collectTechStack(ctx context.Context, s *Session, input string) stepResult {
	techs := fields.ParseList(input)
	if len(techs) == 0 {
		return rejected(s.Stage)
	}
	s.Record.TechStack = techs

	questions, fallback := e.technicalQuestions(ctx, s, techs)
	return stepResult{
		message:  techStackAccepted(techs, questions),
		accepted: true,
		fallback: fallback,
	}
}

// technicalQuestions asks the collaborator for questions and substitutes the
// deterministic set when it is missing or fails.
func (e *Engine) technicalQuestions(ctx context.Context, s *Session, techs []string) (string, bool) {
	if e.collaborator == nil {
		return fallbackQuestionsBlock(techs, FallbackQuestions(techs)), true
	}

	generated, err := e.collaborator.GenerateQuestions(ctx, append([]string(nil), techs...))
	if err != nil {
		e.logger.Warn("question generation failed, using fallback questions",
			slog.String("session", s.ID.String()),
			slog.Any("error", err))
		return fallbackQuestionsBlock(techs, FallbackQuestions(techs)), true
	}
	return generatedQuestionsBlock(techs, generated), false
}

func (e *Engine) collectAnswers(_ context.Context, s *Session, input string) stepResult {
	s.Record.TechnicalAnswers = input
	return accepted(summaryMessage(s.Record))
}

func (e *Engine) openDialogue(ctx context.Context, s *Session, input string) stepResult {
	if e.collaborator == nil {
		return stepResult{message: contextualFallback, fallback: true}
	}

	reply, err := e.collaborator.Reply(ctx, input, s.Record.Clone())
	if err != nil {
		e.logger.Warn("contextual reply failed, using fallback reply",
			slog.String("session", s.ID.String()),
			slog.Any("error", err))
		return stepResult{message: contextualFallback, fallback: true}
	}
	return stepResult{message: reply}
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest, where a word is a run of letters.
func titleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		sb.WriteRune(r)
		prevLetter = false
	}
	return sb.String()
}
