// Package conversation implements the slot-filling chat state machine
// that collects a user profile field by field and hands the completed
// profile to the recommender.
package conversation

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"schemebot/internal/config"
	"schemebot/internal/models"
	"schemebot/internal/services/extract"
	"schemebot/internal/services/recommend"
	"schemebot/internal/validate"
)

// Stage identifies where a session is in the collection flow. Stages
// only move forward; the sole way back is an explicit restart.
type Stage string

const (
	StageGreeting  Stage = "greeting"
	StageAskName   Stage = "ask_name"
	StageAskGender Stage = "ask_gender"
	StageAskAge    Stage = "ask_age"
	StageAskState  Stage = "ask_state"
	StageReady     Stage = "ready"
	StageMatched   Stage = "matched"
)

func stageForField(f models.Field) Stage {
	switch f {
	case models.FieldName:
		return StageAskName
	case models.FieldGender:
		return StageAskGender
	case models.FieldAge:
		return StageAskAge
	case models.FieldState:
		return StageAskState
	}
	return StageReady
}

func fieldForStage(st Stage) (models.Field, bool) {
	switch st {
	case StageAskName:
		return models.FieldName, true
	case StageAskGender:
		return models.FieldGender, true
	case StageAskAge:
		return models.FieldAge, true
	case StageAskState:
		return models.FieldState, true
	}
	return "", false
}

// Deps carries the collaborators a session needs.
type Deps struct {
	Extractor   *extract.Extractor
	Recommender *recommend.Service
	Config      *config.Config
	Logger      *zap.Logger
}

// Reply is what a session hands back for rendering after one turn.
// Choices carries the options when the turn ended on a closed
// question, so clients can offer a picker instead of free text.
type Reply struct {
	Text    string                `json:"reply"`
	Stage   Stage                 `json:"stage"`
	Profile models.ProfileSummary `json:"profile"`
	Choices []string              `json:"choices,omitempty"`
}

// Session is one user's conversation. All methods are safe for
// concurrent use; turns for the same session are processed one at a
// time.
type Session struct {
	id   string
	deps Deps

	mu       sync.Mutex
	stage    Stage
	profile  *models.Profile
	history  []models.Turn
	retries  map[models.Field]int
	choices  []string
	report   *models.MatchReport
	lastSeen time.Time
}

// NewSession creates a session at the greeting stage. A blank id gets
// a generated UUID.
func NewSession(id string, deps Deps) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:      id,
		deps:    deps,
		stage:   StageGreeting,
		profile: models.NewProfile(),
		retries: make(map[models.Field]int),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Stage returns the current stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Profile returns a snapshot of the collected profile.
func (s *Session) Profile() models.ProfileSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.ToSummary()
}

// Report returns the match report once the session has reached the
// matched stage, nil before that.
func (s *Session) Report() *models.MatchReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// LastSeen returns when the session last handled a message.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// History returns a copy of the conversation so far.
func (s *Session) History() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Turn(nil), s.history...)
}

// Handle advances the conversation by one user turn. Extraction and
// validation problems never surface as errors; the session re-asks
// instead.
func (s *Session) Handle(ctx context.Context, message string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := s.expiredLocked()
	s.lastSeen = time.Now()

	trimmed := strings.TrimSpace(message)

	if expired {
		s.deps.Logger.Info("Session expired, starting over",
			zap.String("session_id", s.id),
		)
		s.resetLocked()
		s.recordUserLocked(trimmed)
		return s.replyLocked(msgExpired + "\n\n" + s.greetLocked(trimmed))
	}

	if trimmed == "" && s.stage != StageGreeting {
		return s.replyLocked(s.lastPromptLocked())
	}

	s.recordUserLocked(trimmed)

	if s.stage != StageGreeting && restartRequested(trimmed, s.stage) {
		s.deps.Logger.Info("Session restarted by user",
			zap.String("session_id", s.id),
		)
		s.resetLocked()
		return s.replyLocked(s.greetLocked(""))
	}

	var text string
	switch s.stage {
	case StageGreeting:
		text = s.greetLocked(trimmed)
	case StageAskName, StageAskGender, StageAskAge, StageAskState:
		field, _ := fieldForStage(s.stage)
		text = s.collectLocked(ctx, field, trimmed)
	case StageReady:
		text = s.completeLocked()
	case StageMatched:
		text = s.matchedLocked(trimmed)
	default:
		text = msgFallback
	}

	return s.replyLocked(text)
}

// Reset clears the session and greets again.
func (s *Session) Reset() Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.lastSeen = time.Now()
	return s.replyLocked(s.greetLocked(""))
}

// greetLocked emits the greeting, moves to the first question and
// opportunistically reads the opening message for profile values.
func (s *Session) greetLocked(message string) string {
	s.stage = StageAskName
	if message != "" {
		s.prefillLocked(message, "")
	}
	return msgGreeting + "\n\n" + s.promptLocked(models.FieldName)
}

// promptLocked asks for a field: a confirmation question when a value
// is already pending, the open question otherwise.
func (s *Session) promptLocked(field models.Field) string {
	if s.profile.Status(field) == models.FieldStatusPending {
		return confirmPending(field, s.profile.FieldValue(field))
	}
	return fieldQuestion(field)
}

// collectLocked runs one turn of field collection: resolve any pending
// confirmation or enumerated choice, then extract and validate.
func (s *Session) collectLocked(ctx context.Context, field models.Field, message string) string {
	if s.profile.Status(field) == models.FieldStatusPending {
		switch classifyYesNo(message) {
		case answerYes:
			s.profile.Confirm(field)
			s.retries[field] = 0
			return s.advanceLocked()
		case answerNo:
			s.profile.Clear(field)
			return "No problem. " + fieldQuestion(field)
		default:
			// Anything else is treated as a fresh answer.
			s.profile.Clear(field)
		}
	}

	if len(s.choices) > 0 {
		if choice, ok := parseChoice(message, len(s.choices)); ok {
			value := s.choices[choice]
			s.choices = nil
			return s.applyLocked(field, validate.Check(field, value), message, false)
		}
		s.choices = nil
	}

	extraction, err := s.deps.Extractor.Extract(ctx, field, message, s.recentHistoryLocked())
	if err != nil {
		// Oracle trouble is the session's problem, not the user's.
		s.deps.Logger.Warn("Extraction oracle unavailable",
			zap.String("session_id", s.id),
			zap.String("field", string(field)),
			zap.Error(err),
		)
	}

	s.deps.Logger.Debug("Extraction result",
		zap.String("session_id", s.id),
		zap.String("field", string(field)),
		zap.String("value", extraction.Value),
		zap.Float64("confidence", extraction.Confidence),
		zap.String("source", string(extraction.Source)),
	)

	if extraction.Value == "" || extraction.Confidence < s.deps.Config.MinConfidence {
		return s.rejectLocked(field, "")
	}

	return s.applyLocked(field, validate.Check(field, extraction.Value), message, true)
}

// applyLocked turns a validation result into profile and stage
// changes.
func (s *Session) applyLocked(field models.Field, result validate.Result, message string, allowPrefill bool) string {
	switch result.Outcome {
	case validate.OutcomeAccepted:
		if err := s.profile.Apply(field, result.Normalized, models.FieldStatusConfirmed); err != nil {
			s.deps.Logger.Error("Validated value could not be applied",
				zap.String("session_id", s.id),
				zap.String("field", string(field)),
				zap.Error(err),
			)
			return s.rejectLocked(field, "")
		}
		s.retries[field] = 0
		if allowPrefill {
			s.prefillLocked(message, field)
		}
		return s.advanceLocked()

	case validate.OutcomeCorrected:
		if err := s.profile.Apply(field, result.Normalized, models.FieldStatusPending); err != nil {
			return s.rejectLocked(field, "")
		}
		s.retries[field] = 0
		return confirmCorrection(result.Normalized)

	case validate.OutcomeAmbiguous:
		s.choices = result.Candidates
		return disambiguationPrompt(result.Candidates)

	default:
		return s.rejectLocked(field, result.Reason)
	}
}

// rejectLocked counts a failed answer and re-asks. After the retry
// limit the question switches to closed choices.
func (s *Session) rejectLocked(field models.Field, reason string) string {
	s.retries[field]++
	if s.retries[field] >= s.deps.Config.MaxRetries {
		s.retries[field] = 0
		prompt, options := enumeratedPrompt(field)
		s.choices = options
		return prompt
	}
	return retryPrompt(field, reason)
}

// advanceLocked moves to the next unconfirmed field, or to matching
// when the profile is complete.
func (s *Session) advanceLocked() string {
	field, remaining := s.profile.NextUnconfirmed()
	if !remaining {
		s.stage = StageReady
		return s.completeLocked()
	}
	s.stage = stageForField(field)
	return s.promptLocked(field)
}

// completeLocked generates recommendations for the finished profile.
func (s *Session) completeLocked() string {
	report, err := s.deps.Recommender.Recommend(s.id, s.profile)
	if err != nil {
		s.deps.Logger.Error("Recommendation pipeline failed",
			zap.String("session_id", s.id),
			zap.Error(err),
		)
		return msgFallback
	}

	s.report = report
	s.stage = StageMatched
	return msgThankYou + "\n\n" + recommend.FormatRecommendations(report.Recommendations)
}

// matchedLocked answers follow-up questions about the recommended
// schemes. Restarting is the only way out of this stage.
func (s *Session) matchedLocked(message string) string {
	if containsAnyWordPhrase(message, "thank", "thanks", "dhanyavad") {
		return msgYoureWelcome
	}
	if len([]rune(message)) >= 3 {
		if details, ok := s.deps.Recommender.SchemeDetails(message); ok {
			return details
		}
	}
	return msgMatchedFallback
}

// prefillLocked records later-field values the message mentions in
// passing, pattern pass only: the turn's oracle budget belongs to the
// field actually being asked.
func (s *Session) prefillLocked(message string, after models.Field) {
	seen := after == ""
	for _, f := range models.FieldOrder() {
		if !seen {
			if f == after {
				seen = true
			}
			continue
		}
		if s.profile.Status(f) != models.FieldStatusUnset {
			continue
		}
		candidate, ok := extract.PatternCandidate(f, message)
		if !ok {
			continue
		}
		result := validate.Check(f, candidate)
		if result.Outcome != validate.OutcomeAccepted && result.Outcome != validate.OutcomeCorrected {
			continue
		}
		if err := s.profile.Apply(f, result.Normalized, models.FieldStatusPending); err != nil {
			continue
		}
		s.deps.Logger.Debug("Pre-filled field from message",
			zap.String("session_id", s.id),
			zap.String("field", string(f)),
			zap.String("value", result.Normalized),
		)
	}
}

func (s *Session) expiredLocked() bool {
	if s.lastSeen.IsZero() || s.stage == StageGreeting {
		return false
	}
	timeout := s.deps.Config.SessionTimeout
	return timeout > 0 && time.Since(s.lastSeen) > timeout
}

func (s *Session) resetLocked() {
	s.profile = models.NewProfile()
	s.history = s.history[:0]
	s.retries = make(map[models.Field]int)
	s.choices = nil
	s.report = nil
	s.stage = StageGreeting
}

func (s *Session) recordUserLocked(content string) {
	if content == "" {
		return
	}
	s.history = append(s.history, models.Turn{
		Role:    models.RoleUser,
		Content: content,
		At:      time.Now(),
	})
}

func (s *Session) replyLocked(text string) Reply {
	s.history = append(s.history, models.Turn{
		Role:    models.RoleAssistant,
		Content: text,
		At:      time.Now(),
	})
	return Reply{
		Text:    text,
		Stage:   s.stage,
		Profile: s.profile.ToSummary(),
		Choices: append([]string(nil), s.choices...),
	}
}

// lastPromptLocked repeats the most recent bot message, for empty
// input.
func (s *Session) lastPromptLocked() string {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Role == models.RoleAssistant {
			return s.history[i].Content
		}
	}
	if field, ok := fieldForStage(s.stage); ok {
		return fieldQuestion(field)
	}
	return msgFallback
}

func (s *Session) recentHistoryLocked() []models.Turn {
	window := s.deps.Config.HistoryWindow
	if window <= 0 || len(s.history) <= window {
		return s.history
	}
	return s.history[len(s.history)-window:]
}

type answer int

const (
	answerUnknown answer = iota
	answerYes
	answerNo
)

func classifyYesNo(message string) answer {
	normalized := strings.ToLower(strings.TrimSpace(message))
	normalized = strings.Trim(normalized, " .!?,")
	switch normalized {
	case "yes", "y", "yeah", "yep", "yup", "sure", "ok", "okay", "correct", "right",
		"that's right", "thats right", "haan", "ha", "sahi":
		return answerYes
	case "no", "n", "nope", "nah", "wrong", "nahi", "galat":
		return answerNo
	}
	return answerUnknown
}

// parseChoice reads a numbered answer to an enumerated prompt.
func parseChoice(message string, count int) (int, bool) {
	normalized := strings.TrimSpace(message)
	normalized = strings.TrimSuffix(normalized, ".")
	n, err := strconv.Atoi(normalized)
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n - 1, true
}

// restartRequested checks for restart keywords. They work at any
// stage; a finished session also accepts "new" and "another".
func restartRequested(message string, stage Stage) bool {
	if containsAnyWordPhrase(message, "restart", "start over", "reset") {
		return true
	}
	if stage == StageMatched {
		return containsAnyWordPhrase(message, "new", "another", "start again")
	}
	return false
}

// containsAnyWordPhrase reports whether the message contains one of
// the phrases on whole-word boundaries.
func containsAnyWordPhrase(message string, phrases ...string) bool {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, message)
	padded := " " + strings.Join(strings.Fields(normalized), " ") + " "

	for _, phrase := range phrases {
		if strings.Contains(padded, " "+phrase+" ") {
			return true
		}
	}
	return false
}
