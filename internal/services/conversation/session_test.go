package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"schemebot/internal/config"
	"schemebot/internal/models"
	"schemebot/internal/services/catalog"
	"schemebot/internal/services/extract"
	"schemebot/internal/services/oracle"
	"schemebot/internal/services/recommend"
)

// testDeps wires a session against the bundled catalog. With a nil
// completer, extraction runs on patterns alone.
func testDeps(t *testing.T, completer oracle.Completer) Deps {
	t.Helper()

	logger := zap.NewNop()
	cat, err := catalog.Load(context.Background(), catalog.SeedSource{}, logger)
	if err != nil {
		t.Fatalf("load seed catalog: %v", err)
	}

	return Deps{
		Extractor:   extract.New(completer, logger),
		Recommender: recommend.NewService(cat, logger),
		Config: &config.Config{
			MaxRetries:     3,
			MinConfidence:  0.7,
			SessionTimeout: 10 * time.Minute,
			HistoryWindow:  5,
		},
		Logger: logger,
	}
}

func TestSession_HappyPathToRecommendations(t *testing.T) {
	session := NewSession("", testDeps(t, nil))
	ctx := context.Background()

	reply := session.Handle(ctx, "hello")
	assert.Equal(t, StageAskName, reply.Stage)
	assert.Contains(t, reply.Text, "Hello! I'm SchemeBot")
	assert.Contains(t, reply.Text, "Please tell me your name.")

	reply = session.Handle(ctx, "My name is Priya Sharma")
	assert.Equal(t, StageAskGender, reply.Stage)
	assert.Equal(t, "Priya Sharma", reply.Profile.Name)
	assert.Contains(t, reply.Text, "male, female, or other")

	reply = session.Handle(ctx, "female")
	assert.Equal(t, StageAskAge, reply.Stage)
	assert.Equal(t, models.GenderFemale, reply.Profile.Gender)

	reply = session.Handle(ctx, "24")
	assert.Equal(t, StageAskState, reply.Stage)
	assert.Equal(t, 24, reply.Profile.Age)

	reply = session.Handle(ctx, "Maharashtra")
	assert.Equal(t, StageMatched, reply.Stage)
	assert.True(t, reply.Profile.Complete)
	assert.Contains(t, reply.Text, "government schemes")

	report := session.Report()
	assert.NotNil(t, report)
	assert.NotEmpty(t, report.Recommendations)
	assert.Equal(t, session.ID(), report.SessionID)
}

func TestSession_OpeningMessagePrefillsProfile(t *testing.T) {
	session := NewSession("", testDeps(t, nil))
	ctx := context.Background()

	reply := session.Handle(ctx, "Hi, I am Asha, a 30 year old woman from Kerala")
	assert.Equal(t, StageAskName, reply.Stage)
	assert.Contains(t, reply.Text, "I think you said your name is Asha. Is that right?")
	assert.Equal(t, models.FieldStatusPending, reply.Profile.NameStatus)
	assert.Equal(t, models.FieldStatusPending, reply.Profile.GenderStatus)
	assert.Equal(t, models.FieldStatusPending, reply.Profile.AgeStatus)
	assert.Equal(t, models.FieldStatusPending, reply.Profile.StateStatus)

	reply = session.Handle(ctx, "yes")
	assert.Equal(t, StageAskGender, reply.Stage)
	assert.Contains(t, reply.Text, "I think you mentioned you are female.")

	reply = session.Handle(ctx, "yes")
	assert.Contains(t, reply.Text, "I think you mentioned your age is 30.")

	reply = session.Handle(ctx, "yes")
	assert.Contains(t, reply.Text, "I think you mentioned you live in Kerala.")

	reply = session.Handle(ctx, "yes")
	assert.Equal(t, StageMatched, reply.Stage)
	assert.Equal(t, "Asha", reply.Profile.Name)
	assert.Equal(t, 30, reply.Profile.Age)
	assert.Equal(t, "Kerala", reply.Profile.State)
}

func TestSession_DeniedPrefillIsAskedFresh(t *testing.T) {
	session := NewSession("", testDeps(t, nil))
	ctx := context.Background()

	session.Handle(ctx, "Hi, I am Asha, a 30 year old woman from Kerala")

	reply := session.Handle(ctx, "no")
	assert.Equal(t, StageAskName, reply.Stage)
	assert.Contains(t, reply.Text, "No problem.")
	assert.Contains(t, reply.Text, "Please tell me your name.")
	assert.Equal(t, models.FieldStatusUnset, reply.Profile.NameStatus)
	assert.Equal(t, models.FieldStatusPending, reply.Profile.GenderStatus, "denying one field should not touch the others")

	reply = session.Handle(ctx, "Ayesha Khan")
	assert.Equal(t, StageAskGender, reply.Stage)
	assert.Equal(t, "Ayesha Khan", reply.Profile.Name)
}

func TestSession_RepeatedFailuresEnumerateOptions(t *testing.T) {
	session := NewSession("", testDeps(t, nil))
	ctx := context.Background()

	session.Handle(ctx, "hello")
	session.Handle(ctx, "Ravi Kumar")

	reply := session.Handle(ctx, "asdf qwerty")
	assert.Equal(t, StageAskGender, reply.Stage)
	assert.Contains(t, reply.Text, "trouble understanding your gender")
	assert.Empty(t, reply.Choices)

	reply = session.Handle(ctx, "qwerty asdf")
	assert.Contains(t, reply.Text, "trouble understanding your gender")

	reply = session.Handle(ctx, "asdf")
	assert.Contains(t, reply.Text, "reply with the number that matches your gender")
	assert.Contains(t, reply.Text, "1. Male")
	assert.Contains(t, reply.Text, "3. Other")
	assert.Equal(t, []string{"Male", "Female", "Other"}, reply.Choices)

	reply = session.Handle(ctx, "2")
	assert.Equal(t, StageAskAge, reply.Stage)
	assert.Equal(t, models.GenderFemale, reply.Profile.Gender)
	assert.Equal(t, models.FieldStatusConfirmed, reply.Profile.GenderStatus)
	assert.Empty(t, reply.Choices)
}

func TestSession_CorrectedValueNeedsConfirmation(t *testing.T) {
	session := NewSession("", testDeps(t, nil))
	ctx := context.Background()

	session.Handle(ctx, "hello")
	session.Handle(ctx, "Sita Devi")
	session.Handle(ctx, "female")
	session.Handle(ctx, "25")

	reply := session.Handle(ctx, "Maharastra")
	assert.Equal(t, StageAskState, reply.Stage)
	assert.Contains(t, reply.Text, "Did you mean Maharashtra? (yes/no)")
	assert.Equal(t, models.FieldStatusPending, reply.Profile.StateStatus)

	reply = session.Handle(ctx, "yes")
	assert.Equal(t, StageMatched, reply.Stage)
	assert.Equal(t, "Maharashtra", reply.Profile.State)
}

func TestSession_RejectedCorrectionReasksTheQuestion(t *testing.T) {
	session := NewSession("", testDeps(t, nil))
	ctx := context.Background()

	session.Handle(ctx, "hello")
	session.Handle(ctx, "Sita Devi")
	session.Handle(ctx, "female")
	session.Handle(ctx, "25")
	session.Handle(ctx, "Mumbai")

	reply := session.Handle(ctx, "no")
	assert.Equal(t, StageAskState, reply.Stage)
	assert.Contains(t, reply.Text, "No problem.")
	assert.Contains(t, reply.Text, "Which state in India do you live in?")
	assert.Equal(t, models.FieldStatusUnset, reply.Profile.StateStatus)

	reply = session.Handle(ctx, "Kerala")
	assert.Equal(t, StageMatched, reply.Stage)
	assert.Equal(t, "Kerala", reply.Profile.State)
}

func TestSession_AmbiguousStateOffersChoices(t *testing.T) {
	session := NewSession("", testDeps(t, nil))
	ctx := context.Background()

	session.Handle(ctx, "hello")
	session.Handle(ctx, "Sita Devi")
	session.Handle(ctx, "female")
	session.Handle(ctx, "25")

	reply := session.Handle(ctx, "I have lived in Kerala and Karnataka")
	assert.Equal(t, StageAskState, reply.Stage)
	assert.Contains(t, reply.Text, "couldn't tell which state you meant")
	assert.Equal(t, []string{"Karnataka", "Kerala"}, reply.Choices)

	reply = session.Handle(ctx, "2")
	assert.Equal(t, StageMatched, reply.Stage)
	assert.Equal(t, "Kerala", reply.Profile.State)
}

func TestSession_RestartClearsEverything(t *testing.T) {
	session := NewSession("", testDeps(t, nil))
	ctx := context.Background()

	session.Handle(ctx, "hello")
	session.Handle(ctx, "Priya Sharma")
	session.Handle(ctx, "female")

	reply := session.Handle(ctx, "let's start over")
	assert.Equal(t, StageAskName, reply.Stage)
	assert.Contains(t, reply.Text, "Hello! I'm SchemeBot")
	assert.Equal(t, "", reply.Profile.Name)
	assert.Equal(t, models.FieldStatusUnset, reply.Profile.NameStatus)
	assert.Equal(t, models.FieldStatusUnset, reply.Profile.GenderStatus)
}

func TestSession_ExpiryStartsAFreshConversation(t *testing.T) {
	deps := testDeps(t, nil)
	deps.Config.SessionTimeout = time.Millisecond
	session := NewSession("", deps)
	ctx := context.Background()

	session.Handle(ctx, "hello")
	time.Sleep(5 * time.Millisecond)

	reply := session.Handle(ctx, "hi")
	assert.Equal(t, StageAskName, reply.Stage)
	assert.Contains(t, reply.Text, "started a fresh conversation")
	assert.Contains(t, reply.Text, "Please tell me your name.")
}

func TestSession_NoExpiryBeforeFirstContact(t *testing.T) {
	deps := testDeps(t, nil)
	deps.Config.SessionTimeout = time.Millisecond
	session := NewSession("", deps)

	time.Sleep(5 * time.Millisecond)
	reply := session.Handle(context.Background(), "hello")
	assert.Equal(t, StageAskName, reply.Stage)
	assert.NotContains(t, reply.Text, "fresh conversation")
}

func TestSession_EmptyInputRepeatsThePrompt(t *testing.T) {
	session := NewSession("", testDeps(t, nil))
	ctx := context.Background()

	first := session.Handle(ctx, "hello")
	repeat := session.Handle(ctx, "   ")

	assert.Equal(t, first.Text, repeat.Text)
	assert.Equal(t, first.Stage, repeat.Stage)
}

func TestSession_MatchedStageFollowUps(t *testing.T) {
	session := NewSession("", testDeps(t, nil))
	ctx := context.Background()

	session.Handle(ctx, "hello")
	session.Handle(ctx, "Priya Sharma")
	session.Handle(ctx, "female")
	session.Handle(ctx, "24")
	reply := session.Handle(ctx, "Maharashtra")
	assert.Equal(t, StageMatched, reply.Stage)

	reply = session.Handle(ctx, "Thanks!")
	assert.Contains(t, reply.Text, "You're welcome")

	reply = session.Handle(ctx, "tell me about APY")
	assert.Contains(t, reply.Text, "Atal Pension Yojana")
	assert.Contains(t, reply.Text, "Eligibility:")

	reply = session.Handle(ctx, "wxyz")
	assert.Contains(t, reply.Text, "ask me about any of the schemes")

	reply = session.Handle(ctx, "start a new search")
	assert.Equal(t, StageAskName, reply.Stage)
	assert.Equal(t, "", reply.Profile.Name)
}

func TestSession_OracleFillsWhenPatternsMiss(t *testing.T) {
	calls := 0
	completer := oracle.CompleterFunc(func(ctx context.Context, prompt string, opts oracle.Options) (string, error) {
		calls++
		if calls == 1 {
			return `{"value": "Female", "confidence": 0.4}`, nil
		}
		return `{"value": "Female", "confidence": 0.92}`, nil
	})

	session := NewSession("", testDeps(t, completer))
	ctx := context.Background()

	session.Handle(ctx, "hello")
	session.Handle(ctx, "Priya Sharma")

	// Low oracle confidence is treated as no answer.
	reply := session.Handle(ctx, "same as my mother")
	assert.Equal(t, StageAskGender, reply.Stage)
	assert.Contains(t, reply.Text, "trouble understanding your gender")

	reply = session.Handle(ctx, "same as my mother")
	assert.Equal(t, StageAskAge, reply.Stage)
	assert.Equal(t, models.GenderFemale, reply.Profile.Gender)
	assert.Equal(t, 2, calls)
}

func TestSession_OracleErrorFallsBackToRetry(t *testing.T) {
	completer := oracle.CompleterFunc(func(ctx context.Context, prompt string, opts oracle.Options) (string, error) {
		return "", errors.New("rate limited")
	})

	session := NewSession("", testDeps(t, completer))
	ctx := context.Background()

	session.Handle(ctx, "hello")
	session.Handle(ctx, "Priya Sharma")

	reply := session.Handle(ctx, "same as my mother")
	assert.Equal(t, StageAskGender, reply.Stage, "oracle trouble should not end the conversation")
	assert.Contains(t, reply.Text, "trouble understanding your gender")
}

func TestSession_ResetGreetsAgain(t *testing.T) {
	session := NewSession("fixed-id", testDeps(t, nil))

	reply := session.Reset()
	assert.Equal(t, StageAskName, reply.Stage)
	assert.Contains(t, reply.Text, "Hello! I'm SchemeBot")
	assert.Equal(t, "fixed-id", session.ID())
}

func TestNewSession_GeneratesAnID(t *testing.T) {
	deps := testDeps(t, nil)
	a := NewSession("", deps)
	b := NewSession("", deps)

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSession_HistoryRecordsBothSides(t *testing.T) {
	session := NewSession("", testDeps(t, nil))
	ctx := context.Background()

	session.Handle(ctx, "hello")
	session.Handle(ctx, "Priya Sharma")

	history := session.History()
	assert.Len(t, history, 4)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, models.RoleAssistant, history[1].Role)
	assert.Equal(t, models.RoleUser, history[2].Role)
	assert.False(t, history[0].At.IsZero())
}

func TestClassifyYesNo(t *testing.T) {
	yes := []string{"yes", "y", "Yeah", "yep", "sure", "ok", "correct", "that's right", "haan", "sahi", "YES!"}
	for _, input := range yes {
		assert.Equal(t, answerYes, classifyYesNo(input), "expected %q to read as yes", input)
	}

	no := []string{"no", "n", "Nope", "wrong", "nahi", "galat", "no."}
	for _, input := range no {
		assert.Equal(t, answerNo, classifyYesNo(input), "expected %q to read as no", input)
	}

	neither := []string{"maybe", "Kerala", "25", "yes and no"}
	for _, input := range neither {
		assert.Equal(t, answerUnknown, classifyYesNo(input), "expected %q to stay unknown", input)
	}
}

func TestParseChoice(t *testing.T) {
	idx, ok := parseChoice("2", 3)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = parseChoice(" 3. ", 3)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = parseChoice("0", 3)
	assert.False(t, ok)
	_, ok = parseChoice("4", 3)
	assert.False(t, ok)
	_, ok = parseChoice("two", 3)
	assert.False(t, ok)
}

func TestRestartRequested(t *testing.T) {
	assert.True(t, restartRequested("restart", StageAskAge))
	assert.True(t, restartRequested("please RESET everything", StageAskName))
	assert.True(t, restartRequested("can we start over?", StageAskState))
	assert.False(t, restartRequested("my name is Restarto", StageAskName))
	assert.False(t, restartRequested("new", StageAskAge), "a finished search is needed before new means restart")
	assert.True(t, restartRequested("new search please", StageMatched))
	assert.True(t, restartRequested("start again", StageMatched))
}
