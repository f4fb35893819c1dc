// Package extract pulls profile values out of user messages, pattern
// first with a single oracle fallback per turn.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"schemebot/internal/models"
	"schemebot/internal/services/oracle"
)

//go:embed prompt.md
var promptTemplate string

// Source says which pass produced an extraction.
type Source string

const (
	SourcePattern Source = "pattern"
	SourceOracle  Source = "oracle"
	SourceNone    Source = "none"
)

// Extraction is the outcome of extracting one field from a message.
// Confidence zero means nothing usable was found and the question
// should be asked again.
type Extraction struct {
	Value      string
	Confidence float64
	Source     Source
}

// Extractor resolves candidate profile values from user messages.
type Extractor struct {
	completer oracle.Completer
	logger    *zap.Logger
}

// New creates an Extractor. completer may be nil, in which case
// extraction works on the pattern pass alone.
func New(completer oracle.Completer, logger *zap.Logger) *Extractor {
	return &Extractor{completer: completer, logger: logger}
}

// Extract resolves a candidate value for field from the user message.
// The local pattern pass runs first; on a miss, at most one oracle
// call is made for the turn. An unparseable oracle reply degrades to
// a zero confidence extraction, never an error. A transport error is
// returned so the caller can log it and re-ask.
func (e *Extractor) Extract(ctx context.Context, field models.Field, message string, history []models.Turn) (Extraction, error) {
	if value, ok := patternExtract(field, message); ok {
		return Extraction{Value: value, Confidence: 1.0, Source: SourcePattern}, nil
	}

	// Names never go to the oracle; the cleaned utterance is all
	// there is.
	if field == models.FieldName || e.completer == nil {
		return Extraction{Source: SourceNone}, nil
	}

	prompt := buildPrompt(field, message, history)

	raw, err := e.completer.Complete(ctx, prompt, oracle.Options{
		Temperature:     0,
		MaxOutputTokens: 256,
	})
	if err != nil {
		return Extraction{Source: SourceNone}, fmt.Errorf("oracle extraction for %s: %w", field, err)
	}

	extraction, err := parseOracleReply(raw)
	if err != nil {
		e.logger.Warn("unparseable oracle reply treated as no extraction",
			zap.String("field", string(field)),
			zap.String("reply_preview", truncateForLog(raw, 120)),
			zap.Error(err),
		)
		return Extraction{Source: SourceNone}, nil
	}

	extraction.Source = SourceOracle
	return extraction, nil
}

// PatternCandidate runs only the offline pattern pass, with no oracle
// fallback. The session uses it to pick up later fields a message
// mentions in passing without spending the turn's oracle call.
func PatternCandidate(field models.Field, message string) (string, bool) {
	return patternExtract(field, message)
}

func buildPrompt(field models.Field, message string, history []models.Turn) string {
	prompt := strings.ReplaceAll(promptTemplate, "{{FIELD}}", string(field))
	prompt = strings.ReplaceAll(prompt, "{{GUIDANCE}}", fieldGuidance(field))
	prompt = strings.ReplaceAll(prompt, "{{HISTORY}}", formatHistory(history))
	prompt = strings.ReplaceAll(prompt, "{{MESSAGE}}", message)
	return prompt
}

// fieldGuidance embeds the exact allowed values so the oracle cannot
// invent categories the validator would then reject.
func fieldGuidance(field models.Field) string {
	switch field {
	case models.FieldGender:
		return "The gender must be exactly one of: Male, Female, Other."
	case models.FieldAge:
		return "The age is a number of years between 0 and 120. Convert spelled-out numbers to digits."
	case models.FieldState:
		return "The state must be exactly one of the following Indian states or union territories: " +
			strings.Join(models.IndianStates(), ", ") + "."
	}
	return ""
}

func formatHistory(history []models.Turn) string {
	var b strings.Builder
	for _, turn := range history {
		role := "User"
		if turn.Role == models.RoleAssistant {
			role = "Bot"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func parseOracleReply(raw string) (Extraction, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return Extraction{}, fmt.Errorf("parse oracle reply: %w", err)
	}

	value := coerceString(data["value"])
	confidence := coerceFloat(data["confidence"])
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		confidence = 0
	}
	if value == "" {
		confidence = 0
	}

	return Extraction{Value: value, Confidence: confidence}, nil
}

// extractJSON strips Markdown code fences the model sometimes wraps
// around its reply.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func truncateForLog(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
