package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/ai"
	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/profile"
	"github.com/jobradar/jobradar/internal/util"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Matcher asks Gemini for a second opinion on a scored posting. The model's
// verdict annotates the report only; the heuristic score stands.
type Matcher struct {
	generator contentGenerator
	minScore  float64
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewMatcher(generator contentGenerator, minScore float64, maxLogLength int, logger *zap.Logger) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Matcher{
		generator: generator,
		minScore:  minScore,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (m *Matcher) Evaluate(ctx context.Context, p *profile.Profile, posting *job.ScoredPosting) (*ai.FitAssessment, error) {
	if p == nil {
		return nil, fmt.Errorf("profile is required")
	}
	if posting == nil {
		return nil, fmt.Errorf("posting is required")
	}

	prompt, err := buildPrompt(p, posting)
	if err != nil {
		return nil, err
	}

	raw, err := m.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("evaluate posting %s: %w", posting.Key, err)
	}

	if m.logger != nil {
		m.logger.Debug("gemini assessment received",
			zap.String("posting_key", posting.Key),
			zap.String("response", util.TruncateForLog(raw, m.maxLogLen)),
		)
	}

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	assessment.Raw = raw

	if assessment.Score < m.minScore {
		assessment.Fit = false
	}

	return assessment, nil
}

func buildPrompt(p *profile.Profile, posting *job.ScoredPosting) (string, error) {
	profileJSON, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile payload: %w", err)
	}

	postingPayload := map[string]any{
		"title":       posting.Title,
		"company":     posting.Company,
		"location":    posting.Location,
		"arrangement": posting.Arrangement,
		"salary":      posting.Salary,
		"description": posting.Description,
	}
	postingJSON, err := json.MarshalIndent(postingPayload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal posting payload: %w", err)
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{PROFILE_JSON}}", string(profileJSON))
	prompt = strings.ReplaceAll(prompt, "{{POSTING_JSON}}", string(postingJSON))
	return prompt, nil
}

func parseResponse(raw string) (*ai.FitAssessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	fit := coerceBool(data["fit"])
	score := coerceFloat(data["score"])
	reason := coerceString(data["reason"])

	if math.IsNaN(score) {
		score = 0
	}

	return &ai.FitAssessment{
		Fit:    fit,
		Score:  score,
		Reason: reason,
	}, nil
}

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

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
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
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
