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

	"github.com/spigell/job-scout/internal/listing"
	"github.com/spigell/job-scout/internal/logger"
	"github.com/spigell/job-scout/internal/resume"
)

const scoreMaxTokens = 50

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, maxTokens int32) (string, error)
}

//go:embed score_prompt.md
var scorePromptTemplate string

// Matcher scores listings against a resume with a single prompt per listing.
type Matcher struct {
	generator contentGenerator
	logger    *zap.Logger
}

func NewMatcher(generator contentGenerator, l *zap.Logger) *Matcher {
	return &Matcher{
		generator: generator,
		logger:    logger.OrNop(l),
	}
}

// Score returns the model's match score clamped to [0, 100].
func (m *Matcher) Score(ctx context.Context, r *resume.Record, l *listing.Record) (float64, error) {
	if r == nil {
		return 0, fmt.Errorf("resume is required")
	}
	if l == nil {
		return 0, fmt.Errorf("listing is required")
	}

	prompt, err := buildScorePrompt(r, l)
	if err != nil {
		return 0, err
	}

	raw, err := m.generator.GenerateContent(ctx, prompt, scoreMaxTokens)
	if err != nil {
		return 0, err
	}

	score, err := parseScore(raw)
	if err != nil {
		return 0, err
	}

	m.logger.Debug("listing scored",
		zap.String("title", l.Title),
		zap.String("company", l.Company),
		zap.Float64("score", score),
	)

	return listing.ClampScore(score), nil
}

func buildScorePrompt(r *resume.Record, l *listing.Record) (string, error) {
	skills, err := json.Marshal(r.Skills)
	if err != nil {
		return "", fmt.Errorf("marshal skills: %w", err)
	}
	experience, err := json.Marshal(r.Experience)
	if err != nil {
		return "", fmt.Errorf("marshal experience: %w", err)
	}
	education, err := json.Marshal(r.Education)
	if err != nil {
		return "", fmt.Errorf("marshal education: %w", err)
	}

	return strings.NewReplacer(
		"{{TITLE}}", l.Title,
		"{{COMPANY}}", l.Company,
		"{{LOCATION}}", l.Location,
		"{{DESCRIPTION}}", l.Description,
		"{{REQUIREMENTS}}", l.Requirements,
		"{{SKILLS}}", string(skills),
		"{{EXPERIENCE}}", string(experience),
		"{{EDUCATION}}", string(education),
	).Replace(scorePromptTemplate), nil
}

// parseScore reads a bare number, tolerating code fences and a trailing
// percent sign.
func parseScore(raw string) (float64, error) {
	cleaned := extractFenced(raw)
	cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "%"))

	score, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse gemini score %q: %w", raw, err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("parse gemini score %q: not a finite number", raw)
	}

	return score, nil
}

func extractFenced(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```text")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
