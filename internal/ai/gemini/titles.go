package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/job-scout/internal/logger"
	"github.com/spigell/job-scout/internal/resume"
)

const titlesMaxTokens = 150

//go:embed titles_prompt.md
var titlesPromptTemplate string

var listMarker = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)

// TitleSuggester asks the model for job titles matching a resume.
type TitleSuggester struct {
	generator contentGenerator
	logger    *zap.Logger
}

func NewTitleSuggester(generator contentGenerator, l *zap.Logger) *TitleSuggester {
	return &TitleSuggester{
		generator: generator,
		logger:    logger.OrNop(l),
	}
}

func (s *TitleSuggester) SuggestTitles(ctx context.Context, r *resume.Record) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("resume is required")
	}

	prompt, err := buildTitlesPrompt(r)
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.GenerateContent(ctx, prompt, titlesMaxTokens)
	if err != nil {
		return nil, err
	}

	titles := parseTitles(raw)
	s.logger.Debug("titles suggested", zap.Strings("titles", titles))

	return titles, nil
}

func buildTitlesPrompt(r *resume.Record) (string, error) {
	experience, err := json.Marshal(r.Experience)
	if err != nil {
		return "", fmt.Errorf("marshal experience: %w", err)
	}
	skills, err := json.Marshal(r.Skills)
	if err != nil {
		return "", fmt.Errorf("marshal skills: %w", err)
	}

	return strings.NewReplacer(
		"{{EXPERIENCE}}", string(experience),
		"{{SKILLS}}", string(skills),
	).Replace(titlesPromptTemplate), nil
}

// parseTitles returns one title per non-blank line with list markers removed.
func parseTitles(raw string) []string {
	titles := make([]string, 0)
	for _, line := range strings.Split(extractFenced(raw), "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" {
			continue
		}
		titles = append(titles, line)
	}
	return titles
}
