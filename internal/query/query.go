// Package query builds job search strings from a resume.
package query

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-scout/internal/ai"
	"github.com/spigell/job-scout/internal/logger"
	"github.com/spigell/job-scout/internal/resume"
)

const (
	DefaultLocation = "remote"
	topSkills       = 3
)

// FallbackTitles are searched when no titles are given and none could be
// suggested.
var FallbackTitles = []string{"software engineer", "developer"}

type Generator struct {
	suggester ai.TitleSuggester
	logger    *zap.Logger
}

// New returns a Generator. suggester may be nil, in which case the fallback
// titles are used whenever the caller gives none.
func New(suggester ai.TitleSuggester, l *zap.Logger) *Generator {
	return &Generator{
		suggester: suggester,
		logger:    logger.OrNop(l),
	}
}

// Generate returns, for every title and location, a broad "title location"
// query followed by a "title skills location" query when skills are known.
func (g *Generator) Generate(ctx context.Context, r *resume.Record, skills, titles, locations []string) []string {
	pool := SkillPool(r, skills)
	top := strings.Join(pool[:min(len(pool), topSkills)], " ")

	titles = clean(titles)
	if len(titles) == 0 {
		titles = g.suggestTitles(ctx, r)
	}

	locations = clean(locations)
	if len(locations) == 0 {
		locations = []string{DefaultLocation}
	}

	queries := make([]string, 0, len(titles)*len(locations)*2)
	for _, title := range titles {
		for _, location := range locations {
			queries = append(queries, title+" "+location)
			if top != "" {
				queries = append(queries, title+" "+top+" "+location)
			}
		}
	}

	g.logger.Debug("queries generated", zap.Strings("queries", queries))

	return queries
}

func (g *Generator) suggestTitles(ctx context.Context, r *resume.Record) []string {
	fallback := append([]string(nil), FallbackTitles...)

	if g.suggester == nil || r == nil {
		return fallback
	}

	titles, err := g.suggester.SuggestTitles(ctx, r)
	if err != nil {
		g.logger.Warn("title suggestion failed, using fallback titles",
			zap.Error(err),
			zap.Strings("titles", fallback),
		)
		return fallback
	}

	titles = clean(titles)
	if len(titles) == 0 {
		g.logger.Warn("no titles suggested, using fallback titles", zap.Strings("titles", fallback))
		return fallback
	}

	return titles
}

// SkillPool merges resume skills with extra skills in first-seen order,
// dropping blanks and exact duplicates.
func SkillPool(r *resume.Record, extra []string) []string {
	var all []string
	if r != nil {
		all = append(all, r.Skills...)
	}
	return clean(append(all, extra...))
}

func clean(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
