// Package ai declares the language model collaborators used by the search
// pipeline.
package ai

import (
	"context"

	"github.com/spigell/job-scout/internal/listing"
	"github.com/spigell/job-scout/internal/resume"
)

const ProviderGemini = "gemini"

// Scorer rates how well a listing fits a resume on a 0..100 scale.
type Scorer interface {
	Score(ctx context.Context, resume *resume.Record, listing *listing.Record) (float64, error)
}

// TitleSuggester proposes job titles to search for.
type TitleSuggester interface {
	SuggestTitles(ctx context.Context, resume *resume.Record) ([]string, error)
}
