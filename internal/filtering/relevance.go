package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/job-scout/internal/ai"
	"github.com/spigell/job-scout/internal/listing"
	"github.com/spigell/job-scout/internal/logger"
	"github.com/spigell/job-scout/internal/resume"
)

const RelevanceName = "relevance"

type relevanceFilter struct {
	enabled bool
	reason  string
	config  *RelevanceConfig
	deps    *RelevanceDeps
}

type RelevanceConfig struct {
	Enabled bool
	// Threshold is the minimum score, inclusive, a listing needs to be kept.
	Threshold float64
	// DefaultScore is assigned when scoring a listing fails.
	DefaultScore float64
	// IncludeDefaulted keeps listings whose score is DefaultScore because
	// scoring failed.
	IncludeDefaulted bool
	Provider         string
	Model            string
}

type RelevanceDeps struct {
	Logger *zap.Logger
	Scorer ai.Scorer
	Resume *resume.Record
}

// NewRelevance creates the step that scores every listing against the resume
// and keeps the best matches, highest score first.
func NewRelevance(cfg *RelevanceConfig, deps *RelevanceDeps) Filter {
	if cfg == nil {
		cfg = &RelevanceConfig{}
	}
	return &relevanceFilter{
		enabled: cfg.Enabled,
		config:  cfg,
		deps:    deps,
	}
}

func (f *relevanceFilter) Name() string { return RelevanceName }

func (f *relevanceFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *relevanceFilter) IsEnabled() bool { return f.enabled }

func (f *relevanceFilter) Validate() error {
	if f.deps == nil {
		return fmt.Errorf("deps are not initialized: filter is not usable")
	}
	if f.deps.Scorer == nil {
		return fmt.Errorf("scorer is required when relevance filter is enabled")
	}
	if f.deps.Resume == nil {
		return fmt.Errorf("resume is required when relevance filter is enabled")
	}
	if f.config.Threshold < listing.MinScore || f.config.Threshold > listing.MaxScore {
		return fmt.Errorf("threshold %v is out of range [%d, %d]", f.config.Threshold, listing.MinScore, listing.MaxScore)
	}
	return nil
}

func (f *relevanceFilter) Apply(ctx context.Context, l *listing.Listings) (*listing.Listings, Step, error) {
	initial := l.Len()
	log := logger.WithCommonFields(f.deps.Logger, f.config.Provider, f.config.Model)

	for _, record := range l.Items {
		if err := ctx.Err(); err != nil {
			return l, Step{}, err
		}

		value, err := f.deps.Scorer.Score(ctx, f.deps.Resume, record)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return l, Step{}, ctxErr
			}
			log.Warn("scoring failed, using default score",
				zap.String("title", record.Title),
				zap.String("company", record.Company),
				zap.Float64("score", f.config.DefaultScore),
				zap.Error(err),
			)
			record.Score = listing.Defaulted(f.config.DefaultScore, err.Error())
			continue
		}

		record.Score = listing.Scored(value)
		log.Debug("listing scored",
			zap.String("title", record.Title),
			zap.String("company", record.Company),
			zap.Float64("score", record.Score.Value),
		)
	}

	if !f.config.IncludeDefaulted {
		if dropped := l.ExcludeDefaulted(); len(dropped) > 0 {
			log.Info("excluding listings without a genuine score", zap.Strings("excluded_listings", dropped))
		}
	}

	if dropped := l.Rank(f.config.Threshold); len(dropped) > 0 {
		log.Info("listings below threshold",
			zap.Float64("threshold", f.config.Threshold),
			zap.Strings("excluded_listings", dropped),
		)
	}

	return l, newStep(initial, l), nil
}

func (f *relevanceFilter) Status() Status {
	details := map[string]string{
		"threshold":         strconv.FormatFloat(f.config.Threshold, 'f', -1, 64),
		"default_score":     strconv.FormatFloat(f.config.DefaultScore, 'f', -1, 64),
		"include_defaulted": strconv.FormatBool(f.config.IncludeDefaulted),
	}
	if f.config.Model != "" {
		details["model"] = f.config.Model
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
