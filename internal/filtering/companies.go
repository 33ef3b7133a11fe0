package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-scout/internal/listing"
	"github.com/spigell/job-scout/internal/logger"
)

type companiesFilter struct {
	companies []string
	logger    *zap.Logger
}

// NewExcludedCompanies creates a filter that removes listings posted by the given companies.
func NewExcludedCompanies(companies []string, l *zap.Logger) Filter {
	return &companiesFilter{
		companies: companies,
		logger:    logger.OrNop(l),
	}
}

func (f *companiesFilter) Name() string { return "companies" }

func (f *companiesFilter) Disable(string) {}

func (f *companiesFilter) IsEnabled() bool { return true }

func (f *companiesFilter) Validate() error { return nil }

func (f *companiesFilter) Apply(_ context.Context, l *listing.Listings) (*listing.Listings, Step, error) {
	initial := l.Len()
	if len(f.companies) == 0 {
		return l, newStep(initial, l), nil
	}

	excluded := l.ExcludeCompanies(f.companies)
	if len(excluded) > 0 {
		f.logger.Info("excluding listings by companies",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_listings", excluded),
			zap.Int("listings_left", l.Len()),
		)
	}

	return l, newStep(initial, l), nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
