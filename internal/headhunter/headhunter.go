// Package headhunter searches the public hh.ru vacancies API.
package headhunter

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/job-scout/internal/listing"
	"github.com/spigell/job-scout/internal/logger"
)

const (
	Name = "HeadHunter"

	DefaultAPIURL    = "https://api.hh.ru"
	DefaultUserAgent = "job-scout/1.0 (https://github.com/spigell/job-scout)"
	// Max value for search per page.
	maxPerPage     = 100
	defaultPerPage = 50
)

type Config struct {
	APIURL    string
	UserAgent string
	PerPage   int
	MaxPages  int
	Timeout   time.Duration
	// Params are sent with every search; Text is replaced by the query.
	Params SearchParams
}

type Client struct {
	logger     *zap.Logger
	perPage    int
	maxPages   int
	params     SearchParams
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(l *zap.Logger, cfg Config) *Client {
	apiURL := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	perPage = min(perPage, maxPerPage)

	maxPages := max(cfg.MaxPages, 1)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		logger:   logger.OrNop(l),
		perPage:  perPage,
		maxPages: maxPages,
		params:   cfg.Params,
		APIURL:   apiURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: userAgent,
	}
}

func (c *Client) Name() string { return Name }

// Search returns the vacancies matching query as listing records.
func (c *Client) Search(ctx context.Context, query string) ([]*listing.Record, error) {
	params := c.params
	params.Text = query
	params.Areas = slices.Clone(c.params.Areas)
	params.Schedules = slices.Clone(c.params.Schedules)

	vacancies, err := c.SearchVacancies(ctx, &params)
	if err != nil {
		return nil, err
	}
	return vacancies.ToRecords(), nil
}
