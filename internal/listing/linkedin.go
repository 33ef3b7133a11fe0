package listing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/spigell/job-scout/internal/logger"
)

const (
	LinkedInName            = "LinkedIn"
	DefaultLinkedInEndpoint = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"
	defaultRequestTimeout   = 15 * time.Second
)

// Selectors locate job cards and their fields in a search results page. They
// follow the site's current markup and are expected to need updates.
type Selectors struct {
	Card     string `mapstructure:"card"`
	Title    string `mapstructure:"title"`
	Company  string `mapstructure:"company"`
	Location string `mapstructure:"location"`
	Link     string `mapstructure:"link"`
}

// DefaultSelectors matches the guest job search markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Card:     "div.job-search-card",
		Title:    "h3.base-search-card__title",
		Company:  "h4.base-search-card__subtitle",
		Location: "span.job-search-card__location",
		Link:     "a.base-card__full-link",
	}
}

type LinkedInConfig struct {
	Endpoint  string
	Timeout   time.Duration
	Selectors Selectors
}

// LinkedIn scrapes the public guest job search.
type LinkedIn struct {
	endpoint   string
	selectors  Selectors
	logger     *zap.Logger
	HTTPClient *http.Client
	Headers    func() http.Header
}

func NewLinkedIn(cfg LinkedInConfig, l *zap.Logger) *LinkedIn {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultLinkedInEndpoint
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &LinkedIn{
		endpoint:   endpoint,
		selectors:  withDefaults(cfg.Selectors),
		logger:     logger.OrNop(l),
		HTTPClient: &http.Client{Timeout: timeout},
		Headers:    BrowserHeaders,
	}
}

func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || base == nil || href == "" {
		return href
	}
	return base.ResolveReference(ref).String()
}

func (s *LinkedIn) Name() string { return LinkedInName }

// Search fetches the first results page for query and parses its job cards.
func (s *LinkedIn) Search(ctx context.Context, query string) ([]*Record, error) {
	searchURL := fmt.Sprintf("%s?keywords=%s&location=&start=0", s.endpoint, encodeKeywords(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header = s.Headers()

	s.logger.Debug("make request", zap.String("url", searchURL))
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return s.parse(doc, resp.Request.URL), nil
}

// parse extracts the job cards of doc. Relative links are resolved against base.
func (s *LinkedIn) parse(doc *goquery.Document, base *url.URL) []*Record {
	var records []*Record

	doc.Find(s.selectors.Card).Each(func(i int, card *goquery.Selection) {
		record := &Record{
			Title:    text(card, s.selectors.Title),
			Company:  text(card, s.selectors.Company),
			Location: text(card, s.selectors.Location),
			Source:   LinkedInName,
		}
		if href, ok := card.Find(s.selectors.Link).First().Attr("href"); ok {
			record.Link = resolveLink(base, strings.TrimSpace(href))
		}

		if missing := missingFields(record); len(missing) > 0 {
			s.logger.Warn("skipping job card",
				zap.Int("card", i),
				zap.Strings("missing_fields", missing),
			)
			return
		}

		records = append(records, record)
	})

	return records
}

func text(card *goquery.Selection, selector string) string {
	return strings.TrimSpace(card.Find(selector).First().Text())
}

func missingFields(r *Record) []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"title", r.Title},
		{"company", r.Company},
		{"location", r.Location},
		{"link", r.Link},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// encodeKeywords escapes query for a URL query string, encoding spaces as %20.
func encodeKeywords(query string) string {
	return strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

func withDefaults(s Selectors) Selectors {
	d := DefaultSelectors()
	if strings.TrimSpace(s.Card) != "" {
		d.Card = s.Card
	}
	if strings.TrimSpace(s.Title) != "" {
		d.Title = s.Title
	}
	if strings.TrimSpace(s.Company) != "" {
		d.Company = s.Company
	}
	if strings.TrimSpace(s.Location) != "" {
		d.Location = s.Location
	}
	if strings.TrimSpace(s.Link) != "" {
		d.Link = s.Link
	}
	return d
}
