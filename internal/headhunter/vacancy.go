package headhunter

import (
	"regexp"
	"strings"

	"github.com/spigell/job-scout/internal/listing"
)

// Snippets highlight the search terms with <highlighttext> markup.
var markup = regexp.MustCompile(`<[^>]+>`)

type Vacancies struct {
	Items []*Vacancy
}

type Vacancy struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Area struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"area,omitempty"`
	Employer struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"employer,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Snippet      struct {
		Requirement    string `json:"requirement,omitempty"`
		Responsibility string `json:"responsibility,omitempty"`
	} `json:"snippet,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}

// ToRecords converts vacancies into listing records.
func (v *Vacancies) ToRecords() []*listing.Record {
	records := make([]*listing.Record, 0, len(v.Items))
	for _, vacancy := range v.Items {
		records = append(records, vacancy.ToRecord())
	}
	return records
}

func (va *Vacancy) ToRecord() *listing.Record {
	return &listing.Record{
		Title:        strings.TrimSpace(va.Name),
		Company:      strings.TrimSpace(va.Employer.Name),
		Location:     strings.TrimSpace(va.Area.Name),
		Link:         va.AlternateURL,
		Source:       Name,
		Description:  stripMarkup(va.Snippet.Responsibility),
		Requirements: stripMarkup(va.Snippet.Requirement),
	}
}

func stripMarkup(s string) string {
	return strings.TrimSpace(markup.ReplaceAllString(s, ""))
}
