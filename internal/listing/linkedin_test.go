package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const searchPage = `<html><body><ul>
<li><div class="job-search-card">
  <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/1"></a>
  <h3 class="base-search-card__title"> Senior Go Engineer </h3>
  <h4 class="base-search-card__subtitle"><a>Acme</a></h4>
  <span class="job-search-card__location">Remote</span>
</div></li>
<li><div class="job-search-card">
  <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/2"></a>
  <h3 class="base-search-card__title">Backend Developer</h3>
  <h4 class="base-search-card__subtitle"></h4>
  <span class="job-search-card__location">Berlin</span>
</div></li>
<li><div class="job-search-card">
  <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/3"></a>
  <h3 class="base-search-card__title">Platform Engineer</h3>
  <h4 class="base-search-card__subtitle">Globex</h4>
  <span class="job-search-card__location">New York, NY</span>
</div></li>
</ul></body></html>`

func TestLinkedInSearchParsesCards(t *testing.T) {
	var gotQuery string
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	source := NewLinkedIn(LinkedInConfig{Endpoint: srv.URL}, zap.New(core))

	records, err := source.Search(context.Background(), "Go Engineer Remote")
	require.NoError(t, err)

	require.Equal(t, "keywords=Go%20Engineer%20Remote&location=&start=0", gotQuery)
	require.NotEmpty(t, gotUA)

	require.Len(t, records, 2)
	require.Equal(t, &Record{
		Title:    "Senior Go Engineer",
		Company:  "Acme",
		Location: "Remote",
		Link:     "https://www.linkedin.com/jobs/view/1",
		Source:   LinkedInName,
	}, records[0])
	require.Equal(t, "Platform Engineer", records[1].Title)

	warnings := logs.FilterMessage("skipping job card").All()
	require.Len(t, warnings, 1)
	require.Equal(t, int64(1), warnings[0].ContextMap()["card"])
}

func TestLinkedInSearchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	source := NewLinkedIn(LinkedInConfig{Endpoint: srv.URL}, nil)

	_, err := source.Search(context.Background(), "go")
	require.ErrorContains(t, err, "bad status")
}

func TestLinkedInCustomSelectors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<article class="job"><a class="go" href="/j/9"></a><b class="t">SRE</b><i class="c">Initech</i><em class="l">Austin</em></article>`))
	}))
	defer srv.Close()

	source := NewLinkedIn(LinkedInConfig{
		Endpoint: srv.URL,
		Selectors: Selectors{
			Card:     "article.job",
			Title:    "b.t",
			Company:  "i.c",
			Location: "em.l",
			Link:     "a.go",
		},
	}, nil)

	records, err := source.Search(context.Background(), "sre")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, srv.URL+"/j/9", records[0].Link)
	require.Equal(t, "Initech", records[0].Company)
}

func TestResolveLink(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search?keywords=go")
	require.NoError(t, err)

	tests := []struct {
		name   string
		href   string
		expect string
	}{
		{name: "absolute", href: "https://www.linkedin.com/jobs/view/1", expect: "https://www.linkedin.com/jobs/view/1"},
		{name: "root relative", href: "/jobs/view/2", expect: "https://www.linkedin.com/jobs/view/2"},
		{name: "path relative", href: "view/3", expect: "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/view/3"},
		{name: "empty", href: "", expect: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expect, resolveLink(base, tt.href))
		})
	}
}

func TestEncodeKeywords(t *testing.T) {
	require.Equal(t, "C%2B%2B%20Developer%20New%20York", encodeKeywords("C++ Developer New York"))
}

func TestBrowserHeadersOmitAcceptEncoding(t *testing.T) {
	h := BrowserHeaders()
	require.Empty(t, h.Get("Accept-Encoding"))
	require.Contains(t, userAgents, h.Get("User-Agent"))
}
