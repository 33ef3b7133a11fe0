package headhunter

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(n, pages int, names ...string) map[string]any {
	items := make([]any, 0, len(names))
	for i, name := range names {
		items = append(items, map[string]any{
			"id":            fmt.Sprintf("%d-%d", n, i),
			"name":          name,
			"alternate_url": "https://hh.ru/vacancy/" + name,
			"area":          map[string]any{"id": "1", "name": "Moscow"},
			"employer":      map[string]any{"id": 42, "name": "Acme"},
			"salary":        nil,
			"snippet":       map[string]any{"requirement": "Go", "responsibility": nil},
		})
	}
	return map[string]any{
		"items":    items,
		"found":    len(names) * pages,
		"pages":    pages,
		"page":     n,
		"per_page": len(names),
	}
}

func newServer(t *testing.T, pages int, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, SearchPath, r.URL.Path)
		assert.Equal(t, "go developer", r.URL.Query().Get("text"))
		assert.NotEmpty(t, r.Header.Get("HH-User-Agent"))

		n, _ := strconv.Atoi(r.URL.Query().Get("page"))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		_ = json.NewEncoder(gz).Encode(page(n, pages, fmt.Sprintf("job%d", n)))
	}))
}

func TestSearchFollowsPagesUpToLimit(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, 5, &hits)
	defer srv.Close()

	client := New(nil, Config{APIURL: srv.URL, PerPage: 1, MaxPages: 3})

	records, err := client.Search(context.Background(), "go developer")
	require.NoError(t, err)

	require.Equal(t, int32(3), hits.Load())
	require.Len(t, records, 3)
	require.Equal(t, "job0", records[0].Title)
	require.Equal(t, "job2", records[2].Title)
	require.Equal(t, "Acme", records[0].Company)
	require.Equal(t, Name, records[0].Source)
	require.Equal(t, "Go", records[0].Requirements)
	require.Empty(t, records[0].Description)
}

func TestSearchSendsConfiguredParams(t *testing.T) {
	var last atomic.Pointer[url.Values]
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		last.Store(&q)
		_ = json.NewEncoder(w).Encode(page(0, 1, "job0"))
	}))
	defer srv.Close()

	client := New(nil, Config{
		APIURL:  srv.URL,
		PerPage: 20,
		Params: SearchParams{
			Text:        "ignored",
			Areas:       []int{1, 113},
			Schedules:   []string{"remote"},
			Experience:  "between3And6",
			Period:      7,
			OrderBy:     "publication_time",
			SearchField: "name",
		},
	})

	records, err := client.Search(context.Background(), "go developer")
	require.NoError(t, err)
	require.Len(t, records, 1)

	query := *last.Load()
	require.Equal(t, "go developer", query.Get("text"))
	require.Equal(t, []string{"1", "113"}, query["area"])
	require.Equal(t, []string{"remote"}, query["schedule"])
	require.Equal(t, "between3And6", query.Get("experience"))
	require.Equal(t, "7", query.Get("period"))
	require.Equal(t, "publication_time", query.Get("order_by"))
	require.Equal(t, "name", query.Get("search_field"))
	require.Equal(t, "20", query.Get("per_page"))

	// The configured params are reused unchanged by the next search.
	_, err = client.Search(context.Background(), "rust developer")
	require.NoError(t, err)
	query = *last.Load()
	require.Equal(t, "rust developer", query.Get("text"))
	require.Equal(t, []string{"1", "113"}, query["area"])
}

func TestSearchSinglePage(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, 1, &hits)
	defer srv.Close()

	client := New(nil, Config{APIURL: srv.URL + "/", MaxPages: 10})

	records, err := client.Search(context.Background(), "go developer")
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())
	require.Len(t, records, 1)
}

func TestSearchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(nil, Config{APIURL: srv.URL}).Search(context.Background(), "go")
	require.ErrorContains(t, err, "bad status")
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New(nil, Config{PerPage: 500})
	require.Equal(t, DefaultAPIURL, c.APIURL)
	require.Equal(t, DefaultUserAgent, c.UserAgent)
	require.Equal(t, maxPerPage, c.perPage)
	require.Equal(t, 1, c.maxPages)
}
