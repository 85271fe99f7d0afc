// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package s2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citegap/internal/httputil"
	"github.com/pdiddy/citegap/pkg/types"
)

const citationsJSON = `{
  "paperId": "SRC1",
  "title": "Attention Is All You Need",
  "year": 2017,
  "citationCount": 90000,
  "citations": [
    {"paperId": "C1", "title": "First", "year": 2021, "citationCount": 12},
    {"paperId": "C2", "title": "Second", "year": "2019", "citationCount": 400},
    {"paperId": "C3", "title": "Third", "year": null, "citationCount": null}
  ]
}`

func noWait() httputil.Policy {
	return httputil.Policy{MaxRetries: 3, Backoff: func(int) time.Duration { return time.Millisecond }}
}

func TestPaperCitations(t *testing.T) {
	var gotPath, gotFields, gotKey, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotFields = r.URL.Query().Get("fields")
		gotKey = r.Header.Get("x-api-key")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(citationsJSON))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()), WithAPIKey("k123"), WithUserAgent("test-agent"))
	links, err := c.PaperCitations(context.Background(), types.SchemeDOI, "10.5555/3295222")
	require.NoError(t, err)

	assert.Equal(t, "/paper/DOI:10.5555%2F3295222", gotPath)
	assert.Equal(t, "paperId,title,year,citationCount,citations,citations.paperId,citations.title,citations.year,citations.citationCount", gotFields)
	assert.Equal(t, "k123", gotKey)
	assert.Equal(t, "test-agent", gotUA)

	assert.Equal(t, "SRC1", links.PaperID)
	require.Len(t, links.Papers, 3)
	assert.Equal(t, LinkedPaper{PaperID: "C1", Title: "First", Year: 2021, CitationCount: 12}, links.Papers[0])
	assert.Equal(t, 2019, links.Papers[1].Year)
	assert.Equal(t, 0, links.Papers[2].Year)
	assert.Equal(t, 0, links.Papers[2].CitationCount)
}

func TestPaperCitationsArxivScheme(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"paperId":"X","citations":[]}`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	links, err := c.PaperCitations(context.Background(), types.SchemeArxiv, "1706.03762")
	require.NoError(t, err)
	assert.Equal(t, "/paper/ARXIV:1706.03762", gotPath)
	assert.Equal(t, "X", links.PaperID)
	assert.Empty(t, links.Papers)
}

func TestPaperCitationsReferences(t *testing.T) {
	var gotFields string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFields = r.URL.Query().Get("fields")
		w.Write([]byte(`{"paperId":"S","citations":[{"paperId":"WRONG"}],"references":[{"paperId":"R1","title":"Ref","year":2015,"citationCount":7}]}`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()), WithDirection(types.DirectionReferences))
	links, err := c.PaperCitations(context.Background(), types.SchemeDOI, "10.1000/x")
	require.NoError(t, err)
	assert.Contains(t, gotFields, "references.paperId")
	assert.NotContains(t, gotFields, "citations")
	require.Len(t, links.Papers, 1)
	assert.Equal(t, "R1", links.Papers[0].PaperID)
}

func TestPaperCitationsNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Paper not found"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	_, err := c.PaperCitations(context.Background(), types.SchemeDOI, "10.1000/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsRateLimited(err))
}

func TestPaperCitationsRateLimitedAfterRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()), WithRetryPolicy(noWait()))
	_, err := c.PaperCitations(context.Background(), types.SchemeDOI, "10.1000/busy")
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestPaperCitationsRecoversFrom429(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(citationsJSON))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()), WithRetryPolicy(noWait()))
	links, err := c.PaperCitations(context.Background(), types.SchemeDOI, "10.1000/ok")
	require.NoError(t, err)
	assert.Len(t, links.Papers, 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPaperCitationsServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	_, err := c.PaperCitations(context.Background(), types.SchemeDOI, "10.1000/x")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
	assert.False(t, IsNotFound(err))
	assert.False(t, IsRateLimited(err))
}

func TestPaperCitationsBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	c := NewClient(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	_, err := c.PaperCitations(context.Background(), types.SchemeDOI, "10.1000/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing Semantic Scholar response")
}

func TestPaperCitationsCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(citationsJSON))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	_, err := c.PaperCitations(ctx, types.SchemeDOI, "10.1000/x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientFromConfig(t *testing.T) {
	c := NewClientFromConfig(types.FetchConfig{
		HTTPConfig:        types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "ua"},
		BaseURL:           "http://example.test/graph/v1/",
		APIKey:            "abc",
		InterRequestDelay: 3 * time.Second,
		MaxRetries:        3,
		RateLimit:         1,
		Direction:         types.DirectionReferences,
	})
	assert.Equal(t, "http://example.test/graph/v1", c.baseURL)
	assert.Equal(t, "abc", c.apiKey)
	assert.Equal(t, "ua", c.userAgent)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.Equal(t, types.DirectionReferences, c.direction)
	assert.NotNil(t, c.limiter)
	assert.Equal(t, 3, c.policy.MaxRetries)
	assert.Equal(t, 6*time.Second, c.policy.Backoff(1))
	assert.Equal(t, 18*time.Second, c.policy.Backoff(3))
}

func TestFlexYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`2020`, 2020},
		{`"2018"`, 2018},
		{`null`, 0},
		{`"unknown"`, 0},
		{`2019.0`, 2019},
	}
	for _, tt := range tests {
		var y flexYear
		require.NoError(t, y.UnmarshalJSON([]byte(tt.in)))
		assert.Equal(t, tt.want, int(y), tt.in)
	}
}
