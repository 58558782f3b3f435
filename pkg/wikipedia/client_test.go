package wikipedia

import (
	"bytes"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "librarian/pkg/errors"
	"librarian/pkg/logger"
	"librarian/pkg/ratelimit"
)

// mockRoundTripper lets tests script HTTP responses and inspect requests
type mockRoundTripper struct {
	roundTripFunc func(req *http.Request) (*http.Response, error)
	requests      []*http.Request
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	return m.roundTripFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

// newTestClient wires a client whose transport is the mock and whose
// limiter is generous enough not to interfere
func newTestClient(t *testing.T, mock *mockRoundTripper) *Client {
	t.Helper()

	limiter, err := ratelimit.NewTokenBucket(100, 100.0)
	require.NoError(t, err)

	log := logger.NewTestLogger()
	client := NewClient("en", limiter, 5*time.Second, log)
	client.http = ratelimit.NewClient(limiter, &http.Client{Transport: mock}, log)
	client.maxRetries = 0
	return client
}

func TestSearch(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{
				"query": {
					"search": [
						{"title": "Go (programming language)", "snippet": "a snippet", "size": 1000, "wordcount": 150, "timestamp": "2024-01-01T00:00:00Z"},
						{"title": "Golang", "snippet": "", "size": 10, "wordcount": 2, "timestamp": "2024-01-02T00:00:00Z"}
					]
				}
			}`), nil
		},
	}
	client := newTestClient(t, mock)

	results, err := client.Search("golang", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Go (programming language)", results[0].Title)
	assert.Equal(t, 150, results[0].WordCount)

	require.Len(t, mock.requests, 1)
	query := mock.requests[0].URL.Query()
	assert.Equal(t, "query", query.Get("action"))
	assert.Equal(t, "search", query.Get("list"))
	assert.Equal(t, "golang", query.Get("srsearch"))
	assert.Equal(t, "10", query.Get("srlimit"))
}

func TestSearchSendsUserAgent(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"query": {"search": []}}`), nil
		},
	}
	client := newTestClient(t, mock)
	client.SetUserAgent("TestAgent/2.0")

	_, err := client.Search("anything", 5)
	require.NoError(t, err)

	require.Len(t, mock.requests, 1)
	assert.Equal(t, "TestAgent/2.0", mock.requests[0].Header.Get("User-Agent"))
}

func TestPageSummary(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			assert.Contains(t, req.URL.Path, "/page/summary/Albert_Einstein")
			return jsonResponse(http.StatusOK, `{
				"title": "Albert Einstein",
				"type": "standard",
				"description": "German-born physicist",
				"extract": "Albert Einstein was a theoretical physicist."
			}`), nil
		},
	}
	client := newTestClient(t, mock)

	summary, err := client.PageSummary("Albert Einstein")
	require.NoError(t, err)
	assert.Equal(t, "Albert Einstein", summary.Title)
	assert.Equal(t, "German-born physicist", summary.Description)
}

func TestPageSummaryNotFound(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusNotFound, `{"type": "not_found"}`), nil
		},
	}
	client := newTestClient(t, mock)

	_, err := client.PageSummary("No Such Page")
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeNotFound))
}

func TestPageExtractMissingPage(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{
				"query": {
					"pages": {
						"-1": {"title": "No Such Page", "missing": ""}
					}
				}
			}`), nil
		},
	}
	client := newTestClient(t, mock)

	_, err := client.PageExtract("No Such Page", 3)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeNotFound))
}

func TestPageContent(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{
				"query": {
					"pages": {
						"736": {
							"pageid": 736,
							"title": "Albert Einstein",
							"revisions": [{"slots": {"main": {"*": "'''Albert Einstein''' was a physicist."}}}]
						}
					}
				}
			}`), nil
		},
	}
	client := newTestClient(t, mock)

	content, err := client.PageContent("Albert Einstein")
	require.NoError(t, err)
	assert.Contains(t, content, "Albert Einstein")
}

func TestPageCategoriesStripsPrefix(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{
				"query": {
					"pages": {
						"736": {
							"pageid": 736,
							"title": "Albert Einstein",
							"categories": [
								{"title": "Category:German physicists"},
								{"title": "Category:Nobel laureates in Physics"}
							]
						}
					}
				}
			}`), nil
		},
	}
	client := newTestClient(t, mock)

	categories, err := client.PageCategories("Albert Einstein")
	require.NoError(t, err)
	assert.Equal(t, []string{"German physicists", "Nobel laureates in Physics"}, categories)
}

func TestPageExists(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{
			name: "existing page",
			body: `{"query": {"pages": {"736": {"pageid": 736, "title": "Albert Einstein"}}}}`,
			want: true,
		},
		{
			name: "missing page",
			body: `{"query": {"pages": {"-1": {"title": "No Such Page", "missing": ""}}}}`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockRoundTripper{
				roundTripFunc: func(req *http.Request) (*http.Response, error) {
					return jsonResponse(http.StatusOK, tt.body), nil
				},
			}
			client := newTestClient(t, mock)

			exists, err := client.PageExists("whatever")
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestPageImages(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "images", req.URL.Query().Get("prop"))
			return jsonResponse(http.StatusOK, `{
				"query": {
					"pages": {
						"736": {
							"pageid": 736,
							"title": "Albert Einstein",
							"images": [
								{"title": "File:Albert Einstein 1921.jpg"},
								{"title": "File:Einstein signature.svg"}
							]
						}
					}
				}
			}`), nil
		},
	}
	client := newTestClient(t, mock)

	images, err := client.PageImages("Albert Einstein")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "File:Albert Einstein 1921.jpg", images[0].Title)
}

func TestRandomPages(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{
				"query": {
					"random": [
						{"id": 1, "title": "First"},
						{"id": 2, "title": "Second"}
					]
				}
			}`), nil
		},
	}
	client := newTestClient(t, mock)

	titles, err := client.RandomPages(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, titles)
}

func TestPageSections(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			query := req.URL.Query()
			assert.Equal(t, "parse", query.Get("action"))
			assert.Equal(t, "sections", query.Get("prop"))
			return jsonResponse(http.StatusOK, `{
				"parse": {
					"title": "Albert Einstein",
					"pageid": 736,
					"sections": [
						{"toclevel": 1, "level": "2", "line": "Life", "number": "1", "index": "1", "anchor": "Life"},
						{"toclevel": 2, "level": "3", "line": "Early years", "number": "1.1", "index": "2", "anchor": "Early_years"}
					]
				}
			}`), nil
		},
	}
	client := newTestClient(t, mock)

	sections, err := client.PageSections("Albert Einstein")
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Life", sections[0].Line)
	assert.Equal(t, "1.1", sections[1].Number)
}

func TestSectionContentMissingTitle(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{
				"error": {"code": "missingtitle", "info": "The page you specified doesn't exist."}
			}`), nil
		},
	}
	client := newTestClient(t, mock)

	_, err := client.SectionContent("No Such Page", "1")
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeNotFound))
}

func TestRetryOnServerError(t *testing.T) {
	calls := 0
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return jsonResponse(http.StatusInternalServerError, `{}`), nil
			}
			return jsonResponse(http.StatusOK, `{"query": {"search": []}}`), nil
		},
	}
	client := newTestClient(t, mock)
	client.SetMaxRetries(1)

	_, err := client.Search("flaky", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestNoRetryAfterRateLimitDenial(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"query": {"search": []}}`), nil
		},
	}

	// A drained REJECT bucket with a negligible refill rate denies every call
	limiter, err := ratelimit.NewTokenBucket(1, 0.0001)
	require.NoError(t, err)
	ok, err := limiter.Acquire(1)
	require.NoError(t, err)
	require.True(t, ok)

	log := logger.NewTestLogger()
	client := NewClient("en", limiter, 5*time.Second, log)
	client.http = ratelimit.NewClient(limiter, &http.Client{Transport: mock}, log)
	client.SetMaxRetries(3)

	_, err = client.Search("anything", 5)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeRateLimit))
	assert.Empty(t, mock.requests, "denied request must never reach the transport")
}

func TestParseErrorOnMalformedJSON(t *testing.T) {
	mock := &mockRoundTripper{
		roundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"query": nope`), nil
		},
	}
	client := newTestClient(t, mock)

	_, err := client.Search("broken", 5)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeParsing))
}
