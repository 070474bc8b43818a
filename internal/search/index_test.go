package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type scriptedResponse struct {
	status int
	body   string
}

// fakeTransport answers the client's product check itself and replays the
// scripted responses for every other request, in order.
type fakeTransport struct {
	mu        sync.Mutex
	responses []scriptedResponse
	requests  []recordedRequest
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if req.Method == http.MethodGet && req.URL.Path == "/" {
		return f.response(req, http.StatusOK, `{"version":{"number":"8.11.0","build_flavor":"default"},"tagline":"You Know, for Search"}`), nil
	}

	var body string
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}
	f.requests = append(f.requests, recordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Body:   body,
	})

	if len(f.responses) == 0 {
		return nil, errors.New("no scripted response left")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return f.response(req, next.status, next.body), nil
}

func (f *fakeTransport) response(req *http.Request, status int, body string) *http.Response {
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func newTestIndex(t *testing.T, responses ...scriptedResponse) (*CandidateIndex, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{responses: responses}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: ft,
	})
	require.NoError(t, err)
	return NewCandidateIndex(client, "candidates"), ft
}

func hitsPage(ids ...string) string {
	var hits []string
	for _, id := range ids {
		hits = append(hits, fmt.Sprintf(
			`{"_id":%q,"_source":{"id":%q,"features":{"skills":["go"],"totalExperienceYears":3}},"sort":[%q]}`,
			id, id, id))
	}
	return `{"hits":{"hits":[` + strings.Join(hits, ",") + `]}}`
}

// ==========================
// Index Management Tests
// ==========================

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	ci, ft := newTestIndex(t,
		scriptedResponse{status: http.StatusNotFound},
		scriptedResponse{status: http.StatusOK, body: `{"acknowledged":true}`},
	)

	require.NoError(t, ci.EnsureIndex(context.Background()))
	require.Len(t, ft.requests, 2)
	assert.Equal(t, http.MethodHead, ft.requests[0].Method)
	assert.Equal(t, http.MethodPut, ft.requests[1].Method)
	assert.Equal(t, "/candidates", ft.requests[1].Path)
	assert.Contains(t, ft.requests[1].Body, `"mappings"`)
}

func TestEnsureIndex_Exists(t *testing.T) {
	ci, ft := newTestIndex(t, scriptedResponse{status: http.StatusOK})

	require.NoError(t, ci.EnsureIndex(context.Background()))
	assert.Len(t, ft.requests, 1)
}

func TestIndexCandidate(t *testing.T) {
	ci, ft := newTestIndex(t, scriptedResponse{status: http.StatusCreated, body: `{"result":"created"}`})

	c := models.Candidate{ID: "cand-1", Name: "Alice", Features: models.CandidateFeatures{
		Skills:               models.NewSkillSet("Go", "SQL"),
		TotalExperienceYears: 6,
	}}
	require.NoError(t, ci.IndexCandidate(context.Background(), c))

	require.Len(t, ft.requests, 1)
	req := ft.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/candidates/_doc/cand-1", req.Path)
	assert.Contains(t, req.Query, "refresh=wait_for")
	assert.Contains(t, req.Body, `"skills":["go","sql"]`)
}

func TestIndexCandidate_Rejected(t *testing.T) {
	ci, _ := newTestIndex(t, scriptedResponse{status: http.StatusBadRequest, body: `{"error":"mapper_parsing_exception"}`})

	err := ci.IndexCandidate(context.Background(), models.Candidate{ID: "cand-1"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSearchError))
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}

// ==========================
// Streaming Tests
// ==========================

func TestCandidates_PagesWithSearchAfter(t *testing.T) {
	ci, ft := newTestIndex(t,
		scriptedResponse{status: http.StatusOK, body: hitsPage("a", "b")},
		scriptedResponse{status: http.StatusOK, body: hitsPage("c")},
	)
	ci.WithPageSize(2)

	var ids []string
	err := ci.Candidates(context.Background(), func(c models.Candidate) error {
		ids = append(ids, c.ID)
		assert.True(t, c.Features.Skills.Has("go"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	require.Len(t, ft.requests, 2)
	assert.Equal(t, "/candidates/_search", ft.requests[0].Path)
	assert.NotContains(t, ft.requests[0].Body, "search_after")
	assert.Contains(t, ft.requests[1].Body, `"search_after":["b"]`)
	assert.Contains(t, ft.requests[1].Body, `"size":2`)
}

func TestCandidates_FullLastPageEndsOnEmptyPage(t *testing.T) {
	ci, ft := newTestIndex(t,
		scriptedResponse{status: http.StatusOK, body: hitsPage("a", "b")},
		scriptedResponse{status: http.StatusOK, body: hitsPage()},
	)
	ci.WithPageSize(2)

	count := 0
	require.NoError(t, ci.Candidates(context.Background(), func(models.Candidate) error {
		count++
		return nil
	}))
	assert.Equal(t, 2, count)
	assert.Len(t, ft.requests, 2)
}

func TestCandidates_CallbackStops(t *testing.T) {
	ci, _ := newTestIndex(t, scriptedResponse{status: http.StatusOK, body: hitsPage("a", "b")})
	stop := errors.New("enough")

	err := ci.Candidates(context.Background(), func(models.Candidate) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestCandidates_SearchFailure(t *testing.T) {
	ci, _ := newTestIndex(t, scriptedResponse{status: http.StatusInternalServerError, body: `{"error":"search_phase_execution_exception"}`})

	err := ci.Candidates(context.Background(), func(models.Candidate) error { return nil })
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSearchError))
}

func TestCandidates_CancelledContext(t *testing.T) {
	ci, ft := newTestIndex(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ci.Candidates(ctx, func(models.Candidate) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ft.requests)
}
