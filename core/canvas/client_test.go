package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"class-sync/core/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedServer serves /items in len(pages) pages linked by Link headers.
// failPage (1-based) answers 500 instead, 0 disables.
func pagedServer(t *testing.T, pages [][]int, failPage int) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			_, _ = fmt.Sscanf(p, "%d", &page)
		}
		if page == failPage {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if page < len(pages) {
			w.Header().Set("Link", fmt.Sprintf(`<%s/items?page=%d>; rel="current", <%s/items?page=%d>; rel="next", <%s/items?page=1>; rel="first"`,
				srv.URL, page, srv.URL, page+1, srv.URL))
		}
		_ = json.NewEncoder(w).Encode(pages[page-1])
	}))
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{APIToken: "secret", APIBase: srv.URL, Label: "test"}, srv.Client(), httpx.Once(), nil)
}

func TestFetchAll_ThreePages(t *testing.T) {
	pages := [][]int{{1, 2, 3}, {4, 5}, {6, 7, 8, 9}}
	srv := pagedServer(t, pages, 0)
	defer srv.Close()

	items, err := newTestClient(srv).FetchAll(context.Background(), srv.URL+"/items")
	require.NoError(t, err)
	require.Len(t, items, 9)

	for i, raw := range items {
		var v int
		require.NoError(t, json.Unmarshal(raw, &v))
		assert.Equal(t, i+1, v, "items keep page order")
	}
}

func TestFetchAll_FailureReturnsNoPartialResult(t *testing.T) {
	pages := [][]int{{1, 2}, {3}, {4}}
	srv := pagedServer(t, pages, 2)
	defer srv.Close()

	items, err := newTestClient(srv).FetchAll(context.Background(), srv.URL+"/items")
	require.Error(t, err)
	assert.Nil(t, items)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusInternalServerError, ue.StatusCode)
}

func TestFetchAll_DetectsLoop(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", fmt.Sprintf(`<%s/items>; rel="next"`, srv.URL))
		_, _ = w.Write([]byte(`[1]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchAll(context.Background(), srv.URL+"/items")
	assert.ErrorContains(t, err, "pagination loop")
}

func TestListAssignments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/courses/42/assignments", r.URL.Path)
		assert.Equal(t, "submission", r.URL.Query().Get("include[]"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`[
			{"id": 7, "name": "Quiz 1", "due_at": "2024-05-01T06:59:59Z", "points_possible": 10,
			 "submission": {"score": 8.5, "late": false, "missing": false, "submitted_at": "2024-04-30T10:00:00Z"}},
			{"id": "8", "name": "Reading", "due_at": null, "points_possible": null, "submission": null}
		]`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv).ListAssignments(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, ID("7"), got[0].ID)
	require.NotNil(t, got[0].DueAt)
	require.NotNil(t, got[0].Submission)
	assert.Equal(t, 8.5, *got[0].Submission.Score)
	assert.NotNil(t, got[0].Submission.SubmittedAt)

	assert.Equal(t, ID("8"), got[1].ID)
	assert.Nil(t, got[1].DueAt)
	assert.Nil(t, got[1].PointsPossible)
	assert.Nil(t, got[1].Submission)
}

func TestFetchDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	body, err := c.FetchDocument(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(body))

	_, err = c.FetchDocument(context.Background(), srv.URL+"/missing")
	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusNotFound, ue.StatusCode)
}

func TestNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"Empty", "", ""},
		{"OnlyNext", `<https://x/api?page=2>; rel="next"`, "https://x/api?page=2"},
		{"NextAmongOthers", `<https://x/a?page=1>; rel="current",<https://x/a?page=2>; rel="next",<https://x/a?page=9>; rel="last"`, "https://x/a?page=2"},
		{"NoNext", `<https://x/a?page=1>; rel="current",<https://x/a?page=9>; rel="last"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextLink(tt.header))
		})
	}
}

func TestCourseAvailable(t *testing.T) {
	assert.True(t, Course{ID: "1", Name: "Bio", WorkflowState: "available"}.Available())
	assert.False(t, Course{ID: "1", Name: "Bio", WorkflowState: "completed"}.Available())
	assert.False(t, Course{ID: "", Name: "Bio", WorkflowState: "available"}.Available())
	assert.False(t, Course{ID: "1", Name: " ", WorkflowState: "available"}.Available())
}

func TestIDUnmarshal(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[12, "34", null, 123456789012]`), &ids))
	assert.Equal(t, []ID{"12", "34", "", "123456789012"}, ids)
}
