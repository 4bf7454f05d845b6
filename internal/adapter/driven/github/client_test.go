package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ghAdapter "github.com/ericfisherdev/dailytracker/internal/adapter/driven/github"
	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRepo = model.Repository{Owner: "owner", Name: "repo"}

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) (*ghAdapter.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(
		server.Client(),
		server.URL+"/",
		"test-token",
	)
	require.NoError(t, err)

	return client, server
}

// issueJSON is a helper struct for building GitHub API issue responses.
type issueJSON struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	State       string    `json:"state"`
	Body        string    `json:"body,omitempty"`
	HTMLURL     string    `json:"html_url"`
	Labels      []lblJSON `json:"labels"`
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request,omitempty"`
	Created string `json:"created_at,omitempty"`
	Updated string `json:"updated_at,omitempty"`
}

type prJSON struct {
	Number  int       `json:"number"`
	Title   string    `json:"title"`
	State   string    `json:"state"`
	Draft   bool      `json:"draft"`
	HTMLURL string    `json:"html_url"`
	User    userJSON  `json:"user"`
	Labels  []lblJSON `json:"labels"`
	Created string    `json:"created_at,omitempty"`
	Updated string    `json:"updated_at,omitempty"`
}

type userJSON struct {
	Login string `json:"login"`
	Type  string `json:"type,omitempty"`
}

type lblJSON struct {
	Name string `json:"name"`
}

type commentJSON struct {
	ID      int64    `json:"id"`
	Body    string   `json:"body"`
	HTMLURL string   `json:"html_url"`
	User    userJSON `json:"user"`
	Created string   `json:"created_at,omitempty"`
}

type reactionJSON struct {
	ID      int64    `json:"id"`
	Content string   `json:"content"`
	User    userJSON `json:"user"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestListOpenIssues_MapsAndFilters(t *testing.T) {
	var gotQuery map[string][]string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/issues", r.URL.Path)
		gotQuery = r.URL.Query()
		writeJSON(w, http.StatusOK, []issueJSON{
			{
				Number:  7,
				Title:   "Daily Status 2026-01-02",
				State:   "open",
				Body:    "body text",
				HTMLURL: "https://github.com/owner/repo/issues/7",
				Labels:  []lblJSON{{Name: "daily-status"}},
				Created: "2026-01-02T00:00:00Z",
				Updated: "2026-01-02T06:00:00Z",
			},
			{
				Number: 8,
				Title:  "A pull request",
				State:  "open",
				Labels: []lblJSON{},
				PullRequest: &struct {
					URL string `json:"url"`
				}{URL: "https://api.github.com/repos/owner/repo/pulls/8"},
				Created: "2026-01-01T00:00:00Z",
				Updated: "2026-01-01T00:00:00Z",
			},
		})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.ListOpenIssues(context.Background(), testRepo, "daily-status")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "open", gotQuery["state"][0])
	assert.Equal(t, "daily-status", gotQuery["labels"][0])

	assert.Equal(t, 7, result[0].Number)
	assert.Equal(t, "Daily Status 2026-01-02", result[0].Title)
	assert.Equal(t, model.IssueStateOpen, result[0].State)
	assert.Equal(t, "body text", result[0].Body)
	assert.Equal(t, "https://github.com/owner/repo/issues/7", result[0].URL)
	assert.Equal(t, []string{"daily-status"}, result[0].Labels)
	assert.False(t, result[0].IsPullRequest)
	assert.Equal(t, 2026, result[0].CreatedAt.Year())

	assert.True(t, result[1].IsPullRequest)
}

func TestListOpenIssues_NoLabelFilter(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.URL.Query()["labels"]
		assert.False(t, ok, "labels should not be sent when no filter is given")
		writeJSON(w, http.StatusOK, []issueJSON{})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.ListOpenIssues(context.Background(), testRepo, "")

	require.NoError(t, err)
	assert.NotNil(t, result, "should return empty slice, not nil")
	assert.Empty(t, result)
}

func TestListOpenIssues_Pagination(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")

		if page == "" || page == "1" {
			// Page 1: include Link header pointing to page 2
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
			writeJSON(w, http.StatusOK, []issueJSON{{Number: 1, Title: "One", State: "open"}})
			return
		}
		writeJSON(w, http.StatusOK, []issueJSON{{Number: 2, Title: "Two", State: "open"}})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.ListOpenIssues(context.Background(), testRepo, "")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "One", result[0].Title)
	assert.Equal(t, "Two", result[1].Title)
}

func TestListOpenIssues_SkipsMalformed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []issueJSON{{Number: 0, Title: "broken"}, {Number: 3, Title: "fine"}})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.ListOpenIssues(context.Background(), testRepo, "")

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 3, result[0].Number)
}

func TestListOpenIssues_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})

	client, _ := newTestClient(t, handler)
	_, err := client.ListOpenIssues(context.Background(), testRepo, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing open issues for owner/repo")
}

func TestListOpenPullRequests(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/pulls", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		writeJSON(w, http.StatusOK, []prJSON{
			{
				Number:  10,
				Title:   "Draft PR",
				State:   "open",
				Draft:   true,
				HTMLURL: "https://github.com/owner/repo/pull/10",
				User:    userJSON{Login: "alice"},
				Labels:  []lblJSON{{Name: "wip"}},
				Created: "2026-01-01T00:00:00Z",
				Updated: "2026-01-03T00:00:00Z",
			},
			{
				Number:  11,
				Title:   "Ready PR",
				State:   "open",
				User:    userJSON{Login: "bob"},
				Labels:  []lblJSON{},
				Created: "2026-01-01T00:00:00Z",
				Updated: "2026-01-01T00:00:00Z",
			},
		})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.ListOpenPullRequests(context.Background(), testRepo)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, 10, result[0].Number)
	assert.True(t, result[0].IsDraft, "first PR should be draft")
	assert.Equal(t, "alice", result[0].Author)
	assert.Equal(t, []string{"wip"}, result[0].Labels)
	assert.Equal(t, 3, result[0].UpdatedAt.Day())
	assert.False(t, result[1].IsDraft, "second PR should not be draft")
}

func TestGetIssue(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/issues/42", r.URL.Path)
		writeJSON(w, http.StatusOK, issueJSON{
			Number:  42,
			Title:   "Daily Status 2026-01-02",
			State:   "open",
			Body:    "## 📝 Drafts\n- Do A",
			HTMLURL: "https://github.com/owner/repo/issues/42",
		})
	})

	client, _ := newTestClient(t, handler)
	issue, err := client.GetIssue(context.Background(), testRepo, 42)

	require.NoError(t, err)
	assert.Equal(t, 42, issue.Number)
	assert.Equal(t, "## 📝 Drafts\n- Do A", issue.Body)
	assert.Equal(t, "https://github.com/owner/repo/issues/42", issue.URL)
}

func TestGetIssue_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})

	client, _ := newTestClient(t, handler)
	_, err := client.GetIssue(context.Background(), testRepo, 99)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner/repo#99")
}

func TestListComments_MapsAuthorType(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/issues/42/comments", r.URL.Path)
		writeJSON(w, http.StatusOK, []commentJSON{
			{ID: 1, Body: "human note", User: userJSON{Login: "alice", Type: "User"}, Created: "2026-01-02T01:00:00Z"},
			{ID: 2, Body: "bot note", HTMLURL: "https://x/c/2", User: userJSON{Login: "github-actions[bot]", Type: "Bot"}, Created: "2026-01-02T02:00:00Z"},
		})
	})

	client, _ := newTestClient(t, handler)
	comments, err := client.ListComments(context.Background(), testRepo, 42)

	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, int64(1), comments[0].ID)
	assert.Equal(t, model.AuthorTypeUser, comments[0].AuthorType)
	assert.Equal(t, "alice", comments[0].Author)
	assert.Equal(t, model.AuthorTypeBot, comments[1].AuthorType)
	assert.Equal(t, "github-actions[bot]", comments[1].Author)
	assert.Equal(t, "https://x/c/2", comments[1].URL)
}

func TestListCommentReactions(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/issues/comments/555/reactions", r.URL.Path)
		writeJSON(w, http.StatusOK, []reactionJSON{
			{ID: 1, Content: "+1", User: userJSON{Login: "alice"}},
			{ID: 2, Content: "heart", User: userJSON{Login: "bob"}},
		})
	})

	client, _ := newTestClient(t, handler)
	reactions, err := client.ListCommentReactions(context.Background(), testRepo, 555)

	require.NoError(t, err)
	assert.Equal(t, []model.Reaction{
		{Content: "+1", User: "alice"},
		{Content: "heart", User: "bob"},
	}, reactions)
}

func TestListOpenIssues_PaginationKeepsLabelFilter(t *testing.T) {
	var pages, labels []string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page"))
		labels = append(labels, r.URL.Query().Get("labels"))

		if r.URL.Query().Get("page") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2&labels=daily-status>; rel="next"`, "http://"+r.Host+r.URL.Path))
			writeJSON(w, http.StatusOK, []issueJSON{{Number: 10, Title: "Daily Status 2026-01-01", State: "open"}})
			return
		}
		writeJSON(w, http.StatusOK, []issueJSON{{Number: 11, Title: "Daily Status 2026-01-02", State: "open"}})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.ListOpenIssues(context.Background(), testRepo, "daily-status")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, []string{"", "2"}, pages)
	assert.Equal(t, []string{"daily-status", "daily-status"}, labels)
	assert.Equal(t, 11, result[1].Number)
}
