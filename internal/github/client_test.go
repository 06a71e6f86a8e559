package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestNewClient verifies the constructor creates a properly configured client.
func TestNewClient(t *testing.T) {
	client := NewClient("test-token", "owner", "repo")

	if client.Token != "test-token" {
		t.Errorf("Token = %q, want %q", client.Token, "test-token")
	}
	if client.Owner != "owner" {
		t.Errorf("Owner = %q, want %q", client.Owner, "owner")
	}
	if client.Repo != "repo" {
		t.Errorf("Repo = %q, want %q", client.Repo, "repo")
	}
	if client.BaseURL != DefaultAPIEndpoint {
		t.Errorf("BaseURL = %q, want %q", client.BaseURL, DefaultAPIEndpoint)
	}
	if client.HTTPClient == nil {
		t.Error("HTTPClient is nil, want non-nil default client")
	}
}

// TestClientBuilders verifies the builder pattern keeps other fields intact.
func TestClientBuilders(t *testing.T) {
	customClient := &http.Client{Timeout: 60 * time.Second}
	client := NewClient("token", "owner", "repo").
		WithHTTPClient(customClient).
		WithBaseURL("https://github.example.com/api/v3")

	if client.HTTPClient != customClient {
		t.Error("HTTPClient not set to custom client")
	}
	if client.BaseURL != "https://github.example.com/api/v3" {
		t.Errorf("BaseURL = %q, want custom URL", client.BaseURL)
	}
	if client.Token != "token" || client.Owner != "owner" || client.Repo != "repo" {
		t.Errorf("builder lost fields: %+v", client)
	}
}

// TestBuildURL verifies URL construction for API endpoints.
func TestBuildURL(t *testing.T) {
	client := NewClient("token", "owner", "repo")

	got := client.buildURL("/repos/owner/repo/issues", nil)
	if got != "https://api.github.com/repos/owner/repo/issues" {
		t.Errorf("buildURL() = %q", got)
	}

	got = client.buildURL("/repos/owner/repo/issues", map[string]string{"state": "all"})
	if got != "https://api.github.com/repos/owner/repo/issues?state=all" {
		t.Errorf("buildURL() with params = %q", got)
	}
}

// TestRequestHeaders verifies authentication and API version headers.
func TestRequestHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("X-GitHub-Api-Version"); got == "" {
			t.Error("X-GitHub-Api-Version header missing")
		}
		_ = json.NewEncoder(w).Encode(Repository{HTMLURL: "https://github.com/o/r", DefaultBranch: "main"})
	}))
	defer server.Close()

	client := NewClient("secret", "o", "r").WithBaseURL(server.URL)
	repo, err := client.GetRepository(context.Background())
	if err != nil {
		t.Fatalf("GetRepository() error = %v", err)
	}
	if repo.BlobURL() != "https://github.com/o/r/blob/main/" {
		t.Errorf("BlobURL() = %q", repo.BlobURL())
	}
}

// TestListMilestones_Pagination verifies milestones are collected across pages.
func TestListMilestones_Pagination(t *testing.T) {
	page := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page++
		if r.URL.Path != "/repos/owner/repo/milestones" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("state") != "all" {
			t.Errorf("state = %q, want all", r.URL.Query().Get("state"))
		}
		w.Header().Set("Content-Type", "application/json")
		if page == 1 {
			w.Header().Set("Link", `<`+r.URL.String()+`?page=2>; rel="next"`)
			_ = json.NewEncoder(w).Encode([]Milestone{{Number: 1, Title: "Callable Cove"}})
			return
		}
		_ = json.NewEncoder(w).Encode([]Milestone{{Number: 2, Title: "Module Mesa"}})
	}))
	defer server.Close()

	client := NewClient("token", "owner", "repo").WithBaseURL(server.URL)
	milestones, err := client.ListMilestones(context.Background())
	if err != nil {
		t.Fatalf("ListMilestones() error = %v", err)
	}
	if len(milestones) != 2 {
		t.Fatalf("ListMilestones() returned %d milestones, want 2 (from 2 pages)", len(milestones))
	}
	if milestones[1].Title != "Module Mesa" {
		t.Errorf("milestones[1].Title = %q", milestones[1].Title)
	}
}

// TestCreateMilestone verifies the payload omits an empty description.
func TestCreateMilestone(t *testing.T) {
	var payloads []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		payloads = append(payloads, body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Milestone{Number: len(payloads), Title: body["title"].(string)})
	}))
	defer server.Close()

	client := NewClient("token", "owner", "repo").WithBaseURL(server.URL)
	ctx := context.Background()

	if _, err := client.CreateMilestone(ctx, "Callable Cove", "Folder: x"); err != nil {
		t.Fatalf("CreateMilestone() error = %v", err)
	}
	m, err := client.CreateMilestone(ctx, "Math Land", "")
	if err != nil {
		t.Fatalf("CreateMilestone() error = %v", err)
	}
	if m.Number != 2 {
		t.Errorf("Number = %d, want 2", m.Number)
	}
	if payloads[0]["description"] != "Folder: x" {
		t.Errorf("description = %v", payloads[0]["description"])
	}
	if _, ok := payloads[1]["description"]; ok {
		t.Error("empty description should be omitted")
	}
}

// TestListIssues_FiltersPullRequests verifies PRs are filtered out.
func TestListIssues_FiltersPullRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		issues := []Issue{
			{ID: 1, Number: 1, Title: "Issue", State: "open"},
			{ID: 2, Number: 2, Title: "PR", State: "open", PullRequest: &PullRef{URL: "https://api.github.com/repos/o/r/pulls/2"}},
			{ID: 3, Number: 3, Title: "Another issue", State: "closed"},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(issues)
	}))
	defer server.Close()

	client := NewClient("token", "owner", "repo").WithBaseURL(server.URL)
	issues, err := client.ListIssues(context.Background())
	if err != nil {
		t.Fatalf("ListIssues() error = %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("ListIssues() returned %d issues, want 2 (PR filtered)", len(issues))
	}
	if issues[1].Number != 3 {
		t.Errorf("issues[1].Number = %d, want 3", issues[1].Number)
	}
}

// TestCreateIssue_Payload verifies the request body and decoded response.
func TestCreateIssue_Payload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/repos/owner/repo/issues" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)

		if body["title"] != "`__init__`" {
			t.Errorf("title = %v", body["title"])
		}
		if body["milestone"] != float64(3) {
			t.Errorf("milestone = %v, want 3", body["milestone"])
		}
		if _, ok := body["assignees"]; ok {
			t.Error("empty assignees should be omitted")
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Issue{ID: 100, Number: 42, Title: "`__init__`"})
	}))
	defer server.Close()

	client := NewClient("token", "owner", "repo").WithBaseURL(server.URL)
	issue, err := client.CreateIssue(context.Background(), IssueRequest{
		Title:     "`__init__`",
		Body:      "Constructor",
		Milestone: 3,
	})
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}
	if issue.Number != 42 {
		t.Errorf("Number = %d, want 42", issue.Number)
	}
}

// TestEditIssue verifies PATCH is used against the numbered issue.
func TestEditIssue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/issues/42") {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Issue{Number: 42, Title: "`__init__`"})
	}))
	defer server.Close()

	client := NewClient("token", "owner", "repo").WithBaseURL(server.URL)
	issue, err := client.EditIssue(context.Background(), 42, IssueRequest{Title: "`__init__`"})
	if err != nil {
		t.Fatalf("EditIssue() error = %v", err)
	}
	if issue.Number != 42 {
		t.Errorf("Number = %d, want 42", issue.Number)
	}
}

// TestGetIssueAndPullRequest verifies the single-object endpoints.
func TestGetIssueAndPullRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/owner/repo/issues/5":
			_ = json.NewEncoder(w).Encode(Issue{Number: 5})
		case "/repos/owner/repo/pulls/7":
			_ = json.NewEncoder(w).Encode(PullRequest{Number: 7, State: "open"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient("token", "owner", "repo").WithBaseURL(server.URL)
	ctx := context.Background()

	issue, err := client.GetIssue(ctx, 5)
	if err != nil || issue.Number != 5 {
		t.Errorf("GetIssue() = %+v, %v", issue, err)
	}
	pr, err := client.GetPullRequest(ctx, 7)
	if err != nil || pr.Number != 7 {
		t.Errorf("GetPullRequest() = %+v, %v", pr, err)
	}
	if _, err := client.GetPullRequest(ctx, 8); err == nil {
		t.Error("GetPullRequest(8) should fail with 404")
	}
}

// TestIssueComments verifies listing and posting comments.
func TestIssueComments(t *testing.T) {
	var posted string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/issues/7/comments" {
			t.Errorf("path = %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode([]Comment{{ID: 1, Body: "LGTM"}})
		case http.MethodPost:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			posted = body["body"]
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(Comment{ID: 2, Body: posted})
		}
	}))
	defer server.Close()

	client := NewClient("token", "owner", "repo").WithBaseURL(server.URL)
	ctx := context.Background()

	comments, err := client.ListIssueComments(ctx, 7)
	if err != nil || len(comments) != 1 {
		t.Fatalf("ListIssueComments() = %v, %v", comments, err)
	}
	comment, err := client.CreateIssueComment(ctx, 7, "Closes #3.")
	if err != nil {
		t.Fatalf("CreateIssueComment() error = %v", err)
	}
	if posted != "Closes #3." || comment.Body != "Closes #3." {
		t.Errorf("posted %q, got %q", posted, comment.Body)
	}
}

// TestAPIError verifies error responses surface as *APIError without retries.
func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		remaining   string
		rateLimited bool
	}{
		{"not found", http.StatusNotFound, "", false},
		{"unauthorized", http.StatusUnauthorized, "", false},
		{"forbidden rate limit", http.StatusForbidden, "0", true},
		{"too many requests", http.StatusTooManyRequests, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				if tt.remaining != "" {
					w.Header().Set("X-RateLimit-Remaining", tt.remaining)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}))
			defer server.Close()

			client := NewClient("token", "owner", "repo").WithBaseURL(server.URL)
			_, err := client.CreateIssue(context.Background(), IssueRequest{Title: "x"})

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.RateLimited != tt.rateLimited {
				t.Errorf("RateLimited = %v, want %v", apiErr.RateLimited, tt.rateLimited)
			}
			if calls != 1 {
				t.Errorf("server called %d times, want 1", calls)
			}
		})
	}
}

// TestHasNextPage verifies Link header parsing.
func TestHasNextPage(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		wantNext bool
	}{
		{"empty", "", false},
		{"next and last", `<https://api.github.com/x?page=2>; rel="next", <https://api.github.com/x?page=5>; rel="last"`, true},
		{"only prev", `<https://api.github.com/x?page=1>; rel="prev"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.link != "" {
				headers.Set("Link", tt.link)
			}
			if _, got := hasNextPage(headers); got != tt.wantNext {
				t.Errorf("hasNextPage() = %v, want %v", got, tt.wantNext)
			}
		})
	}
}

// TestListIssues_ContextCancellation verifies a cancelled context stops pagination.
func TestListIssues_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]Issue{})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("token", "owner", "repo").WithBaseURL(server.URL)
	if _, err := client.ListIssues(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ListIssues() error = %v, want context.Canceled", err)
	}
}

// TestCreateIssue_InvalidJSON verifies malformed responses are reported.
func TestCreateIssue_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient("token", "owner", "repo").WithBaseURL(server.URL)
	if _, err := client.CreateIssue(context.Background(), IssueRequest{Title: "x"}); err == nil {
		t.Error("CreateIssue() should fail on invalid JSON")
	}
}
