package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
)

// NewClient creates a new GitHub client.
func NewClient(token, owner, repo string) *Client {
	return &Client{
		Token:   token,
		Owner:   owner,
		Repo:    repo,
		BaseURL: DefaultAPIEndpoint,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithHTTPClient returns a new client with a custom HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		Token:      c.Token,
		Owner:      c.Owner,
		Repo:       c.Repo,
		BaseURL:    c.BaseURL,
		HTTPClient: httpClient,
	}
}

// WithBaseURL returns a new client with a custom base URL (for testing or GitHub Enterprise).
func (c *Client) WithBaseURL(baseURL string) *Client {
	return &Client{
		Token:      c.Token,
		Owner:      c.Owner,
		Repo:       c.Repo,
		BaseURL:    baseURL,
		HTTPClient: c.HTTPClient,
	}
}

// repoPath returns the "/repos/owner/repo" path prefix.
func (c *Client) repoPath() string {
	return "/repos/" + c.Owner + "/" + c.Repo
}

// buildURL constructs a full API URL.
func (c *Client) buildURL(path string, params map[string]string) string {
	u := c.BaseURL + path

	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		u += "?" + values.Encode()
	}

	return u
}

// doRequest performs one authenticated HTTP request. Failed requests are not
// retried; callers pace themselves instead.
func (c *Client) doRequest(ctx context.Context, method, urlStr string, body interface{}) ([]byte, http.Header, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	const maxResponseSize = 50 * 1024 * 1024
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	_ = resp.Body.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, &APIError{
			Method:     method,
			URL:        urlStr,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			// GitHub uses 403 with X-RateLimit-Remaining: 0, or 429
			RateLimited: resp.StatusCode == http.StatusTooManyRequests ||
				(resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"),
		}
	}

	return respBody, resp.Header, nil
}

// linkNextPattern matches the "next" relation in GitHub Link headers.
var linkNextPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// hasNextPage checks the Link header for a next page URL and returns it.
func hasNextPage(headers http.Header) (string, bool) {
	link := headers.Get("Link")
	if link == "" {
		return "", false
	}
	matches := linkNextPattern.FindStringSubmatch(link)
	if len(matches) < 2 {
		return "", false
	}
	return matches[1], true
}

// fetchAll walks every page of a list endpoint.
func fetchAll[T any](ctx context.Context, c *Client, path string, params map[string]string) ([]T, error) {
	var all []T
	page := 1

	for {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		query := map[string]string{
			"per_page": strconv.Itoa(MaxPageSize),
			"page":     strconv.Itoa(page),
		}
		for k, v := range params {
			query[k] = v
		}

		respBody, headers, err := c.doRequest(ctx, http.MethodGet, c.buildURL(path, query), nil)
		if err != nil {
			return nil, err
		}

		var items []T
		if err := json.Unmarshal(respBody, &items); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		all = append(all, items...)

		if _, ok := hasNextPage(headers); !ok {
			break
		}
		page++

		if page > MaxPages {
			return nil, fmt.Errorf("pagination limit exceeded: stopped after %d pages", MaxPages)
		}
	}

	return all, nil
}

// send performs a request and decodes a single JSON object response.
func send[T any](ctx context.Context, c *Client, method, path string, body interface{}) (*T, error) {
	respBody, _, err := c.doRequest(ctx, method, c.buildURL(path, nil), body)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}

// GetRepository retrieves the configured repository.
func (c *Client) GetRepository(ctx context.Context) (*Repository, error) {
	repo, err := send[Repository](ctx, c, http.MethodGet, c.repoPath(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s/%s: %w", c.Owner, c.Repo, err)
	}
	return repo, nil
}

// ListMilestones retrieves all milestones, open and closed.
func (c *Client) ListMilestones(ctx context.Context) ([]Milestone, error) {
	milestones, err := fetchAll[Milestone](ctx, c, c.repoPath()+"/milestones", map[string]string{"state": "all"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch milestones: %w", err)
	}
	return milestones, nil
}

// CreateMilestone creates a milestone. An empty description is omitted.
func (c *Client) CreateMilestone(ctx context.Context, title, description string) (*Milestone, error) {
	reqBody := map[string]interface{}{
		"title": title,
	}
	if description != "" {
		reqBody["description"] = description
	}

	milestone, err := send[Milestone](ctx, c, http.MethodPost, c.repoPath()+"/milestones", reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create milestone %q: %w", title, err)
	}
	return milestone, nil
}

// ListIssues retrieves every issue, open and closed.
// This filters out pull requests (GitHub returns PRs in the issues endpoint).
func (c *Client) ListIssues(ctx context.Context) ([]Issue, error) {
	all, err := fetchAll[Issue](ctx, c, c.repoPath()+"/issues", map[string]string{"state": "all"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}

	issues := all[:0]
	for i := range all {
		if all[i].PullRequest == nil {
			issues = append(issues, all[i])
		}
	}
	return issues, nil
}

// GetIssue retrieves a single issue by its number.
func (c *Client) GetIssue(ctx context.Context, number int) (*Issue, error) {
	issue, err := send[Issue](ctx, c, http.MethodGet, c.repoPath()+"/issues/"+strconv.Itoa(number), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}
	return issue, nil
}

// CreateIssue creates a new issue in GitHub.
func (c *Client) CreateIssue(ctx context.Context, req IssueRequest) (*Issue, error) {
	issue, err := send[Issue](ctx, c, http.MethodPost, c.repoPath()+"/issues", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return issue, nil
}

// EditIssue updates an existing issue in GitHub.
// GitHub uses PATCH for issue updates.
func (c *Client) EditIssue(ctx context.Context, number int, req IssueRequest) (*Issue, error) {
	issue, err := send[Issue](ctx, c, http.MethodPatch, c.repoPath()+"/issues/"+strconv.Itoa(number), req)
	if err != nil {
		return nil, fmt.Errorf("failed to update issue #%d: %w", number, err)
	}
	return issue, nil
}

// GetPullRequest retrieves a pull request by its number.
func (c *Client) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	pr, err := send[PullRequest](ctx, c, http.MethodGet, c.repoPath()+"/pulls/"+strconv.Itoa(number), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request #%d: %w", number, err)
	}
	return pr, nil
}

// ListIssueComments retrieves the conversation comments on an issue or pull request.
func (c *Client) ListIssueComments(ctx context.Context, number int) ([]Comment, error) {
	comments, err := fetchAll[Comment](ctx, c, c.repoPath()+"/issues/"+strconv.Itoa(number)+"/comments", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments on #%d: %w", number, err)
	}
	return comments, nil
}

// CreateIssueComment posts a conversation comment on an issue or pull request.
func (c *Client) CreateIssueComment(ctx context.Context, number int, body string) (*Comment, error) {
	reqBody := map[string]string{"body": body}
	comment, err := send[Comment](ctx, c, http.MethodPost, c.repoPath()+"/issues/"+strconv.Itoa(number)+"/comments", reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to comment on #%d: %w", number, err)
	}
	return comment, nil
}
