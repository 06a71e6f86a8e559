// Package github provides client and data types for the GitHub REST API.
//
// Only the endpoints needed to project the dunder list onto a repository are
// covered: milestones, issues, pull requests, issue comments and the
// repository itself.
package github

import (
	"fmt"
	"net/http"
	"time"
)

// API configuration constants.
const (
	// DefaultAPIEndpoint is the GitHub REST API base URL.
	DefaultAPIEndpoint = "https://api.github.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxPageSize is the maximum number of items to fetch per page.
	MaxPageSize = 100

	// MaxPages is the maximum number of pages to fetch before stopping.
	// This prevents infinite loops from malformed Link headers.
	MaxPages = 1000
)

// Client provides methods to interact with the GitHub REST API.
type Client struct {
	Token      string       // GitHub personal access token
	Owner      string       // Repository owner (user or org)
	Repo       string       // Repository name
	BaseURL    string       // API base URL (default: https://api.github.com)
	HTTPClient *http.Client // Optional custom HTTP client
}

// Issue represents an issue from the GitHub API.
type Issue struct {
	ID          int        `json:"id"`     // Global unique ID
	Number      int        `json:"number"` // Repository-scoped issue number
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	State       string     `json:"state"` // "open" or "closed"
	Assignees   []User     `json:"assignees,omitempty"`
	Milestone   *Milestone `json:"milestone,omitempty"`
	HTMLURL     string     `json:"html_url"`
	PullRequest *PullRef   `json:"pull_request,omitempty"` // Non-nil if this is a PR
}

// PullRef indicates an issue is actually a pull request.
// The GitHub Issues API returns PRs alongside issues; this field
// distinguishes them.
type PullRef struct {
	URL string `json:"url,omitempty"`
}

// IssueRequest is the payload for creating or editing an issue.
// Empty fields are omitted, which leaves them unchanged on edit.
type IssueRequest struct {
	Title     string   `json:"title,omitempty"`
	Body      string   `json:"body,omitempty"`
	Milestone int      `json:"milestone,omitempty"` // milestone number
	Assignees []string `json:"assignees,omitempty"`
}

// User represents a GitHub user.
type User struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
}

// Milestone represents a GitHub milestone.
type Milestone struct {
	ID          int    `json:"id"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	State       string `json:"state"` // "open" or "closed"
	HTMLURL     string `json:"html_url,omitempty"`
}

// PullRequest represents a GitHub pull request.
type PullRequest struct {
	ID      int    `json:"id"`
	Number  int    `json:"number"`
	Title   string `json:"title"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
}

// Comment represents a comment on an issue or pull request.
type Comment struct {
	ID      int    `json:"id"`
	Body    string `json:"body"`
	User    *User  `json:"user,omitempty"`
	HTMLURL string `json:"html_url,omitempty"`
}

// Repository represents a GitHub repository.
type Repository struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch,omitempty"`
	Private       bool   `json:"private"`
}

// BlobURL returns the browsable URL prefix for files on the default branch,
// with a trailing slash: https://github.com/<owner>/<repo>/blob/<branch>/
func (r *Repository) BlobURL() string {
	return fmt.Sprintf("%s/blob/%s/", r.HTMLURL, r.DefaultBranch)
}

// APIError is a non-2xx response from the GitHub API.
type APIError struct {
	Method      string
	URL         string
	StatusCode  int
	Body        string
	RateLimited bool
}

func (e *APIError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("GitHub API rate limit exceeded: %s %s (status %d)", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("API error: %s (status %d)", e.Body, e.StatusCode)
}
