package reconcile

// IssueStats tracks the outcome of an issue sync.
type IssueStats struct {
	Created int  `json:"created"` // New issues created in GitHub
	Updated int  `json:"updated"` // Existing issues edited
	Skipped int  `json:"skipped"` // Dunders that already had an issue
	Aborted bool `json:"aborted"` // Whether a remote error stopped the loop
}

// BackfillStats tracks the outcome of an issue-number backfill.
type BackfillStats struct {
	Matched int `json:"matched"` // Remote issues whose title matched a dunder
	Updated int `json:"updated"` // Dunders whose issue number changed
	Kept    int `json:"kept"`    // Matches ignored because an issue was already set
}

// LinkStats tracks the outcome of the pull request linking pass.
type LinkStats struct {
	Commented int `json:"commented"` // Comments posted
	Skipped   int `json:"skipped"`   // PRs that already carried the comment
}
