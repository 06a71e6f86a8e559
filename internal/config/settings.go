package config

import (
	"fmt"
	"strings"
	"time"
)

// Settings is the resolved configuration for one command run.
type Settings struct {
	Token      string
	Owner      string
	Repo       string
	APIURL     string
	Snapshot   string
	SheetPath  string
	SheetURL   string
	Delay      time.Duration
	AutoAssign bool
	LogLevel   string
	LogFile    string
}

// Load resolves the current settings. Initialize must have been called.
func Load() (*Settings, error) {
	s := &Settings{
		Token:      GetString(KeyGitHubToken),
		Owner:      GetString(KeyGitHubOwner),
		Repo:       GetString(KeyGitHubRepo),
		APIURL:     strings.TrimSuffix(GetString(KeyGitHubAPIURL), "/"),
		Snapshot:   GetString(KeySnapshotPath),
		SheetPath:  GetString(KeySheetPath),
		SheetURL:   GetString(KeySheetURL),
		Delay:      GetDuration(KeySyncDelay),
		AutoAssign: GetBool(KeyAutoAssign),
		LogLevel:   GetString(KeyLogLevel),
		LogFile:    GetString(KeyLogFile),
	}
	if s.Delay < 0 {
		return nil, fmt.Errorf("%s must not be negative (got %s)", KeySyncDelay, s.Delay)
	}
	if s.Snapshot == "" {
		return nil, fmt.Errorf("%s must not be empty", KeySnapshotPath)
	}
	return s, nil
}

// RequireGitHub checks the settings needed to talk to GitHub.
func (s *Settings) RequireGitHub() error {
	var missing []string
	if s.Token == "" {
		missing = append(missing, "GITHUB_TOKEN (or "+KeyGitHubToken+")")
	}
	if s.Owner == "" {
		missing = append(missing, KeyGitHubOwner)
	}
	if s.Repo == "" {
		missing = append(missing, KeyGitHubRepo)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing GitHub configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// MaskedToken returns the token with all but its last four characters hidden.
func (s *Settings) MaskedToken() string {
	switch {
	case s.Token == "":
		return "(not set)"
	case len(s.Token) <= 4:
		return "****"
	default:
		return strings.Repeat("*", 8) + s.Token[len(s.Token)-4:]
	}
}
