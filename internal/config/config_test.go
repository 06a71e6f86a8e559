package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no dunders variables set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, env := range []string{
		"GITHUB_TOKEN", "GITHUB_OWNER", "GITHUB_REPO",
		"DUNDERS_GITHUB_TOKEN", "DUNDERS_GITHUB_OWNER", "DUNDERS_GITHUB_REPO",
		"DUNDERS_SYNC_DELAY", "DUNDERS_SNAPSHOT_PATH", "DUNDERS_LOG_LEVEL",
	} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
	return dir
}

func TestDefaults(t *testing.T) {
	isolate(t)
	require.NoError(t, Initialize(""))

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultOwner, s.Owner)
	assert.Equal(t, DefaultRepo, s.Repo)
	assert.Equal(t, "https://api.github.com", s.APIURL)
	assert.Equal(t, "dunders.json", s.Snapshot)
	assert.Equal(t, "dunders.csv", s.SheetPath)
	assert.Contains(t, s.SheetURL, "docs.google.com")
	assert.Equal(t, time.Second, s.Delay)
	assert.False(t, s.AutoAssign)
	assert.Equal(t, "info", s.LogLevel)
	assert.Empty(t, s.Token)
	assert.Empty(t, ConfigFileUsed())
}

func TestEnvironmentBinding(t *testing.T) {
	tests := []struct {
		envVar string
		value  string
		check  func(t *testing.T, s *Settings)
	}{
		{"GITHUB_TOKEN", "ghp_plain", func(t *testing.T, s *Settings) { assert.Equal(t, "ghp_plain", s.Token) }},
		{"DUNDERS_GITHUB_TOKEN", "ghp_prefixed", func(t *testing.T, s *Settings) { assert.Equal(t, "ghp_prefixed", s.Token) }},
		{"GITHUB_OWNER", "someone", func(t *testing.T, s *Settings) { assert.Equal(t, "someone", s.Owner) }},
		{"DUNDERS_SYNC_DELAY", "250ms", func(t *testing.T, s *Settings) { assert.Equal(t, 250*time.Millisecond, s.Delay) }},
		{"DUNDERS_SYNC_AUTO_ASSIGN", "true", func(t *testing.T, s *Settings) { assert.True(t, s.AutoAssign) }},
		{"DUNDERS_SNAPSHOT_PATH", "data/d.json", func(t *testing.T, s *Settings) { assert.Equal(t, "data/d.json", s.Snapshot) }},
	}

	for _, tt := range tests {
		t.Run(tt.envVar, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.envVar, tt.value)
			require.NoError(t, Initialize(""))

			s, err := Load()
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := isolate(t)
	content := `
github:
  owner: configowner
  repo: configrepo
sync:
  delay: 2s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dunders.yaml"), []byte(content), 0o600))
	require.NoError(t, Initialize(""))

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "configowner", s.Owner)
	assert.Equal(t, "configrepo", s.Repo)
	assert.Equal(t, 2*time.Second, s.Delay)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "dunders.yaml", filepath.Base(ConfigFileUsed()))
}

func TestExplicitConfigFileMissing(t *testing.T) {
	dir := isolate(t)
	assert.Error(t, Initialize(filepath.Join(dir, "nope.yaml")))
}

func TestDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GITHUB_TOKEN=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GITHUB_TOKEN") })

	require.NoError(t, Initialize(""))
	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", s.Token)
}

func TestBindFlagOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("DUNDERS_SYNC_DELAY", "5s")
	require.NoError(t, Initialize(""))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Duration("delay", time.Second, "")
	require.NoError(t, flags.Parse([]string{"--delay", "0s"}))
	require.NoError(t, BindFlag(KeySyncDelay, flags.Lookup("delay")))

	s, err := Load()
	require.NoError(t, err)
	assert.Zero(t, s.Delay)
}

func TestLoadRejectsNegativeDelay(t *testing.T) {
	isolate(t)
	require.NoError(t, Initialize(""))
	Set(KeySyncDelay, "-1s")

	_, err := Load()
	assert.Error(t, err)
}

func TestRequireGitHub(t *testing.T) {
	s := &Settings{Owner: "o", Repo: "r"}
	err := s.RequireGitHub()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")

	s.Token = "t"
	assert.NoError(t, s.RequireGitHub())
}

func TestMaskedToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", "(not set)"},
		{"abc", "****"},
		{"ghp_1234567890", "********7890"},
	}
	for _, tt := range tests {
		s := &Settings{Token: tt.token}
		assert.Equal(t, tt.want, s.MaskedToken(), "token %q", tt.token)
	}
}

func TestNilViperBehavior(t *testing.T) {
	saved := v
	v = nil
	defer func() { v = saved }()

	assert.Empty(t, GetString("any-key"))
	assert.False(t, GetBool("any-key"))
	assert.Zero(t, GetDuration("any-key"))
	assert.Empty(t, ConfigFileUsed())
	assert.NoError(t, BindFlag("any-key", nil))
	Set("any-key", "any-value")
}
