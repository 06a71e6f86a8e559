// Package config holds the dunders configuration: an optional dunders.yaml,
// .env files, environment variables and command-line flags, merged by viper.
//
// Precedence, highest first: flags, environment, dunders.yaml, defaults.
// Environment variables use the DUNDERS_ prefix with dots and dashes turned
// into underscores (sync.delay -> DUNDERS_SYNC_DELAY). The GitHub settings
// also accept the plain GITHUB_TOKEN, GITHUB_OWNER and GITHUB_REPO variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoding/dunders/internal/github"
	"github.com/mcoding/dunders/internal/sheet"
	"github.com/mcoding/dunders/internal/snapshot"
)

// Configuration keys.
const (
	KeyGitHubToken  = "github.token"
	KeyGitHubOwner  = "github.owner"
	KeyGitHubRepo   = "github.repo"
	KeyGitHubAPIURL = "github.api-url"
	KeySnapshotPath = "snapshot.path"
	KeySheetPath    = "sheet.path"
	KeySheetURL     = "sheet.url"
	KeySyncDelay    = "sync.delay"
	KeyAutoAssign   = "sync.auto-assign"
	KeyLogLevel     = "log.level"
	KeyLogFile      = "log.file"
)

// Defaults for the upstream repository and its spreadsheet.
const (
	DefaultOwner     = "MicaelJarniac"
	DefaultRepo      = "mcoding-all-dunders"
	DefaultSheetPath = "dunders.csv"
)

// ConfigName is the config file looked up in the working directory
// (dunders.yaml, dunders.yml, ...).
const ConfigName = "dunders"

var v *viper.Viper

// Initialize sets up the viper singleton. configFile, when non-empty, must
// exist; otherwise a dunders config file in the working directory is used if
// present. .env in the working directory is loaded first without overriding
// variables already set.
func Initialize(configFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	v = viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DUNDERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, env := range map[string]string{
		KeyGitHubToken: "GITHUB_TOKEN",
		KeyGitHubOwner: "GITHUB_OWNER",
		KeyGitHubRepo:  "GITHUB_REPO",
	} {
		if err := v.BindEnv(key, "DUNDERS_"+envName(key), env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
		return nil
	}

	v.SetConfigName(ConfigName)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyGitHubOwner, DefaultOwner)
	v.SetDefault(KeyGitHubRepo, DefaultRepo)
	v.SetDefault(KeyGitHubAPIURL, github.DefaultAPIEndpoint)
	v.SetDefault(KeySnapshotPath, snapshot.DefaultPath)
	v.SetDefault(KeySheetPath, DefaultSheetPath)
	v.SetDefault(KeySheetURL, sheet.DefaultExportURL)
	v.SetDefault(KeySyncDelay, time.Second)
	v.SetDefault(KeyAutoAssign, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
}

func envName(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// BindFlag makes a command-line flag override key when it is set.
func BindFlag(key string, flag *pflag.Flag) error {
	if v == nil || flag == nil {
		return nil
	}
	return v.BindPFlag(key, flag)
}

// ConfigFileUsed returns the config file that was read, if any.
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetDuration retrieves a duration configuration value
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set sets a configuration value (used by tests and flag overrides).
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}
