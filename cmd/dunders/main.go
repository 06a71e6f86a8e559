// Command dunders keeps the dunder spreadsheet, the local dunders.json
// snapshot and the GitHub milestones, issues and pull requests in step.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mcoding/dunders/internal/config"
	"github.com/mcoding/dunders/internal/debug"
	"github.com/mcoding/dunders/internal/telemetry"
	"github.com/mcoding/dunders/internal/ui"
)

// Version is set at build time.
var Version = "dev"

var (
	configFile  string
	verboseFlag bool
	quietFlag   bool

	settings  *config.Settings
	logger    = slog.Default()
	logCloser io.Closer

	rootCtx    = context.Background()
	rootCancel context.CancelFunc = func() {}
)

var rootCmd = &cobra.Command{
	Use:           "dunders",
	Short:         "dunders - sync the dunders spreadsheet with GitHub",
	Long:          `Import the dunders spreadsheet into dunders.json and project it onto GitHub milestones, issues and pull request comments.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)

		if err := config.Initialize(configFile); err != nil {
			return err
		}
		bindFlags(cmd)
		ui.ApplyColorProfile()

		s, err := config.Load()
		if err != nil {
			return err
		}
		settings = s

		l, closer, err := debug.NewLogger(debug.LogOptions{
			Level: s.LogLevel,
			File:  s.LogFile,
			RunID: uuid.NewString(),
		})
		if err != nil {
			return err
		}
		logger, logCloser = l, closer
		slog.SetDefault(logger)
		logger.Debug("starting", "command", cmd.CommandPath(), "config", config.ConfigFileUsed())

		if err := telemetry.Init(context.Background(), "dunders", Version); err != nil {
			logger.Warn("telemetry disabled", "error", err)
		}

		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdown()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: ./dunders.yaml if present)")
	flags.String("snapshot", "", "Snapshot path (default: dunders.json)")
	flags.Duration("delay", 0, "Pause after each GitHub write; 0 disables (default: 1s)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
}

// bindFlags lets explicitly set persistent flags override the config.
func bindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	for key, name := range map[string]string{
		config.KeySnapshotPath: "snapshot",
		config.KeySyncDelay:    "delay",
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			_ = config.BindFlag(key, f)
		}
	}
}

func shutdown() {
	rootCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := telemetry.Shutdown(ctx); err != nil {
		slog.Debug("telemetry shutdown", "err", err)
	}
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		shutdown()
		os.Exit(1)
	}
}
