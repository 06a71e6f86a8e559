package main

import (
	"github.com/spf13/cobra"

	"github.com/mcoding/dunders/internal/debug"
	"github.com/mcoding/dunders/internal/reconcile"
	"github.com/mcoding/dunders/internal/types"
	"github.com/mcoding/dunders/internal/ui"
)

var (
	issuesUpdateExisting bool
	issuesAutoAssign     bool
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Create or update one issue per dunder",
	Long: `Create a GitHub issue for every dunder without one, and record the new
issue number in the snapshot.

With --update-existing, dunders that already have an issue get it edited
with the current title, milestone, body and (with --auto-assign) assignees.

The first failing GitHub call stops the run. Issues created up to that point
are still saved to the snapshot, so rerunning picks up where it stopped.`,
	RunE: runIssues,
}

func init() {
	issuesCmd.Flags().BoolVar(&issuesUpdateExisting, "update-existing", false, "Edit issues of dunders that already have one")
	issuesCmd.Flags().BoolVar(&issuesAutoAssign, "auto-assign", false, "Assign issues to the dunder's assignees (default: sync.auto-assign)")
	rootCmd.AddCommand(issuesCmd)
}

func runIssues(cmd *cobra.Command, args []string) error {
	r, err := newReconciler(rootCtx)
	if err != nil {
		return err
	}

	opts := reconcile.IssueOptions{
		UpdateExisting: issuesUpdateExisting,
		AutoAssign:     settings.AutoAssign,
	}
	if cmd.Flags().Changed("auto-assign") {
		opts.AutoAssign = issuesAutoAssign
	}
	logger.Debug("syncing issues", "update_existing", opts.UpdateExisting, "auto_assign", opts.AutoAssign, "delay", settings.Delay)

	return withSnapshot(settings.Snapshot, false, func(dunders []*types.Dunder) ([]*types.Dunder, error) {
		stats, err := r.SyncIssues(rootCtx, dunders, opts)
		if stats == nil {
			// Nothing was attempted (e.g. missing milestones).
			return nil, err
		}

		debug.PrintNormal("%s Issues: %d created, %d updated, %d skipped\n",
			resultIcon(err), stats.Created, stats.Updated, stats.Skipped)
		if stats.Aborted {
			debug.PrintNormal("%s Stopped early; progress so far is saved\n", ui.RenderWarnIcon())
		}
		return dunders, err
	})
}
