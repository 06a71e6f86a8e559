package main

import (
	"github.com/spf13/cobra"

	"github.com/mcoding/dunders/internal/debug"
	"github.com/mcoding/dunders/internal/reconcile"
	"github.com/mcoding/dunders/internal/snapshot"
)

var linkSkipExisting bool

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Comment \"Closes #N.\" on each dunder's pull request",
	Long: `For every dunder with both an issue and a pull request, post a
"Closes #<issue>." comment on the pull request.

Rerunning posts the comments again; use --skip-existing to check each pull
request's comments first.`,
	RunE: runLink,
}

func init() {
	linkCmd.Flags().BoolVar(&linkSkipExisting, "skip-existing", false, "Skip pull requests that already carry the comment")
	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	lock, err := snapshot.Lock(settings.Snapshot)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	dunders, err := snapshot.Load(settings.Snapshot)
	if err != nil {
		return err
	}

	r, err := newReconciler(rootCtx)
	if err != nil {
		return err
	}

	stats, err := r.LinkPullRequests(rootCtx, dunders, reconcile.LinkOptions{SkipExisting: linkSkipExisting})
	debug.PrintNormal("%s Pull requests: %d commented, %d already linked\n",
		resultIcon(err), stats.Commented, stats.Skipped)
	return err
}
