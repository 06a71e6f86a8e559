package main

import (
	"github.com/spf13/cobra"

	"github.com/mcoding/dunders/internal/debug"
	"github.com/mcoding/dunders/internal/types"
	"github.com/mcoding/dunders/internal/ui"
)

var backfillOverwrite bool

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Fill in issue numbers from existing GitHub issues",
	Long: `List every issue in the repository and record its number on the snapshot
dunder whose name equals the issue title.

Dunders that already have an issue number keep it unless --overwrite is set.`,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().BoolVar(&backfillOverwrite, "overwrite", false, "Replace issue numbers that are already set")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	r, err := newReconciler(rootCtx)
	if err != nil {
		return err
	}

	return withSnapshot(settings.Snapshot, false, func(dunders []*types.Dunder) ([]*types.Dunder, error) {
		stats, err := r.Backfill(rootCtx, dunders, backfillOverwrite)
		if err != nil {
			return nil, err
		}
		debug.PrintNormal("%s Matched %d issues: %d dunders updated, %d kept\n",
			ui.RenderPassIcon(), stats.Matched, stats.Updated, stats.Kept)
		return dunders, nil
	})
}
