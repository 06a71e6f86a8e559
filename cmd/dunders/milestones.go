package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mcoding/dunders/internal/debug"
	"github.com/mcoding/dunders/internal/reconcile"
	"github.com/mcoding/dunders/internal/types"
	"github.com/mcoding/dunders/internal/ui"
)

var milestonesYes bool

var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "Manage the per-group milestones",
}

var milestonesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create one milestone per group",
	Long: `Create one GitHub milestone per group, titled with the group label and
described with a link to the group folder.

This is meant to run once per repository: running it again creates duplicate
milestones.`,
	RunE: runMilestonesCreate,
}

var milestonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which groups have a milestone",
	RunE:  runMilestonesList,
}

func init() {
	milestonesCreateCmd.Flags().BoolVarP(&milestonesYes, "yes", "y", false, "Skip the confirmation prompt")
	milestonesCmd.AddCommand(milestonesCreateCmd)
	milestonesCmd.AddCommand(milestonesListCmd)
	rootCmd.AddCommand(milestonesCmd)
}

// errAborted is returned when the user declines a confirmation prompt.
var errAborted = errors.New("aborted")

func confirmMilestones() error {
	if milestonesYes {
		return nil
	}
	if !ui.IsInteractive() {
		return fmt.Errorf("refusing to create milestones without confirmation: pass --yes")
	}

	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Create %d milestones in %s/%s?", len(types.AllGroups), settings.Owner, settings.Repo)).
				Description("Running this twice creates duplicates.").
				Affirmative("Create").
				Negative("Cancel").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errAborted
		}
		return err
	}
	if !ok {
		return errAborted
	}
	return nil
}

func runMilestonesCreate(cmd *cobra.Command, args []string) error {
	if err := confirmMilestones(); err != nil {
		return err
	}

	r, err := newReconciler(rootCtx)
	if err != nil {
		return err
	}
	created, err := r.CreateMilestones(rootCtx)
	debug.PrintNormal("%s Created %d of %d milestones\n", resultIcon(err), len(created), len(types.AllGroups))
	return err
}

func runMilestonesList(cmd *cobra.Command, args []string) error {
	r, err := newReconciler(rootCtx)
	if err != nil {
		return err
	}

	resolved, err := r.ResolveMilestones(rootCtx)
	var cerr *reconcile.ConsistencyError
	if err != nil && !errors.As(err, &cerr) {
		return err
	}

	fmt.Println(ui.RenderCategory("Milestones"))
	for _, g := range types.AllGroups {
		if m, ok := resolved[g]; ok {
			fmt.Printf("%s %s %s\n", ui.RenderPassIcon(), ui.RenderKeyValue(g.Label(), fmt.Sprintf("#%d", m.Number)), ui.RenderMuted(m.State))
		} else {
			fmt.Printf("%s %s\n", ui.RenderFailIcon(), ui.RenderKeyValue(g.Label(), ui.RenderFail("missing")))
		}
	}
	return err
}
