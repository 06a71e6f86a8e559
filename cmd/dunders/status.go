package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/mcoding/dunders/internal/config"
	"github.com/mcoding/dunders/internal/snapshot"
	"github.com/mcoding/dunders/internal/types"
	"github.com/mcoding/dunders/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and snapshot counts",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// snapshotSummary counts dunders per status and per group.
type snapshotSummary struct {
	Total    int
	ByStatus map[types.Status]int
	ByGroup  map[types.Group]int
	NoGroup  int
	Issues   int
	Pulls    int
}

func summarize(dunders []*types.Dunder) snapshotSummary {
	s := snapshotSummary{
		Total:    len(dunders),
		ByStatus: make(map[types.Status]int),
		ByGroup:  make(map[types.Group]int),
	}
	for _, d := range dunders {
		s.ByStatus[d.Status]++
		if d.HasGroup() {
			s.ByGroup[d.Group]++
		} else {
			s.NoGroup++
		}
		if d.HasIssue() {
			s.Issues++
		}
		if d.HasPR() {
			s.Pulls++
		}
	}
	return s
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.RenderCategory("Configuration"))
	fmt.Println(ui.RenderKeyValue("repository", settings.Owner+"/"+settings.Repo))
	fmt.Println(ui.RenderKeyValue("token", settings.MaskedToken()))
	fmt.Println(ui.RenderKeyValue("api", settings.APIURL))
	fmt.Println(ui.RenderKeyValue("snapshot", settings.Snapshot))
	fmt.Println(ui.RenderKeyValue("sheet", settings.SheetPath))
	fmt.Println(ui.RenderKeyValue("delay", settings.Delay))
	fmt.Println(ui.RenderKeyValue("auto-assign", settings.AutoAssign))
	if used := config.ConfigFileUsed(); used != "" {
		fmt.Println(ui.RenderKeyValue("config file", used))
	}
	fmt.Println()

	dunders, err := snapshot.Load(settings.Snapshot)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("%s No snapshot yet; run 'dunders import'\n", ui.RenderInfoIcon())
		return nil
	}
	if err != nil {
		return err
	}

	s := summarize(dunders)
	fmt.Println(ui.RenderCategory("Snapshot"))
	fmt.Println(ui.RenderKeyValue("dunders", s.Total))
	fmt.Println(ui.RenderKeyValue("with issue", s.Issues))
	fmt.Println(ui.RenderKeyValue("with pull request", s.Pulls))
	fmt.Println()

	fmt.Println(ui.RenderCategory("By status"))
	for _, st := range types.AllStatuses {
		fmt.Println(ui.RenderKeyValue(ui.RenderStatus(st), s.ByStatus[st]))
	}
	fmt.Println()

	fmt.Println(ui.RenderCategory("By group"))
	for _, g := range types.AllGroups {
		if n := s.ByGroup[g]; n > 0 {
			fmt.Println(ui.RenderKeyValue(g.Label(), n))
		}
	}
	if s.NoGroup > 0 {
		fmt.Println(ui.RenderKeyValue(ui.RenderMuted("(no group)"), s.NoGroup))
	}
	return nil
}
