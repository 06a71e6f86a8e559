package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoding/dunders/internal/reconcile"
	"github.com/mcoding/dunders/internal/sheet"
	"github.com/mcoding/dunders/internal/snapshot"
	"github.com/mcoding/dunders/internal/ui"
)

var (
	previewHTML bool
	previewRoot string
)

var previewCmd = &cobra.Command{
	Use:   "preview NAME",
	Short: "Print the issue body a dunder would get",
	Long: `Print the issue title and body built for the named dunder. NAME may be
given with or without backticks (__init__ or ` + "`__init__`" + `).

Links use --root when given; otherwise the repository is queried for its
default branch.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewHTML, "html", false, "Render the body as HTML")
	previewCmd.Flags().StringVar(&previewRoot, "root", "", "Root URL for file links (e.g. https://github.com/o/r/blob/main/)")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	dunders, err := snapshot.Load(settings.Snapshot)
	if err != nil {
		return err
	}

	name := args[0]
	if name == "" || name[0] != '`' {
		name = sheet.FormatName(name)
	}

	idx := -1
	for i, d := range dunders {
		if d.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no dunder named %s in %s", name, settings.Snapshot)
	}
	d := dunders[idx]

	root := previewRoot
	if root == "" {
		client, err := newClient()
		if err != nil {
			return err
		}
		repo, err := client.GetRepository(rootCtx)
		if err != nil {
			return err
		}
		root = repo.BlobURL()
	}

	body := reconcile.IssueBody(root, d)
	if previewHTML {
		html, err := ui.RenderHTML(body)
		if err != nil {
			return fmt.Errorf("failed to render body: %w", err)
		}
		fmt.Print(html)
		return nil
	}

	fmt.Println(ui.RenderCategory("Title"))
	fmt.Println(d.Name)
	fmt.Println()
	fmt.Println(ui.RenderCategory("Body"))
	fmt.Println(body)
	return nil
}
