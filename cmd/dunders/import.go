package main

import (
	"github.com/spf13/cobra"

	"github.com/mcoding/dunders/internal/debug"
	"github.com/mcoding/dunders/internal/sheet"
	"github.com/mcoding/dunders/internal/snapshot"
	"github.com/mcoding/dunders/internal/types"
	"github.com/mcoding/dunders/internal/ui"
)

var (
	importDownload bool
	importCSV      string
	importDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the spreadsheet into the snapshot",
	Long: `Parse the exported spreadsheet and merge its rows into the snapshot.

Rows update the snapshot record with the same name (matched by occurrence when
names repeat). Issue numbers and file lists already in the snapshot are kept.
New rows are appended. The snapshot is created if it does not exist.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDownload, "download", false, "Download the sheet export before importing")
	importCmd.Flags().StringVar(&importCSV, "csv", "", "CSV export to read (default: sheet.path)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would change without saving")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	csvPath := importCSV
	if csvPath == "" {
		csvPath = settings.SheetPath
	}

	if importDownload {
		d := sheet.NewDownloader(settings.SheetURL)
		if err := d.DownloadTo(rootCtx, csvPath); err != nil {
			return err
		}
		debug.PrintNormal("%s Downloaded %s\n", ui.RenderPassIcon(), csvPath)
	}

	imported, err := sheet.Collect(sheet.ReadFile(csvPath))
	if err != nil {
		return err
	}
	for _, name := range types.DuplicateNames(imported) {
		logger.Warn("duplicate dunder in sheet", "name", name)
	}

	var stats snapshot.MergeStats
	err = withSnapshot(settings.Snapshot, true, func(existing []*types.Dunder) ([]*types.Dunder, error) {
		if importDryRun {
			// Merge works in place; run it on copies.
			copies := make([]*types.Dunder, len(existing))
			for i, d := range existing {
				copies[i] = d.Clone()
			}
			_, stats = snapshot.Merge(copies, imported)
			return nil, nil
		}
		var merged []*types.Dunder
		merged, stats = snapshot.Merge(existing, imported)
		if merged == nil {
			merged = []*types.Dunder{}
		}
		return merged, nil
	})
	if err != nil {
		return err
	}

	prefix := ""
	if importDryRun {
		prefix = "[dry-run] "
	}
	debug.PrintNormal("%s%s Imported %d rows: %d added, %d updated, %d unchanged, %d kept from snapshot\n",
		prefix, ui.RenderPassIcon(), len(imported), stats.Added, stats.Updated, stats.Unchanged, stats.Retained)
	return nil
}
