package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var exportDir string

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the transaction ledger to CSV",
	Long: `Write all stored transactions to transactions.csv in the target
directory, along with a SHA256SUMS manifest for later auditing.

Example:
  admin export --dir ./exports`,
	Run: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "exports", "target directory")
}

func runExport(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	d, err := newDeps(ctx)
	exitOnError(err, "failed to initialize")
	defer d.close()

	slog.Info("Exporting ledger", "dir", exportDir)

	result, err := d.exportService.ExportDir(ctx, exportDir)
	exitOnError(err, "export failed")

	fmt.Printf("Wrote %d transactions to %s\n", result.Rows, result.Path)
	fmt.Printf("SHA-256: %s\n", result.Checksum)
}
