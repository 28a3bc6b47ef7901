package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"finhub/internal/domain/export"
)

var auditDir string

// auditCmd represents the audit command.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Verify a previous export against its checksum manifest",
	Long: `Recompute the SHA-256 checksum of transactions.csv in the target
directory and compare it to the SHA256SUMS manifest written at export time.

Exits non-zero when the file has been modified or the manifest is missing.

Example:
  admin audit --dir ./exports`,
	Run: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditDir, "dir", "exports", "directory of a previous export")
}

func runAudit(cmd *cobra.Command, args []string) {
	// No DB or provider needed: the audit works purely on files.
	svc := export.NewService(nil)

	err := svc.Audit(auditDir)
	exitOnError(err, "audit failed")

	fmt.Printf("OK: %s matches its manifest\n", auditDir)
}
