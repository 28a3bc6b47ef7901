package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

// encryptTokensCmd represents the encrypt-tokens command.
var encryptTokensCmd = &cobra.Command{
	Use:   "encrypt-tokens",
	Short: "Encrypt stored plaintext access tokens",
	Long: `Re-seal every plaintext access token under the key derived from
ENCRYPTION_PASSPHRASE and clear the plaintext column. Items whose token is
already encrypted are left untouched, so the migration is safe to re-run.

Requires ENCRYPTION_PASSPHRASE to be set.

Example:
  admin encrypt-tokens`,
	Run: runEncryptTokens,
}

func runEncryptTokens(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	d, err := newDeps(ctx)
	exitOnError(err, "failed to initialize")
	defer d.close()

	if d.cfg.Encryption.Passphrase == "" {
		exitOnError(fmt.Errorf("ENCRYPTION_PASSPHRASE is not set"), "cannot encrypt tokens")
	}

	slog.Info("Encrypting stored access tokens")

	migrated, err := d.linkService.EncryptStoredTokens(ctx)
	exitOnError(err, "token encryption failed")

	fmt.Printf("Encrypted %d access tokens\n", migrated)
}
