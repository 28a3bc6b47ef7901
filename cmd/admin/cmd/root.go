// Package cmd provides CLI commands for finhub administration.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"finhub/internal/domain/export"
	"finhub/internal/domain/ingest"
	"finhub/internal/domain/link"
	"finhub/internal/infrastructure/crypto"
	"finhub/internal/infrastructure/plaid"
	"finhub/internal/infrastructure/postgres"
	"finhub/internal/models"
	"finhub/internal/shared/config"
)

var debug bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administration commands for the finhub API",
	Long: `admin manages the finhub data hub outside the HTTP API.

It supports:
- Running a transaction ingest from the command line
- Exporting the ledger to CSV with a checksum manifest
- Auditing a previous export against its manifest
- Migrating stored access tokens to encrypted form

Example:
  admin ingest --lookback 90
  admin export --dir ./exports
  admin audit --dir ./exports
  admin encrypt-tokens`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(encryptTokensCmd)
}

// deps bundles everything a command can need. Commands use only the parts
// they touch; the rest stays nil-safe.
type deps struct {
	cfg           *config.Config
	db            *postgres.DB
	ingestService *ingest.Service
	linkService   *link.Service
	exportService *export.Service
}

func newDeps(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	var encryptor *crypto.Encryptor
	if cfg.Encryption.Passphrase != "" {
		encryptor, err = crypto.NewEncryptorFromPassphrase(cfg.Encryption.Passphrase, cfg.Encryption.Salt)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	client, err := plaid.NewClient(plaid.Config{
		Environment: plaid.Environment(cfg.Provider.Environment),
		ClientID:    cfg.Provider.ClientID,
		Secret:      cfg.Provider.Secret,
		Timeout:     cfg.Provider.Timeout,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	itemRepo := postgres.NewItemRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	runRepo := postgres.NewIngestRunRepository(db)

	var decrypter models.Decrypter
	var tokenSealer link.Encryptor
	if encryptor != nil {
		decrypter = encryptor
		tokenSealer = encryptor
	}

	return &deps{
		cfg:           cfg,
		db:            db,
		ingestService: ingest.NewService(client, itemRepo, transactionRepo, runRepo, nil, decrypter),
		linkService:   link.NewService(client, itemRepo, tokenSealer),
		exportService: export.NewService(transactionRepo),
	}, nil
}

func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
}

// exitOnError logs the error and exits with a non-zero status.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
