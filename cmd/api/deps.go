package main

import (
	"context"
	"fmt"
	"log"

	"finhub/internal/domain/ingest"
	"finhub/internal/domain/link"
	"finhub/internal/infrastructure/crypto"
	"finhub/internal/infrastructure/plaid"
	"finhub/internal/infrastructure/postgres"
	httphandlers "finhub/internal/interfaces/http"
	"finhub/internal/models"
	"finhub/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	LinkHandler        *httphandlers.LinkHandler
	IngestHandler      *httphandlers.IngestHandler
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler

	// Services (for scheduler wiring)
	IngestService      *ingest.Service
	AccountSyncService *ingest.AccountSyncService
	LinkService        *link.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	// Token encryption is opt-in: without a passphrase tokens stay in
	// plaintext and the decrypter is nil.
	var encryptor *crypto.Encryptor
	if cfg.Encryption.Passphrase != "" {
		encryptor, err = crypto.NewEncryptorFromPassphrase(cfg.Encryption.Passphrase, cfg.Encryption.Salt)
		if err != nil {
			db.Close()
			return nil, err
		}
		log.Println("Access token encryption enabled")
	}

	// Initialize repositories
	itemRepo := postgres.NewItemRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	runRepo := postgres.NewIngestRunRepository(db)

	// Initialize provider client
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

	// crypto.Encryptor satisfies both sides of the overlay; a nil
	// *Encryptor must not become a non-nil interface value.
	var decrypter models.Decrypter
	var tokenSealer link.Encryptor
	if encryptor != nil {
		decrypter = encryptor
		tokenSealer = encryptor
	}

	// Initialize domain services
	ingestService := ingest.NewService(client, itemRepo, transactionRepo, runRepo, nil, decrypter)
	accountSyncService := ingest.NewAccountSyncService(client, itemRepo, accountRepo, decrypter)
	linkService := link.NewService(client, itemRepo, tokenSealer)

	// Initialize handlers
	linkHandler := httphandlers.NewLinkHandler(linkService)
	ingestHandler := httphandlers.NewIngestHandler(ingestService, accountSyncService, runRepo, cfg.Ingest.LookbackDays)
	accountHandler := httphandlers.NewAccountHandler(accountRepo)
	transactionHandler := httphandlers.NewTransactionHandler(transactionRepo)

	return &Dependencies{
		DB:                 db,
		LinkHandler:        linkHandler,
		IngestHandler:      ingestHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		IngestService:      ingestService,
		AccountSyncService: accountSyncService,
		LinkService:        linkService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
