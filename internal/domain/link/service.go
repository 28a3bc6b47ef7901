// Package link implements the institution linking flow: create a link
// token, exchange the resulting public token, and persist the item with
// the access token optionally encrypted at rest.
package link

import (
	"context"
	"fmt"
	"log"

	"finhub/internal/infrastructure/plaid"
	"finhub/internal/models"
)

// ItemRepository persists linked items.
type ItemRepository interface {
	Create(ctx context.Context, params models.CreateItemParams) (*models.Item, error)
	List(ctx context.Context) ([]*models.Item, error)
	UpdateToken(ctx context.Context, id string, token models.Token) error
}

// Encryptor seals an access token for storage.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
}

// Service drives the provider link flow.
type Service struct {
	client    plaid.ClientInterface
	itemRepo  ItemRepository
	encryptor Encryptor // may be nil; tokens are then stored in plaintext
}

// NewService creates a link service.
func NewService(client plaid.ClientInterface, itemRepo ItemRepository, encryptor Encryptor) *Service {
	return &Service{
		client:    client,
		itemRepo:  itemRepo,
		encryptor: encryptor,
	}
}

// CreateLinkToken requests a short-lived token that the provider's link UI
// consumes to start an institution login.
func (s *Service) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	token, err := s.client.CreateLinkToken(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to create link token: %w", err)
	}
	return token, nil
}

// ExchangePublicToken swaps the public token from a completed link flow for
// a permanent access token and persists the resulting item. With an
// encryptor configured only the ciphertext is stored.
func (s *Service) ExchangePublicToken(ctx context.Context, publicToken string) (*models.Item, error) {
	resp, err := s.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange public token: %w", err)
	}

	token, err := s.sealToken(resp.AccessToken)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.Create(ctx, models.CreateItemParams{
		ID:          resp.ItemID,
		AccessToken: token,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist item %s: %w", resp.ItemID, err)
	}

	log.Printf("Linked item %s (token encrypted: %v)", item.ID, token.IsEncrypted())
	return item, nil
}

// EncryptStoredTokens re-seals every plaintext token under the configured
// key and clears the plaintext column. Already-encrypted items are skipped,
// so the migration is safe to re-run.
func (s *Service) EncryptStoredTokens(ctx context.Context) (int, error) {
	if s.encryptor == nil {
		return 0, fmt.Errorf("no encryption key configured")
	}

	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list linked items: %w", err)
	}

	migrated := 0
	for _, item := range items {
		if item.AccessToken.IsEncrypted() {
			continue
		}
		if item.AccessToken.Plain == "" {
			log.Printf("Item %s has no access token, skipping", item.ID)
			continue
		}

		ciphertext, err := s.encryptor.Encrypt(item.AccessToken.Plain)
		if err != nil {
			return migrated, fmt.Errorf("failed to encrypt token for item %s: %w", item.ID, err)
		}

		if err := s.itemRepo.UpdateToken(ctx, item.ID, models.Token{Encrypted: ciphertext}); err != nil {
			return migrated, fmt.Errorf("failed to update token for item %s: %w", item.ID, err)
		}
		migrated++
	}

	log.Printf("Token encryption migration complete: %d items migrated", migrated)
	return migrated, nil
}

func (s *Service) sealToken(plaintext string) (models.Token, error) {
	if s.encryptor == nil {
		return models.Token{Plain: plaintext}, nil
	}
	ciphertext, err := s.encryptor.Encrypt(plaintext)
	if err != nil {
		return models.Token{}, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	return models.Token{Encrypted: ciphertext}, nil
}
