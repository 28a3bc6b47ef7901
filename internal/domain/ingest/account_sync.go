package ingest

import (
	"context"
	"fmt"
	"log"

	"finhub/internal/infrastructure/plaid"
	"finhub/internal/models"
)

// AccountRepository upserts provider accounts, last write wins.
type AccountRepository interface {
	Upsert(ctx context.Context, params models.UpsertAccountParams) (*models.Account, error)
}

// AccountSyncResult aggregates one account refresh across all items.
type AccountSyncResult struct {
	TotalItems    int         `json:"totalItems"`
	TotalAccounts int         `json:"totalAccounts"`
	Upserted      int         `json:"upserted"`
	Errors        []ItemError `json:"errors"`
}

// AccountSyncService refreshes account metadata for every linked item with
// the same per-item failure containment as transaction ingest.
type AccountSyncService struct {
	client      plaid.ClientInterface
	itemRepo    ItemRepository
	accountRepo AccountRepository
	decrypter   models.Decrypter
}

// NewAccountSyncService creates an account sync service.
func NewAccountSyncService(
	client plaid.ClientInterface,
	itemRepo ItemRepository,
	accountRepo AccountRepository,
	decrypter models.Decrypter,
) *AccountSyncService {
	return &AccountSyncService{
		client:      client,
		itemRepo:    itemRepo,
		accountRepo: accountRepo,
		decrypter:   decrypter,
	}
}

// SyncAccounts fetches and upserts accounts for all linked items.
func (s *AccountSyncService) SyncAccounts(ctx context.Context) (*AccountSyncResult, error) {
	result := &AccountSyncResult{Errors: []ItemError{}}

	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked items: %w", err)
	}
	result.TotalItems = len(items)

	for _, item := range items {
		accessToken, err := item.AccessToken.Resolve(s.decrypter)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{ItemID: item.ID, Message: err.Error()})
			log.Printf("Item %s: cannot resolve access token: %v", item.ID, err)
			continue
		}

		resp, err := s.client.GetAccounts(ctx, accessToken)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{ItemID: item.ID, Message: err.Error()})
			log.Printf("Item %s: account fetch failed: %v", item.ID, err)
			continue
		}

		result.TotalAccounts += len(resp.Accounts)

		for _, apiAccount := range resp.Accounts {
			_, err := s.accountRepo.Upsert(ctx, models.UpsertAccountParams{
				ID:      apiAccount.AccountID,
				ItemID:  item.ID,
				Name:    apiAccount.Name,
				Type:    apiAccount.Type,
				Subtype: apiAccount.Subtype,
				Mask:    apiAccount.Mask,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to upsert account %s: %w", apiAccount.AccountID, err)
			}
			result.Upserted++
		}
	}

	log.Printf("Account sync complete: items=%d accounts=%d upserted=%d errors=%d",
		result.TotalItems, result.TotalAccounts, result.Upserted, len(result.Errors))

	return result, nil
}
