package link

import (
	"context"
	"errors"
	"testing"

	"finhub/internal/infrastructure/plaid"
	"finhub/internal/models"
)

// MockClient implements plaid.ClientInterface
type MockClient struct {
	CreateLinkTokenFunc     func(ctx context.Context, userID string) (string, error)
	ExchangePublicTokenFunc func(ctx context.Context, publicToken string) (*plaid.ExchangeResponse, error)
}

func (m *MockClient) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	if m.CreateLinkTokenFunc != nil {
		return m.CreateLinkTokenFunc(ctx, userID)
	}
	return "link-token", nil
}

func (m *MockClient) ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.ExchangeResponse, error) {
	if m.ExchangePublicTokenFunc != nil {
		return m.ExchangePublicTokenFunc(ctx, publicToken)
	}
	return &plaid.ExchangeResponse{AccessToken: "access-token", ItemID: "item-1"}, nil
}

func (m *MockClient) GetAccounts(ctx context.Context, accessToken string) (*plaid.AccountsResponse, error) {
	return &plaid.AccountsResponse{}, nil
}

func (m *MockClient) GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]plaid.Transaction, error) {
	return nil, nil
}

// MockItemRepo implements ItemRepository
type MockItemRepo struct {
	CreateFunc      func(ctx context.Context, params models.CreateItemParams) (*models.Item, error)
	ListFunc        func(ctx context.Context) ([]*models.Item, error)
	UpdateTokenFunc func(ctx context.Context, id string, token models.Token) error
}

func (m *MockItemRepo) Create(ctx context.Context, params models.CreateItemParams) (*models.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &models.Item{ID: params.ID, AccessToken: params.AccessToken}, nil
}

func (m *MockItemRepo) List(ctx context.Context) ([]*models.Item, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockItemRepo) UpdateToken(ctx context.Context, id string, token models.Token) error {
	if m.UpdateTokenFunc != nil {
		return m.UpdateTokenFunc(ctx, id, token)
	}
	return nil
}

// MockEncryptor implements Encryptor
type MockEncryptor struct {
	EncryptFunc func(plaintext string) (string, error)
}

func (m *MockEncryptor) Encrypt(plaintext string) (string, error) {
	if m.EncryptFunc != nil {
		return m.EncryptFunc(plaintext)
	}
	return "enc(" + plaintext + ")", nil
}

func TestExchangePublicToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores Plaintext Without Encryptor", func(t *testing.T) {
		var created models.CreateItemParams
		repo := &MockItemRepo{
			CreateFunc: func(ctx context.Context, params models.CreateItemParams) (*models.Item, error) {
				created = params
				return &models.Item{ID: params.ID, AccessToken: params.AccessToken}, nil
			},
		}

		svc := NewService(&MockClient{}, repo, nil)
		item, err := svc.ExchangePublicToken(ctx, "public-token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.ID != "item-1" {
			t.Errorf("item ID = %s, want item-1", item.ID)
		}
		if created.AccessToken.Plain != "access-token" || created.AccessToken.Encrypted != "" {
			t.Errorf("stored token = %+v, want plaintext only", created.AccessToken)
		}
	})

	t.Run("Stores Only Ciphertext With Encryptor", func(t *testing.T) {
		var created models.CreateItemParams
		repo := &MockItemRepo{
			CreateFunc: func(ctx context.Context, params models.CreateItemParams) (*models.Item, error) {
				created = params
				return &models.Item{ID: params.ID, AccessToken: params.AccessToken}, nil
			},
		}

		svc := NewService(&MockClient{}, repo, &MockEncryptor{})
		if _, err := svc.ExchangePublicToken(ctx, "public-token"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.AccessToken.Plain != "" {
			t.Error("plaintext must not be stored when an encryptor is configured")
		}
		if created.AccessToken.Encrypted != "enc(access-token)" {
			t.Errorf("stored ciphertext = %s, want enc(access-token)", created.AccessToken.Encrypted)
		}
	})

	t.Run("Exchange Failure Propagates", func(t *testing.T) {
		client := &MockClient{
			ExchangePublicTokenFunc: func(ctx context.Context, publicToken string) (*plaid.ExchangeResponse, error) {
				return nil, errors.New("INVALID_PUBLIC_TOKEN")
			},
		}

		svc := NewService(client, &MockItemRepo{}, nil)
		if _, err := svc.ExchangePublicToken(ctx, "bad-token"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestEncryptStoredTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("Migrates Plaintext And Skips Encrypted", func(t *testing.T) {
		updates := map[string]models.Token{}
		repo := &MockItemRepo{
			ListFunc: func(ctx context.Context) ([]*models.Item, error) {
				return []*models.Item{
					{ID: "item-plain", AccessToken: models.Token{Plain: "secret"}},
					{ID: "item-enc", AccessToken: models.Token{Encrypted: "already"}},
				}, nil
			},
			UpdateTokenFunc: func(ctx context.Context, id string, token models.Token) error {
				updates[id] = token
				return nil
			},
		}

		svc := NewService(&MockClient{}, repo, &MockEncryptor{})
		migrated, err := svc.EncryptStoredTokens(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if migrated != 1 {
			t.Errorf("migrated = %d, want 1", migrated)
		}
		token, ok := updates["item-plain"]
		if !ok {
			t.Fatal("expected item-plain to be updated")
		}
		if token.Encrypted != "enc(secret)" || token.Plain != "" {
			t.Errorf("updated token = %+v, want ciphertext only", token)
		}
		if _, ok := updates["item-enc"]; ok {
			t.Error("already-encrypted item must not be rewritten")
		}
	})

	t.Run("Requires Encryption Key", func(t *testing.T) {
		svc := NewService(&MockClient{}, &MockItemRepo{}, nil)
		if _, err := svc.EncryptStoredTokens(ctx); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
