package ingest

import (
	"context"
	"errors"
	"testing"

	"finhub/internal/infrastructure/plaid"
	"finhub/internal/models"
)

// MockAccountRepo implements AccountRepository
type MockAccountRepo struct {
	UpsertFunc func(ctx context.Context, params models.UpsertAccountParams) (*models.Account, error)
}

func (m *MockAccountRepo) Upsert(ctx context.Context, params models.UpsertAccountParams) (*models.Account, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, params)
	}
	return &models.Account{ID: params.ID}, nil
}

func TestSyncAccounts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		mockItems      func() *MockItemRepo
		mockClient     func() *MockClient
		mockAccRepo    func() *MockAccountRepo
		wantErr        bool
		wantUpserted   int
		wantItemErrors int
	}{
		{
			name: "Success - Upsert Accounts For All Items",
			mockItems: func() *MockItemRepo {
				return &MockItemRepo{
					ListFunc: func(ctx context.Context) ([]*models.Item, error) {
						return []*models.Item{
							plainItem("item-1", "token-1"),
							plainItem("item-2", "token-2"),
						}, nil
					},
				}
			},
			mockClient: func() *MockClient {
				return &MockClient{
					GetAccountsFunc: func(ctx context.Context, accessToken string) (*plaid.AccountsResponse, error) {
						return &plaid.AccountsResponse{
							Accounts: []plaid.Account{
								{AccountID: "acc-" + accessToken, Name: "Checking", Type: "depository", Subtype: "checking", Mask: "0000"},
							},
						}, nil
					},
				}
			},
			mockAccRepo:  func() *MockAccountRepo { return &MockAccountRepo{} },
			wantUpserted: 2,
		},
		{
			name: "Success - One Item Fails, Others Continue",
			mockItems: func() *MockItemRepo {
				return &MockItemRepo{
					ListFunc: func(ctx context.Context) ([]*models.Item, error) {
						return []*models.Item{
							plainItem("item-a", "token-a"),
							plainItem("item-b", "token-b"),
						}, nil
					},
				}
			},
			mockClient: func() *MockClient {
				return &MockClient{
					GetAccountsFunc: func(ctx context.Context, accessToken string) (*plaid.AccountsResponse, error) {
						if accessToken == "token-a" {
							return nil, errors.New("ITEM_LOGIN_REQUIRED")
						}
						return &plaid.AccountsResponse{
							Accounts: []plaid.Account{
								{AccountID: "acc-b", Name: "Savings", Type: "depository", Subtype: "savings", Mask: "1111"},
							},
						}, nil
					},
				}
			},
			mockAccRepo:    func() *MockAccountRepo { return &MockAccountRepo{} },
			wantUpserted:   1,
			wantItemErrors: 1,
		},
		{
			name: "Error - Upsert Failure Aborts",
			mockItems: func() *MockItemRepo {
				return &MockItemRepo{
					ListFunc: func(ctx context.Context) ([]*models.Item, error) {
						return []*models.Item{plainItem("item-1", "token-1")}, nil
					},
				}
			},
			mockClient: func() *MockClient {
				return &MockClient{
					GetAccountsFunc: func(ctx context.Context, accessToken string) (*plaid.AccountsResponse, error) {
						return &plaid.AccountsResponse{
							Accounts: []plaid.Account{
								{AccountID: "acc-1", Name: "Checking"},
							},
						}, nil
					},
				}
			},
			mockAccRepo: func() *MockAccountRepo {
				return &MockAccountRepo{
					UpsertFunc: func(ctx context.Context, params models.UpsertAccountParams) (*models.Account, error) {
						return nil, errors.New("disk full")
					},
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAccountSyncService(tt.mockClient(), tt.mockItems(), tt.mockAccRepo(), nil)

			result, err := svc.SyncAccounts(ctx)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Upserted != tt.wantUpserted {
				t.Errorf("Upserted = %d, want %d", result.Upserted, tt.wantUpserted)
			}
			if len(result.Errors) != tt.wantItemErrors {
				t.Errorf("len(Errors) = %d, want %d", len(result.Errors), tt.wantItemErrors)
			}
		})
	}
}
