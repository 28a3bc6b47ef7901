package plaid

import (
	"context"
)

// ClientInterface defines the methods required from the aggregation
// provider API client.
type ClientInterface interface {
	CreateLinkToken(ctx context.Context, userID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error)
	GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error)
	GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]Transaction, error)
}
