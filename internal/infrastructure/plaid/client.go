// Package plaid implements the client for the bank-aggregation provider API.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultTimeout = 60 * time.Second

	linkTokenPath    = "/link/token/create"
	exchangePath     = "/item/public_token/exchange"
	accountsPath     = "/accounts/get"
	transactionsPath = "/transactions/get"

	// Provider page size cap for /transactions/get.
	transactionsPageSize = 100
)

// Environment selects which provider deployment the client talks to.
type Environment string

const (
	Sandbox     Environment = "sandbox"
	Development Environment = "development"
	Production  Environment = "production"
)

var environmentHosts = map[Environment]string{
	Sandbox:     "https://sandbox.plaid.com",
	Development: "https://development.plaid.com",
	Production:  "https://production.plaid.com",
}

// Config holds the provider credentials and environment selector.
type Config struct {
	Environment Environment
	ClientID    string
	Secret      string
	Timeout     time.Duration // zero means defaultTimeout
}

// Client handles communication with the aggregation provider API.
// All calls are POSTs with the client credentials in the JSON body.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a provider API client for the configured environment.
func NewClient(cfg Config) (*Client, error) {
	baseURL, ok := environmentHosts[cfg.Environment]
	if !ok {
		return nil, fmt.Errorf("unknown provider environment %q", cfg.Environment)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		clientID:   cfg.ClientID,
		secret:     cfg.Secret,
	}, nil
}

// Account represents an account as returned by the provider.
type Account struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Subtype   string `json:"subtype"`
	Mask      string `json:"mask"` // Last 4 digits
}

// Transaction represents a posted transaction as returned by the provider.
// Amount follows the provider sign convention: positive = money leaving
// the account.
type Transaction struct {
	TransactionID   string          `json:"transaction_id"`
	AccountID       string          `json:"account_id"`
	Name            string          `json:"name"`
	MerchantName    *string         `json:"merchant_name"`
	Amount          decimal.Decimal `json:"amount"`
	ISOCurrencyCode string          `json:"iso_currency_code"`
	Date            string          `json:"date"` // "2006-01-02" calendar date
	Category        []string        `json:"category"`
}

// PostedDate parses the provider's calendar-date field.
func (t *Transaction) PostedDate() (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date '%s': %w", t.Date, err)
	}
	return parsed, nil
}

// CategoryPath returns the provider category hierarchy joined with commas,
// or nil when the provider supplied none.
func (t *Transaction) CategoryPath() *string {
	if len(t.Category) == 0 {
		return nil
	}
	joined := strings.Join(t.Category, ",")
	return &joined
}

// LinkTokenResponse is the response to /link/token/create.
type LinkTokenResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
}

// ExchangeResponse is the response to /item/public_token/exchange.
type ExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// AccountsResponse is the response to /accounts/get.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// TransactionsResponse is one page of /transactions/get.
type TransactionsResponse struct {
	Transactions      []Transaction `json:"transactions"`
	TotalTransactions int           `json:"total_transactions"`
}

// ErrorResponse is the provider's error envelope.
type ErrorResponse struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// post sends a JSON request with client credentials merged into the body and
// decodes the response into out.
func (c *Client) post(ctx context.Context, path string, body map[string]any, out any) error {
	payload := map[string]any{
		"client_id": c.clientID,
		"secret":    c.secret,
	}
	for k, v := range body {
		payload[k] = v
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil {
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("API error (status %d): %s/%s - %s",
			resp.StatusCode, errResp.ErrorType, errResp.ErrorCode, errResp.ErrorMessage)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// CreateLinkToken requests a short-lived token for the client-side linking
// handshake.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	var resp LinkTokenResponse
	err := c.post(ctx, linkTokenPath, map[string]any{
		"user":          map[string]any{"client_user_id": userID},
		"client_name":   "finhub",
		"products":      []string{"transactions"},
		"country_codes": []string{"US"},
		"language":      "en",
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken trades the public token from a completed link handshake
// for a long-lived access token and item ID. Called once per new link.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error) {
	var resp ExchangeResponse
	if err := c.post(ctx, exchangePath, map[string]any{"public_token": publicToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAccounts fetches all accounts reachable through an access token.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error) {
	var resp AccountsResponse
	if err := c.post(ctx, accountsPath, map[string]any{"access_token": accessToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTransactions fetches every transaction in [startDate, endDate]
// (inclusive calendar dates, "2006-01-02" format), following the provider's
// offset pagination until total_transactions is reached.
func (c *Client) GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]Transaction, error) {
	var all []Transaction

	for {
		var page TransactionsResponse
		err := c.post(ctx, transactionsPath, map[string]any{
			"access_token": accessToken,
			"start_date":   startDate,
			"end_date":     endDate,
			"options": map[string]any{
				"count":  transactionsPageSize,
				"offset": len(all),
			},
		}, &page)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Transactions...)

		if len(all) >= page.TotalTransactions || len(page.Transactions) == 0 {
			return all, nil
		}
	}
}
