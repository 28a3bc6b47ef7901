package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single posted transaction. The provider transaction ID is
// the primary key and the dedup key: rows are insert-if-absent and never
// re-classified on re-ingest.
type Transaction struct {
	ID          string          `json:"id"` // Provider's transactionId
	AccountID   string          `json:"accountId"`
	ItemID      string          `json:"itemId"`
	Description string          `json:"description"`
	Merchant    *string         `json:"merchant,omitempty"`
	Amount      decimal.Decimal `json:"amount"` // Provider sign convention: positive = money out
	Currency    string          `json:"currency"`
	PostedAt    time.Time       `json:"postedAt"` // Calendar date, not time of day
	RawCategory *string         `json:"rawCategory,omitempty"`
	Category    string          `json:"category"`
	Confidence  float64         `json:"confidence"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type InsertTransactionParams struct {
	ID          string
	AccountID   string
	ItemID      string
	Description string
	Merchant    *string
	Amount      decimal.Decimal
	Currency    string
	PostedAt    time.Time
	RawCategory *string
	Category    string
	Confidence  float64
}
