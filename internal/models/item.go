package models

import (
	"time"
)

// Item represents one authorized connection to a financial institution via
// the aggregation provider. One item can expose multiple accounts
// (e.g., checking + credit card from the same bank).
type Item struct {
	ID          string    `json:"id"` // Provider's itemId
	AccessToken Token     `json:"-"`  // Never exposed in JSON
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateItemParams holds the values persisted on a successful token exchange.
type CreateItemParams struct {
	ID          string
	AccessToken Token
}
