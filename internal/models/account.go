package models

import (
	"time"
)

// Account is a financial account under an Item. Attributes are replaced
// wholesale on every sync (last-write-wins by provider account ID).
type Account struct {
	ID        string    `json:"id"` // Provider's accountId
	ItemID    string    `json:"itemId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Subtype   string    `json:"subtype"`
	Mask      string    `json:"mask"` // Last 4 digits, display only
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UpsertAccountParams struct {
	ID      string
	ItemID  string
	Name    string
	Type    string
	Subtype string
	Mask    string
}
