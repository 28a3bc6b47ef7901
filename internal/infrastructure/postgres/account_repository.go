package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"finhub/internal/models"
)

type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Upsert creates or refreshes an account keyed on the provider account ID.
// Last write wins; no attribute history is kept.
func (r *AccountRepository) Upsert(ctx context.Context, params models.UpsertAccountParams) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, item_id, name, type, subtype, mask)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
		    item_id = EXCLUDED.item_id,
		    name = EXCLUDED.name,
		    type = EXCLUDED.type,
		    subtype = EXCLUDED.subtype,
		    mask = EXCLUDED.mask,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING id, item_id, name, type, subtype, mask, created_at, updated_at
	`

	var account models.Account
	err := r.db.QueryRowContext(
		ctx, query,
		params.ID, params.ItemID, params.Name, params.Type, params.Subtype, params.Mask,
	).Scan(
		&account.ID, &account.ItemID, &account.Name, &account.Type,
		&account.Subtype, &account.Mask, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}

	return &account, nil
}

// GetByID returns the account, or (nil, nil) when absent.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, item_id, name, type, subtype, mask, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var account models.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.ItemID, &account.Name, &account.Type,
		&account.Subtype, &account.Mask, &account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

// List retrieves all accounts across all items.
func (r *AccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT id, item_id, name, type, subtype, mask, created_at, updated_at
		FROM accounts
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.ID, &account.ItemID, &account.Name, &account.Type,
			&account.Subtype, &account.Mask, &account.CreatedAt, &account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}
