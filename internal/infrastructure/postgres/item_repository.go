package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"finhub/internal/models"
)

type ItemRepository struct {
	db *DB
}

func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create persists a linked item after a successful token exchange.
// The items.id column is the provider's itemId (PRIMARY KEY). Re-exchanging
// a link for an already-known item rotates the stored token; created_at is
// preserved.
func (r *ItemRepository) Create(ctx context.Context, params models.CreateItemParams) (*models.Item, error) {
	query := `
		INSERT INTO plaid_items (id, access_token, access_token_enc)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
		    access_token = EXCLUDED.access_token,
		    access_token_enc = EXCLUDED.access_token_enc
		RETURNING id, access_token, access_token_enc, created_at
	`

	var item models.Item
	err := r.db.QueryRowContext(ctx, query, params.ID, params.AccessToken.Plain, params.AccessToken.Encrypted).Scan(
		&item.ID, &item.AccessToken.Plain, &item.AccessToken.Encrypted, &item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return &item, nil
}

// GetByID returns the item, or (nil, nil) when absent.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query := `
		SELECT id, access_token, access_token_enc, created_at
		FROM plaid_items
		WHERE id = $1
	`

	var item models.Item
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.AccessToken.Plain, &item.AccessToken.Encrypted, &item.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &item, nil
}

// List retrieves all linked items, oldest link first.
func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	query := `
		SELECT id, access_token, access_token_enc, created_at
		FROM plaid_items
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		var item models.Item
		err := rows.Scan(&item.ID, &item.AccessToken.Plain, &item.AccessToken.Encrypted, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// UpdateToken replaces both token columns for an item. Used by the
// encryption migration to move a plaintext token into the encrypted column.
func (r *ItemRepository) UpdateToken(ctx context.Context, id string, token models.Token) error {
	query := `
		UPDATE plaid_items
		SET access_token = $1, access_token_enc = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, token.Plain, token.Encrypted, id)
	if err != nil {
		return fmt.Errorf("failed to update item token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("item not found")
	}

	return nil
}
