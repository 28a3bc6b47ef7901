package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"finhub/internal/models"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, account_id, item_id, description, merchant, amount, currency,
	       posted_at, raw_category, category, confidence, created_at`

func scanTransaction(scan func(dest ...any) error) (*models.Transaction, error) {
	var tx models.Transaction
	err := scan(
		&tx.ID, &tx.AccountID, &tx.ItemID, &tx.Description, &tx.Merchant,
		&tx.Amount, &tx.Currency, &tx.PostedAt, &tx.RawCategory,
		&tx.Category, &tx.Confidence, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// InsertIfAbsent performs the idempotent insert the pipeline relies on:
// a row whose provider transaction ID already exists is left untouched,
// category and confidence included. Returns whether a new row was written.
func (r *TransactionRepository) InsertIfAbsent(ctx context.Context, params models.InsertTransactionParams) (bool, error) {
	query := `
		INSERT INTO transactions (id, account_id, item_id, description, merchant, amount,
		                          currency, posted_at, raw_category, category, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := r.db.ExecContext(
		ctx, query,
		params.ID, params.AccountID, params.ItemID, params.Description, params.Merchant,
		params.Amount, params.Currency, params.PostedAt, params.RawCategory,
		params.Category, params.Confidence,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows == 1, nil
}

// GetByID returns the transaction, or (nil, nil) when absent.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// List returns transactions newest first with limit/offset paging.
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY posted_at DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryList(ctx, query, limit, offset)
}

// ListByAccountID returns an account's transactions newest first.
func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY posted_at DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryList(ctx, query, accountID, limit, offset)
}

// ListAll returns every transaction ordered by posted date, for export.
func (r *TransactionRepository) ListAll(ctx context.Context) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY posted_at ASC, id ASC
	`
	return r.queryList(ctx, query)
}

// Count returns the total number of stored transactions.
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *TransactionRepository) queryList(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
