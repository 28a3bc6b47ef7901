package postgres

import (
	"context"
	"fmt"

	"finhub/internal/models"
)

type IngestRunRepository struct {
	db *DB
}

func NewIngestRunRepository(db *DB) *IngestRunRepository {
	return &IngestRunRepository{db: db}
}

// Create records a finished ingest run.
func (r *IngestRunRepository) Create(ctx context.Context, params models.CreateIngestRunParams) (*models.IngestRun, error) {
	query := `
		INSERT INTO ingest_runs (id, start_date, end_date, total_items, total_fetched,
		                         total_inserted, total_categorized, error_count, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
		          total_items, total_fetched, total_inserted, total_categorized, error_count,
		          started_at, finished_at
	`

	var run models.IngestRun
	err := r.db.QueryRowContext(
		ctx, query,
		params.ID, params.StartDate, params.EndDate, params.TotalItems, params.TotalFetched,
		params.TotalInserted, params.TotalCategorized, params.ErrorCount,
		params.StartedAt, params.FinishedAt,
	).Scan(
		&run.ID, &run.StartDate, &run.EndDate, &run.TotalItems, &run.TotalFetched,
		&run.TotalInserted, &run.TotalCategorized, &run.ErrorCount,
		&run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest run: %w", err)
	}

	return &run, nil
}

// ListRecent returns the most recent runs, newest first.
func (r *IngestRunRepository) ListRecent(ctx context.Context, limit int) ([]*models.IngestRun, error) {
	query := `
		SELECT id, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
		       total_items, total_fetched, total_inserted, total_categorized, error_count,
		       started_at, finished_at
		FROM ingest_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.IngestRun
	for rows.Next() {
		var run models.IngestRun
		err := rows.Scan(
			&run.ID, &run.StartDate, &run.EndDate, &run.TotalItems, &run.TotalFetched,
			&run.TotalInserted, &run.TotalCategorized, &run.ErrorCount,
			&run.StartedAt, &run.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingest run: %w", err)
		}
		runs = append(runs, &run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingest runs: %w", err)
	}

	return runs, nil
}
