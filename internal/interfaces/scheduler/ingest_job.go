package scheduler

import (
	"context"
	"fmt"
	"log"

	"finhub/internal/domain/ingest"
)

// IngestJob refreshes account metadata and then ingests the trailing
// transaction window. Account sync runs first so new accounts are known
// before their transactions land.
type IngestJob struct {
	ingestService *ingest.Service
	accountSync   *ingest.AccountSyncService
	lookbackDays  int
}

// NewIngestJob creates the daily ingest job.
func NewIngestJob(ingestService *ingest.Service, accountSync *ingest.AccountSyncService, lookbackDays int) *IngestJob {
	return &IngestJob{
		ingestService: ingestService,
		accountSync:   accountSync,
		lookbackDays:  lookbackDays,
	}
}

// Execute runs the job.
func (j *IngestJob) Execute(ctx context.Context) error {
	if j.accountSync != nil {
		syncResult, err := j.accountSync.SyncAccounts(ctx)
		if err != nil {
			return fmt.Errorf("account sync failed: %w", err)
		}
		if len(syncResult.Errors) > 0 {
			log.Printf("Scheduled account sync completed with %d item errors", len(syncResult.Errors))
		}
	}

	report, err := j.ingestService.Ingest(ctx, j.lookbackDays)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if len(report.Errors) > 0 {
		// Surface partial failure so the pool records the job as errored
		// and the next scheduled run retries those items.
		return fmt.Errorf("ingest completed with %d item errors (inserted %d)", len(report.Errors), report.TotalInserted)
	}

	log.Printf("Scheduled ingest completed: fetched=%d inserted=%d", report.TotalFetched, report.TotalInserted)
	return nil
}

// Description returns a human-readable description of the job.
func (j *IngestJob) Description() string {
	return fmt.Sprintf("daily ingest (%d day lookback)", j.lookbackDays)
}
