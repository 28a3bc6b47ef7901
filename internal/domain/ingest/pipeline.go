// Package ingest implements the fetch-classify-persist pipeline that pulls
// transaction and account data from the aggregation provider for every
// linked item.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"finhub/internal/domain/category"
	"finhub/internal/infrastructure/plaid"
	"finhub/internal/models"
)

const dateFormat = "2006-01-02"

// ItemRepository lists the linked items to ingest.
type ItemRepository interface {
	List(ctx context.Context) ([]*models.Item, error)
}

// TransactionRepository performs the idempotent insert the pipeline is
// built around.
type TransactionRepository interface {
	InsertIfAbsent(ctx context.Context, params models.InsertTransactionParams) (bool, error)
}

// RunRepository records finished runs for auditing.
type RunRepository interface {
	Create(ctx context.Context, params models.CreateIngestRunParams) (*models.IngestRun, error)
}

// Classifier assigns a category label and confidence to transaction text.
type Classifier interface {
	Classify(name, merchant, rawCategory string) (string, float64)
}

// ItemError is one linked item's failure inside an otherwise successful run.
type ItemError struct {
	ItemID  string `json:"itemId"`
	Message string `json:"message"`
}

// Report aggregates one ingest run. TotalInserted and TotalCategorized are
// always equal: every inserted row is classified at insert time.
type Report struct {
	TotalItems       int         `json:"totalItems"`
	TotalFetched     int         `json:"totalFetched"`
	TotalInserted    int         `json:"totalInserted"`
	TotalCategorized int         `json:"totalCategorized"`
	Errors           []ItemError `json:"errors"`
}

// Service orchestrates ingest runs. Items are processed sequentially; one
// item's fetch failure never aborts the others, while a storage failure
// aborts the whole run.
type Service struct {
	client     plaid.ClientInterface
	itemRepo   ItemRepository
	txRepo     TransactionRepository
	runRepo    RunRepository // may be nil; run history is best effort
	classifier Classifier
	decrypter  models.Decrypter // may be nil when no encryption key is configured
	now        func() time.Time
}

// NewService creates an ingest pipeline service.
func NewService(
	client plaid.ClientInterface,
	itemRepo ItemRepository,
	txRepo TransactionRepository,
	runRepo RunRepository,
	classifier Classifier,
	decrypter models.Decrypter,
) *Service {
	if classifier == nil {
		classifier = category.NewClassifier()
	}
	return &Service{
		client:     client,
		itemRepo:   itemRepo,
		txRepo:     txRepo,
		runRepo:    runRepo,
		classifier: classifier,
		decrypter:  decrypter,
		now:        time.Now,
	}
}

// Ingest fetches the trailing lookbackDays window of transactions for every
// linked item, classifies each transaction, and inserts the ones not already
// present. Re-running with an overlapping window never double-counts or
// re-classifies: the insert is keyed on the provider transaction ID.
func (s *Service) Ingest(ctx context.Context, lookbackDays int) (*Report, error) {
	if lookbackDays < 1 {
		return nil, fmt.Errorf("lookback days must be positive, got %d", lookbackDays)
	}

	startedAt := s.now()
	endDate := startedAt.Format(dateFormat)
	startDate := startedAt.AddDate(0, 0, -lookbackDays).Format(dateFormat)

	report := &Report{Errors: []ItemError{}}

	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked items: %w", err)
	}
	report.TotalItems = len(items)

	log.Printf("Ingest starting: %d items, window %s..%s", len(items), startDate, endDate)

	for _, item := range items {
		if err := s.ingestItem(ctx, item, startDate, endDate, report); err != nil {
			return nil, err
		}
		log.Printf("Ingest progress: item %s done, %d fetched / %d inserted so far",
			item.ID, report.TotalFetched, report.TotalInserted)
	}

	log.Printf("Ingest complete: items=%d fetched=%d inserted=%d categorized=%d errors=%d",
		report.TotalItems, report.TotalFetched, report.TotalInserted,
		report.TotalCategorized, len(report.Errors))

	s.recordRun(ctx, startDate, endDate, startedAt, report)

	return report, nil
}

// ingestItem processes one linked item. Fetch and credential faults are
// recorded in the report and swallowed; only storage faults return an error.
func (s *Service) ingestItem(ctx context.Context, item *models.Item, startDate, endDate string, report *Report) error {
	accessToken, err := item.AccessToken.Resolve(s.decrypter)
	if err != nil {
		report.Errors = append(report.Errors, ItemError{ItemID: item.ID, Message: err.Error()})
		log.Printf("Item %s: cannot resolve access token: %v", item.ID, err)
		return nil
	}

	transactions, err := s.client.GetTransactions(ctx, accessToken, startDate, endDate)
	if err != nil {
		report.Errors = append(report.Errors, ItemError{ItemID: item.ID, Message: err.Error()})
		log.Printf("Item %s: fetch failed: %v", item.ID, err)
		return nil
	}

	for i := range transactions {
		tx := &transactions[i]
		report.TotalFetched++

		inserted, err := s.insertTransaction(ctx, item.ID, tx)
		if err != nil {
			// Malformed provider data is an item-level fault; a failed
			// write is a storage fault and aborts the run.
			var parseErr *parseError
			if errors.As(err, &parseErr) {
				msg := fmt.Sprintf("failed to process transaction %s: %v", tx.TransactionID, err)
				report.Errors = append(report.Errors, ItemError{ItemID: item.ID, Message: msg})
				log.Printf("Item %s: %s", item.ID, msg)
				continue
			}
			return err
		}

		if inserted {
			report.TotalInserted++
			report.TotalCategorized++
		}
	}

	return nil
}

func (s *Service) insertTransaction(ctx context.Context, itemID string, tx *plaid.Transaction) (bool, error) {
	postedAt, err := tx.PostedDate()
	if err != nil {
		return false, &parseError{err: err}
	}

	merchant := ""
	if tx.MerchantName != nil {
		merchant = *tx.MerchantName
	}
	rawCategory := tx.CategoryPath()
	raw := ""
	if rawCategory != nil {
		raw = *rawCategory
	}

	label, confidence := s.classifier.Classify(tx.Name, merchant, raw)

	return s.txRepo.InsertIfAbsent(ctx, models.InsertTransactionParams{
		ID:          tx.TransactionID,
		AccountID:   tx.AccountID,
		ItemID:      itemID,
		Description: tx.Name,
		Merchant:    tx.MerchantName,
		Amount:      tx.Amount,
		Currency:    tx.ISOCurrencyCode,
		PostedAt:    postedAt,
		RawCategory: rawCategory,
		Category:    label,
		Confidence:  confidence,
	})
}

// recordRun persists run history. Failures here are logged, not fatal: the
// report already went back to the caller's hands.
func (s *Service) recordRun(ctx context.Context, startDate, endDate string, startedAt time.Time, report *Report) {
	if s.runRepo == nil {
		return
	}

	_, err := s.runRepo.Create(ctx, models.CreateIngestRunParams{
		ID:               uuid.NewString(),
		StartDate:        startDate,
		EndDate:          endDate,
		TotalItems:       report.TotalItems,
		TotalFetched:     report.TotalFetched,
		TotalInserted:    report.TotalInserted,
		TotalCategorized: report.TotalCategorized,
		ErrorCount:       len(report.Errors),
		StartedAt:        startedAt,
		FinishedAt:       s.now(),
	})
	if err != nil {
		log.Printf("Warning: failed to record ingest run: %v", err)
	}
}
