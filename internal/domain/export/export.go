// Package export writes the transaction ledger to CSV with a checksum
// manifest, so an export can later be verified against tampering or
// truncation.
package export

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"finhub/internal/models"
)

// Header is the CSV header for transactions.csv.
const Header = "transaction_id,account_id,item_id,posted_at,description,merchant,amount,currency,raw_category,category,confidence"

const (
	transactionsFile = "transactions.csv"
	manifestFile     = "SHA256SUMS"
	dateFormat       = "2006-01-02"
)

// TransactionRepository supplies the full ledger for export.
type TransactionRepository interface {
	ListAll(ctx context.Context) ([]*models.Transaction, error)
}

// Result describes a completed export.
type Result struct {
	Path     string `json:"path"`
	Rows     int    `json:"rows"`
	Checksum string `json:"checksum"`
}

// Service exports and audits transaction CSV snapshots.
type Service struct {
	txRepo TransactionRepository
}

// NewService creates an export service.
func NewService(txRepo TransactionRepository) *Service {
	return &Service{txRepo: txRepo}
}

// WriteCSV writes the full ledger as CSV (including header) and returns the
// number of data rows written.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer) (int, error) {
	transactions, err := s.txRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range transactions {
		if err := cw.Write(marshalTransaction(tx)); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return len(transactions), cw.Error()
}

// ExportDir writes transactions.csv and a SHA256SUMS manifest into dir,
// creating it if needed.
func (s *Service) ExportDir(ctx context.Context, dir string) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	csvPath := filepath.Join(dir, transactionsFile)
	f, err := os.Create(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", csvPath, err)
	}

	hash := sha256.New()
	rows, err := s.WriteCSV(ctx, io.MultiWriter(f, hash))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	checksum := hex.EncodeToString(hash.Sum(nil))
	manifest := fmt.Sprintf("%s  %s\n", checksum, transactionsFile)
	if err := os.WriteFile(filepath.Join(dir, manifestFile), []byte(manifest), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	return &Result{Path: csvPath, Rows: rows, Checksum: checksum}, nil
}

// Audit recomputes the checksum of a previously exported directory and
// compares it against the manifest.
func (s *Service) Audit(dir string) error {
	manifest, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	fields := strings.Fields(string(manifest))
	if len(fields) != 2 || fields[1] != transactionsFile {
		return fmt.Errorf("malformed manifest in %s", dir)
	}
	want := fields[0]

	data, err := os.ReadFile(filepath.Join(dir, transactionsFile))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", transactionsFile, err)
	}

	sum := sha256.Sum256(data)
	got := hex.EncodeToString(sum[:])
	if got != want {
		return fmt.Errorf("checksum mismatch for %s: manifest %s, computed %s", transactionsFile, want, got)
	}
	return nil
}

func marshalTransaction(tx *models.Transaction) []string {
	merchant := ""
	if tx.Merchant != nil {
		merchant = *tx.Merchant
	}
	rawCategory := ""
	if tx.RawCategory != nil {
		rawCategory = *tx.RawCategory
	}
	return []string{
		tx.ID,
		tx.AccountID,
		tx.ItemID,
		tx.PostedAt.Format(dateFormat),
		tx.Description,
		merchant,
		tx.Amount.String(),
		tx.Currency,
		rawCategory,
		tx.Category,
		strconv.FormatFloat(tx.Confidence, 'f', -1, 64),
	}
}
