package http

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"finhub/internal/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// TransactionStore reads the persisted ledger.
type TransactionStore interface {
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*models.Transaction, error)
	ListByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*models.Transaction, error)
	Count(ctx context.Context) (int64, error)
}

// TransactionHandler exposes the classified ledger.
type TransactionHandler struct {
	txStore TransactionStore
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(txStore TransactionStore) *TransactionHandler {
	return &TransactionHandler{txStore: txStore}
}

// TransactionPage is one page of the ledger, newest first.
type TransactionPage struct {
	Transactions []*models.Transaction `json:"transactions"`
	Total        int64                 `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// HandleListTransactions returns a page of transactions, optionally scoped
// to one account via the accountId query parameter.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var transactions []*models.Transaction
	if accountID := r.URL.Query().Get("accountId"); accountID != "" {
		transactions, err = h.txStore.ListByAccountID(r.Context(), accountID, limit, offset)
	} else {
		transactions, err = h.txStore.List(r.Context(), limit, offset)
	}
	if err != nil {
		log.Printf("Error listing transactions: %v", err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	total, err := h.txStore.Count(r.Context())
	if err != nil {
		log.Printf("Error counting transactions: %v", err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	writeJSON(w, http.StatusOK, TransactionPage{
		Transactions: transactions,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	})
}

// HandleTransactionByID returns one transaction.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	txID := r.PathValue("id")
	if txID == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	tx, err := h.txStore.GetByID(r.Context(), txID)
	if err != nil {
		log.Printf("Error fetching transaction %s: %v", txID, err)
		http.Error(w, "Failed to fetch transaction", http.StatusInternalServerError)
		return
	}
	if tx == nil {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

func parsePagination(r *http.Request) (limit, offset int, err error) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageSize {
			return 0, 0, errInvalidLimit
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, errInvalidOffset
		}
	}
	return limit, offset, nil
}
