package http

import (
	"context"
	"log"
	"net/http"

	"finhub/internal/models"
)

// AccountStore reads persisted accounts.
type AccountStore interface {
	List(ctx context.Context) ([]*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
}

// AccountHandler exposes the persisted accounts.
type AccountHandler struct {
	accountStore AccountStore
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accountStore AccountStore) *AccountHandler {
	return &AccountHandler{accountStore: accountStore}
}

// HandleListAccounts returns all accounts across all linked items.
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accounts, err := h.accountStore.List(r.Context())
	if err != nil {
		log.Printf("Error listing accounts: %v", err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}

	if accounts == nil {
		accounts = []*models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// HandleAccountByID returns one account.
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	account, err := h.accountStore.GetByID(r.Context(), accountID)
	if err != nil {
		log.Printf("Error fetching account %s: %v", accountID, err)
		http.Error(w, "Failed to fetch account", http.StatusInternalServerError)
		return
	}
	if account == nil {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, account)
}
