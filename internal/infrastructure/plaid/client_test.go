package plaid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{Environment: Sandbox, ClientID: "cid", Secret: "sec"})
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	client.baseURL = srv.URL
	return client
}

func TestNewClient_UnknownEnvironment(t *testing.T) {
	_, err := NewClient(Config{Environment: "staging"})
	if err == nil {
		t.Fatal("NewClient() accepted unknown environment")
	}
}

func TestExchangePublicToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != exchangePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if body["client_id"] != "cid" || body["secret"] != "sec" {
			t.Error("credentials missing from request body")
		}
		if body["public_token"] != "public-abc" {
			t.Errorf("public_token = %v, expected public-abc", body["public_token"])
		}

		json.NewEncoder(w).Encode(ExchangeResponse{AccessToken: "access-123", ItemID: "item-1"})
	})

	resp, err := client.ExchangePublicToken(context.Background(), "public-abc")
	if err != nil {
		t.Fatalf("ExchangePublicToken() failed: %v", err)
	}
	if resp.AccessToken != "access-123" || resp.ItemID != "item-1" {
		t.Errorf("ExchangePublicToken() = %+v, expected access-123/item-1", resp)
	}
}

func TestGetTransactions_Pagination(t *testing.T) {
	const total = 250

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			StartDate string `json:"start_date"`
			EndDate   string `json:"end_date"`
			Options   struct {
				Count  int `json:"count"`
				Offset int `json:"offset"`
			} `json:"options"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if body.StartDate != "2026-07-01" || body.EndDate != "2026-07-31" {
			t.Errorf("unexpected window %s..%s", body.StartDate, body.EndDate)
		}

		page := TransactionsResponse{TotalTransactions: total}
		for i := body.Options.Offset; i < total && i < body.Options.Offset+body.Options.Count; i++ {
			page.Transactions = append(page.Transactions, Transaction{
				TransactionID: fmt.Sprintf("tx-%d", i),
				Date:          "2026-07-15",
			})
		}
		json.NewEncoder(w).Encode(page)
	})

	txs, err := client.GetTransactions(context.Background(), "access-123", "2026-07-01", "2026-07-31")
	if err != nil {
		t.Fatalf("GetTransactions() failed: %v", err)
	}
	if len(txs) != total {
		t.Errorf("GetTransactions() returned %d transactions, expected %d", len(txs), total)
	}
	if txs[0].TransactionID != "tx-0" || txs[total-1].TransactionID != fmt.Sprintf("tx-%d", total-1) {
		t.Error("GetTransactions() pages out of order")
	}
}

func TestGetTransactions_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{
			ErrorType:    "ITEM_ERROR",
			ErrorCode:    "ITEM_LOGIN_REQUIRED",
			ErrorMessage: "the login details of this item have changed",
		})
	})

	_, err := client.GetTransactions(context.Background(), "access-stale", "2026-07-01", "2026-07-31")
	if err == nil {
		t.Fatal("GetTransactions() expected error, got nil")
	}
}

func TestTransaction_Helpers(t *testing.T) {
	tx := Transaction{Date: "2026-08-30", Category: []string{"Food and Drink", "Coffee Shop"}}

	posted, err := tx.PostedDate()
	if err != nil {
		t.Fatalf("PostedDate() failed: %v", err)
	}
	if posted.Format("2006-01-02") != "2026-08-30" {
		t.Errorf("PostedDate() = %s", posted)
	}

	if got := tx.CategoryPath(); got == nil || *got != "Food and Drink,Coffee Shop" {
		t.Errorf("CategoryPath() = %v", got)
	}

	empty := Transaction{Date: "not-a-date"}
	if _, err := empty.PostedDate(); err == nil {
		t.Error("PostedDate() accepted malformed date")
	}
	if empty.CategoryPath() != nil {
		t.Error("CategoryPath() should be nil for no categories")
	}
}
