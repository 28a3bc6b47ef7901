package http

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"finhub/internal/domain/ingest"
	"finhub/internal/models"
)

// RunStore lists past ingest runs.
type RunStore interface {
	ListRecent(ctx context.Context, limit int) ([]*models.IngestRun, error)
}

// IngestHandler triggers ingest runs and exposes run history.
type IngestHandler struct {
	ingestService   *ingest.Service
	accountSync     *ingest.AccountSyncService
	runStore        RunStore
	defaultLookback int
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(ingestService *ingest.Service, accountSync *ingest.AccountSyncService, runStore RunStore, defaultLookback int) *IngestHandler {
	return &IngestHandler{
		ingestService:   ingestService,
		accountSync:     accountSync,
		runStore:        runStore,
		defaultLookback: defaultLookback,
	}
}

// HandleIngest runs a synchronous ingest and returns the report. The
// optional lookback query parameter overrides the configured window.
func (h *IngestHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lookback := h.defaultLookback
	if raw := r.URL.Query().Get("lookback"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "lookback must be a positive integer", http.StatusBadRequest)
			return
		}
		lookback = parsed
	}

	report, err := h.ingestService.Ingest(r.Context(), lookback)
	if err != nil {
		log.Printf("Error running ingest: %v", err)
		http.Error(w, "Ingest failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// HandleSyncAccounts refreshes account metadata for every linked item.
func (h *IngestHandler) HandleSyncAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.accountSync.SyncAccounts(r.Context())
	if err != nil {
		log.Printf("Error syncing accounts: %v", err)
		http.Error(w, "Account sync failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleListRuns returns the most recent ingest runs, newest first.
func (h *IngestHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			http.Error(w, "limit must be between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := h.runStore.ListRecent(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing ingest runs: %v", err)
		http.Error(w, "Failed to list ingest runs", http.StatusInternalServerError)
		return
	}

	if runs == nil {
		runs = []*models.IngestRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}
