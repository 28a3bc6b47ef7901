package main

import (
	"net/http"

	httphandlers "finhub/internal/interfaces/http"
	"finhub/internal/interfaces/scheduler"
	"finhub/internal/shared/config"
	"finhub/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with
// middleware applied. sched may be nil when the scheduler is disabled; the
// schedule routes are only registered when it is running.
func SetupRoutes(deps *Dependencies, cfg *config.Config, sched *scheduler.Scheduler) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", handleHealth)

	// API routes
	apiKey := middleware.APIKey(cfg.Server.APIKey)

	mux.Handle("/api/link/token", apiKey(http.HandlerFunc(deps.LinkHandler.HandleCreateLinkToken)))
	mux.Handle("/api/link/exchange", apiKey(http.HandlerFunc(deps.LinkHandler.HandleExchange)))
	mux.Handle("/api/ingest", apiKey(http.HandlerFunc(deps.IngestHandler.HandleIngest)))
	mux.Handle("/api/ingest/runs", apiKey(http.HandlerFunc(deps.IngestHandler.HandleListRuns)))
	mux.Handle("/api/accounts", apiKey(http.HandlerFunc(deps.AccountHandler.HandleListAccounts)))
	mux.Handle("/api/accounts/sync", apiKey(http.HandlerFunc(deps.IngestHandler.HandleSyncAccounts)))
	mux.Handle("/api/accounts/{id}", apiKey(http.HandlerFunc(deps.AccountHandler.HandleAccountByID)))
	mux.Handle("/api/transactions", apiKey(http.HandlerFunc(deps.TransactionHandler.HandleListTransactions)))
	mux.Handle("/api/transactions/{id}", apiKey(http.HandlerFunc(deps.TransactionHandler.HandleTransactionByID)))

	if sched != nil {
		scheduleHandler := httphandlers.NewScheduleHandler(sched)
		mux.Handle("/api/schedule", apiKey(http.HandlerFunc(scheduleHandler.HandleStatus)))
		mux.Handle("/api/schedule/trigger", apiKey(http.HandlerFunc(scheduleHandler.HandleTrigger)))
	}

	// Apply global middleware
	return middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(middleware.Tracing(mux)))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
