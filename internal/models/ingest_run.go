package models

import (
	"time"
)

// IngestRun records one completed ingest run for auditing. The counters
// mirror the report returned to the caller.
type IngestRun struct {
	ID               string    `json:"id"`
	StartDate        string    `json:"startDate"` // YYYY-MM-DD window bounds
	EndDate          string    `json:"endDate"`
	TotalItems       int       `json:"totalItems"`
	TotalFetched     int       `json:"totalFetched"`
	TotalInserted    int       `json:"totalInserted"`
	TotalCategorized int       `json:"totalCategorized"`
	ErrorCount       int       `json:"errorCount"`
	StartedAt        time.Time `json:"startedAt"`
	FinishedAt       time.Time `json:"finishedAt"`
}

type CreateIngestRunParams struct {
	ID               string
	StartDate        string
	EndDate          string
	TotalItems       int
	TotalFetched     int
	TotalInserted    int
	TotalCategorized int
	ErrorCount       int
	StartedAt        time.Time
	FinishedAt       time.Time
}
