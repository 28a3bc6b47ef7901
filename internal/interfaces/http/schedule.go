package http

import (
	"net/http"
	"time"
)

// JobScheduler is the scheduler surface the handler needs.
type JobScheduler interface {
	TriggerNow()
	NextScheduledTime() time.Time
}

// ScheduleHandler exposes manual control over the background ingest schedule.
type ScheduleHandler struct {
	scheduler JobScheduler
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(scheduler JobScheduler) *ScheduleHandler {
	return &ScheduleHandler{scheduler: scheduler}
}

type ScheduleStatusResponse struct {
	NextRun string `json:"nextRun"`
}

// HandleTrigger queues an immediate run of the scheduled jobs.
// POST /api/schedule/trigger
func (h *ScheduleHandler) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.scheduler.TriggerNow()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "triggered"})
}

// HandleStatus reports the next scheduled run time.
// GET /api/schedule
func (h *ScheduleHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, ScheduleStatusResponse{
		NextRun: h.scheduler.NextScheduledTime().Format(time.RFC3339),
	})
}
