package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type mockScheduler struct {
	triggered int
	next      time.Time
}

func (m *mockScheduler) TriggerNow()                  { m.triggered++ }
func (m *mockScheduler) NextScheduledTime() time.Time { return m.next }

func TestHandleTrigger(t *testing.T) {
	sched := &mockScheduler{}
	handler := NewScheduleHandler(sched)

	req := httptest.NewRequest(http.MethodPost, "/api/schedule/trigger", nil)
	rr := httptest.NewRecorder()

	handler.HandleTrigger(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusAccepted)
	}
	if sched.triggered != 1 {
		t.Errorf("triggered = %d, want 1", sched.triggered)
	}
}

func TestHandleTrigger_MethodNotAllowed(t *testing.T) {
	sched := &mockScheduler{}
	handler := NewScheduleHandler(sched)

	req := httptest.NewRequest(http.MethodGet, "/api/schedule/trigger", nil)
	rr := httptest.NewRecorder()

	handler.HandleTrigger(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
	if sched.triggered != 0 {
		t.Errorf("triggered = %d, want 0", sched.triggered)
	}
}

func TestHandleStatus(t *testing.T) {
	next := time.Date(2024, 3, 16, 6, 0, 0, 0, time.UTC)
	handler := NewScheduleHandler(&mockScheduler{next: next})

	req := httptest.NewRequest(http.MethodGet, "/api/schedule", nil)
	rr := httptest.NewRecorder()

	handler.HandleStatus(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp ScheduleStatusResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.NextRun != "2024-03-16T06:00:00Z" {
		t.Errorf("NextRun = %q, want %q", resp.NextRun, "2024-03-16T06:00:00Z")
	}
}
