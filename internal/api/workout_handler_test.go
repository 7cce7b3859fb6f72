package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUpdateWorkoutRequestUnmarshal(t *testing.T) {
	t.Run("absent endTime", func(t *testing.T) {
		var req UpdateWorkoutRequest
		if err := json.Unmarshal([]byte(`{"notes":"leg day"}`), &req); err != nil {
			t.Fatalf("Failed to unmarshal: %v", err)
		}
		if req.EndTime != nil || req.ClearEndTime {
			t.Error("an absent endTime must neither set nor clear the field")
		}
		if req.Notes == nil || *req.Notes != "leg day" {
			t.Errorf("expected notes to be set, got %v", req.Notes)
		}
	})

	t.Run("null endTime clears", func(t *testing.T) {
		var req UpdateWorkoutRequest
		if err := json.Unmarshal([]byte(`{"endTime":null}`), &req); err != nil {
			t.Fatalf("Failed to unmarshal: %v", err)
		}
		if !req.ClearEndTime {
			t.Error("expected an explicit null to request clearing")
		}
		if req.EndTime != nil {
			t.Error("expected no end time value")
		}
	})

	t.Run("timestamp endTime sets", func(t *testing.T) {
		var req UpdateWorkoutRequest
		if err := json.Unmarshal([]byte(`{"endTime":"2026-08-31T10:30:00Z"}`), &req); err != nil {
			t.Fatalf("Failed to unmarshal: %v", err)
		}
		if req.ClearEndTime {
			t.Error("a concrete end time must not request clearing")
		}
		want := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
		if req.EndTime == nil || !req.EndTime.Equal(want) {
			t.Errorf("expected end time %v, got %v", want, req.EndTime)
		}
	})

	t.Run("invalid endTime", func(t *testing.T) {
		var req UpdateWorkoutRequest
		if err := json.Unmarshal([]byte(`{"endTime":"not-a-time"}`), &req); err == nil {
			t.Error("expected a malformed end time to be rejected")
		}
	})
}
