package models

import (
	"testing"
	"time"
)

func TestEventFilterMatches(t *testing.T) {
	now := time.Now()
	event := TrackingEvent{
		DisputeID: "d1",
		Type:      EventEscalation,
		Severity:  SeverityCritical,
		UserID:    "u1",
		Timestamp: now,
	}

	tests := []struct {
		name   string
		filter EventFilter
		want   bool
	}{
		{"empty filter matches", EventFilter{}, true},
		{"dispute match", EventFilter{DisputeID: "d1"}, true},
		{"dispute mismatch", EventFilter{DisputeID: "d2"}, false},
		{"type and severity", EventFilter{Type: EventEscalation, Severity: SeverityCritical}, true},
		{"severity mismatch", EventFilter{Severity: SeverityLow}, false},
		{"user match", EventFilter{UserID: "u1"}, true},
		{"from before timestamp", EventFilter{From: now.Add(-time.Hour)}, true},
		{"from after timestamp", EventFilter{From: now.Add(time.Hour)}, false},
		{"to after timestamp", EventFilter{To: now.Add(time.Hour)}, true},
		{"to before timestamp", EventFilter{To: now.Add(-time.Hour)}, false},
		{"window", EventFilter{From: now.Add(-time.Hour), To: now.Add(time.Hour)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(event); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}
