package services

import (
	"testing"

	"disputetrack/models"
	"disputetrack/repositories"
)

func TestAppendFinalizesEvent(t *testing.T) {
	service := NewTrackingService(repositories.NewEventRepository(100))

	event, err := service.Append(models.TrackingEvent{
		DisputeID: "d1",
		Type:      models.EventMessageAdded,
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	if event.ID == "" {
		t.Error("expected an assigned id")
	}
	if event.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
	if event.Severity != models.SeverityMedium {
		t.Errorf("default severity = %s, want MEDIUM", event.Severity)
	}
}

func TestAppendDropsMalformedEvents(t *testing.T) {
	repo := repositories.NewEventRepository(100)
	service := NewTrackingService(repo)

	tests := []struct {
		name  string
		event models.TrackingEvent
	}{
		{"missing dispute id", models.TrackingEvent{Type: models.EventStatusChange}},
		{"missing type", models.TrackingEvent{DisputeID: "d1"}},
		{"missing both", models.TrackingEvent{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Append(tt.event); err == nil {
				t.Error("expected a malformed event error")
			}
		})
	}

	if repo.Len() != 0 {
		t.Errorf("malformed events must not be stored, log has %d", repo.Len())
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	service := NewTrackingService(repositories.NewEventRepository(100))

	var received []string
	unsubscribe := service.Subscribe(func(event models.TrackingEvent) {
		received = append(received, event.DisputeID)
	})

	service.Append(models.TrackingEvent{DisputeID: "d1", Type: models.EventMessageAdded})
	unsubscribe()
	service.Append(models.TrackingEvent{DisputeID: "d2", Type: models.EventMessageAdded})

	if len(received) != 1 || received[0] != "d1" {
		t.Errorf("expected exactly the pre-unsubscribe event, got %v", received)
	}
}

func TestClearListeners(t *testing.T) {
	service := NewTrackingService(repositories.NewEventRepository(100))

	var received int
	service.Subscribe(func(models.TrackingEvent) { received++ })
	service.Subscribe(func(models.TrackingEvent) { received++ })

	service.ClearListeners()
	service.Append(models.TrackingEvent{DisputeID: "d1", Type: models.EventMessageAdded})

	if received != 0 {
		t.Errorf("received = %d, want 0 after clearing listeners", received)
	}
}

func TestListenerFailureIsolation(t *testing.T) {
	repo := repositories.NewEventRepository(100)
	service := NewTrackingService(repo)

	service.Subscribe(func(models.TrackingEvent) {
		panic("listener blew up")
	})
	var survived bool
	service.Subscribe(func(models.TrackingEvent) {
		survived = true
	})

	if _, err := service.Append(models.TrackingEvent{DisputeID: "d1", Type: models.EventEscalation}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	if !survived {
		t.Error("expected the second listener to run despite the first panicking")
	}
	if repo.Len() != 1 {
		t.Errorf("expected the event to be stored, log has %d", repo.Len())
	}
}

func TestSeverityForStatusChange(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{models.DisputeStatusOpen, models.SeverityCritical},
		{models.DisputeStatusInReview, models.SeverityCritical},
		{models.DisputeStatusResolved, models.SeverityHigh},
		{models.DisputeStatusClosed, models.SeverityHigh},
		{"SOMETHING_ELSE", models.SeverityMedium},
	}

	for _, tt := range tests {
		if got := SeverityForStatusChange(tt.status); got != tt.want {
			t.Errorf("SeverityForStatusChange(%s) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestSeverityForPriorityChange(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want string
	}{
		{"raise", models.DisputePriorityLow, models.DisputePriorityUrgent, models.SeverityHigh},
		{"drop", models.DisputePriorityHigh, models.DisputePriorityMedium, models.SeverityLow},
		{"lateral", models.DisputePriorityMedium, models.DisputePriorityMedium, models.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SeverityForPriorityChange(tt.old, tt.new); got != tt.want {
				t.Errorf("SeverityForPriorityChange(%s, %s) = %s, want %s", tt.old, tt.new, got, tt.want)
			}
		})
	}
}
