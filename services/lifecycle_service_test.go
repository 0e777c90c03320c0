package services

import (
	"context"
	"testing"
	"time"

	"disputetrack/models"
	"disputetrack/repositories"
)

type lifecycleFixture struct {
	service   *LifecycleService
	eventRepo *repositories.EventRepository
	registry  *repositories.DisputeRegistry
	engine    *engineFixture
}

func newLifecycleFixture() *lifecycleFixture {
	eventRepo := repositories.NewEventRepository(100)
	engine := newEngineFixture()
	registry := repositories.NewDisputeRegistry()
	return &lifecycleFixture{
		service:   NewLifecycleService(NewTrackingService(eventRepo), engine.engine, registry),
		eventRepo: eventRepo,
		registry:  registry,
		engine:    engine,
	}
}

func openDispute() models.Dispute {
	return models.Dispute{
		ID:        "d1",
		Reason:    "Item not received",
		Status:    models.DisputeStatusOpen,
		Priority:  models.DisputePriorityHigh,
		RaisedBy:  "u1",
		CreatedAt: time.Now(),
	}
}

func TestDisputeCreatedAppendsEvent(t *testing.T) {
	f := newLifecycleFixture()

	event, err := f.service.DisputeCreated(openDispute())
	if err != nil {
		t.Fatalf("signal failed: %v", err)
	}

	if event.Type != models.EventStatusChange {
		t.Errorf("type = %s, want STATUS_CHANGE", event.Type)
	}
	if event.Severity != models.SeverityCritical {
		t.Errorf("severity = %s, want CRITICAL for a newly opened dispute", event.Severity)
	}
	if event.Metadata["newStatus"] != models.DisputeStatusOpen {
		t.Errorf("metadata.newStatus = %v", event.Metadata["newStatus"])
	}
	if f.eventRepo.Len() != 1 {
		t.Errorf("log has %d events, want 1", f.eventRepo.Len())
	}
}

func TestDisputeCreatedCachesSnapshot(t *testing.T) {
	f := newLifecycleFixture()

	if _, err := f.service.DisputeCreated(openDispute()); err != nil {
		t.Fatalf("signal failed: %v", err)
	}

	open, err := f.registry.GetOpenDisputes(context.Background())
	if err != nil {
		t.Fatalf("registry read failed: %v", err)
	}
	if len(open) != 1 || open[0].ID != "d1" {
		t.Errorf("expected snapshot d1 in the registry, got %+v", open)
	}
}

func TestDisputeUpdatedDiffs(t *testing.T) {
	f := newLifecycleFixture()
	previous := openDispute()

	t.Run("status change", func(t *testing.T) {
		current := previous
		current.Status = models.DisputeStatusInReview

		events, err := f.service.DisputeUpdated(current, previous)
		if err != nil {
			t.Fatalf("signal failed: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("got %d events, want 1", len(events))
		}
		if events[0].Type != models.EventStatusChange {
			t.Errorf("type = %s", events[0].Type)
		}
		if events[0].Metadata["oldStatus"] != models.DisputeStatusOpen {
			t.Errorf("metadata.oldStatus = %v", events[0].Metadata["oldStatus"])
		}
	})

	t.Run("priority change", func(t *testing.T) {
		current := previous
		current.Priority = models.DisputePriorityUrgent

		events, err := f.service.DisputeUpdated(current, previous)
		if err != nil {
			t.Fatalf("signal failed: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("got %d events, want 1", len(events))
		}
		if events[0].Type != models.EventPriorityChange {
			t.Errorf("type = %s", events[0].Type)
		}
		if events[0].Severity != models.SeverityHigh {
			t.Errorf("severity = %s, want HIGH for a priority raise", events[0].Severity)
		}
	})

	t.Run("both change", func(t *testing.T) {
		current := previous
		current.Status = models.DisputeStatusInReview
		current.Priority = models.DisputePriorityLow

		events, err := f.service.DisputeUpdated(current, previous)
		if err != nil {
			t.Fatalf("signal failed: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("got %d events, want 2", len(events))
		}
	})

	t.Run("no change appends nothing", func(t *testing.T) {
		events, err := f.service.DisputeUpdated(previous, previous)
		if err != nil {
			t.Fatalf("signal failed: %v", err)
		}
		if len(events) != 0 {
			t.Errorf("got %d events, want 0", len(events))
		}
	})
}

func TestDisputeResolved(t *testing.T) {
	f := newLifecycleFixture()
	dispute := openDispute()
	dispute.Status = models.DisputeStatusResolved
	dispute.Resolution = "Refund issued"
	dispute.ResolvedBy = "agent-1"

	event, err := f.service.DisputeResolved(dispute)
	if err != nil {
		t.Fatalf("signal failed: %v", err)
	}

	if event.Severity != models.SeverityHigh {
		t.Errorf("severity = %s, want HIGH", event.Severity)
	}
	if event.Metadata["resolution"] != "Refund issued" {
		t.Errorf("metadata.resolution = %v", event.Metadata["resolution"])
	}

	open, _ := f.registry.GetOpenDisputes(context.Background())
	if len(open) != 0 {
		t.Errorf("resolved dispute must leave the open set, got %d", len(open))
	}
}

func TestDisputeEscalated(t *testing.T) {
	f := newLifecycleFixture()

	event, err := f.service.DisputeEscalated(openDispute(), "no agent response")
	if err != nil {
		t.Fatalf("signal failed: %v", err)
	}

	if event.Type != models.EventEscalation {
		t.Errorf("type = %s, want ESCALATION", event.Type)
	}
	if event.Severity != models.SeverityCritical {
		t.Errorf("severity = %s, want CRITICAL", event.Severity)
	}
}

func TestActivitySignals(t *testing.T) {
	f := newLifecycleFixture()
	dispute := openDispute()

	tests := []struct {
		name         string
		signal       func() (*models.TrackingEvent, error)
		wantType     string
		wantSeverity string
	}{
		{
			"message", func() (*models.TrackingEvent, error) {
				return f.service.MessageAdded(dispute, "u2", "Bob", "asked for photos")
			},
			models.EventMessageAdded, models.SeverityLow,
		},
		{
			"evidence", func() (*models.TrackingEvent, error) {
				return f.service.EvidenceAdded(dispute, "u1", "Alice", "receipt.pdf")
			},
			models.EventEvidenceAdded, models.SeverityMedium,
		},
		{
			"resolution proposed", func() (*models.TrackingEvent, error) {
				return f.service.ResolutionProposed(dispute, "u2", "Bob", "partial refund")
			},
			models.EventResolutionProposed, models.SeverityMedium,
		},
		{
			"resolution accepted", func() (*models.TrackingEvent, error) {
				return f.service.ResolutionAccepted(dispute, "u1", "Alice", "accepted")
			},
			models.EventResolutionAccepted, models.SeverityHigh,
		},
		{
			"resolution rejected", func() (*models.TrackingEvent, error) {
				return f.service.ResolutionRejected(dispute, "u1", "Alice", "too low")
			},
			models.EventResolutionRejected, models.SeverityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := tt.signal()
			if err != nil {
				t.Fatalf("signal failed: %v", err)
			}
			if event.Type != tt.wantType {
				t.Errorf("type = %s, want %s", event.Type, tt.wantType)
			}
			if event.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", event.Severity, tt.wantSeverity)
			}
		})
	}
}

func TestSignalFeedsRuleEngine(t *testing.T) {
	f := newLifecycleFixture()

	template := f.engine.createTemplate(t, disputeTemplateRequest())
	f.engine.createRule(t, models.CreateRuleRequest{
		Name:       "on-created",
		Conditions: []models.Condition{{Field: "type", Operator: models.OpEquals, Value: TriggerDisputeCreated}},
		TemplateID: template.ID,
		Channels:   []string{models.ChannelInApp},
	})

	if _, err := f.service.DisputeCreated(openDispute()); err != nil {
		t.Fatalf("signal failed: %v", err)
	}

	pending := f.engine.notificationRepo.ListPending()
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending notification, got %d", len(pending))
	}
	if pending[0].UserID != "u1" {
		t.Errorf("recipient = %s, want the dispute raiser", pending[0].UserID)
	}
}
