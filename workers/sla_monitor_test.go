package workers

import (
	"testing"
	"time"

	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/services"
)

type monitorFixture struct {
	monitor   *SLAMonitor
	eventRepo *repositories.EventRepository
	tracking  *services.TrackingService
	disputes  *repositories.DisputeRegistry
	workflows *repositories.WorkflowRuleRegistry
}

func newMonitorFixture(config SLAMonitorConfig) *monitorFixture {
	eventRepo := repositories.NewEventRepository(1000)
	tracking := services.NewTrackingService(eventRepo)
	disputes := repositories.NewDisputeRegistry()
	workflows := repositories.NewWorkflowRuleRegistry()

	monitor := NewSLAMonitor(disputes, workflows, services.NewDefaultSLACalculator(), tracking, nil, config)
	return &monitorFixture{
		monitor:   monitor,
		eventRepo: eventRepo,
		tracking:  tracking,
		disputes:  disputes,
		workflows: workflows,
	}
}

func (f *monitorFixture) countEvents(eventType string) int64 {
	_, total := f.eventRepo.Query(models.EventFilter{Type: eventType})
	return total
}

func overdueDispute(id string) models.Dispute {
	// Urgent threshold is 2h.
	return models.Dispute{
		ID:        id,
		Status:    models.DisputeStatusOpen,
		Priority:  models.DisputePriorityUrgent,
		RaisedBy:  "u1",
		CreatedAt: time.Now().Add(-3 * time.Hour),
	}
}

func TestScanRecordsBreachOnce(t *testing.T) {
	f := newMonitorFixture(SLAMonitorConfig{BreachRenotifyAfter: 24 * time.Hour})
	f.disputes.Upsert(overdueDispute("d1"))

	f.monitor.Scan()
	if got := f.countEvents(models.EventSLABreach); got != 1 {
		t.Fatalf("breach events = %d, want 1", got)
	}

	// A repeat scan inside the renotify window stays quiet.
	f.monitor.Scan()
	if got := f.countEvents(models.EventSLABreach); got != 1 {
		t.Errorf("breach events after repeat scan = %d, want 1", got)
	}
	if f.monitor.GetStats().BreachesFound != 1 {
		t.Errorf("stats.breachesFound = %d, want 1", f.monitor.GetStats().BreachesFound)
	}
}

func TestScanRenotifiesAfterWindow(t *testing.T) {
	f := newMonitorFixture(SLAMonitorConfig{BreachRenotifyAfter: 24 * time.Hour})
	f.disputes.Upsert(overdueDispute("d1"))

	// An old breach outside the renotify window.
	f.eventRepo.Insert(models.TrackingEvent{
		ID:        "stale-breach",
		DisputeID: "d1",
		Type:      models.EventSLABreach,
		Timestamp: time.Now().Add(-25 * time.Hour),
	})

	f.monitor.Scan()
	if got := f.countEvents(models.EventSLABreach); got != 2 {
		t.Errorf("breach events = %d, want a fresh breach after the window", got)
	}
}

func TestScanIgnoresHealthyDisputes(t *testing.T) {
	f := newMonitorFixture(SLAMonitorConfig{})
	f.disputes.Upsert(models.Dispute{
		ID:        "fresh",
		Status:    models.DisputeStatusOpen,
		Priority:  models.DisputePriorityLow,
		CreatedAt: time.Now().Add(-time.Hour),
	})

	f.monitor.Scan()

	if got := f.countEvents(models.EventSLABreach); got != 0 {
		t.Errorf("breach events = %d, want 0 for an on-track dispute", got)
	}
	if got := f.countEvents(models.EventAutoAction); got != 0 {
		t.Errorf("auto-action events = %d, want 0", got)
	}
}

func TestAutoEscalationRecordsAutoAction(t *testing.T) {
	f := newMonitorFixture(SLAMonitorConfig{EscalationDedup: true})
	f.workflows.Upsert(models.WorkflowRule{Name: "auto-escalate", Enabled: true})
	f.disputes.Upsert(overdueDispute("d1"))

	f.monitor.Scan()

	if got := f.countEvents(models.EventAutoAction); got != 1 {
		t.Errorf("auto-action events = %d, want 1", got)
	}
	// The monitor's automatic event is distinct from a manual escalation.
	if got := f.countEvents(models.EventEscalation); got != 0 {
		t.Errorf("escalation events = %d, automatic escalation must not record ESCALATION", got)
	}

	events, _ := f.eventRepo.Query(models.EventFilter{Type: models.EventAutoAction})
	if events[0].Metadata["automatic"] != true {
		t.Errorf("metadata.automatic = %v, want true", events[0].Metadata["automatic"])
	}
}

func TestAutoEscalationRequiresWorkflowRule(t *testing.T) {
	tests := []struct {
		name string
		rule *models.WorkflowRule
		want int64
	}{
		{"no rules", nil, 0},
		{"enabled escalation rule", &models.WorkflowRule{Name: "Auto-Escalation after SLA", Enabled: true}, 1},
		{"disabled escalation rule", &models.WorkflowRule{Name: "auto escalation", Enabled: false}, 0},
		{"unrelated rule", &models.WorkflowRule{Name: "weekly digest", Enabled: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMonitorFixture(SLAMonitorConfig{EscalationDedup: true})
			f.disputes.Upsert(overdueDispute("d1"))
			if tt.rule != nil {
				f.workflows.Upsert(*tt.rule)
			}

			f.monitor.Scan()

			if got := f.countEvents(models.EventAutoAction); got != tt.want {
				t.Errorf("auto-action events = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAutoEscalationOnlyForOpenDisputes(t *testing.T) {
	f := newMonitorFixture(SLAMonitorConfig{EscalationDedup: true})
	f.workflows.Upsert(models.WorkflowRule{Name: "escalation", Enabled: true})

	inReview := overdueDispute("d1")
	inReview.Status = models.DisputeStatusInReview
	f.disputes.Upsert(inReview)

	f.monitor.Scan()

	if got := f.countEvents(models.EventAutoAction); got != 0 {
		t.Errorf("auto-action events = %d, IN_REVIEW must not auto-escalate", got)
	}
	// The breach is still recorded.
	if got := f.countEvents(models.EventSLABreach); got != 1 {
		t.Errorf("breach events = %d, want 1", got)
	}
}

func TestAutoEscalationDedup(t *testing.T) {
	t.Run("dedup on fires once", func(t *testing.T) {
		f := newMonitorFixture(SLAMonitorConfig{EscalationDedup: true})
		f.workflows.Upsert(models.WorkflowRule{Name: "escalation", Enabled: true})
		f.disputes.Upsert(overdueDispute("d1"))

		f.monitor.Scan()
		f.monitor.Scan()

		if got := f.countEvents(models.EventAutoAction); got != 1 {
			t.Errorf("auto-action events = %d, want 1 with dedup on", got)
		}
	})

	t.Run("dedup off fires per tick", func(t *testing.T) {
		f := newMonitorFixture(SLAMonitorConfig{EscalationDedup: false})
		f.workflows.Upsert(models.WorkflowRule{Name: "escalation", Enabled: true})
		f.disputes.Upsert(overdueDispute("d1"))

		f.monitor.Scan()
		f.monitor.Scan()

		if got := f.countEvents(models.EventAutoAction); got != 2 {
			t.Errorf("auto-action events = %d, want 2 with dedup off", got)
		}
	})

	t.Run("manual escalation suppresses auto", func(t *testing.T) {
		f := newMonitorFixture(SLAMonitorConfig{EscalationDedup: true})
		f.workflows.Upsert(models.WorkflowRule{Name: "escalation", Enabled: true})
		f.disputes.Upsert(overdueDispute("d1"))

		f.eventRepo.Insert(models.TrackingEvent{
			ID:        "manual",
			DisputeID: "d1",
			Type:      models.EventEscalation,
			Timestamp: time.Now().Add(-48 * time.Hour),
		})

		f.monitor.Scan()

		if got := f.countEvents(models.EventAutoAction); got != 0 {
			t.Errorf("auto-action events = %d, a prior manual escalation must suppress auto-escalation", got)
		}
	})
}

func TestMonitorStartStopIdempotent(t *testing.T) {
	f := newMonitorFixture(SLAMonitorConfig{PollInterval: time.Hour})

	if err := f.monitor.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := f.monitor.Start(); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if err := f.monitor.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := f.monitor.Stop(); err != nil {
		t.Fatalf("second stop failed: %v", err)
	}
}
