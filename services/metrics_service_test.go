package services

import (
	"fmt"
	"math"
	"testing"
	"time"

	"disputetrack/models"
	"disputetrack/repositories"
)

func TestMetricsRates(t *testing.T) {
	repo := repositories.NewEventRepository(100)
	service := NewMetricsService(repo)

	// 10 events: 2 escalations, 1 resolving status change.
	now := time.Now()
	for i := 0; i < 7; i++ {
		repo.Insert(models.TrackingEvent{
			ID: fmt.Sprintf("m-%d", i), DisputeID: "d1",
			Type: models.EventMessageAdded, Severity: models.SeverityLow, Timestamp: now,
		})
	}
	repo.Insert(models.TrackingEvent{ID: "e1", DisputeID: "d1", Type: models.EventEscalation, Severity: models.SeverityCritical, Timestamp: now})
	repo.Insert(models.TrackingEvent{ID: "e2", DisputeID: "d2", Type: models.EventEscalation, Severity: models.SeverityCritical, Timestamp: now})
	repo.Insert(models.TrackingEvent{
		ID: "r1", DisputeID: "d1", Type: models.EventStatusChange, Severity: models.SeverityHigh, Timestamp: now,
		Metadata: map[string]interface{}{"newStatus": models.DisputeStatusResolved},
	})

	metrics := service.Metrics()

	if metrics.TotalEvents != 10 {
		t.Errorf("totalEvents = %d, want 10", metrics.TotalEvents)
	}
	if metrics.EscalationRate != 20 {
		t.Errorf("escalationRate = %v, want 20", metrics.EscalationRate)
	}
	if metrics.ResolutionRate != 10 {
		t.Errorf("resolutionRate = %v, want 10", metrics.ResolutionRate)
	}
	if metrics.EventsByType[models.EventMessageAdded] != 7 {
		t.Errorf("MESSAGE_ADDED count = %d, want 7", metrics.EventsByType[models.EventMessageAdded])
	}
	if metrics.EventsBySeverity[models.SeverityCritical] != 2 {
		t.Errorf("CRITICAL count = %d, want 2", metrics.EventsBySeverity[models.SeverityCritical])
	}
}

func TestMetricsEmptyLog(t *testing.T) {
	service := NewMetricsService(repositories.NewEventRepository(100))

	metrics := service.Metrics()
	if metrics.TotalEvents != 0 || metrics.EscalationRate != 0 || metrics.ResolutionRate != 0 {
		t.Errorf("expected zeroed metrics, got %+v", metrics)
	}
}

func TestMetricsAverageResponseHours(t *testing.T) {
	repo := repositories.NewEventRepository(100)
	service := NewMetricsService(repo)

	base := time.Now().Add(-10 * time.Hour)
	repo.Insert(models.TrackingEvent{ID: "open", DisputeID: "d1", Type: models.EventStatusChange, Timestamp: base})
	repo.Insert(models.TrackingEvent{ID: "msg", DisputeID: "d1", Type: models.EventMessageAdded, Timestamp: base.Add(2 * time.Hour)})

	metrics := service.Metrics()
	if math.Abs(metrics.AvgResponseHours-2) > 0.01 {
		t.Errorf("avgResponseHours = %v, want ~2", metrics.AvgResponseHours)
	}
}

func TestMetricsAverageResolutionHours(t *testing.T) {
	repo := repositories.NewEventRepository(100)
	service := NewMetricsService(repo)

	base := time.Now().Add(-48 * time.Hour)
	repo.Insert(models.TrackingEvent{ID: "open", DisputeID: "d1", Type: models.EventStatusChange, Timestamp: base})
	repo.Insert(models.TrackingEvent{
		ID: "done", DisputeID: "d1", Type: models.EventStatusChange, Timestamp: base.Add(36 * time.Hour),
		Metadata: map[string]interface{}{"newStatus": models.DisputeStatusResolved},
	})

	metrics := service.Metrics()
	if math.Abs(metrics.AvgResolutionHours-36) > 0.01 {
		t.Errorf("avgResolutionHours = %v, want ~36", metrics.AvgResolutionHours)
	}
}

func TestDashboard(t *testing.T) {
	repo := repositories.NewEventRepository(100)
	service := NewMetricsService(repo)

	now := time.Now()
	repo.Insert(models.TrackingEvent{ID: "yesterday", DisputeID: "d1", Type: models.EventEscalation, Severity: models.SeverityCritical, Timestamp: now.Add(-26 * time.Hour)})
	repo.Insert(models.TrackingEvent{ID: "today-1", DisputeID: "d1", Type: models.EventMessageAdded, Severity: models.SeverityLow, Timestamp: now})
	repo.Insert(models.TrackingEvent{ID: "today-2", DisputeID: "d2", Type: models.EventEscalation, Severity: models.SeverityCritical, Timestamp: now})

	bundle := service.Dashboard()

	if bundle.EventsToday != 2 {
		t.Errorf("eventsToday = %d, want 2", bundle.EventsToday)
	}
	if bundle.EscalationsToday != 1 {
		t.Errorf("escalationsToday = %d, want 1", bundle.EscalationsToday)
	}
	if len(bundle.RecentEvents) != 3 {
		t.Errorf("recentEvents = %d, want 3", len(bundle.RecentEvents))
	}
	if bundle.RecentEvents[0].ID != "today-2" {
		t.Errorf("recent events must be newest first, got %s", bundle.RecentEvents[0].ID)
	}
	if len(bundle.UrgentAlerts) != 2 {
		t.Errorf("urgentAlerts = %d, want 2", len(bundle.UrgentAlerts))
	}
}
