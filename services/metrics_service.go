package services

import (
	"time"

	"disputetrack/models"
	"disputetrack/repositories"
)

// MetricsService computes on-demand statistics over the full event log.
// Nothing is cached; every call recomputes from the current log contents.
type MetricsService struct {
	eventRepo *repositories.EventRepository
}

func NewMetricsService(eventRepo *repositories.EventRepository) *MetricsService {
	return &MetricsService{eventRepo: eventRepo}
}

// Metrics aggregates counts, rates and the approximate timing estimators.
func (ms *MetricsService) Metrics() models.TrackingMetrics {
	events := ms.eventRepo.All()

	metrics := models.TrackingMetrics{
		TotalEvents:      int64(len(events)),
		EventsByType:     make(map[string]int64),
		EventsBySeverity: make(map[string]int64),
	}

	var escalations, resolutions int64
	for _, ev := range events {
		metrics.EventsByType[ev.Type]++
		metrics.EventsBySeverity[ev.Severity]++
		if ev.Type == models.EventEscalation {
			escalations++
		}
		if ev.Type == models.EventStatusChange && metadataString(ev, "newStatus") == models.DisputeStatusResolved {
			resolutions++
		}
	}

	if metrics.TotalEvents > 0 {
		metrics.EscalationRate = 100 * float64(escalations) / float64(metrics.TotalEvents)
		metrics.ResolutionRate = 100 * float64(resolutions) / float64(metrics.TotalEvents)
	}

	metrics.AvgResponseHours = averageResponseHours(events)
	metrics.AvgResolutionHours = averageResolutionHours(events)

	return metrics
}

// Dashboard composes the operational overview bundle.
func (ms *MetricsService) Dashboard() models.DashboardBundle {
	events := ms.eventRepo.All()
	now := time.Now()
	year, month, day := now.Date()
	startOfDay := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	bundle := models.DashboardBundle{
		RecentEvents: make([]models.TrackingEvent, 0, 10),
		UrgentAlerts: make([]models.TrackingEvent, 0, 5),
		Metrics:      ms.Metrics(),
	}

	for _, ev := range events {
		if !ev.Timestamp.Before(startOfDay) {
			bundle.EventsToday++
			if ev.Type == models.EventEscalation {
				bundle.EscalationsToday++
			}
		}
		if len(bundle.RecentEvents) < 10 {
			bundle.RecentEvents = append(bundle.RecentEvents, ev)
		}
		if len(bundle.UrgentAlerts) < 5 &&
			(ev.Severity == models.SeverityCritical || ev.Severity == models.SeverityHigh) {
			bundle.UrgentAlerts = append(bundle.UrgentAlerts, ev)
		}
	}

	return bundle
}

func metadataString(ev models.TrackingEvent, key string) string {
	if ev.Metadata == nil {
		return ""
	}
	if s, ok := ev.Metadata[key].(string); ok {
		return s
	}
	return ""
}

// averageResponseHours estimates responsiveness as the mean gap between a
// dispute's first recorded event and its first MESSAGE_ADDED event. It is
// an approximation over the bounded log, not an exact clock.
func averageResponseHours(events []models.TrackingEvent) float64 {
	firstEvent := make(map[string]time.Time)
	firstMessage := make(map[string]time.Time)

	// Log is newest-first; walk backwards so "first" means oldest.
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if _, ok := firstEvent[ev.DisputeID]; !ok {
			firstEvent[ev.DisputeID] = ev.Timestamp
		}
		if ev.Type == models.EventMessageAdded {
			if _, ok := firstMessage[ev.DisputeID]; !ok {
				firstMessage[ev.DisputeID] = ev.Timestamp
			}
		}
	}

	var total float64
	var count int
	for disputeID, msgAt := range firstMessage {
		start := firstEvent[disputeID]
		if msgAt.After(start) {
			total += msgAt.Sub(start).Hours()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// averageResolutionHours estimates time-to-resolution as the mean gap
// between a dispute's first recorded event and its resolving status
// change. Approximate for the same reason as averageResponseHours.
func averageResolutionHours(events []models.TrackingEvent) float64 {
	firstEvent := make(map[string]time.Time)
	resolvedAt := make(map[string]time.Time)

	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if _, ok := firstEvent[ev.DisputeID]; !ok {
			firstEvent[ev.DisputeID] = ev.Timestamp
		}
		if ev.Type == models.EventStatusChange && metadataString(ev, "newStatus") == models.DisputeStatusResolved {
			if _, ok := resolvedAt[ev.DisputeID]; !ok {
				resolvedAt[ev.DisputeID] = ev.Timestamp
			}
		}
	}

	var total float64
	var count int
	for disputeID, doneAt := range resolvedAt {
		start := firstEvent[disputeID]
		if doneAt.After(start) {
			total += doneAt.Sub(start).Hours()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
