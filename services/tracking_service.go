package services

import (
	"sync"
	"time"

	"disputetrack/interfaces"
	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/utils"

	"github.com/sirupsen/logrus"
)

// statusSeverity drives status-change severity derivation. Statuses not in
// the table derive MEDIUM.
var statusSeverity = map[string]string{
	models.DisputeStatusOpen:     models.SeverityCritical,
	models.DisputeStatusInReview: models.SeverityCritical,
	models.DisputeStatusResolved: models.SeverityHigh,
	models.DisputeStatusClosed:   models.SeverityHigh,
}

// TrackingService owns the audit event log. Appends assign IDs and
// timestamps, derive severity when unset, and fan out synchronously to
// every subscribed listener with per-listener failure isolation.
type TrackingService struct {
	eventRepo *repositories.EventRepository

	mu        sync.Mutex
	listeners map[int]interfaces.TrackingListener
	nextID    int
}

func NewTrackingService(eventRepo *repositories.EventRepository) *TrackingService {
	return &TrackingService{
		eventRepo: eventRepo,
		listeners: make(map[int]interfaces.TrackingListener),
	}
}

// Append validates, finalizes and stores a tracking event, then notifies
// listeners. Malformed events are dropped with a log; the returned error
// lets the transport layer answer the caller but is never fatal upstream.
func (ts *TrackingService) Append(event models.TrackingEvent) (*models.TrackingEvent, error) {
	if event.DisputeID == "" || event.Type == "" {
		logrus.WithFields(logrus.Fields{
			"disputeId": event.DisputeID,
			"type":      event.Type,
		}).Warn("Dropping malformed tracking event")
		return nil, utils.NewMalformedEventError("disputeId and type are required")
	}

	event.ID = utils.GenerateUUID()
	event.Timestamp = time.Now()
	if event.Severity == "" {
		event.Severity = models.SeverityMedium
	}

	ts.eventRepo.Insert(event)
	ts.notifyListeners(event)

	return &event, nil
}

// Query returns filtered events, newest first, with the total match count.
func (ts *TrackingService) Query(filter models.EventFilter) ([]models.TrackingEvent, int64) {
	return ts.eventRepo.Query(filter)
}

// HasEventSince reports whether the dispute has an event of the given type
// newer than the cutoff.
func (ts *TrackingService) HasEventSince(disputeID, eventType string, since time.Time) bool {
	return ts.eventRepo.HasEventSince(disputeID, eventType, since)
}

// Subscribe registers a listener for appended events and returns its
// unsubscribe function.
func (ts *TrackingService) Subscribe(listener interfaces.TrackingListener) func() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	id := ts.nextID
	ts.nextID++
	ts.listeners[id] = listener

	return func() {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		delete(ts.listeners, id)
	}
}

// ClearListeners deregisters every listener. Called on engine shutdown.
func (ts *TrackingService) ClearListeners() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.listeners = make(map[int]interfaces.TrackingListener)
}

func (ts *TrackingService) notifyListeners(event models.TrackingEvent) {
	ts.mu.Lock()
	snapshot := make([]interfaces.TrackingListener, 0, len(ts.listeners))
	for _, l := range ts.listeners {
		snapshot = append(snapshot, l)
	}
	ts.mu.Unlock()

	for _, listener := range snapshot {
		ts.safeNotify(listener, event)
	}
}

// safeNotify isolates listener failures so one bad subscriber cannot block
// ingestion or the remaining listeners.
func (ts *TrackingService) safeNotify(listener interfaces.TrackingListener, event models.TrackingEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"eventId": event.ID,
				"panic":   r,
			}).Error("Tracking listener failed")
		}
	}()
	listener(event)
}

// SeverityForStatusChange derives the severity of a status-change event
// from the new status.
func SeverityForStatusChange(newStatus string) string {
	if severity, ok := statusSeverity[newStatus]; ok {
		return severity
	}
	return models.SeverityMedium
}

// SeverityForPriorityChange derives severity from the direction of the
// priority move: raises are HIGH, drops are LOW, lateral moves MEDIUM.
func SeverityForPriorityChange(oldPriority, newPriority string) string {
	oldRank := models.PriorityRank(oldPriority)
	newRank := models.PriorityRank(newPriority)
	switch {
	case newRank > oldRank:
		return models.SeverityHigh
	case newRank < oldRank:
		return models.SeverityLow
	default:
		return models.SeverityMedium
	}
}
