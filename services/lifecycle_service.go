package services

import (
	"fmt"

	"disputetrack/models"
	"disputetrack/repositories"

	"github.com/sirupsen/logrus"
)

// Trigger types fed to the rule engine by lifecycle signals and workers.
const (
	TriggerDisputeCreated   = "DISPUTE_CREATED"
	TriggerDisputeUpdated   = "DISPUTE_UPDATED"
	TriggerStatusChanged    = "STATUS_CHANGED"
	TriggerPriorityChanged  = "PRIORITY_CHANGED"
	TriggerDisputeResolved  = "DISPUTE_RESOLVED"
	TriggerDisputeEscalated = "DISPUTE_ESCALATED"
	TriggerMessageAdded     = "MESSAGE_ADDED"
	TriggerEvidenceAdded    = "EVIDENCE_ADDED"
	TriggerSLABreach        = "SLA_BREACH"
	TriggerAutoEscalation   = "AUTO_ESCALATION"
)

// LifecycleService is the intake surface for dispute lifecycle signals.
// Each signal caches the snapshot for the SLA monitor, appends the
// matching tracking events and feeds the rule engine. Notification
// failures never fail the signal.
type LifecycleService struct {
	trackingService *TrackingService
	ruleEngine      *RuleEngine
	disputeRegistry *repositories.DisputeRegistry
}

func NewLifecycleService(trackingService *TrackingService, ruleEngine *RuleEngine, disputeRegistry *repositories.DisputeRegistry) *LifecycleService {
	return &LifecycleService{
		trackingService: trackingService,
		ruleEngine:      ruleEngine,
		disputeRegistry: disputeRegistry,
	}
}

func (ls *LifecycleService) snapshot(dispute models.Dispute) {
	if ls.disputeRegistry != nil {
		ls.disputeRegistry.Upsert(dispute)
	}
}

func (ls *LifecycleService) DisputeCreated(dispute models.Dispute) (*models.TrackingEvent, error) {
	ls.snapshot(dispute)

	event, err := ls.trackingService.Append(models.TrackingEvent{
		DisputeID:   dispute.ID,
		Type:        models.EventStatusChange,
		Title:       "Dispute opened",
		Description: fmt.Sprintf("Dispute opened: %s", dispute.Reason),
		UserID:      dispute.RaisedBy,
		Severity:    SeverityForStatusChange(dispute.Status),
		Metadata: map[string]interface{}{
			"newStatus": dispute.Status,
			"priority":  dispute.Priority,
		},
	})
	if err != nil {
		return nil, err
	}

	ls.trigger(TriggerDisputeCreated, disputePayload(dispute))
	return event, nil
}

// DisputeUpdated diffs the previous snapshot against the current one and
// appends a tracking event per changed field. Unchanged signals append
// nothing.
func (ls *LifecycleService) DisputeUpdated(dispute, previous models.Dispute) ([]models.TrackingEvent, error) {
	ls.snapshot(dispute)

	events := make([]models.TrackingEvent, 0, 2)

	if dispute.Status != previous.Status {
		event, err := ls.trackingService.Append(models.TrackingEvent{
			DisputeID:   dispute.ID,
			Type:        models.EventStatusChange,
			Title:       "Status changed",
			Description: fmt.Sprintf("Status changed from %s to %s", previous.Status, dispute.Status),
			Severity:    SeverityForStatusChange(dispute.Status),
			Metadata: map[string]interface{}{
				"oldStatus": previous.Status,
				"newStatus": dispute.Status,
			},
		})
		if err != nil {
			return events, err
		}
		events = append(events, *event)

		payload := disputePayload(dispute)
		payload["oldStatus"] = previous.Status
		payload["newStatus"] = dispute.Status
		ls.trigger(TriggerStatusChanged, payload)
	}

	if dispute.Priority != previous.Priority {
		event, err := ls.trackingService.Append(models.TrackingEvent{
			DisputeID:   dispute.ID,
			Type:        models.EventPriorityChange,
			Title:       "Priority changed",
			Description: fmt.Sprintf("Priority changed from %s to %s", previous.Priority, dispute.Priority),
			Severity:    SeverityForPriorityChange(previous.Priority, dispute.Priority),
			Metadata: map[string]interface{}{
				"oldPriority": previous.Priority,
				"newPriority": dispute.Priority,
			},
		})
		if err != nil {
			return events, err
		}
		events = append(events, *event)

		payload := disputePayload(dispute)
		payload["oldPriority"] = previous.Priority
		payload["newPriority"] = dispute.Priority
		ls.trigger(TriggerPriorityChanged, payload)
	}

	if len(events) > 0 {
		ls.trigger(TriggerDisputeUpdated, disputePayload(dispute))
	}
	return events, nil
}

func (ls *LifecycleService) DisputeResolved(dispute models.Dispute) (*models.TrackingEvent, error) {
	ls.snapshot(dispute)

	event, err := ls.trackingService.Append(models.TrackingEvent{
		DisputeID:   dispute.ID,
		Type:        models.EventStatusChange,
		Title:       "Dispute resolved",
		Description: fmt.Sprintf("Dispute resolved: %s", dispute.Resolution),
		UserID:      dispute.ResolvedBy,
		Severity:    SeverityForStatusChange(models.DisputeStatusResolved),
		Metadata: map[string]interface{}{
			"newStatus":  models.DisputeStatusResolved,
			"resolution": dispute.Resolution,
		},
	})
	if err != nil {
		return nil, err
	}

	payload := disputePayload(dispute)
	payload["resolution"] = dispute.Resolution
	payload["resolvedBy"] = dispute.ResolvedBy
	ls.trigger(TriggerDisputeResolved, payload)
	return event, nil
}

func (ls *LifecycleService) DisputeEscalated(dispute models.Dispute, reason string) (*models.TrackingEvent, error) {
	ls.snapshot(dispute)

	event, err := ls.trackingService.Append(models.TrackingEvent{
		DisputeID:   dispute.ID,
		Type:        models.EventEscalation,
		Title:       "Dispute escalated",
		Description: reason,
		Severity:    models.SeverityCritical,
		Metadata: map[string]interface{}{
			"reason":   reason,
			"priority": dispute.Priority,
		},
	})
	if err != nil {
		return nil, err
	}

	payload := disputePayload(dispute)
	payload["reason"] = reason
	ls.trigger(TriggerDisputeEscalated, payload)
	return event, nil
}

func (ls *LifecycleService) MessageAdded(dispute models.Dispute, userID, userName, summary string) (*models.TrackingEvent, error) {
	ls.snapshot(dispute)

	event, err := ls.trackingService.Append(models.TrackingEvent{
		DisputeID:   dispute.ID,
		Type:        models.EventMessageAdded,
		Title:       "Message added",
		Description: summary,
		UserID:      userID,
		UserName:    userName,
		Severity:    models.SeverityLow,
	})
	if err != nil {
		return nil, err
	}

	payload := disputePayload(dispute)
	payload["userId"] = userID
	payload["userName"] = userName
	ls.trigger(TriggerMessageAdded, payload)
	return event, nil
}

func (ls *LifecycleService) EvidenceAdded(dispute models.Dispute, userID, userName, summary string) (*models.TrackingEvent, error) {
	ls.snapshot(dispute)

	event, err := ls.trackingService.Append(models.TrackingEvent{
		DisputeID:   dispute.ID,
		Type:        models.EventEvidenceAdded,
		Title:       "Evidence added",
		Description: summary,
		UserID:      userID,
		UserName:    userName,
		Severity:    models.SeverityMedium,
	})
	if err != nil {
		return nil, err
	}

	payload := disputePayload(dispute)
	payload["userId"] = userID
	payload["userName"] = userName
	ls.trigger(TriggerEvidenceAdded, payload)
	return event, nil
}

func (ls *LifecycleService) ResolutionProposed(dispute models.Dispute, userID, userName, summary string) (*models.TrackingEvent, error) {
	return ls.resolutionEvent(dispute, models.EventResolutionProposed, "Resolution proposed", models.SeverityMedium, userID, userName, summary)
}

func (ls *LifecycleService) ResolutionAccepted(dispute models.Dispute, userID, userName, summary string) (*models.TrackingEvent, error) {
	return ls.resolutionEvent(dispute, models.EventResolutionAccepted, "Resolution accepted", models.SeverityHigh, userID, userName, summary)
}

func (ls *LifecycleService) ResolutionRejected(dispute models.Dispute, userID, userName, summary string) (*models.TrackingEvent, error) {
	return ls.resolutionEvent(dispute, models.EventResolutionRejected, "Resolution rejected", models.SeverityMedium, userID, userName, summary)
}

func (ls *LifecycleService) resolutionEvent(dispute models.Dispute, eventType, title, severity, userID, userName, summary string) (*models.TrackingEvent, error) {
	ls.snapshot(dispute)

	return ls.trackingService.Append(models.TrackingEvent{
		DisputeID:   dispute.ID,
		Type:        eventType,
		Title:       title,
		Description: summary,
		UserID:      userID,
		UserName:    userName,
		Severity:    severity,
	})
}

func (ls *LifecycleService) trigger(triggerType string, payload map[string]interface{}) {
	if ls.ruleEngine == nil {
		return
	}
	enqueued := ls.ruleEngine.Trigger(triggerType, payload)
	if len(enqueued) > 0 {
		logrus.Debugf("Trigger %s enqueued %d notification(s)", triggerType, len(enqueued))
	}
}

// disputePayload flattens a dispute snapshot into the rule evaluation
// payload. The raiser doubles as the default recipient.
func disputePayload(dispute models.Dispute) map[string]interface{} {
	return map[string]interface{}{
		"disputeId": dispute.ID,
		"reason":    dispute.Reason,
		"status":    dispute.Status,
		"priority":  dispute.Priority,
		"raisedBy":  dispute.RaisedBy,
		"userId":    dispute.RaisedBy,
		"dispute": map[string]interface{}{
			"id":       dispute.ID,
			"reason":   dispute.Reason,
			"status":   dispute.Status,
			"priority": dispute.Priority,
		},
	}
}
