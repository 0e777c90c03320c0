package models

import "time"

// Tracking event types.
const (
	EventStatusChange       = "STATUS_CHANGE"
	EventPriorityChange     = "PRIORITY_CHANGE"
	EventMessageAdded       = "MESSAGE_ADDED"
	EventEvidenceAdded      = "EVIDENCE_ADDED"
	EventResolutionProposed = "RESOLUTION_PROPOSED"
	EventResolutionAccepted = "RESOLUTION_ACCEPTED"
	EventResolutionRejected = "RESOLUTION_REJECTED"
	EventSLABreach          = "SLA_BREACH"
	EventEscalation         = "ESCALATION"
	EventAutoAction         = "AUTO_ACTION"
)

// Event severities.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// TrackingEvent is an immutable audit record derived from a dispute
// lifecycle signal. The store assigns ID and Timestamp on append.
type TrackingEvent struct {
	ID          string                 `json:"id" bson:"_id"`
	DisputeID   string                 `json:"disputeId" bson:"disputeId"`
	Type        string                 `json:"type" bson:"type"`
	Title       string                 `json:"title" bson:"title"`
	Description string                 `json:"description" bson:"description"`
	Timestamp   time.Time              `json:"timestamp" bson:"timestamp"`
	UserID      string                 `json:"userId,omitempty" bson:"userId,omitempty"`
	UserName    string                 `json:"userName,omitempty" bson:"userName,omitempty"`
	Severity    string                 `json:"severity" bson:"severity"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// EventFilter narrows a tracking event query. Zero values match everything.
type EventFilter struct {
	DisputeID string    `json:"disputeId" form:"disputeId"`
	Type      string    `json:"type" form:"type"`
	Severity  string    `json:"severity" form:"severity"`
	UserID    string    `json:"userId" form:"userId"`
	From      time.Time `json:"from" form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        time.Time `json:"to" form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Offset    int       `json:"offset" form:"offset"`
	Limit     int       `json:"limit" form:"limit"`
}

// Matches reports whether the event passes every set filter field.
func (f EventFilter) Matches(ev TrackingEvent) bool {
	if f.DisputeID != "" && ev.DisputeID != f.DisputeID {
		return false
	}
	if f.Type != "" && ev.Type != f.Type {
		return false
	}
	if f.Severity != "" && ev.Severity != f.Severity {
		return false
	}
	if f.UserID != "" && ev.UserID != f.UserID {
		return false
	}
	if !f.From.IsZero() && ev.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && ev.Timestamp.After(f.To) {
		return false
	}
	return true
}

// TrackingMetrics is an on-demand aggregate over the full event log.
// The response time and time-to-resolution figures are approximations
// derived from event spacing, not exact clocks.
type TrackingMetrics struct {
	TotalEvents        int64            `json:"totalEvents"`
	EventsByType       map[string]int64 `json:"eventsByType"`
	EventsBySeverity   map[string]int64 `json:"eventsBySeverity"`
	EscalationRate     float64          `json:"escalationRate"`
	ResolutionRate     float64          `json:"resolutionRate"`
	AvgResponseHours   float64          `json:"avgResponseHours"`
	AvgResolutionHours float64          `json:"avgResolutionHours"`
}

// DashboardBundle composes the operational overview served to dashboards.
type DashboardBundle struct {
	EventsToday      int64           `json:"eventsToday"`
	EscalationsToday int64           `json:"escalationsToday"`
	RecentEvents     []TrackingEvent `json:"recentEvents"`
	UrgentAlerts     []TrackingEvent `json:"urgentAlerts"`
	Metrics          TrackingMetrics `json:"metrics"`
}
