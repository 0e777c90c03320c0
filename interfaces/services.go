package interfaces

import (
	"context"

	"disputetrack/models"
)

// DisputeSource lists the open disputes the SLA monitor scans each tick.
type DisputeSource interface {
	GetOpenDisputes(ctx context.Context) ([]models.Dispute, error)
}

// SLACalculator is the external time-math collaborator.
type SLACalculator interface {
	CalculateSLAStatus(dispute models.Dispute) string
	CalculateTimeToResolution(dispute models.Dispute) float64
}

// WorkflowRuleSource supplies the externally managed rule definitions the
// auto-escalation check consumes read-only.
type WorkflowRuleSource interface {
	GetRules(ctx context.Context) ([]models.WorkflowRule, error)
}

// ChannelSender delivers a fully rendered notification over one channel.
// Transport implementation is out of the engine's scope.
type ChannelSender interface {
	Channel() string
	Send(ctx context.Context, notification models.Notification) error
}

// TrackingListener receives every appended tracking event. Fan-out is
// synchronous; a panic in one listener is isolated from the others.
type TrackingListener func(event models.TrackingEvent)

// NotificationListener receives every enqueued notification.
type NotificationListener func(notification models.Notification)

// EventArchiver persists a copy of tracking events outside the engine.
// The engine itself keeps no durable state.
type EventArchiver interface {
	Archive(ctx context.Context, event models.TrackingEvent) error
}

// NotificationBroadcaster pushes in-app notifications and live tracking
// events to connected clients.
type NotificationBroadcaster interface {
	SendNotificationToUser(userID string, notification models.Notification) error
	BroadcastTrackingEvent(event models.TrackingEvent)
	IsUserOnline(userID string) bool
}
