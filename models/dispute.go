package models

import "time"

// Dispute status values as reported by the lifecycle signals.
const (
	DisputeStatusOpen     = "OPEN"
	DisputeStatusInReview = "IN_REVIEW"
	DisputeStatusResolved = "RESOLVED"
	DisputeStatusClosed   = "CLOSED"
)

// Dispute priority values.
const (
	DisputePriorityLow    = "LOW"
	DisputePriorityMedium = "MEDIUM"
	DisputePriorityHigh   = "HIGH"
	DisputePriorityUrgent = "URGENT"
)

// PriorityRank maps a dispute priority to its ordinal rank. Unknown
// priorities rank as 0 so any known priority compares above them.
func PriorityRank(priority string) int {
	switch priority {
	case DisputePriorityLow:
		return 1
	case DisputePriorityMedium:
		return 2
	case DisputePriorityHigh:
		return 3
	case DisputePriorityUrgent:
		return 4
	default:
		return 0
	}
}

// SLA status values produced by the SLA calculator.
const (
	SLAStatusOnTrack = "ON_TRACK"
	SLAStatusAtRisk  = "AT_RISK"
	SLAStatusOverdue = "OVERDUE"
)

// Dispute is a read-only snapshot passed in by the caller with each
// lifecycle signal. The engine never mutates it.
type Dispute struct {
	ID         string    `json:"id"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	RaisedBy   string    `json:"raisedBy"`
	Resolution string    `json:"resolution,omitempty"`
	ResolvedBy string    `json:"resolvedBy,omitempty"`
	ResolvedAt time.Time `json:"resolvedAt,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IsTerminal reports whether the dispute has reached a final status.
func (d Dispute) IsTerminal() bool {
	return d.Status == DisputeStatusResolved || d.Status == DisputeStatusClosed
}

// WorkflowRule is an externally managed rule definition consumed read-only
// by the auto-escalation check. Distinct from NotificationRule.
type WorkflowRule struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}
