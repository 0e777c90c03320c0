package services

import (
	"time"

	"disputetrack/models"
)

// SLA thresholds per dispute priority. Unknown priorities use the LOW
// threshold.
var slaThresholds = map[string]time.Duration{
	models.DisputePriorityUrgent: 2 * time.Hour,
	models.DisputePriorityHigh:   24 * time.Hour,
	models.DisputePriorityMedium: 72 * time.Hour,
	models.DisputePriorityLow:    168 * time.Hour,
}

// SLAThreshold returns the resolution deadline duration for a priority.
func SLAThreshold(priority string) time.Duration {
	if threshold, ok := slaThresholds[priority]; ok {
		return threshold
	}
	return slaThresholds[models.DisputePriorityLow]
}

// DefaultSLACalculator derives SLA standing from dispute age against the
// priority thresholds. It satisfies interfaces.SLACalculator.
type DefaultSLACalculator struct {
	now func() time.Time
}

func NewDefaultSLACalculator() *DefaultSLACalculator {
	return &DefaultSLACalculator{now: time.Now}
}

// CalculateSLAStatus reports OVERDUE past the threshold, AT_RISK from 80%
// of it, ON_TRACK otherwise. Terminal disputes are always ON_TRACK.
func (c *DefaultSLACalculator) CalculateSLAStatus(dispute models.Dispute) string {
	if dispute.IsTerminal() {
		return models.SLAStatusOnTrack
	}

	threshold := SLAThreshold(dispute.Priority)
	elapsed := c.now().Sub(dispute.CreatedAt)

	switch {
	case elapsed >= threshold:
		return models.SLAStatusOverdue
	case elapsed >= threshold*4/5:
		return models.SLAStatusAtRisk
	default:
		return models.SLAStatusOnTrack
	}
}

// CalculateTimeToResolution returns hours from creation to resolution, or
// hours elapsed so far for an unresolved dispute.
func (c *DefaultSLACalculator) CalculateTimeToResolution(dispute models.Dispute) float64 {
	end := c.now()
	if !dispute.ResolvedAt.IsZero() {
		end = dispute.ResolvedAt
	}
	if end.Before(dispute.CreatedAt) {
		return 0
	}
	return end.Sub(dispute.CreatedAt).Hours()
}
