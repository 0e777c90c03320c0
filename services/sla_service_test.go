package services

import (
	"math"
	"testing"
	"time"

	"disputetrack/models"
)

func fixedClock(at time.Time) *DefaultSLACalculator {
	return &DefaultSLACalculator{now: func() time.Time { return at }}
}

func TestSLAThreshold(t *testing.T) {
	tests := []struct {
		priority string
		want     time.Duration
	}{
		{models.DisputePriorityUrgent, 2 * time.Hour},
		{models.DisputePriorityHigh, 24 * time.Hour},
		{models.DisputePriorityMedium, 72 * time.Hour},
		{models.DisputePriorityLow, 168 * time.Hour},
		{"UNKNOWN", 168 * time.Hour},
	}

	for _, tt := range tests {
		if got := SLAThreshold(tt.priority); got != tt.want {
			t.Errorf("SLAThreshold(%s) = %v, want %v", tt.priority, got, tt.want)
		}
	}
}

func TestCalculateSLAStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	calc := fixedClock(now)

	tests := []struct {
		name    string
		dispute models.Dispute
		want    string
	}{
		{
			"fresh urgent on track",
			models.Dispute{Status: models.DisputeStatusOpen, Priority: models.DisputePriorityUrgent, CreatedAt: now.Add(-30 * time.Minute)},
			models.SLAStatusOnTrack,
		},
		{
			"urgent at 80 percent",
			models.Dispute{Status: models.DisputeStatusOpen, Priority: models.DisputePriorityUrgent, CreatedAt: now.Add(-96 * time.Minute)},
			models.SLAStatusAtRisk,
		},
		{
			"urgent past threshold",
			models.Dispute{Status: models.DisputeStatusOpen, Priority: models.DisputePriorityUrgent, CreatedAt: now.Add(-2 * time.Hour)},
			models.SLAStatusOverdue,
		},
		{
			"high just under risk",
			models.Dispute{Status: models.DisputeStatusOpen, Priority: models.DisputePriorityHigh, CreatedAt: now.Add(-19 * time.Hour)},
			models.SLAStatusOnTrack,
		},
		{
			"medium overdue",
			models.Dispute{Status: models.DisputeStatusInReview, Priority: models.DisputePriorityMedium, CreatedAt: now.Add(-80 * time.Hour)},
			models.SLAStatusOverdue,
		},
		{
			"low at risk",
			models.Dispute{Status: models.DisputeStatusOpen, Priority: models.DisputePriorityLow, CreatedAt: now.Add(-140 * time.Hour)},
			models.SLAStatusAtRisk,
		},
		{
			"resolved is always on track",
			models.Dispute{Status: models.DisputeStatusResolved, Priority: models.DisputePriorityUrgent, CreatedAt: now.Add(-100 * time.Hour)},
			models.SLAStatusOnTrack,
		},
		{
			"closed is always on track",
			models.Dispute{Status: models.DisputeStatusClosed, Priority: models.DisputePriorityUrgent, CreatedAt: now.Add(-100 * time.Hour)},
			models.SLAStatusOnTrack,
		},
		{
			"unknown priority uses low threshold",
			models.Dispute{Status: models.DisputeStatusOpen, Priority: "WHATEVER", CreatedAt: now.Add(-100 * time.Hour)},
			models.SLAStatusOnTrack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.CalculateSLAStatus(tt.dispute); got != tt.want {
				t.Errorf("CalculateSLAStatus = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCalculateTimeToResolution(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	calc := fixedClock(now)

	created := now.Add(-10 * time.Hour)

	resolved := calc.CalculateTimeToResolution(models.Dispute{
		CreatedAt:  created,
		ResolvedAt: created.Add(4 * time.Hour),
	})
	if math.Abs(resolved-4) > 0.001 {
		t.Errorf("resolved dispute hours = %v, want 4", resolved)
	}

	open := calc.CalculateTimeToResolution(models.Dispute{CreatedAt: created})
	if math.Abs(open-10) > 0.001 {
		t.Errorf("open dispute hours = %v, want 10", open)
	}
}
