package workers

import (
	"context"
	"strings"
	"sync"
	"time"

	"disputetrack/interfaces"
	"disputetrack/models"
	"disputetrack/services"

	"github.com/sirupsen/logrus"
)

// SLAMonitor scans open disputes on a fixed interval, records SLA
// breaches and auto-escalates overdue disputes when an enabled workflow
// rule asks for it.
type SLAMonitor struct {
	disputeSource   interfaces.DisputeSource
	ruleSource      interfaces.WorkflowRuleSource
	slaCalculator   interfaces.SLACalculator
	trackingService *services.TrackingService
	ruleEngine      *services.RuleEngine

	config SLAMonitorConfig

	isRunning bool
	mutex     sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	stats      SLAMonitorStats
	statsMutex sync.RWMutex
}

type SLAMonitorConfig struct {
	PollInterval time.Duration `json:"pollInterval"`
	ScanTimeout  time.Duration `json:"scanTimeout"`
	// BreachRenotifyAfter is how long a recorded SLA breach suppresses
	// repeat breach events for the same dispute.
	BreachRenotifyAfter time.Duration `json:"breachRenotifyAfter"`
	// EscalationDedup suppresses repeat auto-escalations of a dispute
	// that already has an escalation event. Disable to restore per-tick
	// firing.
	EscalationDedup bool `json:"escalationDedup"`
}

type SLAMonitorStats struct {
	ScansCompleted  int64     `json:"scansCompleted"`
	BreachesFound   int64     `json:"breachesFound"`
	AutoEscalations int64     `json:"autoEscalations"`
	LastScanAt      time.Time `json:"lastScanAt"`
	StartTime       time.Time `json:"startTime"`
}

func NewSLAMonitor(
	disputeSource interfaces.DisputeSource,
	ruleSource interfaces.WorkflowRuleSource,
	slaCalculator interfaces.SLACalculator,
	trackingService *services.TrackingService,
	ruleEngine *services.RuleEngine,
	config SLAMonitorConfig,
) *SLAMonitor {
	ctx, cancel := context.WithCancel(context.Background())

	if config.PollInterval <= 0 {
		config.PollInterval = 30 * time.Second
	}
	if config.ScanTimeout <= 0 {
		config.ScanTimeout = 20 * time.Second
	}
	if config.BreachRenotifyAfter <= 0 {
		config.BreachRenotifyAfter = 24 * time.Hour
	}

	return &SLAMonitor{
		disputeSource:   disputeSource,
		ruleSource:      ruleSource,
		slaCalculator:   slaCalculator,
		trackingService: trackingService,
		ruleEngine:      ruleEngine,
		config:          config,
		ctx:             ctx,
		cancel:          cancel,
		stats: SLAMonitorStats{
			StartTime: time.Now(),
		},
	}
}

func (sm *SLAMonitor) Start() error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if sm.isRunning {
		return nil
	}
	sm.isRunning = true

	logrus.Infof("Starting SLA monitor, interval %s", sm.config.PollInterval)

	sm.wg.Add(1)
	go sm.run()

	return nil
}

func (sm *SLAMonitor) Stop() error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if !sm.isRunning {
		return nil
	}

	logrus.Info("Stopping SLA monitor...")

	sm.cancel()
	sm.isRunning = false
	sm.wg.Wait()

	logrus.Info("SLA monitor stopped")
	return nil
}

func (sm *SLAMonitor) run() {
	defer sm.wg.Done()

	ticker := time.NewTicker(sm.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.Scan()
		case <-sm.ctx.Done():
			return
		}
	}
}

// Scan runs a single monitoring pass. One bad dispute never stops the
// rest of the scan.
func (sm *SLAMonitor) Scan() {
	ctx, cancel := context.WithTimeout(sm.ctx, sm.config.ScanTimeout)
	defer cancel()

	disputes, err := sm.disputeSource.GetOpenDisputes(ctx)
	if err != nil {
		logrus.Errorf("SLA scan failed to list open disputes: %v", err)
		return
	}

	autoEscalate := sm.autoEscalationEnabled(ctx)

	for _, dispute := range disputes {
		if dispute.IsTerminal() {
			continue
		}

		sm.checkBreach(dispute)

		if autoEscalate {
			sm.checkAutoEscalation(dispute)
		}
	}

	sm.statsMutex.Lock()
	sm.stats.ScansCompleted++
	sm.stats.LastScanAt = time.Now()
	sm.statsMutex.Unlock()
}

// autoEscalationEnabled reports whether any enabled workflow rule asks
// for auto-escalation. Rule lookup failures disable escalation for the
// tick rather than failing the scan.
func (sm *SLAMonitor) autoEscalationEnabled(ctx context.Context) bool {
	if sm.ruleSource == nil {
		return false
	}

	rules, err := sm.ruleSource.GetRules(ctx)
	if err != nil {
		logrus.Errorf("SLA scan failed to load workflow rules: %v", err)
		return false
	}

	for _, rule := range rules {
		if rule.Enabled && strings.Contains(strings.ToLower(rule.Name), "escalat") {
			return true
		}
	}
	return false
}

func (sm *SLAMonitor) checkBreach(dispute models.Dispute) {
	if sm.slaCalculator.CalculateSLAStatus(dispute) != models.SLAStatusOverdue {
		return
	}

	cutoff := time.Now().Add(-sm.config.BreachRenotifyAfter)
	if sm.trackingService.HasEventSince(dispute.ID, models.EventSLABreach, cutoff) {
		return
	}

	threshold := services.SLAThreshold(dispute.Priority)
	_, err := sm.trackingService.Append(models.TrackingEvent{
		DisputeID:   dispute.ID,
		Type:        models.EventSLABreach,
		Title:       "SLA breached",
		Description: "Dispute exceeded its " + threshold.String() + " resolution deadline",
		Severity:    models.SeverityCritical,
		Metadata: map[string]interface{}{
			"priority":       dispute.Priority,
			"thresholdHours": threshold.Hours(),
			"elapsedHours":   sm.slaCalculator.CalculateTimeToResolution(dispute),
		},
	})
	if err != nil {
		logrus.Errorf("Failed to record SLA breach for dispute %s: %v", dispute.ID, err)
		return
	}

	sm.trigger(services.TriggerSLABreach, dispute, map[string]interface{}{
		"thresholdHours": threshold.Hours(),
	})

	sm.statsMutex.Lock()
	sm.stats.BreachesFound++
	sm.statsMutex.Unlock()
}

func (sm *SLAMonitor) checkAutoEscalation(dispute models.Dispute) {
	if dispute.Status != models.DisputeStatusOpen {
		return
	}

	threshold := services.SLAThreshold(dispute.Priority)
	if time.Since(dispute.CreatedAt) < threshold {
		return
	}

	// Either a prior automatic action or a manual escalation counts as
	// already escalated.
	if sm.config.EscalationDedup &&
		(sm.trackingService.HasEventSince(dispute.ID, models.EventAutoAction, time.Time{}) ||
			sm.trackingService.HasEventSince(dispute.ID, models.EventEscalation, time.Time{})) {
		return
	}

	_, err := sm.trackingService.Append(models.TrackingEvent{
		DisputeID:   dispute.ID,
		Type:        models.EventAutoAction,
		Title:       "Dispute auto-escalated",
		Description: "Open past its " + threshold.String() + " resolution deadline",
		Severity:    models.SeverityCritical,
		Metadata: map[string]interface{}{
			"automatic":      true,
			"priority":       dispute.Priority,
			"thresholdHours": threshold.Hours(),
		},
	})
	if err != nil {
		logrus.Errorf("Failed to record auto-escalation for dispute %s: %v", dispute.ID, err)
		return
	}

	sm.trigger(services.TriggerAutoEscalation, dispute, map[string]interface{}{
		"thresholdHours": threshold.Hours(),
	})

	sm.statsMutex.Lock()
	sm.stats.AutoEscalations++
	sm.statsMutex.Unlock()
}

func (sm *SLAMonitor) trigger(triggerType string, dispute models.Dispute, extra map[string]interface{}) {
	if sm.ruleEngine == nil {
		return
	}

	payload := map[string]interface{}{
		"disputeId": dispute.ID,
		"reason":    dispute.Reason,
		"status":    dispute.Status,
		"priority":  dispute.Priority,
		"raisedBy":  dispute.RaisedBy,
		"userId":    dispute.RaisedBy,
	}
	for k, v := range extra {
		payload[k] = v
	}

	sm.ruleEngine.Trigger(triggerType, payload)
}

func (sm *SLAMonitor) GetStats() SLAMonitorStats {
	sm.statsMutex.RLock()
	defer sm.statsMutex.RUnlock()
	return sm.stats
}
