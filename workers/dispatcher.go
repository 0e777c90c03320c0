package workers

import (
	"context"
	"sync"
	"time"

	"disputetrack/interfaces"
	"disputetrack/models"
	"disputetrack/services"

	"github.com/sirupsen/logrus"
)

// Dispatcher drains the PENDING notification queue on a fixed interval
// and pushes each notification through its channel senders. Quiet hours
// defer non-urgent deliveries to a later tick.
type Dispatcher struct {
	notificationService *services.NotificationService
	senders             map[string]interfaces.ChannelSender

	config DispatcherConfig

	isRunning bool
	mutex     sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	stats      DispatcherStats
	statsMutex sync.RWMutex
}

type DispatcherConfig struct {
	PollInterval time.Duration `json:"pollInterval"`
	SendTimeout  time.Duration `json:"sendTimeout"`
}

type DispatcherStats struct {
	Sent            int64     `json:"sent"`
	Failed          int64     `json:"failed"`
	Deferred        int64     `json:"deferred"`
	LastProcessedAt time.Time `json:"lastProcessedAt"`
	StartTime       time.Time `json:"startTime"`
}

func NewDispatcher(notificationService *services.NotificationService, senders []interfaces.ChannelSender, config DispatcherConfig) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	if config.PollInterval <= 0 {
		config.PollInterval = 30 * time.Second
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = 15 * time.Second
	}

	byChannel := make(map[string]interfaces.ChannelSender, len(senders))
	for _, sender := range senders {
		byChannel[sender.Channel()] = sender
	}

	return &Dispatcher{
		notificationService: notificationService,
		senders:             byChannel,
		config:              config,
		ctx:                 ctx,
		cancel:              cancel,
		stats: DispatcherStats{
			StartTime: time.Now(),
		},
	}
}

func (d *Dispatcher) Start() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.isRunning {
		return nil
	}
	d.isRunning = true

	logrus.Infof("Starting notification dispatcher, interval %s", d.config.PollInterval)

	d.wg.Add(1)
	go d.run()

	return nil
}

func (d *Dispatcher) Stop() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.isRunning {
		return nil
	}

	logrus.Info("Stopping notification dispatcher...")

	d.cancel()
	d.isRunning = false
	d.wg.Wait()

	logrus.Info("Notification dispatcher stopped")
	return nil
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.ProcessPending()
		case <-d.ctx.Done():
			return
		}
	}
}

// ProcessPending runs a single dispatch pass over the pending queue.
func (d *Dispatcher) ProcessPending() {
	pending := d.notificationService.ListPending()
	if len(pending) == 0 {
		return
	}

	logrus.Debugf("Dispatching %d pending notification(s)", len(pending))

	for _, notification := range pending {
		select {
		case <-d.ctx.Done():
			return
		default:
		}
		d.dispatch(notification)
	}

	d.statsMutex.Lock()
	d.stats.LastProcessedAt = time.Now()
	d.statsMutex.Unlock()
}

func (d *Dispatcher) dispatch(notification models.Notification) {
	prefs := d.notificationService.GetPreferences(notification.UserID)

	// Urgent deliveries bypass quiet hours.
	if notification.Priority != models.PriorityUrgent && isQuietHours(prefs.QuietHours, time.Now()) {
		logrus.Debugf("Quiet hours for user %s, deferring notification %s", notification.UserID, notification.ID)
		d.incrementDeferred()
		return
	}

	// Whole-notification granularity: every channel must succeed for
	// SENT; one failure marks the notification FAILED with no retry.
	failed := false
	for _, channel := range notification.Channels {
		sender, ok := d.senders[channel]
		if !ok {
			logrus.Warnf("No sender registered for channel %s", channel)
			failed = true
			continue
		}

		// In-flight sends survive a dispatcher shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), d.config.SendTimeout)
		err := sender.Send(ctx, notification)
		cancel()

		if err != nil {
			logrus.Errorf("Channel %s failed for notification %s: %v", channel, notification.ID, err)
			failed = true
		}
	}

	if failed {
		if err := d.notificationService.MarkFailed(notification.ID); err != nil {
			logrus.Errorf("Failed to mark notification %s failed: %v", notification.ID, err)
			return
		}
		d.incrementFailed()
		return
	}

	if err := d.notificationService.MarkSent(notification.ID); err != nil {
		logrus.Errorf("Failed to mark notification %s sent: %v", notification.ID, err)
		return
	}
	d.incrementSent()
}

func (d *Dispatcher) GetStats() DispatcherStats {
	d.statsMutex.RLock()
	defer d.statsMutex.RUnlock()
	return d.stats
}

func (d *Dispatcher) incrementSent() {
	d.statsMutex.Lock()
	d.stats.Sent++
	d.statsMutex.Unlock()
}

func (d *Dispatcher) incrementFailed() {
	d.statsMutex.Lock()
	d.stats.Failed++
	d.statsMutex.Unlock()
}

func (d *Dispatcher) incrementDeferred() {
	d.statsMutex.Lock()
	d.stats.Deferred++
	d.statsMutex.Unlock()
}

// isQuietHours reports whether now falls inside the user's quiet window.
// Times are interpreted in the window's timezone; a start after the end
// spans midnight.
func isQuietHours(quietHours models.QuietHours, now time.Time) bool {
	if !quietHours.Enabled {
		return false
	}

	startTime, err := time.Parse("15:04", quietHours.Start)
	if err != nil {
		return false
	}
	endTime, err := time.Parse("15:04", quietHours.End)
	if err != nil {
		return false
	}

	if quietHours.Timezone != "" {
		if loc, err := time.LoadLocation(quietHours.Timezone); err == nil {
			now = now.In(loc)
		}
	}

	currentMinutes := now.Hour()*60 + now.Minute()
	startMinutes := startTime.Hour()*60 + startTime.Minute()
	endMinutes := endTime.Hour()*60 + endTime.Minute()

	if startMinutes <= endMinutes {
		return currentMinutes >= startMinutes && currentMinutes <= endMinutes
	}
	// Overnight window
	return currentMinutes >= startMinutes || currentMinutes <= endMinutes
}
