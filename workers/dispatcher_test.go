package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"disputetrack/interfaces"
	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/services"
)

type fakeSender struct {
	channel string
	err     error
	sent    []string
}

func (f *fakeSender) Channel() string { return f.channel }

func (f *fakeSender) Send(ctx context.Context, notification models.Notification) error {
	f.sent = append(f.sent, notification.ID)
	return f.err
}

type dispatcherFixture struct {
	dispatcher       *Dispatcher
	notificationRepo *repositories.NotificationRepository
	service          *services.NotificationService
	email            *fakeSender
	inApp            *fakeSender
}

func newDispatcherFixture(emailErr error) *dispatcherFixture {
	notificationRepo := repositories.NewNotificationRepository()
	service := services.NewNotificationService(notificationRepo)
	email := &fakeSender{channel: models.ChannelEmail, err: emailErr}
	inApp := &fakeSender{channel: models.ChannelInApp}

	dispatcher := NewDispatcher(service, []interfaces.ChannelSender{email, inApp}, DispatcherConfig{
		PollInterval: time.Minute,
		SendTimeout:  time.Second,
	})
	return &dispatcherFixture{
		dispatcher:       dispatcher,
		notificationRepo: notificationRepo,
		service:          service,
		email:            email,
		inApp:            inApp,
	}
}

func (f *dispatcherFixture) enqueue(t *testing.T, n models.Notification) *models.Notification {
	t.Helper()
	if n.UserID == "" {
		n.UserID = "u1"
	}
	queued, err := f.service.Enqueue(n)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	return queued
}

func (f *dispatcherFixture) status(t *testing.T, id string) string {
	t.Helper()
	n, err := f.service.Get(id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	return n.Status
}

func TestDispatchAllChannelsSucceed(t *testing.T) {
	f := newDispatcherFixture(nil)
	n := f.enqueue(t, models.Notification{Channels: []string{models.ChannelEmail, models.ChannelInApp}})

	f.dispatcher.ProcessPending()

	if got := f.status(t, n.ID); got != models.StatusSent {
		t.Errorf("status = %s, want SENT", got)
	}
	if len(f.email.sent) != 1 || len(f.inApp.sent) != 1 {
		t.Errorf("expected both channels attempted, email=%d inApp=%d", len(f.email.sent), len(f.inApp.sent))
	}
	if f.dispatcher.GetStats().Sent != 1 {
		t.Errorf("stats.sent = %d, want 1", f.dispatcher.GetStats().Sent)
	}
}

func TestDispatchAnyChannelFailureMarksFailed(t *testing.T) {
	f := newDispatcherFixture(errors.New("smtp refused"))
	n := f.enqueue(t, models.Notification{Channels: []string{models.ChannelEmail, models.ChannelInApp}})

	f.dispatcher.ProcessPending()

	if got := f.status(t, n.ID); got != models.StatusFailed {
		t.Errorf("status = %s, want FAILED when one channel fails", got)
	}
	// The remaining channel is still attempted before the mark.
	if len(f.inApp.sent) != 1 {
		t.Errorf("expected the in-app send to be attempted, got %d", len(f.inApp.sent))
	}

	// No retry on the next pass.
	f.dispatcher.ProcessPending()
	if len(f.email.sent) != 1 {
		t.Errorf("failed notifications must not be retried, email attempts = %d", len(f.email.sent))
	}
}

func TestDispatchMissingSenderMarksFailed(t *testing.T) {
	f := newDispatcherFixture(nil)
	n := f.enqueue(t, models.Notification{Channels: []string{models.ChannelSMS}})

	f.dispatcher.ProcessPending()

	if got := f.status(t, n.ID); got != models.StatusFailed {
		t.Errorf("status = %s, want FAILED for an unregistered channel", got)
	}
}

func TestDispatchQuietHoursDefersNonUrgent(t *testing.T) {
	f := newDispatcherFixture(nil)

	prefs := models.DefaultPreferences("u1")
	prefs.QuietHours = models.QuietHours{Enabled: true, Start: "00:00", End: "23:59"}
	f.notificationRepo.SavePreferences(prefs)

	n := f.enqueue(t, models.Notification{
		Channels: []string{models.ChannelEmail},
		Priority: models.PriorityMedium,
	})

	f.dispatcher.ProcessPending()

	if got := f.status(t, n.ID); got != models.StatusPending {
		t.Errorf("status = %s, want PENDING while quiet hours hold", got)
	}
	if len(f.email.sent) != 0 {
		t.Errorf("no send should be attempted during quiet hours, got %d", len(f.email.sent))
	}
	if f.dispatcher.GetStats().Deferred != 1 {
		t.Errorf("stats.deferred = %d, want 1", f.dispatcher.GetStats().Deferred)
	}

	// Still pending on the next pass, so a later tick can deliver it.
	f.dispatcher.ProcessPending()
	if got := f.status(t, n.ID); got != models.StatusPending {
		t.Errorf("status = %s, want PENDING on repeat passes", got)
	}
}

func TestDispatchUrgentBypassesQuietHours(t *testing.T) {
	f := newDispatcherFixture(nil)

	prefs := models.DefaultPreferences("u1")
	prefs.QuietHours = models.QuietHours{Enabled: true, Start: "00:00", End: "23:59"}
	f.notificationRepo.SavePreferences(prefs)

	n := f.enqueue(t, models.Notification{
		Channels: []string{models.ChannelEmail},
		Priority: models.PriorityUrgent,
	})

	f.dispatcher.ProcessPending()

	if got := f.status(t, n.ID); got != models.StatusSent {
		t.Errorf("status = %s, want SENT for urgent despite quiet hours", got)
	}
}

func TestIsQuietHours(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		qh   models.QuietHours
		now  time.Time
		want bool
	}{
		{"disabled", models.QuietHours{Start: "22:00", End: "07:00"}, at(23, 0), false},
		{"inside same-day window", models.QuietHours{Enabled: true, Start: "12:00", End: "14:00"}, at(13, 0), true},
		{"outside same-day window", models.QuietHours{Enabled: true, Start: "12:00", End: "14:00"}, at(15, 0), false},
		{"overnight late evening", models.QuietHours{Enabled: true, Start: "22:00", End: "07:00"}, at(23, 30), true},
		{"overnight early morning", models.QuietHours{Enabled: true, Start: "22:00", End: "07:00"}, at(6, 0), true},
		{"overnight midday gap", models.QuietHours{Enabled: true, Start: "22:00", End: "07:00"}, at(12, 0), false},
		{"window boundary start", models.QuietHours{Enabled: true, Start: "22:00", End: "07:00"}, at(22, 0), true},
		{"bad start time", models.QuietHours{Enabled: true, Start: "quarter past", End: "07:00"}, at(23, 0), false},
		{"timezone shift", models.QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "America/New_York"}, at(3, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isQuietHours(tt.qh, tt.now); got != tt.want {
				t.Errorf("isQuietHours(%+v, %s) = %v, want %v", tt.qh, tt.now, got, tt.want)
			}
		})
	}
}
