package services

import (
	"testing"

	"disputetrack/models"
	"disputetrack/repositories"
)

func TestEnqueueRequiresUser(t *testing.T) {
	service := NewNotificationService(repositories.NewNotificationRepository())

	if _, err := service.Enqueue(models.Notification{Title: "orphan"}); err == nil {
		t.Error("expected an error for a notification without a user")
	}
}

func TestNotificationListenerFailureIsolation(t *testing.T) {
	repo := repositories.NewNotificationRepository()
	service := NewNotificationService(repo)

	service.Subscribe(func(models.Notification) {
		panic("listener blew up")
	})
	var survived bool
	service.Subscribe(func(models.Notification) {
		survived = true
	})

	queued, err := service.Enqueue(models.Notification{UserID: "u1", Title: "t"})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if !survived {
		t.Error("expected the second listener to run despite the first panicking")
	}
	if got, _ := repo.GetByID(queued.ID); got.Status != models.StatusPending {
		t.Errorf("status = %s, want PENDING", got.Status)
	}
}

func TestNotificationSubscribeUnsubscribe(t *testing.T) {
	service := NewNotificationService(repositories.NewNotificationRepository())

	var received int
	unsubscribe := service.Subscribe(func(models.Notification) {
		received++
	})

	service.Enqueue(models.Notification{UserID: "u1"})
	unsubscribe()
	service.Enqueue(models.Notification{UserID: "u1"})

	if received != 1 {
		t.Errorf("received = %d, want 1 after unsubscribe", received)
	}
}

func TestListByUserClamps(t *testing.T) {
	repo := repositories.NewNotificationRepository()
	service := NewNotificationService(repo)

	for i := 0; i < 3; i++ {
		service.Enqueue(models.Notification{UserID: "u1"})
	}

	notifications, total := service.ListByUser("u1", -5, 0)
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(notifications) != 3 {
		t.Errorf("got %d notifications, defaults should cover the full page", len(notifications))
	}
}
