package services

import (
	"sync"
	"time"

	"disputetrack/interfaces"
	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/utils"

	"github.com/sirupsen/logrus"
)

// NotificationService owns the notification queue, the delivery state
// machine and per-user preferences. New notifications enter PENDING and
// are picked up by the dispatcher worker.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository

	mu        sync.Mutex
	listeners map[int]interfaces.NotificationListener
	nextID    int
}

func NewNotificationService(notificationRepo *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		listeners:        make(map[int]interfaces.NotificationListener),
	}
}

// Enqueue stores a new PENDING notification and notifies listeners.
func (ns *NotificationService) Enqueue(notification models.Notification) (*models.Notification, error) {
	if notification.UserID == "" {
		return nil, utils.NewBadRequestError("userId is required")
	}

	notification.Status = models.StatusPending
	if err := ns.notificationRepo.Create(&notification); err != nil {
		return nil, err
	}

	ns.notifyListeners(notification)
	return &notification, nil
}

func (ns *NotificationService) Get(id string) (*models.Notification, error) {
	return ns.notificationRepo.GetByID(id)
}

func (ns *NotificationService) ListByUser(userID string, page, pageSize int) ([]models.Notification, int64) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return ns.notificationRepo.ListByUser(userID, page, pageSize)
}

func (ns *NotificationService) ListPending() []models.Notification {
	return ns.notificationRepo.ListPending()
}

func (ns *NotificationService) HasRecentForRule(ruleID, disputeID string, since time.Time) bool {
	return ns.notificationRepo.HasRecentForRule(ruleID, disputeID, since)
}

func (ns *NotificationService) MarkSent(id string) error {
	return ns.notificationRepo.MarkSent(id)
}

func (ns *NotificationService) MarkFailed(id string) error {
	return ns.notificationRepo.MarkFailed(id)
}

func (ns *NotificationService) MarkDelivered(id string) error {
	return ns.notificationRepo.MarkDelivered(id)
}

func (ns *NotificationService) MarkRead(id string) error {
	return ns.notificationRepo.MarkRead(id)
}

func (ns *NotificationService) GetPreferences(userID string) models.NotificationPreferences {
	return ns.notificationRepo.GetPreferences(userID)
}

func (ns *NotificationService) UpdatePreferences(userID string, req models.UpdatePreferencesRequest) models.NotificationPreferences {
	prefs := ns.notificationRepo.GetPreferences(userID)

	if req.Channels != nil {
		prefs.Channels = *req.Channels
	}
	if req.QuietHours != nil {
		prefs.QuietHours = *req.QuietHours
	}
	if req.Categories != nil {
		prefs.Categories = req.Categories
	}
	if req.Frequency != nil {
		prefs.Frequency = *req.Frequency
	}
	if req.Digest != nil {
		prefs.Digest = *req.Digest
	}

	ns.notificationRepo.SavePreferences(prefs)
	return ns.notificationRepo.GetPreferences(userID)
}

// Subscribe registers a listener for enqueued notifications and returns
// its unsubscribe function.
func (ns *NotificationService) Subscribe(listener interfaces.NotificationListener) func() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	id := ns.nextID
	ns.nextID++
	ns.listeners[id] = listener

	return func() {
		ns.mu.Lock()
		defer ns.mu.Unlock()
		delete(ns.listeners, id)
	}
}

func (ns *NotificationService) notifyListeners(notification models.Notification) {
	ns.mu.Lock()
	snapshot := make([]interfaces.NotificationListener, 0, len(ns.listeners))
	for _, l := range ns.listeners {
		snapshot = append(snapshot, l)
	}
	ns.mu.Unlock()

	for _, listener := range snapshot {
		ns.safeNotify(listener, notification)
	}
}

// safeNotify isolates listener failures so one bad subscriber cannot
// abort the enqueue or the remaining listeners.
func (ns *NotificationService) safeNotify(listener interfaces.NotificationListener, notification models.Notification) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"notificationId": notification.ID,
				"panic":          r,
			}).Error("Notification listener failed")
		}
	}()
	listener(notification)
}
