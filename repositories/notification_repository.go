package repositories

import (
	"sync"
	"time"

	"disputetrack/models"
	"disputetrack/utils"
)

// NotificationRepository holds the in-memory notification queue and the
// per-user preferences. Status transitions are enforced here so the state
// machine stays forward-only no matter which caller drives it.
type NotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]models.Notification
	order         []string // newest first
	preferences   map[string]models.NotificationPreferences
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		notifications: make(map[string]models.Notification),
		preferences:   make(map[string]models.NotificationPreferences),
	}
}

func (nr *NotificationRepository) Create(notification *models.Notification) error {
	nr.mu.Lock()
	defer nr.mu.Unlock()

	if notification.ID == "" {
		notification.ID = utils.GenerateUUID()
	}
	if _, exists := nr.notifications[notification.ID]; exists {
		return utils.NewConflictError("Notification already exists")
	}
	if notification.Status == "" {
		notification.Status = models.StatusPending
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	nr.notifications[notification.ID] = *notification
	nr.order = append([]string{notification.ID}, nr.order...)
	return nil
}

func (nr *NotificationRepository) GetByID(id string) (*models.Notification, error) {
	nr.mu.RLock()
	defer nr.mu.RUnlock()

	n, ok := nr.notifications[id]
	if !ok {
		return nil, utils.NewNotFoundError("Notification")
	}
	return &n, nil
}

// ListByUser returns a user's notifications newest-first with pagination.
func (nr *NotificationRepository) ListByUser(userID string, page, pageSize int) ([]models.Notification, int64) {
	nr.mu.RLock()
	defer nr.mu.RUnlock()

	matched := make([]models.Notification, 0)
	for _, id := range nr.order {
		n := nr.notifications[id]
		if n.UserID == userID {
			matched = append(matched, n)
		}
	}

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []models.Notification{}, total
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total
}

// ListPending returns every PENDING notification, oldest first so the
// dispatcher drains the queue in arrival order.
func (nr *NotificationRepository) ListPending() []models.Notification {
	nr.mu.RLock()
	defer nr.mu.RUnlock()

	pending := make([]models.Notification, 0)
	for i := len(nr.order) - 1; i >= 0; i-- {
		n := nr.notifications[nr.order[i]]
		if n.Status == models.StatusPending {
			pending = append(pending, n)
		}
	}
	return pending
}

// HasRecentForRule reports whether a notification created by the given
// rule for the given dispute exists after the cutoff. Drives the cooldown
// check.
func (nr *NotificationRepository) HasRecentForRule(ruleID, disputeID string, since time.Time) bool {
	nr.mu.RLock()
	defer nr.mu.RUnlock()

	for _, id := range nr.order {
		n := nr.notifications[id]
		if n.CreatedAt.Before(since) {
			// Order is newest-first, the rest is older still.
			return false
		}
		if n.Data == nil {
			continue
		}
		if n.Data["ruleId"] == ruleID && n.Data["disputeId"] == disputeID {
			return true
		}
	}
	return false
}

func (nr *NotificationRepository) MarkSent(id string) error {
	return nr.transition(id, models.StatusPending, models.StatusSent)
}

func (nr *NotificationRepository) MarkFailed(id string) error {
	return nr.transition(id, models.StatusPending, models.StatusFailed)
}

func (nr *NotificationRepository) MarkDelivered(id string) error {
	return nr.transition(id, models.StatusSent, models.StatusDelivered)
}

func (nr *NotificationRepository) MarkRead(id string) error {
	return nr.transition(id, models.StatusDelivered, models.StatusRead)
}

func (nr *NotificationRepository) transition(id, from, to string) error {
	nr.mu.Lock()
	defer nr.mu.Unlock()

	n, ok := nr.notifications[id]
	if !ok {
		return utils.NewNotFoundError("Notification")
	}
	if n.Status != from {
		return utils.NewInvalidTransitionError(n.Status, to)
	}

	now := time.Now()
	n.Status = to
	switch to {
	case models.StatusSent:
		n.SentAt = now
	case models.StatusFailed:
		n.FailedAt = now
	case models.StatusDelivered:
		n.DeliveredAt = now
	case models.StatusRead:
		n.ReadAt = now
	}
	nr.notifications[id] = n
	return nil
}

// GetPreferences returns the stored preferences for a user, or the
// permissive defaults when the user never saved any.
func (nr *NotificationRepository) GetPreferences(userID string) models.NotificationPreferences {
	nr.mu.RLock()
	defer nr.mu.RUnlock()

	if prefs, ok := nr.preferences[userID]; ok {
		return prefs
	}
	return models.DefaultPreferences(userID)
}

func (nr *NotificationRepository) SavePreferences(prefs models.NotificationPreferences) {
	nr.mu.Lock()
	defer nr.mu.Unlock()

	prefs.UpdatedAt = time.Now()
	nr.preferences[prefs.UserID] = prefs
}
