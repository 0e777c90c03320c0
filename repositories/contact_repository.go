package repositories

import (
	"sync"

	"disputetrack/models"
	"disputetrack/utils"
)

// ContactRepository maps user IDs to the delivery addresses the channel
// senders need. Populated by the caller; the engine never looks users up
// anywhere else.
type ContactRepository struct {
	mu       sync.RWMutex
	contacts map[string]models.Contact
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{
		contacts: make(map[string]models.Contact),
	}
}

func (cr *ContactRepository) Upsert(contact models.Contact) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.contacts[contact.UserID] = contact
}

func (cr *ContactRepository) GetByUserID(userID string) (*models.Contact, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	contact, ok := cr.contacts[userID]
	if !ok {
		return nil, utils.NewNotFoundError("Contact")
	}
	return &contact, nil
}

func (cr *ContactRepository) Delete(userID string) error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if _, ok := cr.contacts[userID]; !ok {
		return utils.NewNotFoundError("Contact")
	}
	delete(cr.contacts, userID)
	return nil
}
