package repositories

import (
	"sync"
	"time"

	"disputetrack/models"
)

const DefaultEventCapacity = 1000

// EventRepository is the append-only, bounded, in-memory tracking event
// log. Events are kept newest-first; once the capacity is reached the
// oldest entries are evicted. All engine state is memory-resident by
// design; durability is a subscriber concern.
type EventRepository struct {
	mu       sync.RWMutex
	capacity int
	events   []models.TrackingEvent
}

func NewEventRepository(capacity int) *EventRepository {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}
	return &EventRepository{
		capacity: capacity,
		events:   make([]models.TrackingEvent, 0, capacity),
	}
}

// Insert prepends the event and trims the log to capacity.
func (er *EventRepository) Insert(event models.TrackingEvent) {
	er.mu.Lock()
	defer er.mu.Unlock()

	er.events = append([]models.TrackingEvent{event}, er.events...)
	if len(er.events) > er.capacity {
		er.events = er.events[:er.capacity]
	}
}

// Query filters the log and applies offset/limit pagination. The returned
// total counts matches before pagination.
func (er *EventRepository) Query(filter models.EventFilter) ([]models.TrackingEvent, int64) {
	er.mu.RLock()
	defer er.mu.RUnlock()

	matched := make([]models.TrackingEvent, 0)
	for _, ev := range er.events {
		if filter.Matches(ev) {
			matched = append(matched, ev)
		}
	}

	total := int64(len(matched))

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []models.TrackingEvent{}, total
	}
	matched = matched[offset:]

	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, total
}

// All returns a copy of the full log, newest-first.
func (er *EventRepository) All() []models.TrackingEvent {
	er.mu.RLock()
	defer er.mu.RUnlock()

	out := make([]models.TrackingEvent, len(er.events))
	copy(out, er.events)
	return out
}

// Len returns the current log size.
func (er *EventRepository) Len() int {
	er.mu.RLock()
	defer er.mu.RUnlock()
	return len(er.events)
}

// HasEventSince reports whether the dispute already has an event of the
// given type newer than the cutoff. Used for breach/escalation dedup.
func (er *EventRepository) HasEventSince(disputeID, eventType string, since time.Time) bool {
	er.mu.RLock()
	defer er.mu.RUnlock()

	for _, ev := range er.events {
		// Log is newest-first, so everything past the cutoff is older.
		if ev.Timestamp.Before(since) {
			return false
		}
		if ev.DisputeID == disputeID && ev.Type == eventType {
			return true
		}
	}
	return false
}
