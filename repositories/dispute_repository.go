package repositories

import (
	"context"
	"sync"

	"disputetrack/models"
	"disputetrack/utils"
)

// DisputeRegistry caches the dispute snapshots delivered by lifecycle
// signals so the SLA monitor has something to scan. It satisfies
// interfaces.DisputeSource. The system of record stays external.
type DisputeRegistry struct {
	mu       sync.RWMutex
	disputes map[string]models.Dispute
}

func NewDisputeRegistry() *DisputeRegistry {
	return &DisputeRegistry{
		disputes: make(map[string]models.Dispute),
	}
}

// Upsert replaces the cached snapshot for a dispute.
func (dr *DisputeRegistry) Upsert(dispute models.Dispute) {
	if dispute.ID == "" {
		return
	}
	dr.mu.Lock()
	defer dr.mu.Unlock()
	dr.disputes[dispute.ID] = dispute
}

func (dr *DisputeRegistry) GetByID(id string) (*models.Dispute, error) {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	dispute, ok := dr.disputes[id]
	if !ok {
		return nil, utils.NewNotFoundError("Dispute")
	}
	return &dispute, nil
}

// GetOpenDisputes returns every cached dispute that has not reached a
// terminal status.
func (dr *DisputeRegistry) GetOpenDisputes(ctx context.Context) ([]models.Dispute, error) {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	open := make([]models.Dispute, 0, len(dr.disputes))
	for _, d := range dr.disputes {
		if !d.IsTerminal() {
			open = append(open, d)
		}
	}
	return open, nil
}
