package repositories

import (
	"sort"
	"sync"
	"time"

	"disputetrack/models"
	"disputetrack/utils"
)

// RuleRepository holds notification rules in memory.
type RuleRepository struct {
	mu    sync.RWMutex
	rules map[string]models.NotificationRule
}

func NewRuleRepository() *RuleRepository {
	return &RuleRepository{
		rules: make(map[string]models.NotificationRule),
	}
}

func (rr *RuleRepository) Create(rule *models.NotificationRule) error {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rule.ID == "" {
		rule.ID = utils.GenerateUUID()
	}
	if _, exists := rr.rules[rule.ID]; exists {
		return utils.NewConflictError("Rule already exists")
	}
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	rr.rules[rule.ID] = *rule
	return nil
}

func (rr *RuleRepository) GetByID(id string) (*models.NotificationRule, error) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	rule, ok := rr.rules[id]
	if !ok {
		return nil, utils.NewNotFoundError("Rule")
	}
	return &rule, nil
}

func (rr *RuleRepository) Update(rule models.NotificationRule) error {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	existing, ok := rr.rules[rule.ID]
	if !ok {
		return utils.NewNotFoundError("Rule")
	}
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = time.Now()
	rr.rules[rule.ID] = rule
	return nil
}

func (rr *RuleRepository) Delete(id string) error {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if _, ok := rr.rules[id]; !ok {
		return utils.NewNotFoundError("Rule")
	}
	delete(rr.rules, id)
	return nil
}

// List returns all rules sorted by ascending priority, then name.
func (rr *RuleRepository) List() []models.NotificationRule {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	out := make([]models.NotificationRule, 0, len(rr.rules))
	for _, r := range rr.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ListEnabled returns enabled rules sorted by ascending priority.
func (rr *RuleRepository) ListEnabled() []models.NotificationRule {
	all := rr.List()
	out := make([]models.NotificationRule, 0, len(all))
	for _, r := range all {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}
