package repositories

import (
	"context"
	"sync"

	"disputetrack/models"
	"disputetrack/utils"
)

// WorkflowRuleRegistry holds the externally managed workflow rules the
// auto-escalation check consumes. It satisfies
// interfaces.WorkflowRuleSource.
type WorkflowRuleRegistry struct {
	mu    sync.RWMutex
	rules map[string]models.WorkflowRule
}

func NewWorkflowRuleRegistry() *WorkflowRuleRegistry {
	return &WorkflowRuleRegistry{
		rules: make(map[string]models.WorkflowRule),
	}
}

func (wr *WorkflowRuleRegistry) Upsert(rule models.WorkflowRule) models.WorkflowRule {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if rule.ID == "" {
		rule.ID = utils.GenerateUUID()
	}
	wr.rules[rule.ID] = rule
	return rule
}

func (wr *WorkflowRuleRegistry) Delete(id string) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if _, ok := wr.rules[id]; !ok {
		return utils.NewNotFoundError("Workflow rule")
	}
	delete(wr.rules, id)
	return nil
}

func (wr *WorkflowRuleRegistry) GetRules(ctx context.Context) ([]models.WorkflowRule, error) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()

	out := make([]models.WorkflowRule, 0, len(wr.rules))
	for _, r := range wr.rules {
		out = append(out, r)
	}
	return out, nil
}
