package repositories

import (
	"sort"
	"sync"
	"time"

	"disputetrack/models"
	"disputetrack/utils"
)

// TemplateRepository holds notification templates in memory. Templates are
// mutable at runtime so operators can adjust messaging without a redeploy.
type TemplateRepository struct {
	mu        sync.RWMutex
	templates map[string]models.NotificationTemplate
}

func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{
		templates: make(map[string]models.NotificationTemplate),
	}
}

func (tr *TemplateRepository) Create(template *models.NotificationTemplate) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if template.ID == "" {
		template.ID = utils.GenerateUUID()
	}
	if _, exists := tr.templates[template.ID]; exists {
		return utils.NewConflictError("Template already exists")
	}
	template.CreatedAt = time.Now()
	template.UpdatedAt = template.CreatedAt
	tr.templates[template.ID] = *template
	return nil
}

func (tr *TemplateRepository) GetByID(id string) (*models.NotificationTemplate, error) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	template, ok := tr.templates[id]
	if !ok {
		return nil, utils.NewNotFoundError("Template")
	}
	return &template, nil
}

func (tr *TemplateRepository) Update(template models.NotificationTemplate) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	existing, ok := tr.templates[template.ID]
	if !ok {
		return utils.NewNotFoundError("Template")
	}
	template.CreatedAt = existing.CreatedAt
	template.UpdatedAt = time.Now()
	tr.templates[template.ID] = template
	return nil
}

func (tr *TemplateRepository) Delete(id string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, ok := tr.templates[id]; !ok {
		return utils.NewNotFoundError("Template")
	}
	delete(tr.templates, id)
	return nil
}

// List returns all templates sorted by name for stable output.
func (tr *TemplateRepository) List() []models.NotificationTemplate {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	out := make([]models.NotificationTemplate, 0, len(tr.templates))
	for _, t := range tr.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
