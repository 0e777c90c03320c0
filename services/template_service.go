package services

import (
	"regexp"

	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/utils"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// TemplateService manages notification templates and renders them against
// trigger payloads.
type TemplateService struct {
	templateRepo *repositories.TemplateRepository
	validator    *utils.ValidationService
}

func NewTemplateService(templateRepo *repositories.TemplateRepository) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		validator:    utils.NewValidationService(),
	}
}

func (ts *TemplateService) Create(req models.CreateTemplateRequest) (*models.NotificationTemplate, error) {
	if validationErrors := ts.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, utils.NewBadRequestError(validationErrors[0].Message)
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	template := models.NotificationTemplate{
		Name:      req.Name,
		Type:      req.Type,
		Category:  req.Category,
		Title:     req.Title,
		Message:   req.Message,
		Variables: req.Variables,
		Channels:  req.Channels,
		Enabled:   enabled,
	}

	if err := ts.templateRepo.Create(&template); err != nil {
		return nil, err
	}
	return &template, nil
}

func (ts *TemplateService) Get(id string) (*models.NotificationTemplate, error) {
	return ts.templateRepo.GetByID(id)
}

func (ts *TemplateService) List() []models.NotificationTemplate {
	return ts.templateRepo.List()
}

func (ts *TemplateService) Update(id string, req models.UpdateTemplateRequest) (*models.NotificationTemplate, error) {
	if validationErrors := ts.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, utils.NewBadRequestError(validationErrors[0].Message)
	}

	template, err := ts.templateRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Category != nil {
		template.Category = *req.Category
	}
	if req.Title != nil {
		template.Title = *req.Title
	}
	if req.Message != nil {
		template.Message = *req.Message
	}
	if req.Variables != nil {
		template.Variables = req.Variables
	}
	if req.Channels != nil {
		template.Channels = req.Channels
	}
	if req.Enabled != nil {
		template.Enabled = *req.Enabled
	}

	if err := ts.templateRepo.Update(*template); err != nil {
		return nil, err
	}
	return template, nil
}

func (ts *TemplateService) Delete(id string) error {
	return ts.templateRepo.Delete(id)
}

// Render substitutes every {{name}} occurrence with the payload value
// coerced to text. Unresolved placeholders stay verbatim so delivery never
// fails on incomplete payload data.
func (ts *TemplateService) Render(template models.NotificationTemplate, payload map[string]interface{}) (title, message string) {
	return renderPattern(template.Title, payload), renderPattern(template.Message, payload)
}

func renderPattern(pattern string, payload map[string]interface{}) string {
	return placeholderPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := lookupPath(payload, name)
		if !ok {
			return match
		}
		return utils.CoerceString(value)
	})
}
