package services

import (
	"strings"
	"time"

	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/utils"

	"github.com/sirupsen/logrus"
)

// RuleEngine evaluates notification rules against trigger events and
// enqueues the rendered notifications. Rules run in ascending priority
// order; every matching rule fires independently.
type RuleEngine struct {
	ruleRepo            *repositories.RuleRepository
	templateService     *TemplateService
	notificationService *NotificationService
	validator           *utils.ValidationService
}

func NewRuleEngine(ruleRepo *repositories.RuleRepository, templateService *TemplateService, notificationService *NotificationService) *RuleEngine {
	return &RuleEngine{
		ruleRepo:            ruleRepo,
		templateService:     templateService,
		notificationService: notificationService,
		validator:           utils.NewValidationService(),
	}
}

func (re *RuleEngine) CreateRule(req models.CreateRuleRequest) (*models.NotificationRule, error) {
	if validationErrors := re.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, utils.NewBadRequestError(validationErrors[0].Message)
	}
	if _, err := re.templateService.Get(req.TemplateID); err != nil {
		return nil, utils.NewBadRequestError("Template not found: " + req.TemplateID)
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	rule := models.NotificationRule{
		Name:            req.Name,
		Conditions:      req.Conditions,
		TemplateID:      req.TemplateID,
		Channels:        req.Channels,
		Enabled:         enabled,
		Priority:        req.Priority,
		CooldownMinutes: req.CooldownMinutes,
	}

	if err := re.ruleRepo.Create(&rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (re *RuleEngine) GetRule(id string) (*models.NotificationRule, error) {
	return re.ruleRepo.GetByID(id)
}

func (re *RuleEngine) ListRules() []models.NotificationRule {
	return re.ruleRepo.List()
}

func (re *RuleEngine) UpdateRule(id string, req models.UpdateRuleRequest) (*models.NotificationRule, error) {
	if validationErrors := re.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, utils.NewBadRequestError(validationErrors[0].Message)
	}

	rule, err := re.ruleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Conditions != nil {
		rule.Conditions = req.Conditions
	}
	if req.TemplateID != nil {
		if _, err := re.templateService.Get(*req.TemplateID); err != nil {
			return nil, utils.NewBadRequestError("Template not found: " + *req.TemplateID)
		}
		rule.TemplateID = *req.TemplateID
	}
	if req.Channels != nil {
		rule.Channels = req.Channels
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.CooldownMinutes != nil {
		rule.CooldownMinutes = *req.CooldownMinutes
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}

	if err := re.ruleRepo.Update(*rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (re *RuleEngine) DeleteRule(id string) error {
	return re.ruleRepo.Delete(id)
}

// Trigger runs every enabled rule against the event. The evaluation
// context is the payload plus the trigger type under "type". Returns the
// notifications that were enqueued.
func (re *RuleEngine) Trigger(triggerType string, payload map[string]interface{}) []models.Notification {
	context := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		context[k] = v
	}
	context["type"] = triggerType

	enqueued := make([]models.Notification, 0)
	for _, rule := range re.ruleRepo.ListEnabled() {
		if !evaluateConditions(rule.Conditions, context) {
			continue
		}

		notification, err := re.fire(rule, triggerType, context)
		if err != nil {
			logrus.Errorf("Rule %s failed to fire: %v", rule.Name, err)
			continue
		}
		if notification != nil {
			enqueued = append(enqueued, *notification)
		}
	}
	return enqueued
}

// fire renders the rule's template and enqueues the notification, subject
// to cooldown and the recipient's preferences. A nil notification with nil
// error means the rule was intentionally skipped.
func (re *RuleEngine) fire(rule models.NotificationRule, triggerType string, context map[string]interface{}) (*models.Notification, error) {
	template, err := re.templateService.Get(rule.TemplateID)
	if err != nil {
		return nil, utils.NewTemplateResolutionError(rule.TemplateID)
	}
	if !template.Enabled {
		logrus.Debugf("Rule %s skipped: template %s is disabled", rule.Name, template.Name)
		return nil, nil
	}

	userID := recipientFor(context)
	if userID == "" {
		logrus.Warnf("Rule %s matched but the trigger has no recipient", rule.Name)
		return nil, nil
	}
	disputeID := utils.CoerceString(context["disputeId"])

	if rule.CooldownMinutes > 0 {
		cutoff := time.Now().Add(-time.Duration(rule.CooldownMinutes) * time.Minute)
		if re.notificationService.HasRecentForRule(rule.ID, disputeID, cutoff) {
			logrus.Debugf("Rule %s suppressed by cooldown for dispute %s", rule.Name, disputeID)
			return nil, nil
		}
	}

	prefs := re.notificationService.GetPreferences(userID)
	if !prefs.AllowsCategory(template.Category) {
		logrus.Debugf("Rule %s skipped: user %s opted out of %s", rule.Name, userID, template.Category)
		return nil, nil
	}

	channels := intersectChannels(rule.Channels, template.Channels, prefs)
	if len(channels) == 0 {
		logrus.Debugf("Rule %s skipped: no deliverable channels for user %s", rule.Name, userID)
		return nil, nil
	}

	title, message := re.templateService.Render(*template, context)

	notification := models.Notification{
		UserID:   userID,
		Type:     template.Type,
		Category: template.Category,
		Title:    title,
		Message:  message,
		Channels: channels,
		Priority: models.PriorityForCategory(template.Category),
		Data: map[string]interface{}{
			"ruleId":     rule.ID,
			"templateId": template.ID,
			"disputeId":  disputeID,
			"trigger":    triggerType,
			"payload":    context,
		},
	}

	return re.notificationService.Enqueue(notification)
}

// recipientFor picks the notification recipient from the trigger payload,
// falling back to the dispute raiser.
func recipientFor(context map[string]interface{}) string {
	if userID := utils.CoerceString(context["userId"]); userID != "" {
		return userID
	}
	return utils.CoerceString(context["raisedBy"])
}

// intersectChannels keeps the channels requested by the rule that the
// template supports and the user has enabled.
func intersectChannels(ruleChannels, templateChannels []string, prefs models.NotificationPreferences) []string {
	out := make([]string, 0, len(ruleChannels))
	for _, channel := range ruleChannels {
		if !utils.StringSliceContains(templateChannels, channel) {
			continue
		}
		if !prefs.Channels.Allows(channel) {
			continue
		}
		out = append(out, channel)
	}
	return out
}

// evaluateConditions folds the chain left to right with no grouping: the
// combined result so far is joined to the next condition's result using
// the previous condition's logical operator. An empty chain matches.
func evaluateConditions(conditions []models.Condition, context map[string]interface{}) bool {
	if len(conditions) == 0 {
		return true
	}

	result := evaluateCondition(conditions[0], context)
	for i := 1; i < len(conditions); i++ {
		next := evaluateCondition(conditions[i], context)
		if conditions[i-1].Logic == models.LogicOr {
			result = result || next
		} else {
			result = result && next
		}
	}
	return result
}

func evaluateCondition(condition models.Condition, context map[string]interface{}) bool {
	value, present := lookupPath(context, condition.Field)

	switch condition.Operator {
	case models.OpIsNull:
		return !present || value == nil
	case models.OpIsNotNull:
		return present && value != nil
	}

	if !present {
		return false
	}

	switch condition.Operator {
	case models.OpEquals:
		return utils.CoerceString(value) == utils.CoerceString(condition.Value)
	case models.OpNotEquals:
		return utils.CoerceString(value) != utils.CoerceString(condition.Value)
	case models.OpGreaterThan:
		left, okL := utils.CoerceFloat(value)
		right, okR := utils.CoerceFloat(condition.Value)
		return okL && okR && left > right
	case models.OpLessThan:
		left, okL := utils.CoerceFloat(value)
		right, okR := utils.CoerceFloat(condition.Value)
		return okL && okR && left < right
	case models.OpContains:
		haystack := strings.ToLower(utils.CoerceString(value))
		needle := strings.ToLower(utils.CoerceString(condition.Value))
		return needle != "" && strings.Contains(haystack, needle)
	case models.OpIn:
		return valueInList(value, condition.Value)
	case models.OpNotIn:
		return !valueInList(value, condition.Value)
	default:
		logrus.Warnf("Unknown condition operator %q", condition.Operator)
		return false
	}
}

// valueInList compares the payload value against each element of a
// list-typed condition value. Non-list condition values never match.
func valueInList(value, listValue interface{}) bool {
	target := utils.CoerceString(value)

	switch list := listValue.(type) {
	case []interface{}:
		for _, item := range list {
			if utils.CoerceString(item) == target {
				return true
			}
		}
	case []string:
		for _, item := range list {
			if item == target {
				return true
			}
		}
	}
	return false
}
