package controllers

import (
	"disputetrack/models"
	"disputetrack/services"
	"disputetrack/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RuleController manages notification rules and manual triggers.
type RuleController struct {
	ruleEngine *services.RuleEngine
}

func NewRuleController(ruleEngine *services.RuleEngine) *RuleController {
	return &RuleController{ruleEngine: ruleEngine}
}

// CreateRule creates a notification rule
// @Summary Create rule
// @Tags Rules
// @Accept json
// @Produce json
// @Param request body models.CreateRuleRequest true "Rule definition"
// @Success 201 {object} models.APIResponse{data=models.NotificationRule}
// @Failure 400 {object} models.APIResponse
// @Router /rules [post]
func (rc *RuleController) CreateRule(c *gin.Context) {
	var req models.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	rule, err := rc.ruleEngine.CreateRule(req)
	if err != nil {
		logrus.Errorf("Create rule failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Rule created", rule)
}

// GetRule fetches one rule
// @Router /rules/{id} [get]
func (rc *RuleController) GetRule(c *gin.Context) {
	rule, err := rc.ruleEngine.GetRule(c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Rule retrieved", rule)
}

// ListRules lists rules by ascending priority
// @Router /rules [get]
func (rc *RuleController) ListRules(c *gin.Context) {
	utils.SuccessResponse(c, "Rules retrieved", rc.ruleEngine.ListRules())
}

// UpdateRule applies a partial update
// @Router /rules/{id} [put]
func (rc *RuleController) UpdateRule(c *gin.Context) {
	var req models.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	rule, err := rc.ruleEngine.UpdateRule(c.Param("id"), req)
	if err != nil {
		logrus.Errorf("Update rule failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Rule updated", rule)
}

// DeleteRule removes a rule
// @Router /rules/{id} [delete]
func (rc *RuleController) DeleteRule(c *gin.Context) {
	if err := rc.ruleEngine.DeleteRule(c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Rule deleted", nil)
}

// Trigger runs the rule engine against an arbitrary payload
// @Summary Manual trigger
// @Tags Rules
// @Accept json
// @Produce json
// @Param request body models.TriggerRequest true "Trigger type and payload"
// @Success 200 {object} models.APIResponse{data=[]models.Notification}
// @Failure 400 {object} models.APIResponse
// @Router /rules/trigger [post]
func (rc *RuleController) Trigger(c *gin.Context) {
	var req models.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if req.Type == "" {
		utils.BadRequestResponse(c, "type is required")
		return
	}

	enqueued := rc.ruleEngine.Trigger(req.Type, req.Payload)
	utils.SuccessResponse(c, "Trigger processed", enqueued)
}
