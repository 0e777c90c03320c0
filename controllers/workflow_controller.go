package controllers

import (
	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/utils"

	"github.com/gin-gonic/gin"
)

// WorkflowController manages the workflow rule registry consumed by the
// auto-escalation check.
type WorkflowController struct {
	registry *repositories.WorkflowRuleRegistry
}

func NewWorkflowController(registry *repositories.WorkflowRuleRegistry) *WorkflowController {
	return &WorkflowController{registry: registry}
}

type upsertWorkflowRuleRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name" binding:"required"`
	Enabled *bool  `json:"enabled"`
}

// UpsertRule creates or replaces a workflow rule
// @Summary Upsert workflow rule
// @Tags Workflow
// @Accept json
// @Produce json
// @Param request body upsertWorkflowRuleRequest true "Workflow rule"
// @Success 200 {object} models.APIResponse{data=models.WorkflowRule}
// @Router /workflow-rules [put]
func (wc *WorkflowController) UpsertRule(c *gin.Context) {
	var req upsertWorkflowRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	rule := wc.registry.Upsert(models.WorkflowRule{
		ID:      req.ID,
		Name:    req.Name,
		Enabled: enabled,
	})
	utils.SuccessResponse(c, "Workflow rule saved", rule)
}

// ListRules lists workflow rules
// @Router /workflow-rules [get]
func (wc *WorkflowController) ListRules(c *gin.Context) {
	rules, err := wc.registry.GetRules(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Workflow rules retrieved", rules)
}

// DeleteRule removes a workflow rule
// @Router /workflow-rules/{id} [delete]
func (wc *WorkflowController) DeleteRule(c *gin.Context) {
	if err := wc.registry.Delete(c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Workflow rule deleted", nil)
}
