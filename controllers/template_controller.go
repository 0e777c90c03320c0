package controllers

import (
	"disputetrack/models"
	"disputetrack/services"
	"disputetrack/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TemplateController manages notification templates.
type TemplateController struct {
	templateService *services.TemplateService
}

func NewTemplateController(templateService *services.TemplateService) *TemplateController {
	return &TemplateController{templateService: templateService}
}

// CreateTemplate creates a notification template
// @Summary Create template
// @Tags Templates
// @Accept json
// @Produce json
// @Param request body models.CreateTemplateRequest true "Template definition"
// @Success 201 {object} models.APIResponse{data=models.NotificationTemplate}
// @Failure 400 {object} models.APIResponse
// @Router /templates [post]
func (tc *TemplateController) CreateTemplate(c *gin.Context) {
	var req models.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	template, err := tc.templateService.Create(req)
	if err != nil {
		logrus.Errorf("Create template failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Template created", template)
}

// GetTemplate fetches one template
// @Router /templates/{id} [get]
func (tc *TemplateController) GetTemplate(c *gin.Context) {
	template, err := tc.templateService.Get(c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Template retrieved", template)
}

// ListTemplates lists all templates
// @Router /templates [get]
func (tc *TemplateController) ListTemplates(c *gin.Context) {
	utils.SuccessResponse(c, "Templates retrieved", tc.templateService.List())
}

// UpdateTemplate applies a partial update
// @Router /templates/{id} [put]
func (tc *TemplateController) UpdateTemplate(c *gin.Context) {
	var req models.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	template, err := tc.templateService.Update(c.Param("id"), req)
	if err != nil {
		logrus.Errorf("Update template failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Template updated", template)
}

// PreviewTemplate renders a template against a sample payload
// @Summary Preview template rendering
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param payload body map[string]interface{} true "Sample trigger payload"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /templates/{id}/preview [post]
func (tc *TemplateController) PreviewTemplate(c *gin.Context) {
	template, err := tc.templateService.Get(c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	title, message := tc.templateService.Render(*template, payload)
	utils.SuccessResponse(c, "Template rendered", gin.H{
		"title":   title,
		"message": message,
	})
}

// DeleteTemplate removes a template
// @Router /templates/{id} [delete]
func (tc *TemplateController) DeleteTemplate(c *gin.Context) {
	if err := tc.templateService.Delete(c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Template deleted", nil)
}
