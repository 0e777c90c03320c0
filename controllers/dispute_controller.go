package controllers

import (
	"disputetrack/models"
	"disputetrack/services"
	"disputetrack/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DisputeController is the intake surface for dispute lifecycle signals.
type DisputeController struct {
	lifecycleService *services.LifecycleService
}

func NewDisputeController(lifecycleService *services.LifecycleService) *DisputeController {
	return &DisputeController{
		lifecycleService: lifecycleService,
	}
}

// DisputeCreated records a newly opened dispute
// @Summary Dispute created signal
// @Tags Disputes
// @Accept json
// @Produce json
// @Param request body models.DisputeCreatedRequest true "Dispute snapshot"
// @Success 201 {object} models.APIResponse{data=models.TrackingEvent}
// @Failure 400 {object} models.APIResponse
// @Router /disputes/created [post]
func (dc *DisputeController) DisputeCreated(c *gin.Context) {
	var req models.DisputeCreatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	event, err := dc.lifecycleService.DisputeCreated(req.Dispute)
	if err != nil {
		logrus.Errorf("Dispute created signal failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Dispute creation recorded", event)
}

// DisputeUpdated records status and priority changes
// @Summary Dispute updated signal
// @Tags Disputes
// @Accept json
// @Produce json
// @Param request body models.DisputeUpdatedRequest true "Current and previous snapshots"
// @Success 200 {object} models.APIResponse{data=[]models.TrackingEvent}
// @Failure 400 {object} models.APIResponse
// @Router /disputes/updated [post]
func (dc *DisputeController) DisputeUpdated(c *gin.Context) {
	var req models.DisputeUpdatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	events, err := dc.lifecycleService.DisputeUpdated(req.Dispute, req.Previous)
	if err != nil {
		logrus.Errorf("Dispute updated signal failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Dispute update recorded", events)
}

// DisputeResolved records a resolution
// @Summary Dispute resolved signal
// @Tags Disputes
// @Accept json
// @Produce json
// @Param request body models.DisputeResolvedRequest true "Resolved dispute snapshot"
// @Success 201 {object} models.APIResponse{data=models.TrackingEvent}
// @Failure 400 {object} models.APIResponse
// @Router /disputes/resolved [post]
func (dc *DisputeController) DisputeResolved(c *gin.Context) {
	var req models.DisputeResolvedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	event, err := dc.lifecycleService.DisputeResolved(req.Dispute)
	if err != nil {
		logrus.Errorf("Dispute resolved signal failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Dispute resolution recorded", event)
}

// DisputeEscalated records a manual escalation
// @Summary Dispute escalated signal
// @Tags Disputes
// @Accept json
// @Produce json
// @Param request body models.DisputeEscalatedRequest true "Dispute snapshot and reason"
// @Success 201 {object} models.APIResponse{data=models.TrackingEvent}
// @Failure 400 {object} models.APIResponse
// @Router /disputes/escalated [post]
func (dc *DisputeController) DisputeEscalated(c *gin.Context) {
	var req models.DisputeEscalatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	event, err := dc.lifecycleService.DisputeEscalated(req.Dispute, req.Reason)
	if err != nil {
		logrus.Errorf("Dispute escalated signal failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Dispute escalation recorded", event)
}

// MessageAdded records a message on the dispute thread
// @Summary Message added signal
// @Tags Disputes
// @Accept json
// @Produce json
// @Param request body models.DisputeActivityRequest true "Dispute snapshot and actor"
// @Success 201 {object} models.APIResponse{data=models.TrackingEvent}
// @Failure 400 {object} models.APIResponse
// @Router /disputes/messages [post]
func (dc *DisputeController) MessageAdded(c *gin.Context) {
	dc.activitySignal(c, dc.lifecycleService.MessageAdded, "Message recorded")
}

// EvidenceAdded records an evidence attachment
// @Summary Evidence added signal
// @Tags Disputes
// @Accept json
// @Produce json
// @Param request body models.DisputeActivityRequest true "Dispute snapshot and actor"
// @Success 201 {object} models.APIResponse{data=models.TrackingEvent}
// @Failure 400 {object} models.APIResponse
// @Router /disputes/evidence [post]
func (dc *DisputeController) EvidenceAdded(c *gin.Context) {
	dc.activitySignal(c, dc.lifecycleService.EvidenceAdded, "Evidence recorded")
}

// ResolutionProposed records a proposed resolution
// @Router /disputes/resolution/proposed [post]
func (dc *DisputeController) ResolutionProposed(c *gin.Context) {
	dc.activitySignal(c, dc.lifecycleService.ResolutionProposed, "Resolution proposal recorded")
}

// ResolutionAccepted records an accepted resolution
// @Router /disputes/resolution/accepted [post]
func (dc *DisputeController) ResolutionAccepted(c *gin.Context) {
	dc.activitySignal(c, dc.lifecycleService.ResolutionAccepted, "Resolution acceptance recorded")
}

// ResolutionRejected records a rejected resolution
// @Router /disputes/resolution/rejected [post]
func (dc *DisputeController) ResolutionRejected(c *gin.Context) {
	dc.activitySignal(c, dc.lifecycleService.ResolutionRejected, "Resolution rejection recorded")
}

type activityHandler func(dispute models.Dispute, userID, userName, summary string) (*models.TrackingEvent, error)

func (dc *DisputeController) activitySignal(c *gin.Context, handler activityHandler, message string) {
	var req models.DisputeActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	event, err := handler(req.Dispute, req.UserID, req.UserName, req.Summary)
	if err != nil {
		logrus.Errorf("Dispute activity signal failed: %v", err)
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, message, event)
}
