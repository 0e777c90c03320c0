package controllers

import (
	"disputetrack/models"
	"disputetrack/services"
	"disputetrack/utils"

	"github.com/gin-gonic/gin"
)

// TrackingController serves the event log, metrics and dashboard.
type TrackingController struct {
	trackingService *services.TrackingService
	metricsService  *services.MetricsService
}

func NewTrackingController(trackingService *services.TrackingService, metricsService *services.MetricsService) *TrackingController {
	return &TrackingController{
		trackingService: trackingService,
		metricsService:  metricsService,
	}
}

// GetEvents queries the tracking event log
// @Summary Query tracking events
// @Tags Tracking
// @Produce json
// @Param disputeId query string false "Filter by dispute"
// @Param type query string false "Filter by event type"
// @Param severity query string false "Filter by severity"
// @Param userId query string false "Filter by actor"
// @Param offset query int false "Result offset" default(0)
// @Param limit query int false "Result limit" default(50)
// @Success 200 {object} models.APIResponse{data=[]models.TrackingEvent}
// @Router /tracking/events [get]
func (tc *TrackingController) GetEvents(c *gin.Context) {
	var filter models.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters")
		return
	}

	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	events, total := tc.trackingService.Query(filter)

	page := filter.Offset/filter.Limit + 1
	meta := utils.CreatePaginationMeta(page, filter.Limit, total)
	utils.SuccessResponseWithMeta(c, "Tracking events retrieved", events, meta)
}

// GetMetrics computes aggregate tracking metrics
// @Summary Tracking metrics
// @Tags Tracking
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.TrackingMetrics}
// @Router /tracking/metrics [get]
func (tc *TrackingController) GetMetrics(c *gin.Context) {
	utils.SuccessResponse(c, "Tracking metrics computed", tc.metricsService.Metrics())
}

// GetDashboard serves the operational overview bundle
// @Summary Tracking dashboard
// @Tags Tracking
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.DashboardBundle}
// @Router /tracking/dashboard [get]
func (tc *TrackingController) GetDashboard(c *gin.Context) {
	utils.SuccessResponse(c, "Dashboard computed", tc.metricsService.Dashboard())
}
