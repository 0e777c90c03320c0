package routes

import (
	"time"

	"disputetrack/config"
	"disputetrack/controllers"
	"disputetrack/middleware"
	"disputetrack/utils"
	"disputetrack/websocket"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Controllers bundles every HTTP controller for route wiring.
type Controllers struct {
	Dispute      *controllers.DisputeController
	Tracking     *controllers.TrackingController
	Template     *controllers.TemplateController
	Rule         *controllers.RuleController
	Notification *controllers.NotificationController
	Workflow     *controllers.WorkflowController
}

var startTime = time.Now()

// SetupRoutes initializes all application routes
func SetupRoutes(cfg *config.Config, redisClient *redis.Client, hub *websocket.Hub, ctrls *Controllers) *gin.Engine {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	setupGlobalMiddleware(router, cfg, redisClient)
	setupHealthRoutes(router, redisClient)
	setupAPIRoutes(router, ctrls)
	setupWebSocketRoutes(router, hub)

	return router
}

func setupGlobalMiddleware(router *gin.Engine, cfg *config.Config, redisClient *redis.Client) {
	errorHandler := middleware.NewErrorHandler(cfg.Environment, logrus.StandardLogger())
	router.Use(errorHandler.Handle())

	router.Use(middleware.LoggerMiddleware(middleware.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))

	router.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Redis:     redisClient,
		Requests:  cfg.RateLimitRequests,
		Window:    cfg.RateLimitWindow,
		SkipPaths: []string{"/health"},
	})
	router.Use(rateLimiter.Middleware())
}

func setupHealthRoutes(router *gin.Engine, redisClient *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		services := map[string]string{"engine": "healthy"}
		if redisClient != nil {
			if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
				services["redis"] = "unhealthy"
			} else {
				services["redis"] = "healthy"
			}
		}
		uptime := time.Since(startTime).Round(time.Second).String()
		c.JSON(200, utils.HealthCheckResponse(services, "1.0.0", uptime))
	})
}

func setupAPIRoutes(router *gin.Engine, ctrls *Controllers) {
	api := router.Group("/api/v1")

	disputes := api.Group("/disputes")
	{
		disputes.POST("/created", ctrls.Dispute.DisputeCreated)
		disputes.POST("/updated", ctrls.Dispute.DisputeUpdated)
		disputes.POST("/resolved", ctrls.Dispute.DisputeResolved)
		disputes.POST("/escalated", ctrls.Dispute.DisputeEscalated)
		disputes.POST("/messages", ctrls.Dispute.MessageAdded)
		disputes.POST("/evidence", ctrls.Dispute.EvidenceAdded)
		disputes.POST("/resolution/proposed", ctrls.Dispute.ResolutionProposed)
		disputes.POST("/resolution/accepted", ctrls.Dispute.ResolutionAccepted)
		disputes.POST("/resolution/rejected", ctrls.Dispute.ResolutionRejected)
	}

	tracking := api.Group("/tracking")
	{
		tracking.GET("/events", ctrls.Tracking.GetEvents)
		tracking.GET("/metrics", ctrls.Tracking.GetMetrics)
		tracking.GET("/dashboard", ctrls.Tracking.GetDashboard)
	}

	templates := api.Group("/templates")
	{
		templates.POST("", ctrls.Template.CreateTemplate)
		templates.GET("", ctrls.Template.ListTemplates)
		templates.GET("/:id", ctrls.Template.GetTemplate)
		templates.PUT("/:id", ctrls.Template.UpdateTemplate)
		templates.POST("/:id/preview", ctrls.Template.PreviewTemplate)
		templates.DELETE("/:id", ctrls.Template.DeleteTemplate)
	}

	rules := api.Group("/rules")
	{
		rules.POST("", ctrls.Rule.CreateRule)
		rules.GET("", ctrls.Rule.ListRules)
		rules.POST("/trigger", ctrls.Rule.Trigger)
		rules.GET("/:id", ctrls.Rule.GetRule)
		rules.PUT("/:id", ctrls.Rule.UpdateRule)
		rules.DELETE("/:id", ctrls.Rule.DeleteRule)
	}

	workflow := api.Group("/workflow-rules")
	{
		workflow.PUT("", ctrls.Workflow.UpsertRule)
		workflow.GET("", ctrls.Workflow.ListRules)
		workflow.DELETE("/:id", ctrls.Workflow.DeleteRule)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("/user/:userId", ctrls.Notification.ListNotifications)
		notifications.GET("/preferences/:userId", ctrls.Notification.GetPreferences)
		notifications.PUT("/preferences/:userId", ctrls.Notification.UpdatePreferences)
		notifications.PUT("/contacts", ctrls.Notification.UpsertContact)
		notifications.GET("/:id", ctrls.Notification.GetNotification)
		notifications.POST("/:id/delivered", ctrls.Notification.MarkDelivered)
		notifications.POST("/:id/read", ctrls.Notification.MarkRead)
	}
}

func setupWebSocketRoutes(router *gin.Engine, hub *websocket.Hub) {
	router.GET("/ws", hub.HandleConnection)
}
