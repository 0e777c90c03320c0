package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"disputetrack/config"
	"disputetrack/controllers"
	"disputetrack/database"
	"disputetrack/interfaces"
	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/routes"
	"disputetrack/services"
	"disputetrack/websocket"
	"disputetrack/workers"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	setupLogger(cfg)

	// Redis backs the API rate limiter; optional.
	redisClient := config.InitRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	eventRepo := repositories.NewEventRepository(cfg.EventLogCapacity)
	templateRepo := repositories.NewTemplateRepository()
	ruleRepo := repositories.NewRuleRepository()
	notificationRepo := repositories.NewNotificationRepository()
	contactRepo := repositories.NewContactRepository()
	disputeRegistry := repositories.NewDisputeRegistry()
	workflowRegistry := repositories.NewWorkflowRuleRegistry()

	// Services
	trackingService := services.NewTrackingService(eventRepo)
	metricsService := services.NewMetricsService(eventRepo)
	templateService := services.NewTemplateService(templateRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	ruleEngine := services.NewRuleEngine(ruleRepo, templateService, notificationService)
	lifecycleService := services.NewLifecycleService(trackingService, ruleEngine, disputeRegistry)
	slaCalculator := services.NewDefaultSLACalculator()

	// WebSocket hub streams tracking events and carries IN_APP delivery.
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	trackingService.Subscribe(func(event models.TrackingEvent) {
		hub.BroadcastTrackingEvent(event)
	})
	defer trackingService.ClearListeners()

	// Optional Mongo archive keeps a durable copy of the tracking log.
	if cfg.ArchiveEnabled && cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			logrus.Fatal("Failed to connect to database: ", err)
		}
		defer database.Disconnect()

		archiveRepo := repositories.NewArchiveRepository(db)
		trackingService.Subscribe(func(event models.TrackingEvent) {
			if err := archiveRepo.Archive(context.Background(), event); err != nil {
				logrus.Errorf("Failed to archive tracking event %s: %v", event.ID, err)
			}
		})
	}

	// Channel senders
	pushSender, err := services.NewPushSender(cfg.FirebaseCredentials, contactRepo)
	if err != nil {
		logrus.Fatal("Failed to initialize push sender: ", err)
	}
	senders := []interfaces.ChannelSender{
		services.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, contactRepo),
		services.NewSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, contactRepo),
		pushSender,
		services.NewInAppSender(hub),
	}

	// Workers
	dispatcher := workers.NewDispatcher(notificationService, senders, workers.DispatcherConfig{
		PollInterval: cfg.DispatchInterval,
		SendTimeout:  cfg.SendTimeout,
	})
	if err := dispatcher.Start(); err != nil {
		logrus.Fatal("Failed to start dispatcher: ", err)
	}
	defer dispatcher.Stop()

	monitor := workers.NewSLAMonitor(disputeRegistry, workflowRegistry, slaCalculator, trackingService, ruleEngine, workers.SLAMonitorConfig{
		PollInterval:        cfg.MonitorInterval,
		BreachRenotifyAfter: cfg.BreachRenotifyAfter,
		EscalationDedup:     cfg.EscalationDedup,
	})
	if err := monitor.Start(); err != nil {
		logrus.Fatal("Failed to start SLA monitor: ", err)
	}
	defer monitor.Stop()

	// HTTP surface
	ctrls := &routes.Controllers{
		Dispute:      controllers.NewDisputeController(lifecycleService),
		Tracking:     controllers.NewTrackingController(trackingService, metricsService),
		Template:     controllers.NewTemplateController(templateService),
		Rule:         controllers.NewRuleController(ruleEngine),
		Notification: controllers.NewNotificationController(notificationService, contactRepo),
		Workflow:     controllers.NewWorkflowController(workflowRegistry),
	}
	router := routes.SetupRoutes(cfg, redisClient, hub, ctrls)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logrus.Info("Dispute tracking server starting on port ", cfg.Port)
		logrus.Info("WebSocket endpoint: /ws")
		logrus.Info("Health check: /health")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatal("Server forced to shutdown: ", err)
	}

	logrus.Info("Server shutdown complete")
}

func setupLogger(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if cfg.Environment == "development" {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
