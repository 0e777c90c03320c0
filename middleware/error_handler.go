package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"disputetrack/models"
	"disputetrack/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	environment string
	logger      *logrus.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(environment string, logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		environment: environment,
		logger:      logger,
	}
}

// Handle returns the error handling middleware
func (eh *ErrorHandler) Handle() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				eh.handlePanic(c, err)
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			eh.handleGinErrors(c)
		}
	})
}

func (eh *ErrorHandler) handlePanic(c *gin.Context, err interface{}) {
	eh.logger.WithFields(logrus.Fields{
		"panic":      err,
		"stack":      string(debug.Stack()),
		"request_id": c.GetString("request_id"),
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
	}).Error("Panic recovered")

	response := models.ErrorResponse{
		Error:     models.ErrCodeInternal,
		Message:   "Internal server error",
		Code:      "PANIC_RECOVERED",
		RequestID: c.GetString("request_id"),
		Timestamp: time.Now(),
	}

	if eh.environment == "development" {
		response.Details = map[string]interface{}{
			"panic": err,
			"stack": string(debug.Stack()),
		}
	}

	c.JSON(http.StatusInternalServerError, response)
	c.Abort()
}

func (eh *ErrorHandler) handleGinErrors(c *gin.Context) {
	lastError := c.Errors.Last()
	if lastError == nil {
		return
	}

	for _, ginErr := range c.Errors {
		eh.logError(c, ginErr.Err)
	}

	if c.Writer.Written() {
		return
	}
	utils.ServiceErrorResponse(c, lastError.Err)
}

func (eh *ErrorHandler) logError(c *gin.Context, err error) {
	fields := logrus.Fields{
		"error":      err.Error(),
		"request_id": c.GetString("request_id"),
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"ip":         c.ClientIP(),
	}

	if svcErr, ok := utils.GetServiceError(err); ok && svcErr.StatusCode < 500 {
		eh.logger.WithFields(fields).Warn("Client error")
		return
	}
	eh.logger.WithFields(fields).Error("Server error")
}
