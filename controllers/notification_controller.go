package controllers

import (
	"strconv"
	"time"

	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/services"
	"disputetrack/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NotificationController serves the per-user notification list, delivery
// receipts, preferences and contact details.
type NotificationController struct {
	notificationService *services.NotificationService
	contactRepo         *repositories.ContactRepository
	validator           *utils.ValidationService
}

func NewNotificationController(notificationService *services.NotificationService, contactRepo *repositories.ContactRepository) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		contactRepo:         contactRepo,
		validator:           utils.NewValidationService(),
	}
}

// ListNotifications lists a user's notifications newest first
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param userId path string true "User ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} models.APIResponse{data=[]models.Notification}
// @Router /notifications/user/{userId} [get]
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	userID := c.Param("userId")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	notifications, total := nc.notificationService.ListByUser(userID, page, pageSize)
	meta := utils.CreatePaginationMeta(page, pageSize, total)
	utils.SuccessResponseWithMeta(c, "Notifications retrieved", notifications, meta)
}

// GetNotification fetches one notification
// @Router /notifications/{id} [get]
func (nc *NotificationController) GetNotification(c *gin.Context) {
	notification, err := nc.notificationService.Get(c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Notification retrieved", notification)
}

// MarkDelivered records a delivery receipt
// @Summary Mark delivered
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /notifications/{id}/delivered [post]
func (nc *NotificationController) MarkDelivered(c *gin.Context) {
	if err := nc.notificationService.MarkDelivered(c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Notification marked delivered", nil)
}

// MarkRead records a read receipt
// @Summary Mark read
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /notifications/{id}/read [post]
func (nc *NotificationController) MarkRead(c *gin.Context) {
	if err := nc.notificationService.MarkRead(c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Notification marked read", nil)
}

// GetPreferences fetches a user's notification preferences
// @Router /notifications/preferences/{userId} [get]
func (nc *NotificationController) GetPreferences(c *gin.Context) {
	prefs := nc.notificationService.GetPreferences(c.Param("userId"))
	utils.SuccessResponse(c, "Preferences retrieved", prefs)
}

// UpdatePreferences applies a partial preferences update
// @Summary Update preferences
// @Tags Notifications
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body models.UpdatePreferencesRequest true "Preference changes"
// @Success 200 {object} models.APIResponse{data=models.NotificationPreferences}
// @Router /notifications/preferences/{userId} [put]
func (nc *NotificationController) UpdatePreferences(c *gin.Context) {
	var req models.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	prefs := nc.notificationService.UpdatePreferences(c.Param("userId"), req)
	utils.SuccessResponse(c, "Preferences updated", prefs)
}

// UpsertContact stores a user's delivery addresses
// @Summary Upsert contact
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body models.UpsertContactRequest true "Contact details"
// @Success 200 {object} models.APIResponse{data=models.Contact}
// @Router /notifications/contacts [put]
func (nc *NotificationController) UpsertContact(c *gin.Context) {
	var req models.UpsertContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if validationErrors := nc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	contact := models.Contact{
		UserID:      req.UserID,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		DeviceToken: req.DeviceToken,
		UpdatedAt:   time.Now(),
	}
	nc.contactRepo.Upsert(contact)

	logrus.Debugf("Contact upserted for user %s", req.UserID)
	utils.SuccessResponse(c, "Contact saved", contact)
}
