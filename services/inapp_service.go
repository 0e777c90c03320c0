package services

import (
	"context"

	"disputetrack/interfaces"
	"disputetrack/models"
	"disputetrack/utils"

	"github.com/sirupsen/logrus"
)

// InAppSender delivers notifications to connected websocket clients.
// Offline users are not an error; the notification stays visible in
// their list when they next fetch it.
type InAppSender struct {
	broadcaster interfaces.NotificationBroadcaster
}

func NewInAppSender(broadcaster interfaces.NotificationBroadcaster) *InAppSender {
	return &InAppSender{broadcaster: broadcaster}
}

func (is *InAppSender) Channel() string {
	return models.ChannelInApp
}

func (is *InAppSender) Send(ctx context.Context, notification models.Notification) error {
	if is.broadcaster == nil {
		return utils.NewChannelDeliveryError(models.ChannelInApp, "no broadcaster configured")
	}

	if !is.broadcaster.IsUserOnline(notification.UserID) {
		logrus.Debugf("User %s offline, in-app notification %s stays queued for fetch", notification.UserID, notification.ID)
		return nil
	}

	if err := is.broadcaster.SendNotificationToUser(notification.UserID, notification); err != nil {
		return utils.NewChannelDeliveryError(models.ChannelInApp, err.Error())
	}
	return nil
}
