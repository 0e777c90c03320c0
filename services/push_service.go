package services

import (
	"context"

	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/utils"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// PushSender delivers notifications through Firebase Cloud Messaging.
// When no credentials file is configured the sender runs in logging mode.
type PushSender struct {
	fcmClient   *messaging.Client
	contactRepo *repositories.ContactRepository
}

func NewPushSender(firebaseCredentials string, contactRepo *repositories.ContactRepository) (*PushSender, error) {
	sender := &PushSender{contactRepo: contactRepo}

	if firebaseCredentials == "" {
		return sender, nil
	}

	opt := option.WithCredentialsFile(firebaseCredentials)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, err
	}

	sender.fcmClient, err = app.Messaging(context.Background())
	if err != nil {
		return nil, err
	}
	return sender, nil
}

func (ps *PushSender) Channel() string {
	return models.ChannelPush
}

func (ps *PushSender) Send(ctx context.Context, notification models.Notification) error {
	contact, err := ps.contactRepo.GetByUserID(notification.UserID)
	if err != nil || contact.DeviceToken == "" {
		return utils.NewChannelDeliveryError(models.ChannelPush, "no device token for user "+notification.UserID)
	}

	if ps.fcmClient == nil {
		logrus.Infof("Firebase not configured, logging push to user %s: %s", notification.UserID, notification.Title)
		return nil
	}

	message := &messaging.Message{
		Token: contact.DeviceToken,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Message,
		},
		Data: map[string]string{
			"notificationId": notification.ID,
			"category":       notification.Category,
			"priority":       notification.Priority,
		},
	}

	response, err := ps.fcmClient.Send(ctx, message)
	if err != nil {
		logrus.Errorf("Failed to send push to user %s: %v", notification.UserID, err)
		return utils.NewChannelDeliveryError(models.ChannelPush, err.Error())
	}

	logrus.Infof("Push sent to user %s, message ID: %s", notification.UserID, response)
	return nil
}
