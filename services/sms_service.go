package services

import (
	"context"
	"fmt"

	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/utils"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers notifications over Twilio SMS. When Twilio is not
// configured it logs the message instead of failing.
type SMSSender struct {
	client      *twilio.RestClient
	fromNumber  string
	contactRepo *repositories.ContactRepository
}

func NewSMSSender(accountSID, authToken, fromNumber string, contactRepo *repositories.ContactRepository) *SMSSender {
	var client *twilio.RestClient
	if accountSID != "" {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
	}

	return &SMSSender{
		client:      client,
		fromNumber:  fromNumber,
		contactRepo: contactRepo,
	}
}

func (ss *SMSSender) Channel() string {
	return models.ChannelSMS
}

func (ss *SMSSender) Send(ctx context.Context, notification models.Notification) error {
	contact, err := ss.contactRepo.GetByUserID(notification.UserID)
	if err != nil || contact.PhoneNumber == "" {
		return utils.NewChannelDeliveryError(models.ChannelSMS, "no phone number for user "+notification.UserID)
	}

	body := ss.formatBody(notification)

	if ss.client == nil {
		logrus.Infof("Twilio not configured, logging SMS to %s: %s", contact.PhoneNumber, body)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(contact.PhoneNumber)
	params.SetFrom(ss.fromNumber)
	params.SetBody(body)

	resp, err := ss.client.Api.CreateMessage(params)
	if err != nil {
		logrus.Errorf("Failed to send SMS to %s: %v", contact.PhoneNumber, err)
		return utils.NewChannelDeliveryError(models.ChannelSMS, err.Error())
	}

	logrus.Infof("SMS sent to %s, SID: %s", contact.PhoneNumber, *resp.Sid)
	return nil
}

// formatBody keeps the message inside a single SMS segment.
func (ss *SMSSender) formatBody(notification models.Notification) string {
	content := fmt.Sprintf("%s: %s", notification.Title, notification.Message)
	if notification.Priority == models.PriorityUrgent {
		content = "URGENT - " + content
	}
	return utils.TruncateString(content, 160)
}
