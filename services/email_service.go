package services

import (
	"context"
	"fmt"
	"net/smtp"

	"disputetrack/models"
	"disputetrack/repositories"
	"disputetrack/utils"

	"github.com/sirupsen/logrus"
)

// EmailSender delivers notifications over SMTP. When SMTP is not
// configured it logs the message instead of failing, so local runs work
// without a mail server.
type EmailSender struct {
	host        string
	port        string
	username    string
	password    string
	from        string
	contactRepo *repositories.ContactRepository
}

func NewEmailSender(host, port, username, password, from string, contactRepo *repositories.ContactRepository) *EmailSender {
	return &EmailSender{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		from:        from,
		contactRepo: contactRepo,
	}
}

func (es *EmailSender) Channel() string {
	return models.ChannelEmail
}

func (es *EmailSender) Send(ctx context.Context, notification models.Notification) error {
	contact, err := es.contactRepo.GetByUserID(notification.UserID)
	if err != nil || contact.Email == "" {
		return utils.NewChannelDeliveryError(models.ChannelEmail, "no email address for user "+notification.UserID)
	}

	if es.host == "" {
		logrus.Infof("SMTP not configured, logging email to %s: %s", contact.Email, notification.Title)
		return nil
	}

	message := es.buildMessage(contact.Email, notification)
	auth := smtp.PlainAuth("", es.username, es.password, es.host)
	addr := fmt.Sprintf("%s:%s", es.host, es.port)

	if err := smtp.SendMail(addr, auth, es.from, []string{contact.Email}, []byte(message)); err != nil {
		logrus.Errorf("Failed to send email to %s: %v", contact.Email, err)
		return utils.NewChannelDeliveryError(models.ChannelEmail, err.Error())
	}

	logrus.Infof("Email sent to %s", contact.Email)
	return nil
}

func (es *EmailSender) buildMessage(to string, notification models.Notification) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		es.from, to, notification.Title, notification.Message)
}
