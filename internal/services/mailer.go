package services

import (
	"context"

	log "github.com/sirupsen/logrus"
)

type MailMessage struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// LogMailer "delivers" mail by writing it to the log. There is no SMTP transport.
type LogMailer struct {
	FromAddress string
	FromName    string
}

func (m *LogMailer) Send(_ context.Context, msg MailMessage) error {
	log.WithFields(log.Fields{
		"from":    m.FromName + " <" + m.FromAddress + ">",
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("mail sent (simulated)")
	log.WithField("to", msg.To).Debug(msg.Body)
	return nil
}
