// Package mail is the out-of-band delivery collaborator for confirmation
// codes. Transport failures are the caller's business to log, not to fail a
// request over.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers a message to a single recipient.
type Sender interface {
	Send(to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// ConfirmationBody renders the signup email.
func ConfirmationBody(code string) string {
	return fmt.Sprintf("Your confirmation code: %s", code)
}
