// Package mailer sends the email that verifies ownership of a newly
// created short link.
package mailer

import (
	"fmt"
	"net/smtp"
	"time"
)

// CodeTTL is how long a verification code stays valid.
const CodeTTL = 5 * time.Minute

// Sender delivers a verification mail for a code.
type Sender interface {
	SendVerification(to, code string) error
}

// Config holds SMTP settings and the public base URL used to build the
// verification link.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	BaseURL  string
}

// SMTPSender sends verification mails over authenticated SMTP.
type SMTPSender struct {
	cfg Config
}

// NewSMTPSender creates an SMTP-backed sender.
func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// VerificationBody builds the plain-text mail body for a code.
func VerificationBody(baseURL, code string) string {
	return fmt.Sprintf("%s/v1/verify/%s\n\nThis code is valid for 5 minutes.", baseURL, code)
}

// SendVerification sends the verification link to the recipient.
func (s *SMTPSender) SendVerification(to, code string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Verification for Short Link Creation\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.cfg.From, to, VerificationBody(s.cfg.BaseURL, code),
	)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := s.cfg.Host + ":" + s.cfg.Port

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}

	return nil
}
