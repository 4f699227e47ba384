package services

import (
	"fmt"
	"net/smtp"

	"github.com/purevia/purevia-water-api/config"
)

// EmailService sends transactional HTML mail. The lifecycle service owns
// the message templates; this interface only moves bytes.
type EmailService interface {
	Send(to, subject, html string) error

	// SendWithReplyTo is used for mails customers are expected to answer,
	// like review requests, so replies land in the admin inbox.
	SendWithReplyTo(to, subject, html, replyTo string) error
}

// SMTPEmailService implements EmailService over plain SMTP
type SMTPEmailService struct {
	host string
	port string
	user string
	pass string
	from string
}

var emailServiceInstance EmailService

// InitEmailService initializes the SMTP email service from configuration
func InitEmailService() EmailService {
	cfg := config.GetConfig()
	emailServiceInstance = &SMTPEmailService{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
	}
	return emailServiceInstance
}

// GetEmailService returns the initialized email service instance
func GetEmailService() EmailService {
	return emailServiceInstance
}

// SetEmailService sets the email service instance (primarily for testing)
func SetEmailService(s EmailService) {
	emailServiceInstance = s
}

// Send sends an HTML mail to a single recipient
func (s *SMTPEmailService) Send(to, subject, html string) error {
	return s.send(to, subject, html, "")
}

// SendWithReplyTo sends an HTML mail with an explicit Reply-To header
func (s *SMTPEmailService) SendWithReplyTo(to, subject, html, replyTo string) error {
	return s.send(to, subject, html, replyTo)
}

func (s *SMTPEmailService) send(to, subject, html, replyTo string) error {
	msg := "From: " + s.from + "\r\n" +
		"To: " + to + "\r\n"
	if replyTo != "" {
		msg += "Reply-To: " + replyTo + "\r\n"
	}
	msg += "Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n" +
		html

	addr := s.host + ":" + s.port

	// Local relays like MailHog take no auth
	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
