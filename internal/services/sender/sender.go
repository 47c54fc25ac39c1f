// Package services реализует отправку писем пользователям через SMTP,
// в частности письма со ссылкой на восстановление пароля.
package services

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/magabrotheeeer/auth-backend/internal/lib/sl"
	"github.com/magabrotheeeer/auth-backend/internal/lib/smtp"
)

// SenderService отправляет письма через SMTP-транспорт.
type SenderService struct {
	transport    smtp.TransportInterface
	resetLinkURL string
	log          *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
// resetLinkURL — базовый адрес страницы восстановления пароля,
// токен добавляется к нему query-параметром.
func NewSenderService(transport smtp.TransportInterface, resetLinkURL string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport:    transport,
		resetLinkURL: resetLinkURL,
		log:          log,
	}
}

// SendPasswordResetLink отправляет пользователю письмо со ссылкой
// на восстановление пароля. Токен передается query-параметром token.
func (s *SenderService) SendPasswordResetLink(email, fullname, resetToken string) error {
	link := s.resetLinkURL + "?token=" + url.QueryEscape(resetToken)

	subject := "Password reset request"
	bodyText := fmt.Sprintf(`Hello, %s!

We received a request to reset the password for your account.

To set a new password, follow the link below within 15 minutes:
%s

If you did not request a password reset, you can safely ignore this email.`,
		fullname, link)

	return s.sendEmail([]string{email}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
