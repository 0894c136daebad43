package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// ConfirmationData carries everything the signup mail needs.
type ConfirmationData struct {
	Email    string
	Username string
	Code     string
}

type Mailer interface {
	SendConfirmationCode(ctx context.Context, data ConfirmationData) error
}

type smtpMailer struct {
	smtpAddr string
	from     string
	logger   *slog.Logger
}

// NewSMTPMailer sends confirmation codes through a plain SMTP relay.
func NewSMTPMailer(host string, port int, from string, logger *slog.Logger) Mailer {
	return &smtpMailer{
		smtpAddr: fmt.Sprintf("%s:%d", host, port),
		from:     from,
		logger:   logger,
	}
}

func (s *smtpMailer) SendConfirmationCode(ctx context.Context, data ConfirmationData) error {
	subject := "Your reviewhub confirmation code"
	body := fmt.Sprintf(`Hi %s,

Use this confirmation code to finish signing up:

	%s

Exchange it at POST /api/auth/token together with your username.
If you did not request this, ignore this message.`, data.Username, data.Code)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.from, data.Email, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.from, []string{data.Email}, msg); err != nil {
		s.logger.Error("failed to send confirmation email",
			"to", data.Email,
			"smtp_addr", s.smtpAddr,
			"error", err)
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

// logMailer writes the code to the log instead of sending mail. Development
// only; never configure it in production.
type logMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (l *logMailer) SendConfirmationCode(_ context.Context, data ConfirmationData) error {
	l.logger.Info("confirmation code issued",
		"username", data.Username,
		"email", data.Email,
		"code", data.Code)
	return nil
}
