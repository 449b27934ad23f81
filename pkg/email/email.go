// Package email sends account security notifications.
package email

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v3"
	"github.com/rs/zerolog"
)

// Notifier informs a user about security-relevant changes to their account.
type Notifier interface {
	SendPasswordChanged(ctx context.Context, toEmail, name string) error
	SendSignedOutEverywhere(ctx context.Context, toEmail, name string) error
}

type resendSender struct {
	client *resend.Client
	from   string
	appURL string
}

// NewResendSender sends through the Resend API. from is a full sender,
// e.g. "StudyTrack <no-reply@example.com>".
func NewResendSender(apiKey, from, appURL string) Notifier {
	return &resendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		appURL: appURL,
	}
}

func (s *resendSender) SendPasswordChanged(ctx context.Context, toEmail, name string) error {
	msg := passwordChangedMessage(name, s.appURL)
	return s.send(ctx, toEmail, msg)
}

func (s *resendSender) SendSignedOutEverywhere(ctx context.Context, toEmail, name string) error {
	msg := signedOutMessage(name, s.appURL)
	return s.send(ctx, toEmail, msg)
}

func (s *resendSender) send(ctx context.Context, toEmail string, msg message) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: msg.subject,
		Html:    msg.html,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send %q email: %w", msg.subject, err)
	}
	return nil
}

type logSender struct {
	log zerolog.Logger
}

// NewLogSender is used when no Resend key is configured. It only logs.
func NewLogSender(logger zerolog.Logger) Notifier {
	return &logSender{log: logger.With().Str("component", "email").Logger()}
}

func (s *logSender) SendPasswordChanged(_ context.Context, toEmail, _ string) error {
	s.log.Info().Str("to", toEmail).Msg("password changed notice (mail disabled)")
	return nil
}

func (s *logSender) SendSignedOutEverywhere(_ context.Context, toEmail, _ string) error {
	s.log.Info().Str("to", toEmail).Msg("signed out everywhere notice (mail disabled)")
	return nil
}

type message struct {
	subject string
	html    string
}

func passwordChangedMessage(name, appURL string) message {
	return message{
		subject: "Your StudyTrack password was changed",
		html: layout(name,
			"The password for your StudyTrack account was just changed.",
			"If this wasn't you, reset your password right away and sign out of all devices.",
			appURL),
	}
}

func signedOutMessage(name, appURL string) message {
	return message{
		subject: "You were signed out of all devices",
		html: layout(name,
			"All sessions of your StudyTrack account were just ended.",
			"You will need to sign in again on each device.",
			appURL),
	}
}

func layout(name, lead, detail, appURL string) string {
	url := html.EscapeString(appURL)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:24px;background-color:#f8fafc;font-family:Arial,Helvetica,sans-serif;">
  <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:32px;">
    <tr><td>
      <h1 style="color:#0f172a;font-size:20px;margin:0 0 16px 0;">Hi %s,</h1>
      <p style="color:#334155;font-size:15px;line-height:1.6;margin:0 0 12px 0;">%s</p>
      <p style="color:#64748b;font-size:14px;line-height:1.6;margin:0 0 24px 0;">%s</p>
      <a href="%s" style="color:#4f46e5;font-size:14px;">Open StudyTrack</a>
    </td></tr>
  </table>
</body>
</html>`, html.EscapeString(name), lead, detail, url)
}
