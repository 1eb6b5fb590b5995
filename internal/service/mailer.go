package service

import (
	"context"
	"log/slog"
)

// Mailer delivers outbound account email. The production deployment plugs in
// a real provider; everything else uses LogMailer.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes the mail to the log instead of sending it. Useful in
// development where the reset token has to be fished out by hand.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.Logger.Info("password reset email",
		"email", email,
		"token", token,
	)
	return nil
}
