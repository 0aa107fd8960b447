// Package notification delivers customer-facing messages. The log mailer
// writes them to the application log; a real SMTP or provider-backed mailer
// can replace it behind the same port.
package notification

import (
	"context"
	"log/slog"
)

// LogMailer logs outgoing messages instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message.
func (m *LogMailer) Send(ctx context.Context, recipient, subject, body string) error {
	m.logger.InfoContext(ctx, "notification sent",
		"recipient", recipient,
		"subject", subject,
		"body", body,
	)
	return nil
}
