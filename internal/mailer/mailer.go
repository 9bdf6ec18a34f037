// Package mailer defines the outbound-notification hand-off contract.
// Actual delivery belongs to an external provider; the conversation engine
// only records that a hand-off occurred (the room's mailed flag). The
// default implementation logs the notification, which is the full extent
// of delivery in development and tests.
package mailer

import (
	"context"

	"github.com/rs/zerolog"
)

// Mailer hands a notification to the delivery collaborator. A nil return
// means the hand-off was accepted, not that the mail arrived.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes each notification to the structured log instead of
// delivering it.
type LogMailer struct {
	Log zerolog.Logger
}

// Send records the notification at info level and reports success.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.Log.Info().
		Str("to", to).
		Str("subject", subject).
		Int("body_bytes", len(body)).
		Msg("mail handoff")
	return nil
}
