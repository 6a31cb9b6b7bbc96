// Package messaging delivers engine replies over the WhatsApp channel and
// owns the text encoding of choice buttons.
package messaging

import (
	"context"

	"github.com/stagehand-ai/stagehand/pkg/logging"
)

// Outbound is one reply to deliver. Buttons are choice labels; the sender
// encodes them into the body as a numbered list.
type Outbound struct {
	TenantID string
	To       string
	Body     string
	Buttons  []string
}

// Sender delivers an outbound reply to the user's channel.
type Sender interface {
	Send(ctx context.Context, msg Outbound) error
}

// LogSender writes replies to the log instead of a real channel. Used in
// local development and as the default when Twilio is not configured.
type LogSender struct {
	logger *logging.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the encoded message body.
func (s *LogSender) Send(ctx context.Context, msg Outbound) error {
	s.logger.Info("outbound message",
		"tenant_id", msg.TenantID,
		"to", msg.To,
		"body", EncodeButtons(msg.Body, msg.Buttons),
	)
	return nil
}
