package mailer

import (
	"context"

	"go.uber.org/zap"

	"portfolio-relay/internal/model"
	"portfolio-relay/pkg/logger"
)

// LogMailer only logs the envelope. Used for local development.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Name() string { return TransportLog }

func (m *LogMailer) Send(ctx context.Context, email model.OutboundEmail) error {
	logger.WithTrace(ctx, m.logger).Info("Contact email (log transport)",
		zap.String("from", email.From),
		zap.String("to", email.To),
		zap.String("reply_to", email.ReplyTo),
		zap.String("subject", email.Subject),
		zap.Int("html_bytes", len(email.HTMLBody)),
	)
	m.logger.Debug("Contact email body", zap.String("text", email.TextBody))
	return nil
}
