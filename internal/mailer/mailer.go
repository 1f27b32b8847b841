package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"portfolio-relay/internal/model"
	"portfolio-relay/pkg/circuitbreaker"
	"portfolio-relay/pkg/config"
)

// Transport names accepted by mail.transport
const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
	TransportLog  = "log"
)

// Mailer sends one email per Send call. contact.Mailer declares the same method set
// on the consumer side; every transport here satisfies both.
type Mailer interface {
	Send(ctx context.Context, email model.OutboundEmail) error
	Name() string
}

// New builds the configured transport, wrapped in a circuit breaker when one is configured
func New(ctx context.Context, cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	var (
		m   Mailer
		err error
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Transport)) {
	case TransportSMTP:
		m, err = NewSMTPMailer(cfg.SMTP, logger)
	case TransportSES:
		m, err = NewSESMailer(ctx, cfg.SES, logger)
	case TransportLog, "":
		m = NewLogMailer(logger)
	default:
		return nil, fmt.Errorf("unsupported mail transport: %q", cfg.Transport)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Breaker.FailureThreshold > 0 {
		cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
			FailureThreshold:    cfg.Breaker.FailureThreshold,
			SuccessThreshold:    cfg.Breaker.SuccessThreshold,
			Timeout:             time.Duration(cfg.Breaker.TimeoutSeconds) * time.Second,
			HalfOpenMaxRequests: cfg.Breaker.HalfOpenMaxRequests,
		})
		m = NewBreakerMailer(m, cb)
	}

	logger.Info("Mail transport ready", zap.String("transport", m.Name()))
	return m, nil
}
