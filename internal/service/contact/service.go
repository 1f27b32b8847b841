package contact

import (
	"context"
	"fmt"
	"net/mail"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	mqcontracts "portfolio-relay/contracts/mq"
	"portfolio-relay/internal/model"
	"portfolio-relay/pkg/logger"
	"portfolio-relay/pkg/metrics"
	"portfolio-relay/pkg/otel"
	"portfolio-relay/pkg/trace"
	"portfolio-relay/pkg/util"
)

const eventPublishTimeout = 2 * time.Second

// Mailer delivers one outbound email per call
type Mailer interface {
	Send(ctx context.Context, email model.OutboundEmail) error
	Name() string
}

// EventPublisher receives outcome events; *mq.Publisher satisfies it
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Settings is read-only relay configuration, fixed at construction
type Settings struct {
	From             string
	To               string
	StrictEmail      bool
	MaxMessageLength int // runes; 0 means unlimited
}

// Service relays contact submissions to a Mailer. It holds no per-request state.
type Service struct {
	settings Settings
	mailer   Mailer
	events   EventPublisher
	logger   *zap.Logger
}

// NewService builds the relay. events may be nil.
func NewService(settings Settings, mailer Mailer, events EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		settings: settings,
		mailer:   mailer,
		events:   events,
		logger:   logger,
	}
}

// Submit validates sub and sends it with exactly one Mailer call.
// It returns nil, a *ValidationError (nothing sent) or a *TransportError.
func (s *Service) Submit(ctx context.Context, sub model.ContactSubmission) error {
	log := logger.WithTrace(ctx, s.logger)
	sub = sub.Normalize()

	if err := s.Validate(sub); err != nil {
		metrics.IncrementContactSubmission("rejected")
		log.Info("Contact submission rejected", zap.Error(err))
		return err
	}

	email, err := s.Compose(sub)
	if err != nil {
		metrics.IncrementContactSubmission("failed")
		log.Error("Failed to compose contact email", zap.Error(err))
		return &TransportError{
			Transport: s.mailer.Name(),
			Class:     util.ErrorClassUnknown,
			Err:       fmt.Errorf("failed to compose email: %w", err),
		}
	}

	transport := s.mailer.Name()
	ctx, span := otel.StartSpan(ctx, "contact.send")
	span.SetAttributes(attribute.String("mail.transport", transport))

	start := time.Now()
	err = s.mailer.Send(ctx, email)
	elapsed := time.Since(start)

	if err != nil {
		class := util.ClassifyMailError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, class)
		span.End()

		metrics.RecordMailSend(transport, "failed", elapsed)
		metrics.IncrementMailSendError(transport, class)
		metrics.IncrementContactSubmission("failed")
		log.Error("Failed to send contact email",
			zap.String("transport", transport),
			zap.String("error_class", class),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)

		s.publish(ctx, mqcontracts.RoutingKeyContactFailed, mqcontracts.ContactFailedPayload{
			TraceID:    trace.FromContext(ctx),
			ReplyTo:    email.ReplyTo,
			Subject:    email.Subject,
			Transport:  transport,
			Error:      err.Error(),
			ErrorClass: class,
			FailedAt:   time.Now(),
		})
		return &TransportError{Transport: transport, Class: class, Err: err}
	}
	span.End()

	metrics.RecordMailSend(transport, "sent", elapsed)
	metrics.IncrementContactSubmission("sent")
	log.Info("Contact email sent",
		zap.String("transport", transport),
		zap.Duration("elapsed", elapsed),
	)

	s.publish(ctx, mqcontracts.RoutingKeyContactSent, mqcontracts.ContactSentPayload{
		TraceID:   trace.FromContext(ctx),
		ReplyTo:   email.ReplyTo,
		Subject:   email.Subject,
		Transport: transport,
		SentAt:    time.Now(),
	})
	return nil
}

// Validate checks an already normalized submission
func (s *Service) Validate(sub model.ContactSubmission) error {
	if missing := sub.MissingFields(); len(missing) > 0 {
		return &ValidationError{Message: MsgFieldsRequired, Fields: missing}
	}
	if s.settings.StrictEmail {
		if _, err := mail.ParseAddress(sub.Email); err != nil {
			return &ValidationError{Message: MsgInvalidEmail, Fields: []string{"email"}}
		}
	}
	if s.settings.MaxMessageLength > 0 && utf8.RuneCountInString(sub.Message) > s.settings.MaxMessageLength {
		return &ValidationError{Message: MsgMessageTooLong, Fields: []string{"message"}}
	}
	return nil
}

// Compose builds the outbound email for a valid submission
func (s *Service) Compose(sub model.ContactSubmission) (model.OutboundEmail, error) {
	html, err := RenderHTML(sub)
	if err != nil {
		return model.OutboundEmail{}, err
	}
	text, err := RenderText(sub)
	if err != nil {
		return model.OutboundEmail{}, err
	}

	return model.OutboundEmail{
		From:     s.settings.From,
		To:       s.settings.To,
		ReplyTo:  singleLine(sub.Email),
		Subject:  BuildSubject(sub.Subject),
		HTMLBody: html,
		TextBody: text,
	}, nil
}

func (s *Service) publish(ctx context.Context, routingKey string, payload any) {
	if s.events == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := s.events.Publish(pubCtx, routingKey, payload); err != nil {
		logger.WithTrace(ctx, s.logger).Warn("Failed to publish contact event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
