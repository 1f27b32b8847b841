package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"portfolio-relay/internal/model"
	"portfolio-relay/pkg/config"
)

const (
	defaultSMTPPort    = 587
	defaultSMTPTimeout = 15 * time.Second
)

// SMTPMailer relays through an authenticated SMTP account (Gmail app password, etc.)
type SMTPMailer struct {
	host   string
	opts   []gomail.Option
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}

	port := cfg.Port
	if port == 0 {
		port = defaultSMTPPort
	}
	timeout := defaultSMTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	policy, err := parseTLSPolicy(cfg.TLSPolicy)
	if err != nil {
		return nil, err
	}

	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTimeout(timeout),
		gomail.WithTLSPolicy(policy),
	}
	if port == 465 {
		opts = append(opts, gomail.WithSSL())
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	return &SMTPMailer{host: cfg.Host, opts: opts, logger: logger}, nil
}

func (m *SMTPMailer) Name() string { return TransportSMTP }

// Send opens one SMTP session per call
func (m *SMTPMailer) Send(ctx context.Context, email model.OutboundEmail) error {
	msg, err := m.buildMessage(email)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.host, m.opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail via smtp: %w", err)
	}
	return nil
}

// buildMessage drops an unparseable Reply-To instead of failing; the address is still in the body
func (m *SMTPMailer) buildMessage(email model.OutboundEmail) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(email.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", email.From, err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("invalid to address %q: %w", email.To, err)
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			m.logger.Warn("Dropping unparseable Reply-To", zap.String("reply_to", email.ReplyTo), zap.Error(err))
		}
	}

	msg.Subject(email.Subject)
	if email.TextBody != "" {
		msg.SetBodyString(gomail.TypeTextPlain, email.TextBody)
		msg.AddAlternativeString(gomail.TypeTextHTML, email.HTMLBody)
	} else {
		msg.SetBodyString(gomail.TypeTextHTML, email.HTMLBody)
	}
	return msg, nil
}

func parseTLSPolicy(s string) (gomail.TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mandatory":
		return gomail.TLSMandatory, nil
	case "opportunistic":
		return gomail.TLSOpportunistic, nil
	case "none":
		return gomail.NoTLS, nil
	default:
		return gomail.NoTLS, fmt.Errorf("unknown smtp tls policy: %q", s)
	}
}
