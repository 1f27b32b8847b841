package mailer

import (
	"context"

	"portfolio-relay/internal/model"
	"portfolio-relay/pkg/circuitbreaker"
)

// BreakerMailer fails fast with circuitbreaker.ErrCircuitBreakerOpen while the transport keeps failing
type BreakerMailer struct {
	next Mailer
	cb   *circuitbreaker.CircuitBreaker
}

func NewBreakerMailer(next Mailer, cb *circuitbreaker.CircuitBreaker) *BreakerMailer {
	return &BreakerMailer{next: next, cb: cb}
}

func (m *BreakerMailer) Name() string { return m.next.Name() }

func (m *BreakerMailer) Send(ctx context.Context, email model.OutboundEmail) error {
	return m.cb.Execute(ctx, func(ctx context.Context) error {
		return m.next.Send(ctx, email)
	})
}

// State exposes the breaker state for readiness reporting
func (m *BreakerMailer) State() circuitbreaker.State {
	return m.cb.GetState()
}
