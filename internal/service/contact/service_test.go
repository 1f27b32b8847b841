package contact

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	mqcontracts "portfolio-relay/contracts/mq"
	"portfolio-relay/internal/model"
	"portfolio-relay/pkg/trace"
	"portfolio-relay/pkg/util"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubMailer struct {
	mu   sync.Mutex
	sent []model.OutboundEmail
	err  error
}

func (m *stubMailer) Send(_ context.Context, email model.OutboundEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return m.err
}

func (m *stubMailer) Name() string { return "stub" }

func (m *stubMailer) calls() []model.OutboundEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.OutboundEmail(nil), m.sent...)
}

type recordedEvent struct {
	routingKey string
	payload    any
}

type stubPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{routingKey: routingKey, payload: payload})
	return p.err
}

var testSettings = Settings{From: "me@gmail.com", To: "inbox@example.com"}

func validSubmission() model.ContactSubmission {
	return model.ContactSubmission{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hello",
		Message: "Line1\nLine2",
	}
}

func TestSubmit_SendsOnce(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewService(testSettings, mailer, nil, zap.NewNop())

	require.NoError(t, svc.Submit(context.Background(), validSubmission()))

	sent := mailer.calls()
	require.Len(t, sent, 1)
	email := sent[0]
	assert.Equal(t, "me@gmail.com", email.From)
	assert.Equal(t, "inbox@example.com", email.To)
	assert.Equal(t, "ada@example.com", email.ReplyTo)
	assert.Equal(t, "New Contact Form Submission: Hello", email.Subject)
	assert.Contains(t, email.HTMLBody, "Line1<br>Line2")
	assert.Contains(t, email.HTMLBody, "<strong>Name:</strong> Ada")
	assert.Contains(t, email.TextBody, "Line1\nLine2")
}

func TestSubmit_MissingFieldsNeverSend(t *testing.T) {
	cases := map[string]func(*model.ContactSubmission){
		"name":          func(s *model.ContactSubmission) { s.Name = "" },
		"email":         func(s *model.ContactSubmission) { s.Email = "" },
		"subject":       func(s *model.ContactSubmission) { s.Subject = "" },
		"message":       func(s *model.ContactSubmission) { s.Message = "" },
		"whitespace":    func(s *model.ContactSubmission) { s.Subject = "  \n\t" },
		"all empty":     func(s *model.ContactSubmission) { *s = model.ContactSubmission{} },
		"email and msg": func(s *model.ContactSubmission) { s.Email, s.Message = "", "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			mailer := &stubMailer{}
			events := &stubPublisher{}
			svc := NewService(testSettings, mailer, events, zap.NewNop())

			sub := validSubmission()
			mutate(&sub)
			err := svc.Submit(context.Background(), sub)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, MsgFieldsRequired, verr.Message)
			assert.Empty(t, mailer.calls())
			assert.Empty(t, events.events)
		})
	}
}

func TestSubmit_ConcreteEmptyName(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewService(testSettings, mailer, nil, zap.NewNop())

	err := svc.Submit(context.Background(), model.ContactSubmission{Name: "", Email: "a@b.com", Subject: "x", Message: "y"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "All fields are required", verr.Message)
	assert.Equal(t, []string{"name"}, verr.Fields)
	assert.Empty(t, mailer.calls())
}

func TestSubmit_TransportFailure(t *testing.T) {
	mailer := &stubMailer{err: errors.New("535 5.7.8 Username and Password not accepted")}
	events := &stubPublisher{}
	svc := NewService(testSettings, mailer, events, zap.NewNop())

	ctx := trace.WithContext(context.Background(), "trace-1")
	err := svc.Submit(ctx, validSubmission())

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "535 5.7.8 Username and Password not accepted", terr.Error())
	assert.Equal(t, "stub", terr.Transport)
	assert.Equal(t, util.ErrorClassAuth, terr.Class)
	assert.ErrorIs(t, err, mailer.err)
	assert.Len(t, mailer.calls(), 1, "no retry after a failure")

	require.Len(t, events.events, 1)
	assert.Equal(t, mqcontracts.RoutingKeyContactFailed, events.events[0].routingKey)
	payload, ok := events.events[0].payload.(mqcontracts.ContactFailedPayload)
	require.True(t, ok)
	assert.Equal(t, "trace-1", payload.TraceID)
	assert.Equal(t, util.ErrorClassAuth, payload.ErrorClass)
}

func TestSubmit_IdenticalPayloadsSendTwice(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewService(testSettings, mailer, nil, zap.NewNop())

	require.NoError(t, svc.Submit(context.Background(), validSubmission()))
	require.NoError(t, svc.Submit(context.Background(), validSubmission()))

	assert.Len(t, mailer.calls(), 2)
}

func TestSubmit_Concurrent(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewService(testSettings, mailer, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Submit(context.Background(), validSubmission()))
		}()
	}
	wg.Wait()

	assert.Len(t, mailer.calls(), 20)
}

func TestSubmit_PublishesSentEvent(t *testing.T) {
	events := &stubPublisher{}
	svc := NewService(testSettings, &stubMailer{}, events, zap.NewNop())

	require.NoError(t, svc.Submit(context.Background(), validSubmission()))

	require.Len(t, events.events, 1)
	assert.Equal(t, mqcontracts.RoutingKeyContactSent, events.events[0].routingKey)
	payload, ok := events.events[0].payload.(mqcontracts.ContactSentPayload)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", payload.ReplyTo)
	assert.Equal(t, "stub", payload.Transport)
}

func TestSubmit_PublishErrorDoesNotFailRelay(t *testing.T) {
	events := &stubPublisher{err: errors.New("channel closed")}
	svc := NewService(testSettings, &stubMailer{}, events, zap.NewNop())

	assert.NoError(t, svc.Submit(context.Background(), validSubmission()))
}

func TestSubmit_StrictEmail(t *testing.T) {
	settings := testSettings
	settings.StrictEmail = true
	mailer := &stubMailer{}
	svc := NewService(settings, mailer, nil, zap.NewNop())

	sub := validSubmission()
	sub.Email = "not an address"
	err := svc.Submit(context.Background(), sub)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgInvalidEmail, verr.Message)
	assert.Empty(t, mailer.calls())

	require.NoError(t, svc.Submit(context.Background(), validSubmission()))
}

func TestSubmit_LenientEmailByDefault(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewService(testSettings, mailer, nil, zap.NewNop())

	sub := validSubmission()
	sub.Email = "not an address"
	require.NoError(t, svc.Submit(context.Background(), sub))
	assert.Equal(t, "not an address", mailer.calls()[0].ReplyTo)
}

func TestSubmit_MaxMessageLength(t *testing.T) {
	settings := testSettings
	settings.MaxMessageLength = 5
	mailer := &stubMailer{}
	svc := NewService(settings, mailer, nil, zap.NewNop())

	sub := validSubmission()
	sub.Message = strings.Repeat("é", 6)
	err := svc.Submit(context.Background(), sub)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgMessageTooLong, verr.Message)

	sub.Message = strings.Repeat("é", 5)
	require.NoError(t, svc.Submit(context.Background(), sub))
	assert.Len(t, mailer.calls(), 1)
}
