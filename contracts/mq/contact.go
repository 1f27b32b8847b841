package mq

import "time"

// Routing keys for contact relay outcome events
const (
	RoutingKeyContactSent   = "contact.sent"
	RoutingKeyContactFailed = "contact.failed"
)

type ContactSentPayload struct {
	TraceID   string    `json:"trace_id,omitempty"`
	ReplyTo   string    `json:"reply_to"`
	Subject   string    `json:"subject"`
	Transport string    `json:"transport"`
	SentAt    time.Time `json:"sent_at"`
}

type ContactFailedPayload struct {
	TraceID    string    `json:"trace_id,omitempty"`
	ReplyTo    string    `json:"reply_to"`
	Subject    string    `json:"subject"`
	Transport  string    `json:"transport"`
	Error      string    `json:"error"`
	ErrorClass string    `json:"error_class"` // auth / network / timeout / rejected / breaker_open / unknown
	FailedAt   time.Time `json:"failed_at"`
}
