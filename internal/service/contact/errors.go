package contact

import "strings"

// Client-facing messages
const (
	MsgFieldsRequired = "All fields are required"
	MsgInvalidEmail   = "Invalid email address"
	MsgMessageTooLong = "Message is too long"
)

// ValidationError rejects a submission before any send attempt.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

// TransportError wraps any failure once a valid submission was accepted for dispatch.
// Error() is the underlying text so it can be shown to the caller verbatim.
type TransportError struct {
	Transport string
	Class     string
	Err       error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
