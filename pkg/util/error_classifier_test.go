package util

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"

	"portfolio-relay/pkg/circuitbreaker"
)

type fakeAPIError struct{ code string }

func (e fakeAPIError) Error() string     { return "api error " + e.code }
func (e fakeAPIError) ErrorCode() string { return e.code }

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyMailError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"breaker", fmt.Errorf("send: %w", circuitbreaker.ErrCircuitBreakerOpen), ErrorClassBreakerOpen},
		{"deadline", fmt.Errorf("dial: %w", context.DeadlineExceeded), ErrorClassTimeout},
		{"canceled", context.Canceled, ErrorClassCanceled},
		{"smtp auth", &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"}, ErrorClassAuth},
		{"smtp reject", &textproto.Error{Code: 550, Msg: "mailbox unavailable"}, ErrorClassRejected},
		{"ses denied", fakeAPIError{code: "AccessDenied"}, ErrorClassAuth},
		{"ses rejected", fakeAPIError{code: "MessageRejected"}, ErrorClassRejected},
		{"net timeout", &net.OpError{Op: "dial", Err: timeoutErr{}}, ErrorClassTimeout},
		{"refused text", errors.New("dial tcp 127.0.0.1:587: connect: connection refused"), ErrorClassNetwork},
		{"auth text", errors.New("smtp authentication failed"), ErrorClassAuth},
		{"unknown", errors.New("boom"), ErrorClassUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMailError(tt.err))
		})
	}
}
