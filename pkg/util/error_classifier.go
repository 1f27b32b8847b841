package util

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"strings"

	"portfolio-relay/pkg/circuitbreaker"
)

// Mail error classes used as metric labels
const (
	ErrorClassAuth        = "auth"
	ErrorClassNetwork     = "network"
	ErrorClassTimeout     = "timeout"
	ErrorClassRejected    = "rejected"
	ErrorClassBreakerOpen = "breaker_open"
	ErrorClassCanceled    = "canceled"
	ErrorClassUnknown     = "unknown"
)

// apiError matches AWS SDK (smithy) API errors without importing the SDK
type apiError interface {
	ErrorCode() string
}

// ClassifyMailError maps a transport error to a coarse class.
// The class only feeds logs and metrics; callers see the same failure regardless.
func ClassifyMailError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) {
		return ErrorClassBreakerOpen
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorClassCanceled
	}

	// SMTP reply codes: 535 auth failed, 5xx permanent rejection
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		if tpErr.Code == 535 || tpErr.Code == 534 || tpErr.Code == 530 {
			return ErrorClassAuth
		}
		return ErrorClassRejected
	}

	var apiErr apiError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case strings.Contains(code, "Signature"), strings.Contains(code, "AccessDenied"),
			strings.Contains(code, "Unrecognized"), strings.Contains(code, "InvalidClientTokenId"):
			return ErrorClassAuth
		default:
			return ErrorClassRejected
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrorClassTimeout
		}
		return ErrorClassNetwork
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "auth"), strings.Contains(errStr, "credentials"),
		strings.Contains(errStr, "username and password not accepted"):
		return ErrorClassAuth
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline"):
		return ErrorClassTimeout
	case strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "no such host"),
		strings.Contains(errStr, "dial"):
		return ErrorClassNetwork
	case strings.Contains(errStr, "rejected"), strings.Contains(errStr, "invalid"):
		return ErrorClassRejected
	}

	return ErrorClassUnknown
}
