package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// UpstreamError is a failure of an external service (the model endpoint or
// the place search) that is not the caller's fault. Only these count toward
// opening a circuit.
type UpstreamError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: upstream: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Upstream wraps err as an outage of service. statusCode is 0 when no HTTP
// response was received.
func Upstream(service string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{Service: service, StatusCode: statusCode, Err: err}
}

// outageMessages catch resolver and dialer failures that reach us as plain strings.
var outageMessages = []string{
	"connection reset by peer",
	"connection refused",
	"no such host",
	"i/o timeout",
	"tls handshake timeout",
}

// IsOutage reports whether err means an upstream service is down or slow.
// Cancellation by the caller is never an outage.
func IsOutage(err error) bool {
	var ue *UpstreamError
	var netErr net.Error

	switch {
	case err == nil:
		return false
	case errors.As(err, &ue):
		return true
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.As(err, &netErr) && netErr.Timeout():
		return true
	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNABORTED):
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range outageMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// OutageStatus reports whether an HTTP status means the service, not the
// request, is at fault.
func OutageStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
