package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// errNoSigner is returned when a signed endpoint is called on a client
// constructed without credentials.
var errNoSigner = errors.New("signer required for signed request")

// APIError is an error reported by the exchange itself: the request reached
// Binance and was rejected with a JSON body carrying a code and message.
type APIError struct {
	Code       int             `json:"code"`
	Message    string          `json:"msg"`
	HTTPStatus int             `json:"-"`
	Raw        json.RawMessage `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("binance API error %d: %s", e.Code, e.Message)
}

// TransportKind distinguishes network-level failure modes
type TransportKind int

const (
	// TransportTimeout means no response arrived within the request timeout
	TransportTimeout TransportKind = iota
	// TransportConnection means the connection failed before a response
	TransportConnection
)

// String returns a human-readable name for the kind
func (k TransportKind) String() string {
	if k == TransportTimeout {
		return "timeout"
	}
	return "connection failure"
}

// TransportError is a network-level failure: the exchange never produced a
// response body. It is a distinct kind from APIError so callers can tell
// "the exchange said no" apart from "the exchange was unreachable".
type TransportError struct {
	Kind TransportKind
	Err  error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnsupportedMethodError reports an HTTP method outside GET/POST/DELETE.
// This is a caller contract violation and is never retried.
type UnsupportedMethodError struct {
	Method string
}

// Error implements the error interface
func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported HTTP method: %s", e.Method)
}

// parseAPIError builds an APIError from a non-2xx response body, falling
// back to the HTTP status code and a generic message when the body does not
// carry the exchange's code/msg fields.
func parseAPIError(httpStatus int, body []byte) *APIError {
	apiErr := &APIError{
		Code:       httpStatus,
		Message:    "Unknown error",
		HTTPStatus: httpStatus,
		Raw:        json.RawMessage(body),
	}

	var parsed struct {
		Code    int    `json:"code"`
		Message string `json:"msg"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Code != 0 {
			apiErr.Code = parsed.Code
		}
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
	}

	return apiErr
}

// isRetryableStatus reports whether an HTTP status is transient enough to
// retry: 429 plus the 5xx gateway family.
func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// classifyNetError wraps a pre-response failure from the HTTP client as a
// TransportError, separating timeouts from connection failures.
func classifyNetError(err error) *TransportError {
	kind := TransportConnection

	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = TransportTimeout
	case errors.Is(err, context.DeadlineExceeded):
		kind = TransportTimeout
	}

	// url.Error wraps the interesting cause; keep the chain intact
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		kind = TransportTimeout
	}

	return &TransportError{Kind: kind, Err: err}
}

// ErrorWithContext wraps errors with operation context for better debugging
func ErrorWithContext(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}
