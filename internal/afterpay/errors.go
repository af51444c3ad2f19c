package afterpay

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
)

// Canonical message for declined payments, used when the provider returns a
// bare 402 without a human-readable body.
const DeclinedMessage = "Payment declined. Please contact the Afterpay Customer Service team for more information."

// Error codes surfaced to callers. The provider sends its own errorCode in
// the response body; these are the fallbacks derived from the HTTP status.
const (
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodePaymentDeclined = "payment_declined"
	ErrCodeNotFound        = "not_found"
	ErrCodeRequestTimeout  = "request_timeout"
	ErrCodeInvalidObject   = "invalid_object"
	ErrCodeNetwork         = "network_error"
	ErrCodeProvider        = "provider_error"
)

// Error is a typed provider API error. Every non-2xx response and every
// transport failure surfaces as one of these; callers never see raw resty
// or net errors.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	ErrorID    string
}

func (e *Error) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a provider not-found error.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == ErrCodeNotFound
}

type errorBody struct {
	ErrorCode      string `json:"errorCode"`
	ErrorID        string `json:"errorId"`
	Message        string `json:"message"`
	HTTPStatusCode int    `json:"httpStatusCode"`
}

// newAPIError builds an Error from a non-2xx provider response body.
func newAPIError(statusCode int, body []byte) *Error {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)

	code := parsed.ErrorCode
	if code == "" {
		code = codeForStatus(statusCode)
	}

	message := parsed.Message
	if message == "" {
		if statusCode == http.StatusPaymentRequired {
			message = DeclinedMessage
		} else {
			message = http.StatusText(statusCode)
		}
	}

	return &Error{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		ErrorID:    parsed.ErrorID,
	}
}

// newTransportError wraps a network-level failure. Timeouts get their own
// code so they route through the same decline/reversal path as any other
// provider error.
func newTransportError(err error) *Error {
	code := ErrCodeNetwork
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		code = ErrCodeRequestTimeout
	}
	return &Error{
		StatusCode: 0,
		Code:       code,
		Message:    err.Error(),
	}
}

func codeForStatus(statusCode int) string {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusPaymentRequired:
		return ErrCodePaymentDeclined
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusRequestTimeout:
		return ErrCodeRequestTimeout
	case http.StatusUnprocessableEntity:
		return ErrCodeInvalidObject
	default:
		return ErrCodeProvider
	}
}
