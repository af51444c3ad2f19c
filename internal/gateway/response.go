package gateway

import (
	"errors"

	"paylater/internal/afterpay"
)

// Response is the normalized result of a gateway operation. Provider errors
// never escape the gateway; they arrive here as Success=false with the
// provider's message and machine error code.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`

	// Authorization is the provider transaction id to use as the reference
	// for captures, refunds and voids.
	Authorization string `json:"authorization,omitempty"`

	Checkout *afterpay.Checkout `json:"checkout,omitempty"`
	Payment  *afterpay.Payment  `json:"payment,omitempty"`
	Refund   *afterpay.Refund   `json:"refund,omitempty"`
}

func successResponse(message, authorization string) *Response {
	return &Response{
		Success:       true,
		Message:       message,
		Authorization: authorization,
	}
}

func failureResponse(err error) *Response {
	var apiErr *afterpay.Error
	if errors.As(err, &apiErr) {
		return &Response{
			Success:   false,
			Message:   apiErr.Message,
			ErrorCode: apiErr.Code,
		}
	}
	return &Response{
		Success:   false,
		Message:   err.Error(),
		ErrorCode: afterpay.ErrCodeProvider,
	}
}
