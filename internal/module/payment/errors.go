package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrPaymentNotFound is returned when a payment intent does not exist.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrUnrecognizedResponse is returned when a gateway's success
	// payload carries none of the fields we know how to interpret.
	ErrUnrecognizedResponse = errors.New("unrecognized gateway response")

	// ErrProviderNotFound is returned when no provider is registered
	// for the requested gateway.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrPaymentInFlight is returned when a payment is already pending
	// for the session.
	ErrPaymentInFlight = errors.New("payment already in flight for session")
)

// Error wraps a payment failure with a retryability classification.
// Network and 5xx failures are retryable; business rejections are not.
type Error struct {
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Retryable {
		return fmt.Sprintf("payment failed (retryable): %v", e.Err)
	}
	return fmt.Sprintf("payment failed: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// retryableError wraps err as a retryable payment error.
func retryableError(err error) *Error {
	return &Error{Retryable: true, Err: err}
}

// terminalError wraps err as a non-retryable payment error.
func terminalError(err error) *Error {
	return &Error{Retryable: false, Err: err}
}
