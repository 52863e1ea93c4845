package checkout

import "errors"

var (
	// ErrSessionNotFound is returned when no persisted session exists
	// for the given ID.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrInvalidTransition is returned for a step change the state
	// machine does not allow.
	ErrInvalidTransition = errors.New("invalid checkout transition")

	// ErrPaymentPending is returned when navigation or a new charge is
	// attempted while a payment is in flight.
	ErrPaymentPending = errors.New("payment is pending")

	// ErrNoGatewaySelected is returned when proceeding to payment
	// without a gateway choice.
	ErrNoGatewaySelected = errors.New("no gateway selected")

	// ErrNoPaymentToVerify is returned when the session has no
	// transaction to verify.
	ErrNoPaymentToVerify = errors.New("no payment to verify")
)
