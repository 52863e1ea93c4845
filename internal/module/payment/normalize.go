package payment

import (
	"fmt"

	"github.com/votely/server/internal/module/gateway"
	"github.com/votely/server/internal/module/payment/provider"
)

// DispositionType tells the client what to do with a created payment.
type DispositionType string

const (
	// DispositionInApp means the client renders a hosted payment
	// element using the client secret, without leaving the app.
	DispositionInApp DispositionType = "continue_in_app"

	// DispositionRedirect means the client navigates away to the
	// gateway's hosted checkout page.
	DispositionRedirect DispositionType = "redirect_external"
)

// Disposition is the normalized result of a gateway payment creation.
// Exactly one of ClientSecret or CheckoutURL is set, and the type
// follows from which one.
type Disposition struct {
	Type          DispositionType
	Gateway       gateway.Gateway
	ClientSecret  string
	CheckoutURL   string
	TransactionID string
}

// Normalize maps a provider's raw success payload into a Disposition.
// Gateways name the same concept inconsistently across API versions,
// so each gateway gets a priority-ordered field lookup. A payload with
// no recognized field fails with ErrUnrecognizedResponse rather than
// guessing.
//
// paddleCheckoutBase is the hosted checkout prefix used to derive a
// URL when Paddle returns only a transaction ID.
func Normalize(gw gateway.Gateway, res *provider.CreateResult, paddleCheckoutBase string) (*Disposition, error) {
	switch gw {
	case gateway.GatewayStripe:
		return normalizeStripe(res)
	case gateway.GatewayPaddle:
		return normalizePaddle(res, paddleCheckoutBase)
	}
	return nil, fmt.Errorf("%w: unknown gateway %q", ErrUnrecognizedResponse, gw)
}

func normalizeStripe(res *provider.CreateResult) (*Disposition, error) {
	if secret, ok := stringField(res.Data, "clientSecret", "client_secret"); ok {
		return &Disposition{
			Type:          DispositionInApp,
			Gateway:       gateway.GatewayStripe,
			ClientSecret:  secret,
			TransactionID: res.TransactionID,
		}, nil
	}
	if url, ok := stringField(res.Data, "checkoutUrl", "checkout_url"); ok {
		return &Disposition{
			Type:          DispositionRedirect,
			Gateway:       gateway.GatewayStripe,
			CheckoutURL:   url,
			TransactionID: res.TransactionID,
		}, nil
	}
	return nil, fmt.Errorf("%w: stripe payload has neither client secret nor checkout url", ErrUnrecognizedResponse)
}

func normalizePaddle(res *provider.CreateResult, checkoutBase string) (*Disposition, error) {
	if url, ok := stringField(res.Data, "checkoutUrl", "checkout_url"); ok {
		return &Disposition{
			Type:          DispositionRedirect,
			Gateway:       gateway.GatewayPaddle,
			CheckoutURL:   url,
			TransactionID: res.TransactionID,
		}, nil
	}
	// Paddle sometimes omits the checkout object; the hosted page is
	// still reachable from the transaction ID.
	if txnID, ok := stringField(res.Data, "transactionId", "transaction_id"); ok && checkoutBase != "" {
		return &Disposition{
			Type:          DispositionRedirect,
			Gateway:       gateway.GatewayPaddle,
			CheckoutURL:   checkoutBase + "?_ptxn=" + txnID,
			TransactionID: txnID,
		}, nil
	}
	return nil, fmt.Errorf("%w: paddle payload has neither checkout url nor transaction id", ErrUnrecognizedResponse)
}

// stringField returns the first non-empty string value among the given
// keys, in order.
func stringField(data map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := data[key].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
