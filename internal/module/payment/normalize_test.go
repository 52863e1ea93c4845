package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votely/server/internal/module/gateway"
	"github.com/votely/server/internal/module/payment/provider"
)

const testPaddleBase = "https://pay.paddle.com/checkout"

func TestNormalizeStripe(t *testing.T) {
	tests := []struct {
		name        string
		data        map[string]any
		wantType    DispositionType
		wantSecret  string
		wantURL     string
		wantErr     bool
	}{
		{
			name:       "client secret produces in-app disposition",
			data:       map[string]any{"clientSecret": "pi_123_secret_abc"},
			wantType:   DispositionInApp,
			wantSecret: "pi_123_secret_abc",
		},
		{
			name:       "snake case client secret accepted",
			data:       map[string]any{"client_secret": "pi_456_secret_def"},
			wantType:   DispositionInApp,
			wantSecret: "pi_456_secret_def",
		},
		{
			name:       "client secret wins over checkout url",
			data:       map[string]any{"clientSecret": "pi_789_secret", "checkoutUrl": "https://stripe.com/pay"},
			wantType:   DispositionInApp,
			wantSecret: "pi_789_secret",
		},
		{
			name:     "checkout url alone produces redirect",
			data:     map[string]any{"checkoutUrl": "https://checkout.stripe.com/c/pay/xyz"},
			wantType: DispositionRedirect,
			wantURL:  "https://checkout.stripe.com/c/pay/xyz",
		},
		{
			name:    "no recognized field fails",
			data:    map[string]any{"paymentToken": "tok_123"},
			wantErr: true,
		},
		{
			name:    "empty payload fails",
			data:    map[string]any{},
			wantErr: true,
		},
		{
			name:    "non-string value is not recognized",
			data:    map[string]any{"clientSecret": 42},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &provider.CreateResult{TransactionID: "pi_test", Data: tt.data}
			d, err := Normalize(gateway.GatewayStripe, res, testPaddleBase)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnrecognizedResponse)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantType, d.Type)
			assert.Equal(t, gateway.GatewayStripe, d.Gateway)
			assert.Equal(t, tt.wantSecret, d.ClientSecret)
			assert.Equal(t, tt.wantURL, d.CheckoutURL)
		})
	}
}

func TestNormalizePaddle(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		txnID   string
		wantURL string
		wantErr bool
	}{
		{
			name:    "camel case checkout url",
			data:    map[string]any{"checkoutUrl": "https://buy.paddle.com/abc"},
			wantURL: "https://buy.paddle.com/abc",
		},
		{
			name:    "snake case checkout url",
			data:    map[string]any{"checkout_url": "https://buy.paddle.com/def"},
			wantURL: "https://buy.paddle.com/def",
		},
		{
			name:    "camel case wins over snake case",
			data:    map[string]any{"checkoutUrl": "https://buy.paddle.com/first", "checkout_url": "https://buy.paddle.com/second"},
			wantURL: "https://buy.paddle.com/first",
		},
		{
			name:    "url derived from transaction id",
			data:    map[string]any{"transactionId": "txn_01abc"},
			txnID:   "txn_01abc",
			wantURL: testPaddleBase + "?_ptxn=txn_01abc",
		},
		{
			name:    "no recognized field fails",
			data:    map[string]any{"redirect": "https://somewhere"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &provider.CreateResult{TransactionID: tt.txnID, Data: tt.data}
			d, err := Normalize(gateway.GatewayPaddle, res, testPaddleBase)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnrecognizedResponse)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, DispositionRedirect, d.Type)
			assert.Equal(t, gateway.GatewayPaddle, d.Gateway)
			assert.Equal(t, tt.wantURL, d.CheckoutURL)
			assert.Empty(t, d.ClientSecret)
		})
	}
}

func TestNormalizePaddleDerivedURLNeedsBase(t *testing.T) {
	res := &provider.CreateResult{Data: map[string]any{"transactionId": "txn_01abc"}}
	_, err := Normalize(gateway.GatewayPaddle, res, "")
	require.ErrorIs(t, err, ErrUnrecognizedResponse)
}

func TestNormalizeUnknownGateway(t *testing.T) {
	res := &provider.CreateResult{Data: map[string]any{"clientSecret": "x"}}
	_, err := Normalize(gateway.Gateway("square"), res, testPaddleBase)
	require.ErrorIs(t, err, ErrUnrecognizedResponse)
}

func TestDispositionsAreMutuallyExclusive(t *testing.T) {
	stripeRes := &provider.CreateResult{Data: map[string]any{"clientSecret": "sec"}}
	d, err := Normalize(gateway.GatewayStripe, stripeRes, testPaddleBase)
	require.NoError(t, err)
	assert.NotEmpty(t, d.ClientSecret)
	assert.Empty(t, d.CheckoutURL)

	paddleRes := &provider.CreateResult{Data: map[string]any{"checkoutUrl": "https://buy.paddle.com/x"}}
	d, err = Normalize(gateway.GatewayPaddle, paddleRes, testPaddleBase)
	require.NoError(t, err)
	assert.Empty(t, d.ClientSecret)
	assert.NotEmpty(t, d.CheckoutURL)
}
