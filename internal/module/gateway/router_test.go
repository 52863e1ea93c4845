package gateway

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/votely/server/internal/module/region"
	"go.uber.org/zap"
)

// fakeRepo serves configs from memory.
type fakeRepo struct {
	configs map[region.Region]*Config
}

func (f *fakeRepo) GetByRegion(_ context.Context, reg region.Region) (*Config, error) {
	cfg, ok := f.configs[reg]
	if !ok {
		return nil, ErrNoConfig
	}
	return cfg, nil
}

func (f *fakeRepo) Upsert(_ context.Context, cfg *Config) error {
	f.configs[cfg.Region] = cfg
	return nil
}

func (f *fakeRepo) List(_ context.Context) ([]*Config, error) {
	var out []*Config
	for _, c := range f.configs {
		out = append(out, c)
	}
	return out, nil
}

func newTestRouter(configs map[region.Region]*Config) *Router {
	return NewRouter(&fakeRepo{configs: configs}, zap.NewNop())
}

func TestRouter_Route_StripeOnly(t *testing.T) {
	r := newTestRouter(map[region.Region]*Config{
		region.NorthAmerica: {
			Region:               region.NorthAmerica,
			GatewayType:          TypeStripeOnly,
			StripeEnabled:        true,
			RecommendationReason: "best card acceptance in your region",
		},
	})

	candidates, err := r.Route(context.Background(), region.NorthAmerica, uuid.New(), "user-1")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, GatewayStripe, candidates[0].Gateway)
	assert.True(t, candidates[0].Recommended)
	assert.Equal(t, "best card acceptance in your region", candidates[0].Reason)
	assert.Nil(t, candidates[0].SplitPercentage)
}

func TestRouter_Route_PaddleOnly(t *testing.T) {
	r := newTestRouter(map[region.Region]*Config{
		region.GreaterChina: {
			Region:        region.GreaterChina,
			GatewayType:   TypePaddleOnly,
			PaddleEnabled: true,
		},
	})

	candidates, err := r.Route(context.Background(), region.GreaterChina, uuid.New(), "user-1")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, GatewayPaddle, candidates[0].Gateway)
	assert.True(t, candidates[0].Recommended)
}

func TestRouter_Route_Split(t *testing.T) {
	r := newTestRouter(map[region.Region]*Config{
		region.WesternEurope: {
			Region:          region.WesternEurope,
			GatewayType:     TypeSplit5050,
			StripeEnabled:   true,
			PaddleEnabled:   true,
			SplitPercentage: 50,
		},
	})

	candidates, err := r.Route(context.Background(), region.WesternEurope, uuid.New(), "user-1")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// Both gateways present, never collapsed to one.
	gateways := []Gateway{candidates[0].Gateway, candidates[1].Gateway}
	assert.ElementsMatch(t, []Gateway{GatewayStripe, GatewayPaddle}, gateways)

	// Exactly the first candidate is the recommended default.
	assert.True(t, candidates[0].Recommended)
	assert.False(t, candidates[1].Recommended)

	// Both carry the split percentage.
	require.NotNil(t, candidates[0].SplitPercentage)
	require.NotNil(t, candidates[1].SplitPercentage)
	assert.Equal(t, 50, *candidates[0].SplitPercentage)
	assert.Equal(t, 50, *candidates[1].SplitPercentage)
}

func TestRouter_Route_SplitIsSticky(t *testing.T) {
	r := newTestRouter(map[region.Region]*Config{
		region.WesternEurope: {
			Region:          region.WesternEurope,
			GatewayType:     TypeSplit5050,
			StripeEnabled:   true,
			PaddleEnabled:   true,
			SplitPercentage: 50,
		},
	})

	planID := uuid.New()

	// The same user+plan always gets the same recommended gateway, so
	// retries never bounce between providers.
	first, err := r.Route(context.Background(), region.WesternEurope, planID, "user-42")
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := r.Route(context.Background(), region.WesternEurope, planID, "user-42")
		require.NoError(t, err)
		assert.Equal(t, first[0].Gateway, again[0].Gateway)
	}
}

func TestRouter_Route_SplitExtremes(t *testing.T) {
	planID := uuid.New()

	// 100% stripe share: every user lands on stripe.
	assert.Equal(t, GatewayStripe, splitAssign("a", planID, 100))
	assert.Equal(t, GatewayStripe, splitAssign("b", planID, 100))

	// 0% stripe share: every user lands on paddle.
	assert.Equal(t, GatewayPaddle, splitAssign("a", planID, 0))
	assert.Equal(t, GatewayPaddle, splitAssign("b", planID, 0))
}

func TestRouter_Route_SplitDistributes(t *testing.T) {
	planID := uuid.New()

	stripeCount := 0
	for i := 0; i < 1000; i++ {
		if splitAssign(uuid.New().String(), planID, 50) == GatewayStripe {
			stripeCount++
		}
	}
	// Loose bounds; the point is that both gateways receive traffic.
	assert.Greater(t, stripeCount, 300)
	assert.Less(t, stripeCount, 700)
}

func TestRouter_Route_MissingConfigFailsClosed(t *testing.T) {
	r := newTestRouter(map[region.Region]*Config{})

	_, err := r.Route(context.Background(), region.Africa, uuid.New(), "user-1")
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestRouter_Validate(t *testing.T) {
	r := newTestRouter(map[region.Region]*Config{
		region.NorthAmerica: {
			Region:        region.NorthAmerica,
			GatewayType:   TypeStripeOnly,
			StripeEnabled: true,
		},
	})

	planID := uuid.New()
	assert.NoError(t, r.Validate(context.Background(), region.NorthAmerica, planID, "u", GatewayStripe))
	assert.ErrorIs(t, r.Validate(context.Background(), region.NorthAmerica, planID, "u", GatewayPaddle), ErrNotCandidate)
}
