package flashsale_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mall-checkout/internal/flashsale"
	"github.com/noah-isme/mall-checkout/internal/pricing"
)

func saleVariant(base, sale pricing.Money, start, end time.Time) flashsale.Variant {
	return flashsale.Variant{
		ID:          "var-1",
		BasePrice:   base,
		SalePrice:   &sale,
		SaleStartAt: &start,
		SaleEndAt:   &end,
	}
}

func TestResolveWindowEdges(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	v := saleVariant(100_000, 80_000, start, end)

	before := flashsale.Resolve(v, start.Add(-time.Second))
	require.True(t, before.Upcoming)
	require.False(t, before.Active)
	require.False(t, before.Expired)
	require.Equal(t, int64(100_000), before.EffectivePrice)

	during := flashsale.Resolve(v, start.Add(time.Second))
	require.True(t, during.Active)
	require.Equal(t, int64(80_000), during.EffectivePrice)

	atStart := flashsale.Resolve(v, start)
	require.True(t, atStart.Active, "window start is inclusive")

	atEnd := flashsale.Resolve(v, end)
	require.True(t, atEnd.Expired, "window end is exclusive")
	require.Equal(t, int64(100_000), atEnd.EffectivePrice)

	after := flashsale.Resolve(v, end.Add(time.Second))
	require.True(t, after.Expired)
	require.False(t, after.Active)
}

func TestResolveRemainingSeconds(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	v := saleVariant(100_000, 80_000, start, end)

	upcoming := flashsale.Resolve(v, start.Add(-90*time.Second))
	require.NotNil(t, upcoming.SecondsToStart)
	require.EqualValues(t, 90, *upcoming.SecondsToStart)
	require.NotNil(t, upcoming.SecondsToEnd)
	require.EqualValues(t, 90+3600, *upcoming.SecondsToEnd)

	active := flashsale.Resolve(v, start.Add(10*time.Minute))
	require.Nil(t, active.SecondsToStart, "countdown to start only while upcoming")
	require.NotNil(t, active.SecondsToEnd)
	require.EqualValues(t, 50*60, *active.SecondsToEnd)

	expired := flashsale.Resolve(v, end.Add(time.Second))
	require.Nil(t, expired.SecondsToStart)
	require.Nil(t, expired.SecondsToEnd)
}

func TestResolveDiscountPercent(t *testing.T) {
	start := time.Now().Add(time.Hour)
	end := start.Add(time.Hour)
	v := saleVariant(150_000, 100_000, start, end)

	res := flashsale.Resolve(v, time.Now())
	// Percent is displayed even while the sale is still upcoming.
	require.True(t, res.Upcoming)
	require.Equal(t, 33, res.DiscountPercent)

	v2 := saleVariant(200_000, 150_000, start, end)
	require.Equal(t, 25, flashsale.Resolve(v2, time.Now()).DiscountPercent)
}

func TestResolveWithoutOverlay(t *testing.T) {
	v := flashsale.Variant{ID: "plain", BasePrice: 42_000}
	res := flashsale.Resolve(v, time.Now())
	require.Equal(t, int64(42_000), res.EffectivePrice)
	require.False(t, res.Active)
	require.False(t, res.Upcoming)
	require.False(t, res.Expired)
	require.Zero(t, res.DiscountPercent)
}

func TestResolveAllKeepsOrder(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	end := time.Now().Add(time.Minute)
	vs := []flashsale.Variant{
		saleVariant(10_000, 5_000, start, end),
		{ID: "var-2", BasePrice: 20_000},
	}
	vs[0].ID = "var-0"
	out := flashsale.ResolveAll(vs, time.Now())
	require.Len(t, out, 2)
	require.Equal(t, "var-0", out[0].VariantID)
	require.True(t, out[0].Active)
	require.Equal(t, "var-2", out[1].VariantID)
}
