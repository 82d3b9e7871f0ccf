package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mall-checkout/internal/pricing"
)

func TestCompute(t *testing.T) {
	s := pricing.Compute(200_000, 25_000, 20_000, 0)
	require.EqualValues(t, 200_000, s.Subtotal)
	require.EqualValues(t, 20_000, s.ProductDiscount)
	require.EqualValues(t, 25_000, s.ShippingFee)
	require.EqualValues(t, 205_000, s.Total)
}

func TestComputeClampsDiscounts(t *testing.T) {
	s := pricing.Compute(10_000, 5_000, 50_000, 8_000)
	require.EqualValues(t, 10_000, s.ProductDiscount, "product discount capped at subtotal")
	require.EqualValues(t, 5_000, s.ShippingDiscount, "shipping discount capped at fee")
	require.EqualValues(t, 0, s.Total)
}

func TestComputeNeverNegative(t *testing.T) {
	s := pricing.Compute(-100, -50, -10, -5)
	require.EqualValues(t, 0, s.Subtotal)
	require.EqualValues(t, 0, s.ShippingFee)
	require.EqualValues(t, 0, s.Total)
}

func TestComputeFreeShipping(t *testing.T) {
	s := pricing.Compute(100_000, 15_000, 0, 15_000)
	require.EqualValues(t, 100_000, s.Total)
}
