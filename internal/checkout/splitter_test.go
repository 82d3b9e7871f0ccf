package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mall-checkout/internal/cart"
	"github.com/noah-isme/mall-checkout/internal/checkout"
	"github.com/noah-isme/mall-checkout/internal/payment"
	"github.com/noah-isme/mall-checkout/internal/pricing"
	"github.com/noah-isme/mall-checkout/internal/voucher"
)

func TestSplitShippingEvenly(t *testing.T) {
	require.Equal(t, pricing.Money(12_500), checkout.SplitShippingEvenly(25_000, 2))
	require.Equal(t, pricing.Money(3_333), checkout.SplitShippingEvenly(10_000, 3))
	require.Equal(t, pricing.Money(25_000), checkout.SplitShippingEvenly(25_000, 1))
	require.Equal(t, pricing.Money(0), checkout.SplitShippingEvenly(25_000, 0))
	require.Equal(t, pricing.Money(0), checkout.SplitShippingEvenly(0, 3))

	// Shares stay within one minor unit per seller of the true fee.
	const fee, sellers = 10_000, 3
	share := checkout.SplitShippingEvenly(fee, sellers)
	diff := fee - share*sellers
	if diff < 0 {
		diff = -diff
	}
	require.LessOrEqual(t, diff, pricing.Money(sellers))
}

func twoSellerGroups() []cart.SellerGroup {
	return cart.GroupBySeller([]cart.Line{
		{ID: "l1", VariantID: "v1", SellerID: "s1", SellerName: "North Books", UnitPrice: 50_000, Quantity: 2},
		{ID: "l2", VariantID: "v2", SellerID: "s2", SellerName: "South Tools", UnitPrice: 100_000, Quantity: 1},
	})
}

func TestBuildScopesShopVouchersToOwnSeller(t *testing.T) {
	system := voucher.Voucher{ID: "vs", Code: "ALL10", Scope: voucher.ScopeSystem}
	shop := voucher.Voucher{ID: "vshop", Code: "NORTH", Scope: voucher.ScopeShop, ShopID: "s1"}

	subs := checkout.Splitter{}.Build(twoSellerGroups(), checkout.BuildInput{
		UserID:            "u1",
		ShippingAddressID: "addr1",
		PaymentMethod:     payment.MethodCOD,
		ShippingFee:       25_000,
		SelectedVouchers:  []voucher.Voucher{system, shop},
	})
	require.Len(t, subs, 2)
	for _, sub := range subs {
		require.True(t, sub.Valid(), "reasons: %v", sub.Reasons)
		require.Equal(t, pricing.Money(12_500), sub.Request.ShippingFee)
	}
	require.Equal(t, []string{"vs", "vshop"}, subs[0].Request.VoucherIDs)
	require.Equal(t, []string{"vs"}, subs[1].Request.VoucherIDs)
}

func TestBuildValidationFailuresAreIsolated(t *testing.T) {
	groups := cart.GroupBySeller([]cart.Line{
		{ID: "l1", VariantID: "v1", SellerID: "s1", UnitPrice: 10_000, Quantity: 1},
		{ID: "l2", VariantID: "v2", SellerID: "", SellerName: "", UnitPrice: 5_000, Quantity: 1},
	})
	subs := checkout.Splitter{}.Build(groups, checkout.BuildInput{
		UserID:            "u1",
		ShippingAddressID: "addr1",
		PaymentMethod:     payment.MethodCOD,
	})
	require.Len(t, subs, 2)
	require.True(t, subs[0].Valid())
	require.False(t, subs[1].Valid())
	require.Equal(t, cart.UnknownSellerID, subs[1].SellerID)
	require.NotEmpty(t, subs[1].Reasons)
}

func TestBuildMissingAddressFailsEverySeller(t *testing.T) {
	subs := checkout.Splitter{}.Build(twoSellerGroups(), checkout.BuildInput{
		UserID:        "u1",
		PaymentMethod: payment.MethodCOD,
	})
	require.Len(t, subs, 2)
	for _, sub := range subs {
		require.False(t, sub.Valid())
		require.Contains(t, sub.Reasons, "shipping address is required")
	}
}

func TestBuildCollectsLineIDs(t *testing.T) {
	subs := checkout.Splitter{}.Build(twoSellerGroups(), checkout.BuildInput{
		UserID:            "u1",
		ShippingAddressID: "addr1",
		PaymentMethod:     payment.MethodCOD,
	})
	require.Equal(t, []string{"l1"}, subs[0].LineIDs)
	require.Equal(t, []string{"l2"}, subs[1].LineIDs)
}
