package cart_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mall-checkout/internal/cart"
)

func TestGroupBySellerPreservesOrder(t *testing.T) {
	lines := []cart.Line{
		{ID: "l1", VariantID: "v1", SellerID: "shop-a", SellerName: "Shop A", UnitPrice: 100, Quantity: 1},
		{ID: "l2", VariantID: "v2", SellerID: "shop-b", SellerName: "Shop B", UnitPrice: 200, Quantity: 2},
		{ID: "l3", VariantID: "v3", SellerID: "shop-a", SellerName: "Shop A", UnitPrice: 300, Quantity: 1},
		{ID: "l4", VariantID: "v4", SellerID: "shop-c", SellerName: "Shop C", UnitPrice: 50, Quantity: 3},
	}

	groups := cart.GroupBySeller(lines)
	require.Len(t, groups, 3)
	require.Equal(t, "shop-a", groups[0].SellerID)
	require.Equal(t, "shop-b", groups[1].SellerID)
	require.Equal(t, "shop-c", groups[2].SellerID)
	require.Equal(t, []string{"l1", "l3"}, lineIDs(groups[0].Lines))
	require.Equal(t, []string{"l2"}, lineIDs(groups[1].Lines))
	require.Equal(t, []string{"l4"}, lineIDs(groups[2].Lines))
}

func TestGroupBySellerIsAStablePartition(t *testing.T) {
	lines := []cart.Line{
		{ID: "a", SellerID: "s1"},
		{ID: "b", SellerID: "s2"},
		{ID: "c", SellerID: "s1"},
		{ID: "d", SellerID: "s3"},
		{ID: "e", SellerID: "s2"},
	}
	groups := cart.GroupBySeller(lines)

	var regrouped []string
	for _, g := range groups {
		regrouped = append(regrouped, lineIDs(g.Lines)...)
	}
	// No line is duplicated or dropped.
	require.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, regrouped)
	require.Len(t, regrouped, len(lines))
}

func TestGroupBySellerUnknownSentinel(t *testing.T) {
	lines := []cart.Line{
		{ID: "a", SellerID: "s1"},
		{ID: "b", SellerID: ""},
		{ID: "c", SellerID: ""},
	}
	groups := cart.GroupBySeller(lines)
	require.Len(t, groups, 2)
	require.Equal(t, cart.UnknownSellerID, groups[1].SellerID)
	require.Equal(t, []string{"b", "c"}, lineIDs(groups[1].Lines))
}

func TestSubtotal(t *testing.T) {
	lines := []cart.Line{
		{UnitPrice: 100_000, Quantity: 1},
		{UnitPrice: 50_000, Quantity: 2},
		{UnitPrice: 10_000, Quantity: 0},
	}
	require.Equal(t, int64(200_000), cart.Subtotal(lines))
}

func TestLinesForSeller(t *testing.T) {
	lines := []cart.Line{
		{ID: "a", SellerID: "s1"},
		{ID: "b", SellerID: "s2"},
		{ID: "c", SellerID: "s1"},
	}
	require.Equal(t, []string{"a", "c"}, lineIDs(cart.LinesForSeller(lines, "s1")))
	require.Empty(t, cart.LinesForSeller(lines, "s9"))
}

func lineIDs(lines []cart.Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.ID)
	}
	return out
}
