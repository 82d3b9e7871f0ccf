package checkout

import (
	"fmt"
	"math"

	"github.com/noah-isme/mall-checkout/internal/cart"
	"github.com/noah-isme/mall-checkout/internal/order"
	"github.com/noah-isme/mall-checkout/internal/payment"
	"github.com/noah-isme/mall-checkout/internal/pricing"
	"github.com/noah-isme/mall-checkout/internal/voucher"
)

// ShippingSplitFunc allocates one seller's share of the cart-level shipping
// fee. Pluggable so the equal split can later be replaced by a weighted one.
type ShippingSplitFunc func(total pricing.Money, sellerCount int) pricing.Money

// SplitShippingEvenly divides the fee equally across sellers, rounding to
// the nearest minor unit.
func SplitShippingEvenly(total pricing.Money, sellerCount int) pricing.Money {
	if sellerCount <= 0 || total <= 0 {
		return 0
	}
	return pricing.Money(math.Round(float64(total) / float64(sellerCount)))
}

// BuildInput carries the attempt-wide fields needed to assemble per-seller
// order requests.
type BuildInput struct {
	UserID            string
	ShippingAddressID string
	PaymentMethod     payment.Method
	// ShippingFee is the cart-level fee after shipping-voucher discounts.
	ShippingFee      pricing.Money
	SelectedVouchers []voucher.Voucher
}

// SellerSubmission is one seller's order request, or the reasons it could
// not be built. Invalid submissions are carried through to the coordinator
// so the seller still gets a per-seller failure outcome.
type SellerSubmission struct {
	SellerID   string
	SellerName string
	LineIDs    []string
	Request    order.SellerRequest
	Reasons    []string
}

// Valid reports whether the submission can be sent upstream.
func (s SellerSubmission) Valid() bool {
	return len(s.Reasons) == 0
}

// Splitter turns seller groups into order requests.
type Splitter struct {
	ShippingSplit ShippingSplitFunc
}

func (s Splitter) split(total pricing.Money, sellers int) pricing.Money {
	if s.ShippingSplit != nil {
		return s.ShippingSplit(total, sellers)
	}
	return SplitShippingEvenly(total, sellers)
}

// Build assembles one submission per seller group. A validation failure
// marks only that seller's submission; the remaining groups are unaffected.
func (s Splitter) Build(groups []cart.SellerGroup, in BuildInput) []SellerSubmission {
	share := s.split(in.ShippingFee, len(groups))
	out := make([]SellerSubmission, 0, len(groups))
	for _, g := range groups {
		sub := SellerSubmission{SellerID: g.SellerID, SellerName: g.SellerName}
		var reasons []string
		if in.UserID == "" {
			reasons = append(reasons, "user id is required")
		}
		if g.SellerID == "" || g.SellerID == cart.UnknownSellerID {
			reasons = append(reasons, "seller could not be determined for these items")
		}
		if in.ShippingAddressID == "" {
			reasons = append(reasons, "shipping address is required")
		}
		items := make([]order.Item, 0, len(g.Lines))
		for _, line := range g.Lines {
			if line.VariantID == "" {
				reasons = append(reasons, fmt.Sprintf("cart line %s has no variant", line.ID))
				continue
			}
			items = append(items, order.Item{VariantID: line.VariantID, Quantity: line.Quantity})
			sub.LineIDs = append(sub.LineIDs, line.ID)
		}
		if len(reasons) > 0 {
			sub.Reasons = reasons
			out = append(out, sub)
			continue
		}
		sub.Request = order.SellerRequest{
			UserID:            in.UserID,
			ShopID:            g.SellerID,
			ShippingAddressID: in.ShippingAddressID,
			PaymentMethod:     string(in.PaymentMethod),
			ShippingFee:       share,
			Items:             items,
			VoucherIDs:        filterVoucherIDs(in.SelectedVouchers, g.SellerID),
		}
		out = append(out, sub)
	}
	return out
}

// filterVoucherIDs keeps vouchers valid for the seller: SYSTEM and SHIPPING
// vouchers always pass, SHOP vouchers only for their own seller.
func filterVoucherIDs(selected []voucher.Voucher, sellerID string) []string {
	ids := make([]string, 0, len(selected))
	for _, v := range selected {
		if v.ShopScoped() && v.ShopID != sellerID {
			continue
		}
		ids = append(ids, v.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}
