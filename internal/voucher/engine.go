package voucher

import (
	"errors"
	"fmt"
	"time"

	"github.com/noah-isme/mall-checkout/internal/cart"
	"github.com/noah-isme/mall-checkout/internal/pricing"
)

var (
	// ErrInactive is returned for vouchers whose active flag is off.
	ErrInactive = errors.New("voucher is not active")
	// ErrOutsideWindow is returned outside the activation window.
	ErrOutsideWindow = errors.New("voucher is outside its validity window")
	// ErrUsageLimitReached indicates the voucher exhausted its usage quota.
	ErrUsageLimitReached = errors.New("voucher usage limit reached")
	// ErrMinimumOrderUnmet indicates the subtotal is below the voucher floor.
	ErrMinimumOrderUnmet = errors.New("order subtotal below voucher minimum")
	// ErrWrongShop is returned for shop vouchers applied across sellers.
	ErrWrongShop = errors.New("voucher is limited to another shop")
)

// Evaluate decides whether the voucher may be applied to the candidate item
// set with the given subtotal. Checks run in a fixed order and stop at the
// first failure; nil means the voucher is applicable. SYSTEM and SHIPPING
// vouchers skip the shop-scope check.
func Evaluate(v Voucher, subtotal pricing.Money, items []cart.Line, now time.Time) error {
	if !v.Active {
		return ErrInactive
	}
	if now.Before(v.StartAt) || now.After(v.EndAt) {
		return ErrOutsideWindow
	}
	if v.UsageLimit != nil && v.UsedCount >= *v.UsageLimit {
		return ErrUsageLimitReached
	}
	if v.MinOrderValue != nil && subtotal < *v.MinOrderValue {
		return fmt.Errorf("%w: need %d, have %d", ErrMinimumOrderUnmet, *v.MinOrderValue, subtotal)
	}
	if v.ShopScoped() {
		for _, item := range items {
			if item.SellerID != v.ShopID {
				return ErrWrongShop
			}
		}
	}
	return nil
}

// Discount computes the monetary discount for an applicable voucher against
// a base amount. Eligibility is the caller's concern; this is pure math.
// The maxDiscountAmount cap is applied to FIXED_AMOUNT vouchers too, for
// parity with the upstream rules, and the result never exceeds the base.
func Discount(v Voucher, base pricing.Money) pricing.Money {
	if base <= 0 {
		return 0
	}
	var raw pricing.Money
	switch v.Kind {
	case KindPercentage:
		raw = base * v.Value / 100
	case KindFixedAmount:
		raw = v.Value
	default:
		return 0
	}
	if v.MaxDiscount != nil && raw > *v.MaxDiscount {
		raw = *v.MaxDiscount
	}
	if raw > base {
		raw = base
	}
	if raw < 0 {
		raw = 0
	}
	return raw
}

// Breakdown is the immutable result of reducing a selected-voucher list
// into its two discount streams.
type Breakdown struct {
	Product  pricing.Money
	Shipping pricing.Money
}

// Total returns the combined discount.
func (b Breakdown) Total() pricing.Money {
	return b.Product + b.Shipping
}

// ComputeBreakdown reduces the selected vouchers over the cart. SHIPPING
// vouchers accumulate against the shipping fee, SHOP vouchers against their
// seller's subtotal, everything else against the full subtotal. Each stream
// is capped at its base. Callers must pass only vouchers that already
// passed Evaluate.
func ComputeBreakdown(selected []Voucher, lines []cart.Line, shippingFee pricing.Money) Breakdown {
	subtotal := cart.Subtotal(lines)
	var product, shipping pricing.Money
	for _, v := range selected {
		switch {
		case v.Scope == ScopeShipping:
			if shippingFee > 0 {
				shipping += Discount(v, shippingFee)
			}
		case v.ShopScoped():
			product += Discount(v, cart.Subtotal(cart.LinesForSeller(lines, v.ShopID)))
		default:
			product += Discount(v, subtotal)
		}
	}
	if product > subtotal {
		product = subtotal
	}
	if shipping > shippingFee {
		shipping = shippingFee
	}
	return Breakdown{Product: product, Shipping: shipping}
}

// Filter returns the vouchers applicable to the cart right now, in input
// order. SHOP vouchers are evaluated against their own seller's lines so a
// mixed cart does not hide them.
func Filter(vouchers []Voucher, lines []cart.Line, now time.Time) []Voucher {
	out := make([]Voucher, 0, len(vouchers))
	for _, v := range vouchers {
		candidate := lines
		if v.ShopScoped() {
			candidate = cart.LinesForSeller(lines, v.ShopID)
			if len(candidate) == 0 {
				continue
			}
		}
		if Evaluate(v, cart.Subtotal(candidate), candidate, now) == nil {
			out = append(out, v)
		}
	}
	return out
}
