package flashsale

import (
	"math"
	"time"

	"github.com/noah-isme/mall-checkout/internal/pricing"
)

// Variant carries a base price and an optional time-boxed sale overlay.
// Overlay fields are pointers so "no flash sale" is representable.
type Variant struct {
	ID           string         `json:"id"`
	BasePrice    pricing.Money  `json:"basePrice"`
	SalePrice    *pricing.Money `json:"salePrice,omitempty"`
	SaleStartAt  *time.Time     `json:"saleStartAt,omitempty"`
	SaleEndAt    *time.Time     `json:"saleEndAt,omitempty"`
	SaleQuantity *int           `json:"saleQuantity,omitempty"`
}

// Resolution is the derived sale state of a variant at a reference time.
// SecondsToStart is set only while the sale is upcoming; SecondsToEnd is
// set until the window closes.
type Resolution struct {
	VariantID       string        `json:"variantId"`
	EffectivePrice  pricing.Money `json:"effectivePrice"`
	Active          bool          `json:"isActive"`
	Upcoming        bool          `json:"isUpcoming"`
	Expired         bool          `json:"isExpired"`
	DiscountPercent int           `json:"discountPercent"`
	SecondsToStart  *int64        `json:"timeUntilStart,omitempty"`
	SecondsToEnd    *int64        `json:"timeUntilEnd,omitempty"`
}

// Resolve computes the sale state of a variant at the given time. The sale
// window is half-open: active while saleStartAt <= now < saleEndAt. The
// discount percent is computed whenever an overlay price exists, even for
// upcoming windows, so it can be displayed ahead of the sale.
func Resolve(v Variant, now time.Time) Resolution {
	res := Resolution{VariantID: v.ID, EffectivePrice: v.BasePrice}
	if v.SalePrice == nil || v.SaleStartAt == nil || v.SaleEndAt == nil {
		return res
	}
	res.Upcoming = now.Before(*v.SaleStartAt)
	res.Expired = !now.Before(*v.SaleEndAt)
	res.Active = !res.Upcoming && !res.Expired
	if res.Upcoming {
		s := int64(v.SaleStartAt.Sub(now) / time.Second)
		res.SecondsToStart = &s
	}
	if !res.Expired {
		e := int64(v.SaleEndAt.Sub(now) / time.Second)
		res.SecondsToEnd = &e
	}
	if v.BasePrice > 0 {
		res.DiscountPercent = int(math.Round(100 * float64(v.BasePrice-*v.SalePrice) / float64(v.BasePrice)))
	}
	if res.Active {
		res.EffectivePrice = *v.SalePrice
	}
	return res
}

// ResolveNow resolves against the current wall clock.
func ResolveNow(v Variant) Resolution {
	return Resolve(v, time.Now())
}

// ResolveAll annotates a batch of variants against the same reference time.
func ResolveAll(variants []Variant, now time.Time) []Resolution {
	out := make([]Resolution, 0, len(variants))
	for _, v := range variants {
		out = append(out, Resolve(v, now))
	}
	return out
}
