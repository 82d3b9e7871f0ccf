package voucher

import (
	"time"

	"github.com/noah-isme/mall-checkout/internal/pricing"
)

// Scope identifies what a voucher may discount.
type Scope string

const (
	// ScopeSystem vouchers apply storewide.
	ScopeSystem Scope = "SYSTEM"
	// ScopeShop vouchers apply to a single seller's items only.
	ScopeShop Scope = "SHOP"
	// ScopeShipping vouchers reduce the delivery fee only.
	ScopeShipping Scope = "SHIPPING"
)

// Kind identifies how the discount value is interpreted.
type Kind string

const (
	// KindPercentage treats Value as a percentage of the base amount.
	KindPercentage Kind = "PERCENTAGE"
	// KindFixedAmount treats Value as an absolute amount in minor units.
	KindFixedAmount Kind = "FIXED_AMOUNT"
)

// Voucher is a promotional record fetched from the voucher source.
// ShopID is set for SHOP-scoped vouchers only.
type Voucher struct {
	ID            string         `json:"id"`
	Code          string         `json:"code"`
	Description   string         `json:"description"`
	Scope         Scope          `json:"type"`
	Kind          Kind           `json:"discountType"`
	Value         int64          `json:"discountValue"`
	MaxDiscount   *pricing.Money `json:"maxDiscountAmount,omitempty"`
	MinOrderValue *pricing.Money `json:"minOrderValue,omitempty"`
	UsageLimit    *int           `json:"usageLimit,omitempty"`
	UsedCount     int            `json:"usedCount"`
	Active        bool           `json:"active"`
	StartAt       time.Time      `json:"startDate"`
	EndAt         time.Time      `json:"endDate"`
	ShopID        string         `json:"shopId,omitempty"`
}

// ShopScoped reports whether the voucher is restricted to one seller.
func (v Voucher) ShopScoped() bool {
	return v.Scope == ScopeShop && v.ShopID != ""
}
