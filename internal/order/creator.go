package order

import (
	"context"
	"strings"

	"github.com/noah-isme/mall-checkout/internal/pricing"
)

// Item is a single (variant, quantity) pair on an order request.
type Item struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// SellerRequest is the payload submitted to the order-creation collaborator.
// Each request is scoped to exactly one seller.
type SellerRequest struct {
	UserID            string        `json:"userId"`
	ShopID            string        `json:"shopId"`
	ShippingAddressID string        `json:"shippingAddressId"`
	PaymentMethod     string        `json:"paymentMethod"`
	ShippingFee       pricing.Money `json:"shippingFee"`
	Items             []Item        `json:"items"`
	VoucherIDs        []string      `json:"voucherIds,omitempty"`
}

// Created is the server-assigned result of a successful order creation.
type Created struct {
	ID          string        `json:"id"`
	OrderNumber string        `json:"orderNumber"`
	Total       pricing.Money `json:"totalAmount"`
}

// SubmitError is a structured failure returned by the collaborator.
type SubmitError struct {
	Reasons []string
}

// Error implements the error interface.
func (e *SubmitError) Error() string {
	if e == nil || len(e.Reasons) == 0 {
		return "order submission failed"
	}
	return strings.Join(e.Reasons, "; ")
}

// Creator abstracts the remote order-creation collaborator.
type Creator interface {
	Create(ctx context.Context, req SellerRequest) (Created, error)
}
