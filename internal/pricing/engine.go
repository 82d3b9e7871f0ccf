package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// Summary aggregates the computed pricing components of a checkout attempt.
type Summary struct {
	Subtotal         Money `json:"subtotal"`
	ProductDiscount  Money `json:"productDiscount"`
	ShippingFee      Money `json:"shippingFee"`
	ShippingDiscount Money `json:"shippingDiscount"`
	Total            Money `json:"total"`
}

// Compute derives order totals from a subtotal, a shipping fee and the two
// discount streams. Product discounts never exceed the subtotal, shipping
// discounts never exceed the shipping fee, and the total never goes negative.
func Compute(subtotal, shippingFee, productDiscount, shippingDiscount Money) Summary {
	if subtotal < 0 {
		subtotal = 0
	}
	if shippingFee < 0 {
		shippingFee = 0
	}
	if productDiscount < 0 {
		productDiscount = 0
	}
	if shippingDiscount < 0 {
		shippingDiscount = 0
	}
	if productDiscount > subtotal {
		productDiscount = subtotal
	}
	if shippingDiscount > shippingFee {
		shippingDiscount = shippingFee
	}
	total := subtotal + (shippingFee - shippingDiscount) - productDiscount
	if total < 0 {
		total = 0
	}
	return Summary{
		Subtotal:         subtotal,
		ProductDiscount:  productDiscount,
		ShippingFee:      shippingFee,
		ShippingDiscount: shippingDiscount,
		Total:            total,
	}
}
