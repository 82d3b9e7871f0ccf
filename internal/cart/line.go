package cart

import "github.com/noah-isme/mall-checkout/internal/pricing"

// UnknownSellerID groups lines whose seller could not be determined. Such
// lines stay visible through the whole pipeline instead of being dropped;
// the splitter later fails their group with an explicit reason.
const UnknownSellerID = "unknown"

// Line is a single cart entry for a purchasable variant.
type Line struct {
	ID         string        `json:"id"`
	VariantID  string        `json:"variantId"`
	SellerID   string        `json:"sellerId"`
	SellerName string        `json:"sellerName"`
	UnitPrice  pricing.Money `json:"unitPrice"`
	Quantity   int           `json:"quantity"`
}

// Subtotal returns unit price times quantity for the line. Lines with a
// non-positive quantity contribute nothing.
func (l Line) Subtotal() pricing.Money {
	if l.Quantity <= 0 || l.UnitPrice < 0 {
		return 0
	}
	return pricing.Money(l.Quantity) * l.UnitPrice
}

// Subtotal sums the subtotals of all lines.
func Subtotal(lines []Line) pricing.Money {
	var total pricing.Money
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// SellerGroup holds the lines of one seller in their original cart order.
type SellerGroup struct {
	SellerID   string
	SellerName string
	Lines      []Line
}

// GroupBySeller partitions lines into per-seller groups. Groups appear in
// the order their seller is first seen and lines keep their cart order
// within each group. Lines without a seller id land in the UnknownSellerID
// group.
func GroupBySeller(lines []Line) []SellerGroup {
	groups := make([]SellerGroup, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		sellerID := line.SellerID
		if sellerID == "" {
			sellerID = UnknownSellerID
		}
		at, ok := index[sellerID]
		if !ok {
			at = len(groups)
			index[sellerID] = at
			groups = append(groups, SellerGroup{SellerID: sellerID, SellerName: line.SellerName})
		}
		groups[at].Lines = append(groups[at].Lines, line)
		if groups[at].SellerName == "" && line.SellerName != "" {
			groups[at].SellerName = line.SellerName
		}
	}
	return groups
}

// Subtotal sums the group's line subtotals.
func (g SellerGroup) Subtotal() pricing.Money {
	return Subtotal(g.Lines)
}

// LinesForSeller returns the lines belonging to the given seller, in order.
func LinesForSeller(lines []Line, sellerID string) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.SellerID == sellerID {
			out = append(out, l)
		}
	}
	return out
}
