package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mall-checkout/internal/cart"
	"github.com/noah-isme/mall-checkout/internal/common"
	"github.com/noah-isme/mall-checkout/internal/obs"
	"github.com/noah-isme/mall-checkout/internal/order"
	"github.com/noah-isme/mall-checkout/internal/payment"
	"github.com/noah-isme/mall-checkout/internal/pricing"
	"github.com/noah-isme/mall-checkout/internal/voucher"
)

// CartSource supplies the user's cart lines and lets the checkout clear
// lines that turned into orders.
type CartSource interface {
	Lines(ctx context.Context, userID string) ([]cart.Line, error)
	RemoveLine(ctx context.Context, lineID string) error
}

// VoucherSource resolves vouchers by id or code.
type VoucherSource interface {
	List(ctx context.Context) ([]voucher.Voucher, error)
	GetByCode(ctx context.Context, code string) (voucher.Voucher, error)
}

// Service orchestrates a checkout attempt end to end: cart fetch, voucher
// evaluation, pricing, per-seller splitting, sequential submission and the
// optional payment handoff.
type Service struct {
	Carts    CartSource
	Vouchers VoucherSource
	Orders   order.Creator
	Payments payment.Provider
	Splitter Splitter
	Now      func() time.Time
	Logger   zerolog.Logger
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SubmitInput is the user's checkout request.
type SubmitInput struct {
	UserID            string
	ShippingAddressID string
	PaymentMethod     payment.Method
	// ShippingFee is the cart-level fee quoted by the shipping estimator,
	// before shipping-voucher discounts.
	ShippingFee pricing.Money
	VoucherIDs  []string
}

// AppliedVoucher echoes one applied voucher and its standalone discount.
type AppliedVoucher struct {
	ID       string        `json:"id"`
	Code     string        `json:"code"`
	Scope    voucher.Scope `json:"type"`
	Discount pricing.Money `json:"discount"`
}

// SubmitResult is the full outcome of one checkout attempt.
type SubmitResult struct {
	AttemptID  string           `json:"attemptId"`
	Pricing    pricing.Summary  `json:"pricing"`
	Vouchers   []AppliedVoucher `json:"vouchers,omitempty"`
	Submission Result           `json:"submission"`
	PaymentURL string           `json:"paymentUrl,omitempty"`
}

// Submit runs a checkout attempt. Seller-level submission failures never
// fail the attempt; they are reported inside the result. Errors are
// reserved for conditions that prevent the attempt from starting at all.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	lines, err := s.loadCart(ctx, in.UserID)
	if err != nil {
		return SubmitResult{}, err
	}
	selected, applied, err := s.resolveSelection(ctx, in.VoucherIDs, lines)
	if err != nil {
		return SubmitResult{}, err
	}

	breakdown := voucher.ComputeBreakdown(selected, lines, in.ShippingFee)
	summary := pricing.Compute(cart.Subtotal(lines), in.ShippingFee, breakdown.Product, breakdown.Shipping)

	groups := cart.GroupBySeller(lines)
	obs.ObserveCheckoutSellers(len(groups))
	subs := s.Splitter.Build(groups, BuildInput{
		UserID:            in.UserID,
		ShippingAddressID: in.ShippingAddressID,
		PaymentMethod:     in.PaymentMethod,
		ShippingFee:       in.ShippingFee - breakdown.Shipping,
		SelectedVouchers:  selected,
	})

	coord := NewCoordinator(s.Orders, s.Logger)
	res := coord.Run(ctx, subs)
	obs.RecordCheckoutAttempt(string(res.State))
	for _, o := range res.Outcomes {
		obs.RecordSellerSubmission(o.Success)
	}

	s.clearSubmittedLines(ctx, res)

	out := SubmitResult{
		AttemptID:  uuid.NewString(),
		Pricing:    summary,
		Vouchers:   applied,
		Submission: res,
	}
	if res.AllSucceeded() && in.PaymentMethod.RequiresRedirect() {
		out.PaymentURL = s.paymentURL(ctx, out.AttemptID, res)
	}
	return out, nil
}

// Quote prices the current cart without submitting anything.
type Quote struct {
	Pricing  pricing.Summary  `json:"pricing"`
	Groups   []QuoteGroup     `json:"groups"`
	Vouchers []AppliedVoucher `json:"vouchers,omitempty"`
	// Available lists vouchers the user could still apply to this cart.
	Available []voucher.Voucher `json:"availableVouchers,omitempty"`
}

// QuoteGroup is one seller's slice of the quote.
type QuoteGroup struct {
	SellerID      string        `json:"sellerId"`
	SellerName    string        `json:"sellerName,omitempty"`
	Subtotal      pricing.Money `json:"subtotal"`
	ShippingShare pricing.Money `json:"shippingShare"`
}

// QuoteInput mirrors SubmitInput minus the fields that only matter when
// orders are actually created.
type QuoteInput struct {
	UserID      string
	ShippingFee pricing.Money
	VoucherIDs  []string
}

// Quote computes the price summary and per-seller shares for the cart as it
// stands, and lists the vouchers still applicable to it.
func (s *Service) Quote(ctx context.Context, in QuoteInput) (Quote, error) {
	lines, err := s.loadCart(ctx, in.UserID)
	if err != nil {
		return Quote{}, err
	}
	selected, applied, err := s.resolveSelection(ctx, in.VoucherIDs, lines)
	if err != nil {
		return Quote{}, err
	}

	breakdown := voucher.ComputeBreakdown(selected, lines, in.ShippingFee)
	summary := pricing.Compute(cart.Subtotal(lines), in.ShippingFee, breakdown.Product, breakdown.Shipping)

	groups := cart.GroupBySeller(lines)
	feeAfter := in.ShippingFee - breakdown.Shipping
	share := s.Splitter.split(feeAfter, len(groups))
	q := Quote{Pricing: summary, Vouchers: applied, Groups: make([]QuoteGroup, 0, len(groups))}
	for _, g := range groups {
		q.Groups = append(q.Groups, QuoteGroup{
			SellerID:      g.SellerID,
			SellerName:    g.SellerName,
			Subtotal:      cart.Subtotal(g.Lines),
			ShippingShare: share,
		})
	}
	if s.Vouchers != nil {
		all, err := s.Vouchers.List(ctx)
		if err != nil {
			s.Logger.Warn().Err(err).Msg("listing vouchers for quote failed")
		} else {
			q.Available = voucher.Filter(all, lines, s.now())
		}
	}
	return q, nil
}

// ApplyCodeResult reports whether a voucher code can be used on the cart.
type ApplyCodeResult struct {
	Voucher    voucher.Voucher `json:"voucher"`
	Applicable bool            `json:"applicable"`
	Reason     string          `json:"reason,omitempty"`
	Discount   pricing.Money   `json:"discount"`
}

// ApplyCode looks a voucher up by code and evaluates it against the user's
// cart. An inapplicable voucher is not an error; the reason is returned so
// the caller can show it.
func (s *Service) ApplyCode(ctx context.Context, userID, code string) (ApplyCodeResult, error) {
	lines, err := s.loadCart(ctx, userID)
	if err != nil {
		return ApplyCodeResult{}, err
	}
	v, err := s.Vouchers.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, voucher.ErrNotFound) {
			return ApplyCodeResult{}, common.NewAppError("VOUCHER_NOT_FOUND", "voucher code not found", http.StatusNotFound, err)
		}
		return ApplyCodeResult{}, common.NewAppError("VOUCHER_LOOKUP_FAILED", "could not look up voucher", http.StatusBadGateway, err)
	}
	res := ApplyCodeResult{Voucher: v}
	base, baseLines := evaluationBase(v, lines, s.now())
	if v.ShopScoped() && len(baseLines) == 0 {
		res.Reason = "no items from its shop in the cart"
		obs.RecordVoucherApplication("rejected")
		return res, nil
	}
	if evalErr := voucher.Evaluate(v, base, baseLines, s.now()); evalErr != nil {
		res.Reason = evalErr.Error()
		obs.RecordVoucherApplication("rejected")
		return res, nil
	}
	res.Applicable = true
	res.Discount = voucher.Discount(v, base)
	obs.RecordVoucherApplication("accepted")
	return res, nil
}

func (s *Service) loadCart(ctx context.Context, userID string) ([]cart.Line, error) {
	if userID == "" {
		return nil, common.NewAppError("USER_REQUIRED", "user id is required", http.StatusBadRequest, nil)
	}
	lines, err := s.Carts.Lines(ctx, userID)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			return nil, common.NewAppError("CART_EMPTY", "cart has no items to check out", http.StatusUnprocessableEntity, err)
		}
		return nil, common.NewAppError("CART_UNAVAILABLE", "could not load cart", http.StatusBadGateway, err)
	}
	if len(lines) == 0 {
		return nil, common.NewAppError("CART_EMPTY", "cart has no items to check out", http.StatusUnprocessableEntity, nil)
	}
	return lines, nil
}

// resolveSelection maps the requested voucher ids onto full vouchers and
// verifies each is applicable to this cart. Any miss rejects the request;
// a checkout must not silently drop a discount the user believes is applied.
func (s *Service) resolveSelection(ctx context.Context, ids []string, lines []cart.Line) ([]voucher.Voucher, []AppliedVoucher, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	if s.Vouchers == nil {
		return nil, nil, common.NewAppError("VOUCHERS_UNAVAILABLE", "voucher lookup is not available", http.StatusBadGateway, nil)
	}
	all, err := s.Vouchers.List(ctx)
	if err != nil {
		return nil, nil, common.NewAppError("VOUCHERS_UNAVAILABLE", "could not load vouchers", http.StatusBadGateway, err)
	}
	byID := make(map[string]voucher.Voucher, len(all))
	for _, v := range all {
		byID[v.ID] = v
	}

	now := s.now()
	selected := make([]voucher.Voucher, 0, len(ids))
	applied := make([]AppliedVoucher, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			return nil, nil, common.NewAppError("VOUCHER_NOT_FOUND",
				fmt.Sprintf("voucher %s not found", id), http.StatusNotFound, nil)
		}
		base, baseLines := evaluationBase(v, lines, now)
		if v.ShopScoped() && len(baseLines) == 0 {
			obs.RecordVoucherApplication("rejected")
			return nil, nil, common.NewAppError("VOUCHER_NOT_APPLICABLE",
				fmt.Sprintf("voucher %s: no items from its shop in the cart", v.Code),
				http.StatusUnprocessableEntity, voucher.ErrWrongShop)
		}
		if evalErr := voucher.Evaluate(v, base, baseLines, now); evalErr != nil {
			obs.RecordVoucherApplication("rejected")
			return nil, nil, common.NewAppError("VOUCHER_NOT_APPLICABLE",
				fmt.Sprintf("voucher %s: %s", v.Code, evalErr.Error()), http.StatusUnprocessableEntity, evalErr)
		}
		obs.RecordVoucherApplication("accepted")
		selected = append(selected, v)
		applied = append(applied, AppliedVoucher{ID: v.ID, Code: v.Code, Scope: v.Scope, Discount: voucher.Discount(v, base)})
	}
	return selected, applied, nil
}

// evaluationBase picks the lines a voucher is judged against: a shop
// voucher sees only its own seller's lines, everything else sees the cart.
func evaluationBase(v voucher.Voucher, lines []cart.Line, _ time.Time) (pricing.Money, []cart.Line) {
	if v.ShopScoped() {
		shopLines := cart.LinesForSeller(lines, v.ShopID)
		return cart.Subtotal(shopLines), shopLines
	}
	return cart.Subtotal(lines), lines
}

// clearSubmittedLines removes cart lines that became orders. Failed
// sellers' lines stay in the cart so the user can retry. Removal is best
// effort; the orders already exist either way.
func (s *Service) clearSubmittedLines(ctx context.Context, res Result) {
	for _, o := range res.Outcomes {
		if !o.Success {
			continue
		}
		for _, lineID := range o.LineIDs {
			if err := s.Carts.RemoveLine(ctx, lineID); err != nil {
				s.Logger.Warn().Err(err).
					Str("line_id", lineID).
					Str("seller_id", o.SellerID).
					Msg("removing checked-out cart line failed")
			}
		}
	}
}

// paymentURL asks the gateway for a redirect URL covering every created
// order. A gateway failure does not undo the orders; the attempt succeeds
// without a URL and the failure is logged and counted.
func (s *Service) paymentURL(ctx context.Context, attemptID string, res Result) string {
	if s.Payments == nil {
		return ""
	}
	raw, err := s.Payments.PaymentURL(ctx, payment.URLRequest{
		OrderRef:  attemptID,
		Amount:    res.CreatedTotal,
		OrderInfo: fmt.Sprintf("Checkout %s (%d orders)", attemptID, res.Succeeded),
	})
	if err != nil {
		obs.RecordPaymentURL("error")
		s.Logger.Error().Err(err).Str("attempt_id", attemptID).Msg("building payment url failed")
		return ""
	}
	obs.RecordPaymentURL("ok")
	return raw
}
