package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/mall-checkout/internal/common"
	"github.com/noah-isme/mall-checkout/internal/payment"
	"github.com/noah-isme/mall-checkout/internal/pricing"
)

type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type submitRequest struct {
	UserID            string   `json:"userId" validate:"required"`
	ShippingAddressID string   `json:"shippingAddressId" validate:"required"`
	PaymentMethod     string   `json:"paymentMethod" validate:"required,oneof=COD CREDIT_CARD E_WALLET"`
	ShippingFee       int64    `json:"shippingFee" validate:"gte=0"`
	VoucherIDs        []string `json:"voucherIds" validate:"omitempty,dive,required"`
}

type quoteRequest struct {
	UserID      string   `json:"userId" validate:"required"`
	ShippingFee int64    `json:"shippingFee" validate:"gte=0"`
	VoucherIDs  []string `json:"voucherIds" validate:"omitempty,dive,required"`
}

type applyCodeRequest struct {
	UserID string `json:"userId" validate:"required"`
	Code   string `json:"code" validate:"required"`
}

// Submit handles POST /checkout.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload submitRequest
	if !h.decode(w, r, &payload) {
		return
	}
	out, err := h.Svc.Submit(r.Context(), SubmitInput{
		UserID:            payload.UserID,
		ShippingAddressID: payload.ShippingAddressID,
		PaymentMethod:     payment.Method(payload.PaymentMethod),
		ShippingFee:       pricing.Money(payload.ShippingFee),
		VoucherIDs:        payload.VoucherIDs,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	status := http.StatusCreated
	if !out.Submission.AllSucceeded() {
		// Partial and failed attempts still return the per-seller detail.
		status = http.StatusMultiStatus
	}
	common.JSON(w, status, map[string]any{"data": out})
}

// Quote handles POST /checkout/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload quoteRequest
	if !h.decode(w, r, &payload) {
		return
	}
	out, err := h.Svc.Quote(r.Context(), QuoteInput{
		UserID:      payload.UserID,
		ShippingFee: pricing.Money(payload.ShippingFee),
		VoucherIDs:  payload.VoucherIDs,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// ApplyCode handles POST /checkout/vouchers/apply.
func (h *Handler) ApplyCode(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload applyCodeRequest
	if !h.decode(w, r, &payload) {
		return
	}
	out, err := h.Svc.ApplyCode(r.Context(), payload.UserID, payload.Code)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(into); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid payload", err.Error())
			return false
		}
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		code := appErr.Code
		if code == "" {
			code = "BAD_REQUEST"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
}
