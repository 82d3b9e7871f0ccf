package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// VNPay builds signed redirect URLs for the VNPay gateway.
type VNPay struct {
	TmnCode    string
	HashSecret string
	BaseURL    string
	ReturnURL  string
	Now        func() time.Time
}

func (p VNPay) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p VNPay) payHost() string {
	host := strings.TrimSpace(p.BaseURL)
	if host == "" {
		return "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
	}
	return host
}

// PaymentURL assembles the VNPay pay URL: amount in hundredths of a VND,
// parameters sorted lexicographically, HMAC-SHA512 over the encoded query
// appended as vnp_SecureHash.
func (p VNPay) PaymentURL(_ context.Context, req URLRequest) (string, error) {
	if strings.TrimSpace(req.OrderRef) == "" {
		return "", errors.New("order ref is required")
	}
	if req.Amount <= 0 {
		return "", errors.New("amount must be positive")
	}
	if strings.TrimSpace(p.TmnCode) == "" || strings.TrimSpace(p.HashSecret) == "" {
		return "", errors.New("vnpay credentials not configured")
	}
	info := strings.TrimSpace(req.OrderInfo)
	if info == "" {
		info = fmt.Sprintf("Payment for order %s", req.OrderRef)
	}
	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    p.TmnCode,
		"vnp_Amount":     fmt.Sprintf("%d", req.Amount*100),
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     req.OrderRef,
		"vnp_OrderInfo":  info,
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  p.ReturnURL,
		"vnp_CreateDate": p.now().Format("20060102150405"),
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var query strings.Builder
	for i, k := range keys {
		if i > 0 {
			query.WriteByte('&')
		}
		query.WriteString(url.QueryEscape(k))
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(params[k]))
	}
	signed := query.String()

	mac := hmac.New(sha512.New, []byte(p.HashSecret))
	mac.Write([]byte(signed))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("%s?%s&vnp_SecureHash=%s", p.payHost(), signed, signature), nil
}
