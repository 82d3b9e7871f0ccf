package payment

import (
	"context"

	"github.com/noah-isme/mall-checkout/internal/pricing"
)

// Method enumerates the accepted payment methods.
type Method string

const (
	// MethodCOD settles on delivery and needs no payment redirect.
	MethodCOD Method = "COD"
	// MethodCreditCard is settled through the payment gateway.
	MethodCreditCard Method = "CREDIT_CARD"
	// MethodEWallet is settled through the payment gateway.
	MethodEWallet Method = "E_WALLET"
)

// ValidMethod reports whether the given string is an accepted method.
func ValidMethod(m string) bool {
	switch Method(m) {
	case MethodCOD, MethodCreditCard, MethodEWallet:
		return true
	}
	return false
}

// RequiresRedirect reports whether the method needs a gateway redirect URL.
func (m Method) RequiresRedirect() bool {
	return m == MethodCreditCard || m == MethodEWallet
}

// URLRequest carries what the gateway needs to build a redirect URL.
type URLRequest struct {
	OrderRef  string
	Amount    pricing.Money
	OrderInfo string
}

// Provider abstracts the external payment-URL generator.
type Provider interface {
	PaymentURL(ctx context.Context, req URLRequest) (string, error)
}
