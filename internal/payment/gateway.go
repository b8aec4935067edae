// Package payment routes a payment request to a provider-specific strategy
// and returns a normalized result. The core never talks to provider wire
// protocols; each provider is a pluggable collaborator behind the same
// Provider contract.
package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
	"github.com/coffeebase/coffeebase-api/internal/config"
)

const (
	MethodMomo    = "momo"
	MethodZaloPay = "zalopay"
	MethodCard    = "card"
	MethodCredit  = "credit"
)

type Request struct {
	OrderID string
	UserID  string
	Amount  decimal.Decimal
	Method  string
	Data    map[string]string
}

type Result struct {
	Success       bool            `json:"success"`
	TransactionID string          `json:"transactionId"`
	Method        string          `json:"paymentMethod"`
	Amount        decimal.Decimal `json:"amount"`
	OrderID       string          `json:"orderId"`
}

// Provider processes one payment for one method.
type Provider interface {
	Process(ctx context.Context, req Request) (*Result, error)
}

// CreditStore is the slice of the user store the credit provider draws on.
type CreditStore interface {
	AdjustCreditPoints(ctx context.Context, id string, delta int) error
}

type Gateway struct {
	providers map[string]Provider
}

func NewGateway(cfg config.Payments, credit CreditStore) *Gateway {
	return &Gateway{providers: map[string]Provider{
		MethodMomo:    &momoProvider{apiKey: cfg.MomoAPIKey, secretKey: cfg.MomoSecretKey, partnerCode: cfg.MomoPartnerCode},
		MethodZaloPay: &zaloPayProvider{apiKey: cfg.ZaloPayAPIKey, secretKey: cfg.ZaloPaySecretKey},
		MethodCard:    &cardProvider{},
		MethodCredit:  &creditProvider{credit: credit},
	}}
}

func (g *Gateway) Process(ctx context.Context, req Request) (*Result, error) {
	p, ok := g.providers[req.Method]
	if !ok {
		return nil, apperr.Newf(apperr.KindUnsupportedMethod, "Unsupported payment method: %s", req.Method)
	}
	return p.Process(ctx, req)
}

// Reverser undoes a provider charge when the payment cannot be recorded.
// Providers whose Process is a simulation have nothing to undo and do not
// implement it.
type Reverser interface {
	Reverse(ctx context.Context, req Request) error
}

// Reverse compensates a processed charge. A no-op for providers without
// real side effects.
func (g *Gateway) Reverse(ctx context.Context, req Request) error {
	p, ok := g.providers[req.Method]
	if !ok {
		return nil
	}
	if r, ok := p.(Reverser); ok {
		return r.Reverse(ctx, req)
	}
	return nil
}
