package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
	"github.com/coffeebase/coffeebase-api/internal/user"
)

// transactionID is unique per (method, timestamp, order): prefix + current
// unix milliseconds + order id.
func transactionID(prefix, orderID string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), orderID)
}

func result(method, txnID string, req Request) *Result {
	return &Result{
		Success:       true,
		TransactionID: txnID,
		Method:        method,
		Amount:        req.Amount,
		OrderID:       req.OrderID,
	}
}

type momoProvider struct {
	apiKey      string
	secretKey   string
	partnerCode string
}

func (p *momoProvider) Process(ctx context.Context, req Request) (*Result, error) {
	if p.apiKey == "" || p.secretKey == "" {
		return nil, apperr.New(apperr.KindConfiguration, "Momo payment gateway not configured")
	}
	// Sandbox behavior: the provider call is simulated, only the
	// transaction record is real.
	return result(MethodMomo, transactionID("MOMO", req.OrderID), req), nil
}

type zaloPayProvider struct {
	apiKey    string
	secretKey string
}

func (p *zaloPayProvider) Process(ctx context.Context, req Request) (*Result, error) {
	if p.apiKey == "" || p.secretKey == "" {
		return nil, apperr.New(apperr.KindConfiguration, "ZaloPay payment gateway not configured")
	}
	return result(MethodZaloPay, transactionID("ZALOPAY", req.OrderID), req), nil
}

// cardProvider is self-contained: no external credentials needed.
type cardProvider struct{}

func (p *cardProvider) Process(ctx context.Context, req Request) (*Result, error) {
	return result(MethodCard, transactionID("CARD", req.OrderID), req), nil
}

// creditProvider pays from the customer's credit point balance, one point per
// currency unit rounded up. The guarded decrement in the store arbitrates
// concurrent spends.
type creditProvider struct {
	credit CreditStore
}

func (p *creditProvider) Process(ctx context.Context, req Request) (*Result, error) {
	points := int(req.Amount.Ceil().IntPart())
	if err := p.credit.AdjustCreditPoints(ctx, req.UserID, -points); err != nil {
		switch {
		case errors.Is(err, user.ErrInsufficientCredit):
			return nil, apperr.New(apperr.KindValidation, "Insufficient credit points")
		case errors.Is(err, user.ErrNotFound):
			return nil, apperr.New(apperr.KindNotFound, "User not found")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "could not spend credit points", err)
	}
	return result(MethodCredit, transactionID("CREDIT", req.OrderID), req), nil
}

// Reverse refunds the points taken by Process when the payment could not be
// recorded against the order.
func (p *creditProvider) Reverse(ctx context.Context, req Request) error {
	points := int(req.Amount.Ceil().IntPart())
	return p.credit.AdjustCreditPoints(ctx, req.UserID, points)
}
