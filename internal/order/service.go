package order

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
	"github.com/coffeebase/coffeebase-api/internal/auth"
	"github.com/coffeebase/coffeebase-api/internal/payment"
)

// Gateway is the slice of the payment adapter the order flow needs. Reverse
// compensates a processed charge when the paid transition cannot be recorded.
type Gateway interface {
	Process(ctx context.Context, req payment.Request) (*payment.Result, error)
	Reverse(ctx context.Context, req payment.Request) error
}

type Service struct {
	repo    Repository
	gateway Gateway
}

func NewService(repo Repository, gateway Gateway) *Service {
	return &Service{repo: repo, gateway: gateway}
}

// Create checks out the client-supplied cart snapshot. Item prices are
// trusted from the request, not re-derived from the catalog.
func (s *Service) Create(ctx context.Context, userID string, req CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperr.New(apperr.KindValidation, "Cart is empty. Cannot proceed with checkout.")
	}

	total := decimal.Zero
	items := make([]Item, 0, len(req.Items))
	for _, in := range req.Items {
		if in.ProductID == "" {
			return nil, apperr.New(apperr.KindValidation, "Item product_id is required")
		}
		if in.Quantity < 1 {
			return nil, apperr.New(apperr.KindValidation, "Item quantity must be at least 1")
		}
		if in.Price.IsNegative() {
			return nil, apperr.New(apperr.KindValidation, "Item price cannot be negative")
		}
		items = append(items, Item{
			ID:            uuid.NewString(),
			ProductID:     in.ProductID,
			Name:          in.Name,
			Price:         in.Price,
			Quantity:      in.Quantity,
			Customization: in.Customization,
		})
		total = total.Add(in.Price.Mul(decimal.NewFromInt(int64(in.Quantity))))
	}

	now := time.Now().UTC()
	o := &Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Items:         items,
		DeliveryInfo:  req.DeliveryInfo,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		Status:        StatusOrdered,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "could not create order", err)
	}
	return o, nil
}

// Get returns an order to its owner. Admins may read any order; they may
// never pay or review one (see Pay and the review service).
func (s *Service) Get(ctx context.Context, orderID, callerID, callerRole string) (*Order, error) {
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != callerID && !auth.IsAdminRole(callerRole) {
		return nil, apperr.New(apperr.KindAuthorization, "Access denied")
	}
	return o, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string, f Filter) ([]Order, error) {
	out, err := s.repo.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "could not list orders", err)
	}
	return out, nil
}

func (s *Service) ListAll(ctx context.Context, f Filter) ([]Order, error) {
	out, err := s.repo.ListAll(ctx, f)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "could not list orders", err)
	}
	return out, nil
}

// Pay reconciles a payment against the state machine. Only the owner may
// pay, and only from the ordered state, which rules out double charging:
// the status check here is advisory, the real guard is the conditional
// single-row write in MarkPaid.
func (s *Service) Pay(ctx context.Context, orderID, userID, method string, data map[string]string) (*PaymentResponse, error) {
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperr.New(apperr.KindAuthorization, "Access denied")
	}
	if o.Status != StatusOrdered {
		return nil, apperr.New(apperr.KindInvalidStatus, "Order cannot be paid")
	}

	req := payment.Request{
		OrderID: o.ID,
		UserID:  o.UserID,
		Amount:  o.Total,
		Method:  method,
		Data:    data,
	}
	res, err := s.gateway.Process(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkPaid(ctx, o.ID, res.TransactionID); err != nil {
		// The charge went through but the order was not marked. Undo
		// provider side effects (credit points) before reporting failure.
		if rerr := s.gateway.Reverse(ctx, req); rerr != nil {
			log.Printf("[orders] could not reverse %s charge for order %s: %v", method, o.ID, rerr)
		}
		if errors.Is(err, ErrNotPayable) {
			// Lost the race against a concurrent attempt.
			return nil, apperr.New(apperr.KindInvalidStatus, "Order cannot be paid")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "could not record payment", err)
	}
	return &PaymentResponse{Success: true, TransactionID: res.TransactionID, OrderID: o.ID}, nil
}

// UpdateStatus is the admin override path: any status within the enumerated
// set may be written regardless of the current one.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, apperr.New(apperr.KindValidation, "Invalid order status")
	}
	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "Order not found")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "could not update order status", err)
	}
	return s.find(ctx, orderID)
}

func (s *Service) find(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "Order not found")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "could not load order", err)
	}
	return o, nil
}
