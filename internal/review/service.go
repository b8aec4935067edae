// Package review implements review creation gated by order state and the
// public, identity-masked product listings.
package review

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
	"github.com/coffeebase/coffeebase-api/internal/order"
)

// OrderGetter is the slice of the order store the review gate needs.
type OrderGetter interface {
	GetByID(ctx context.Context, id string) (*order.Order, error)
}

type Service struct {
	repo   Repository
	orders OrderGetter
}

func NewService(repo Repository, orders OrderGetter) *Service {
	return &Service{repo: repo, orders: orders}
}

// Add creates one review for (order, user, product). Reviews require a paid
// transaction: orders in paid or completed state qualify. Only the order's
// owner may review, admins included.
func (s *Service) Add(ctx context.Context, orderID, userID, productID string, rating int, comment string) (*Review, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "Order not found")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "could not load order", err)
	}
	if o.UserID != userID {
		return nil, apperr.New(apperr.KindAuthorization, "Access denied")
	}
	if o.Status != order.StatusPaid && o.Status != order.StatusCompleted {
		return nil, apperr.New(apperr.KindInvalidStatus, "Only paid or completed orders can be reviewed")
	}
	if productID == "" {
		return nil, apperr.New(apperr.KindValidation, "Product ID is required")
	}
	if rating < 1 || rating > 5 {
		return nil, apperr.New(apperr.KindValidation, "Rating must be between 1 and 5")
	}
	if !o.HasProduct(productID) {
		return nil, apperr.New(apperr.KindValidation, "Product is not part of this order")
	}

	rv := &Review{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
		// No moderation queue: reviews publish immediately.
		IsApproved: true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		if errors.Is(err, ErrAlreadyExist) {
			return nil, apperr.New(apperr.KindConflict, "You have already reviewed this product for this order")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "could not create review", err)
	}
	return rv, nil
}

// ForProduct returns the approved reviews of a product with masked reviewer
// identities and aggregate stats.
func (s *Service) ForProduct(ctx context.Context, productID string) (*ProductReviews, error) {
	if productID == "" {
		return nil, apperr.New(apperr.KindValidation, "Product ID is required")
	}
	rows, err := s.repo.ListByProduct(ctx, productID, 50, 0)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "could not list reviews", err)
	}

	out := &ProductReviews{Reviews: make([]PublicReview, 0, len(rows))}
	sum := 0
	for _, pr := range rows {
		sum += pr.Rating
		out.Reviews = append(out.Reviews, PublicReview{
			ID:        pr.ID,
			Rating:    pr.Rating,
			Comment:   pr.Comment,
			CreatedAt: pr.CreatedAt,
			Reviewer:  MaskEmail(pr.UserEmail),
		})
	}
	out.Stats.Count = len(rows)
	if len(rows) > 0 {
		out.Stats.Average = math.Round(float64(sum)/float64(len(rows))*10) / 10
	}
	return out, nil
}

// MaskEmail keeps at most the first two characters of the local part:
// "barista@example.com" becomes "ba***@example.com".
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return "anonymous"
	}
	local, domain := email[:at], email[at+1:]
	if local == "" {
		return "***@" + orStars(domain)
	}
	keep := local
	masked := ""
	if len(local) > 2 {
		keep = local[:2]
		masked = "***"
	}
	return keep + masked + "@" + orStars(domain)
}

func orStars(s string) string {
	if s == "" {
		return "***"
	}
	return s
}
