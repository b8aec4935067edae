package review

import "time"

type Review struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	ProductID  string    `json:"product_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// AddReviewRequest payload of POST /orders/:id/review.
// swagger:model AddReviewRequest
type AddReviewRequest struct {
	ProductID string `json:"productId" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Rating    int    `json:"rating"    example:"5"`
	Comment   string `json:"comment"   example:"Best macchiato in town"`
}

// PublicReview is a review as shown on a product page: reviewer identity is
// reduced to a masked email.
// swagger:model
type PublicReview struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Reviewer  string    `json:"reviewer"`
}

// ProductReviews is the public listing with aggregate stats.
// swagger:model
type ProductReviews struct {
	Stats   ReviewStats    `json:"stats"`
	Reviews []PublicReview `json:"reviews"`
}

type ReviewStats struct {
	Count int `json:"count"`
	// Average rating rounded to one decimal place.
	Average float64 `json:"average"`
}
