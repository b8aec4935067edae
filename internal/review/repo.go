package review

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAlreadyExist = errors.New("review already exists")

// ProductReview is a review row joined with its author's email for masking.
type ProductReview struct {
	Review
	UserEmail string
}

type Repository interface {
	Create(ctx context.Context, rv *Review) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]ProductReview, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, rv *Review) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// reviews carries UNIQUE (order_id, user_id, product_id); the insert is
	// the authoritative duplicate check under concurrency.
	tag, err := r.db.Exec(ctx, `
		INSERT INTO reviews (id, order_id, user_id, product_id, rating, comment, is_approved, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		ON CONFLICT (order_id, user_id, product_id) DO NOTHING
	`, rv.ID, rv.OrderID, rv.UserID, rv.ProductID, rv.Rating, rv.Comment, rv.IsApproved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]ProductReview, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.order_id, r.user_id, r.product_id, r.rating, COALESCE(r.comment,''),
		       r.is_approved, r.created_at, COALESCE(u.email,'')
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1 AND r.is_approved = TRUE
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductReview
	for rows.Next() {
		var pr ProductReview
		if err := rows.Scan(&pr.ID, &pr.OrderID, &pr.UserID, &pr.ProductID, &pr.Rating, &pr.Comment,
			&pr.IsApproved, &pr.CreatedAt, &pr.UserEmail); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}
