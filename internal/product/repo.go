// Package product provides the repository interface and PostgreSQL
// implementation for the catalog.
package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

// Query describes the optional, conjunctive catalog filters. Nil price
// bounds mean unbounded; bounds are inclusive.
type Query struct {
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string // "name" (default) or "price"
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	Update(ctx context.Context, p *Product, updatePrice bool) error
	SoftDelete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, description, price, category, image_url, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,TRUE,NOW(),NOW())
	`, p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL)
	return err
}

// GetByID resolves inactive products too, so historical orders can still
// display what was bought.
func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, name, description, price::text, category, image_url, is_active, created_at, updated_at
		FROM products WHERE id=$1
	`, id)
	return scanProduct(row)
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	order := "name ASC"
	if q.SortBy == "price" {
		order = "price ASC, name ASC"
	}

	var minP, maxP any
	if q.MinPrice != nil {
		minP = *q.MinPrice
	}
	if q.MaxPrice != nil {
		maxP = *q.MaxPrice
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, price::text, category, image_url, is_active, created_at, updated_at
		FROM products
		WHERE is_active = TRUE
		  AND ($1 = '' OR name ILIKE '%'||$1||'%')
		  AND ($2 = '' OR category = $2)
		  AND ($3::numeric IS NULL OR price >= $3)
		  AND ($4::numeric IS NULL OR price <= $4)
		ORDER BY `+order+`
		LIMIT $5 OFFSET $6
	`, strings.TrimSpace(q.Search), q.Category, minP, maxP, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Product, updatePrice bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if updatePrice {
		tag, err := r.db.Exec(ctx, `
			UPDATE products
			SET name = COALESCE(NULLIF($2,''), name),
			    description = COALESCE(NULLIF($3,''), description),
			    price = $4,
			    category = COALESCE(NULLIF($5,''), category),
			    image_url = COALESCE(NULLIF($6,''), image_url),
			    updated_at = NOW()
			WHERE id = $1
		`, p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = COALESCE(NULLIF($2,''), name),
		    description = COALESCE(NULLIF($3,''), description),
		    category = COALESCE(NULLIF($4,''), category),
		    image_url = COALESCE(NULLIF($5,''), image_url),
		    updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Category, p.ImageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete flips is_active so historical orders keep a resolvable product
// reference.
func (r *PGRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `
		UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id=$1
	`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var price string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Category, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = d
	return &p, nil
}
