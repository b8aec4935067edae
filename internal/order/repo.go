package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrNotPayable means the conditional paid-transition matched zero rows:
	// the order exists but is no longer in the ordered state.
	ErrNotPayable = errors.New("order is not awaiting payment")
)

// Filter narrows order listings. Page is 1-based.
type Filter struct {
	Status string
	Page   int
	Limit  int
}

func (f Filter) bounds(defLimit int) (limit, offset int) {
	limit = f.Limit
	if limit <= 0 || limit > 100 {
		limit = defLimit
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string, f Filter) ([]Order, error)
	ListAll(ctx context.Context, f Filter) ([]Order, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	MarkPaid(ctx context.Context, id, transactionID string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, delivery_name, delivery_phone, delivery_address, delivery_notes,
		                    total, payment_method, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
	`, o.ID, o.UserID, o.DeliveryInfo.Name, o.DeliveryInfo.Phone, o.DeliveryInfo.Address, o.DeliveryInfo.Notes,
		o.Total, o.PaymentMethod, o.Status); err != nil {
		return err
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, price, quantity, customization)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, it.ID, o.ID, it.ProductID, it.Name, it.Price, it.Quantity, it.Customization); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, delivery_name, delivery_phone, delivery_address, delivery_notes,
		       total::text, payment_method, status, COALESCE(transaction_id,''), created_at, updated_at
		FROM orders WHERE id=$1
	`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	items, err := r.itemsFor(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, f Filter) ([]Order, error) {
	limit, offset := f.bounds(10)
	return r.list(ctx, `
		SELECT id, user_id, delivery_name, delivery_phone, delivery_address, delivery_notes,
		       total::text, payment_method, status, COALESCE(transaction_id,''), created_at, updated_at
		FROM orders
		WHERE user_id=$1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4
	`, userID, f.Status, limit, offset)
}

func (r *PGRepo) ListAll(ctx context.Context, f Filter) ([]Order, error) {
	limit, offset := f.bounds(20)
	return r.list(ctx, `
		SELECT id, user_id, delivery_name, delivery_phone, delivery_address, delivery_notes,
		       total::text, payment_method, status, COALESCE(transaction_id,''), created_at, updated_at
		FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, f.Status, limit, offset)
}

func (r *PGRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]Order, error) {
	return r.list(ctx, `
		SELECT id, user_id, delivery_name, delivery_phone, delivery_address, delivery_notes,
		       total::text, payment_method, status, COALESCE(transaction_id,''), created_at, updated_at
		FROM orders
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC
	`, start, end)
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid is a compare-and-swap: status and transaction id are written in
// one statement guarded by the expected prior state, so two concurrent
// payment attempts cannot both succeed.
func (r *PGRepo) MarkPaid(ctx context.Context, id, transactionID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, transaction_id = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
	`, id, StatusPaid, transactionID, StatusOrdered)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotPayable
	}
	return nil
}

func (r *PGRepo) list(ctx context.Context, sql string, args ...any) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r *PGRepo) itemsFor(ctx context.Context, orderIDs []string) (map[string][]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, name, price::text, quantity, COALESCE(customization,'')
		FROM order_items WHERE order_id = ANY($1)
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]Item)
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &price, &it.Quantity, &it.Customization); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		it.Price = d
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var total string
	if err := row.Scan(&o.ID, &o.UserID, &o.DeliveryInfo.Name, &o.DeliveryInfo.Phone, &o.DeliveryInfo.Address,
		&o.DeliveryInfo.Notes, &total, &o.PaymentMethod, &o.Status, &o.TransactionID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	o.Total = d
	return &o, nil
}
