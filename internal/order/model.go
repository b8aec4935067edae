package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle: ordered -> paid -> processing -> ready -> completed, with
// cancelled reachable from any non-terminal state. Payment is the only
// transition enforced against the graph; admin status updates are validated
// against the enumerated set only (free-form overrides, as the storefront
// always worked).
const (
	StatusOrdered    = "ordered"
	StatusPaid       = "paid"
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var validStatuses = map[string]struct{}{
	StatusOrdered:    {},
	StatusPaid:       {},
	StatusProcessing: {},
	StatusReady:      {},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func ValidStatus(s string) bool {
	_, ok := validStatuses[s]
	return ok
}

func IsTerminal(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}

type DeliveryInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

// Item is one line of the checkout snapshot. Name and price are frozen at
// order time; later catalog changes never touch existing orders.
type Item struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Customization string          `json:"customization,omitempty"`
}

type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Items         []Item          `json:"items"`
	DeliveryInfo  DeliveryInfo    `json:"delivery_info"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// HasProduct reports whether productID appears in the item snapshot.
func (o *Order) HasProduct(productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
