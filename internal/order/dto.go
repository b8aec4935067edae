package order

import "github.com/shopspring/decimal"

// CreateOrderItem is one checkout line as sent by the client. Price is taken
// from the request, not re-derived from the catalog (documented trust
// boundary of the storefront MVP).
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID     string          `json:"product_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Name          string          `json:"name"       example:"Caramel Macchiato"`
	Price         decimal.Decimal `json:"price"      example:"4.50"`
	Quantity      int             `json:"quantity"   example:"2"`
	Customization string          `json:"customization,omitempty" example:"size=L,sugar=50%"`
}

// CreateOrderRequest payload of checkout.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Items         []CreateOrderItem `json:"items"`
	DeliveryInfo  DeliveryInfo      `json:"delivery_info"`
	PaymentMethod string            `json:"payment_method" example:"momo"`
}

// PaymentRequest payload of POST /orders/:id/payment.
// swagger:model PaymentRequest
type PaymentRequest struct {
	PaymentMethod string            `json:"paymentMethod" example:"momo"`
	PaymentData   map[string]string `json:"paymentData"`
}

// PaymentResponse confirms a recorded payment.
// swagger:model PaymentResponse
type PaymentResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
	OrderID       string `json:"orderId"`
}

// UpdateStatusRequest payload of the admin status update.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"processing"`
}
