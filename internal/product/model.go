package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Price is NUMERIC in Postgres; decimal avoids float rounding.
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"image_url,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ListResponse represents the paginated catalog response.
// swagger:model
type ListResponse struct {
	// search query applied
	Q string `json:"q,omitempty"`
	// limit applied
	Limit int `json:"limit"`
	// offset applied
	Offset int `json:"offset"`
	// products found
	Items []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string `json:"name"        example:"Caramel Macchiato"`
	Description string `json:"description" example:"Espresso with vanilla syrup and caramel drizzle"`
	Price       string `json:"price"       example:"4.50"`
	Category    string `json:"category"    example:"coffee"`
	ImageURL    string `json:"image_url"   example:"https://cdn.example.com/macchiato.jpg"`
}

// UpdateProductRequest payload of partial update. Empty fields keep their
// current value.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}
