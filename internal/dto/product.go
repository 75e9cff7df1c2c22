package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRequest is the body of POST /api/products.
type CreateRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=100"`
	Description string          `json:"description"`
	Brand       string          `json:"brand" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Category    string          `json:"category" validate:"required"`
	Available   *bool           `json:"available" validate:"required"` // Pointer so an absent value is rejected
	Quantity    int             `json:"quantity" validate:"gte=0"`
}

// UpdateRequest is the body of PUT /api/products; the target is identified by ID.
type UpdateRequest struct {
	ID          uint            `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required,min=2,max=100"`
	Description string          `json:"description"`
	Brand       string          `json:"brand" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Category    string          `json:"category" validate:"required"`
	Available   *bool           `json:"available" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
}

// ProductView is the read-only representation returned to clients.
type ProductView struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ReleaseDate time.Time       `json:"release_date"`
	Available   bool            `json:"available"`
	Quantity    int             `json:"quantity"`
}
