package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog. Price is the authoritative
// value used when pricing new orders.
type Product struct {
	ID          uuid.UUID           `json:"id" db:"id"`
	Name        string              `json:"name" db:"name"`
	Description string              `json:"description" db:"description"`
	Price       decimal.Decimal     `json:"price" db:"price"`
	Cost        decimal.NullDecimal `json:"cost" db:"cost"`
	ImageURL    string              `json:"imageUrl" db:"image_url"`
	Category    string              `json:"category" db:"category"`
	CreatedAt   time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time           `json:"updatedAt" db:"updated_at"`
}

// ProductPatch carries the attributes to change; nil fields are left untouched
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Cost        *decimal.Decimal
	ImageURL    *string
	Category    *string
}

// IsEmpty reports whether the patch changes nothing
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Cost == nil && p.ImageURL == nil && p.Category == nil
}

// Apply copies every set field onto the product
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Cost != nil {
		product.Cost = decimal.NewNullDecimal(*p.Cost)
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
}

// Category represents a product category. Products refer to it by name.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
