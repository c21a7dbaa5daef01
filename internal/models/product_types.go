package models

import (
	"time"
)

// Product is the model for the 'products' table.
// Nullable columns use pointers so absent values serialize cleanly in JSON.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    *string   `json:"imageUrl,omitempty" db:"image_url"`
	Category    *string   `json:"category,omitempty" db:"category"`
	Stock       int       `json:"stock" db:"stock"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
