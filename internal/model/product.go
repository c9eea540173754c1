package model

import (
	"time"

	"github.com/google/uuid"
)

// AllCategories is the category filter value that disables category matching.
const AllCategories = "all"

type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	Featured    bool      `json:"featured"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
