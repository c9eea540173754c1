// Package dto holds the JSON shapes of the HTTP API, mirroring api-contract/openapi.yml.
package dto

import (
	"time"

	"github.com/google/uuid"
)

type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *[]FieldError `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ProductResponse struct {
	Id          uuid.UUID `json:"id"`
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

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Price       *float64 `json:"price" validate:"required"`
	Category    string   `json:"category" validate:"required,notblank,max=100"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
	Stock       *int     `json:"stock" validate:"omitempty,min=-2147483648,max=2147483647"`
	Featured    *bool    `json:"featured"`
	Sizes       []string `json:"sizes" validate:"omitempty,dive,notblank"`
	Colors      []string `json:"colors" validate:"omitempty,dive,notblank"`
}

// UpdateProductRequest only carries the fields to change.
type UpdateProductRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category" validate:"omitempty,max=100"`
	Images      *[]string `json:"images" validate:"omitempty,dive,url"`
	Stock       *int      `json:"stock" validate:"omitempty,min=-2147483648,max=2147483647"`
	Featured    *bool     `json:"featured"`
	Sizes       *[]string `json:"sizes" validate:"omitempty,dive,notblank"`
	Colors      *[]string `json:"colors" validate:"omitempty,dive,notblank"`
}

type PromoDiscountResponse struct {
	Discount float64 `json:"discount"`
}

type CreatePromoRequest struct {
	Code      string     `json:"code" validate:"required,promocode,max=64"`
	Discount  *float64   `json:"discount" validate:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
	Active    *bool      `json:"active"`
}

type PromoResponse struct {
	Id        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Discount  float64    `json:"discount"`
	ExpiresAt *time.Time `json:"expires_at"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
}

type UploadResponse struct {
	Url string `json:"url"`
}
