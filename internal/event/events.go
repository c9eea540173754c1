package event

import "time"

const (
	TopicProductCreated = "catalog.product.created"
	TopicProductUpdated = "catalog.product.updated"
	TopicProductDeleted = "catalog.product.deleted"
	TopicPromoCreated   = "catalog.promo.created"
)

// ProductEvent is published on product create and update.
type ProductEvent struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	Featured  bool      `json:"featured"`
	At        time.Time `json:"at"`
}

type ProductDeletedEvent struct {
	ProductID string    `json:"product_id"`
	At        time.Time `json:"at"`
}

// PromoCreatedEvent leaves the discount out so consumers never see code values paired with amounts.
type PromoCreatedEvent struct {
	PromoID   string     `json:"promo_id"`
	Code      string     `json:"code"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	At        time.Time  `json:"at"`
}
