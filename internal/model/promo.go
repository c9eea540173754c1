package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PromoCode struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Discount  float64    `json:"discount"`
	ExpiresAt *time.Time `json:"expires_at"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
}

// NormalizePromoCode is the canonical form codes are stored and looked up in.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ExpiredAt reports whether the promo is past its expiry at t.
// A promo expiring exactly at t is still valid.
func (p PromoCode) ExpiredAt(t time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(t)
}
