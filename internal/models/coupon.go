package models

import "time"

const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

type Coupon struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Code           string     `gorm:"size:64;uniqueIndex;not null" json:"code"`
	DiscountType   string     `gorm:"size:16;not null" json:"discount_type"`
	DiscountValue  float64    `gorm:"not null" json:"discount_value"`
	MaxDiscount    float64    `json:"max_discount"`
	MinOrderAmount float64    `json:"min_order_amount"`
	UsageLimit     int        `json:"usage_limit"`
	UsedCount      int        `gorm:"default:0" json:"used_count"`
	ExpiresAt      *time.Time `json:"expires_at"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
