package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// validTransitions encodes the admin-driven order lifecycle. There are
// no automatic transitions; a cancelled or delivered order is terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderNumber     string      `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	UserID          uint        `gorm:"index;not null" json:"user_id"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	ShippingAddress string      `gorm:"size:512;not null" json:"shipping_address"`
	ShippingFee     float64     `json:"shipping_fee"`
	CustomerPhone   string      `gorm:"size:32;not null" json:"customer_phone"`
	PaymentMethod   string      `gorm:"size:32" json:"payment_method"`
	CouponID        *uint       `json:"coupon_id"`
	CouponCode      *string     `gorm:"size:64" json:"coupon_code"`
	DiscountAmount  float64     `gorm:"default:0" json:"discount_amount"`
	TotalAmount     float64     `gorm:"not null" json:"total_amount"`
	Status          OrderStatus `gorm:"size:16;default:pending" json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is a snapshot of a cart line at checkout time; the unit
// price is the price paid, never recomputed from the current catalog.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Quantity  int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
}
