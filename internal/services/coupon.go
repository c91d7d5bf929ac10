package services

import (
	"context"
	"errors"
	"time"

	"shuttleshop/internal/models"
	"shuttleshop/internal/repositories"
)

var (
	ErrCouponInvalid   = errors.New("services: coupon not found or inactive")
	ErrCouponExpired   = errors.New("services: coupon expired")
	ErrCouponExhausted = errors.New("services: coupon usage limit reached")
	ErrCouponMinAmount = errors.New("services: order below coupon minimum amount")
)

type CouponService struct {
	coupons repositories.CouponRepository
}

func NewCouponService(coupons repositories.CouponRepository) *CouponService {
	return &CouponService{coupons: coupons}
}

// Apply validates the coupon against the order subtotal and returns the
// discount amount. Percentage discounts are capped by MaxDiscount when
// set; fixed discounts never exceed the subtotal.
func (s *CouponService) Apply(ctx context.Context, code string, subtotal float64) (*models.Coupon, float64, error) {
	coupon, err := s.coupons.GetByCode(ctx, code)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, 0, ErrCouponInvalid
	}
	if err != nil {
		return nil, 0, err
	}

	if !coupon.Active {
		return nil, 0, ErrCouponInvalid
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now()) {
		return nil, 0, ErrCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, 0, ErrCouponExhausted
	}
	if subtotal < coupon.MinOrderAmount {
		return nil, 0, ErrCouponMinAmount
	}

	return coupon, Discount(coupon, subtotal), nil
}

// Redeem records one use of the coupon. Exhaustion is reported even
// when Apply succeeded moments earlier, since a concurrent checkout
// may have spent the last use in between.
func (s *CouponService) Redeem(ctx context.Context, id uint) error {
	err := s.coupons.IncrementUsage(ctx, id)
	if errors.Is(err, repositories.ErrUsageLimitReached) {
		return ErrCouponExhausted
	}
	return err
}

// Discount computes the discount a coupon grants on a subtotal.
func Discount(coupon *models.Coupon, subtotal float64) float64 {
	var discount float64
	switch coupon.DiscountType {
	case models.DiscountTypePercent:
		discount = subtotal * coupon.DiscountValue / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	case models.DiscountTypeFixed:
		discount = coupon.DiscountValue
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}
