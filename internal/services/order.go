package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"shuttleshop/internal/models"
	"shuttleshop/internal/orders"
	"shuttleshop/internal/repositories"
	"shuttleshop/pkg/rabbitmq"
)

type OrderItemInput struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type CreateOrderInput struct {
	UserID          uint             `json:"user_id" validate:"required"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	TotalAmount     float64          `json:"total_amount" validate:"gte=0"`
	ShippingAddress string           `json:"shipping_address" validate:"required"`
	ShippingFee     float64          `json:"shipping_fee" validate:"gte=0"`
	CustomerPhone   string           `json:"customer_phone" validate:"required"`
	PaymentMethod   string           `json:"payment_method"`
	CouponID        *uint            `json:"coupon_id"`
	CouponCode      *string          `json:"coupon_code"`
	DiscountAmount  float64          `json:"discount_amount"`
}

type OrderService struct {
	repo      repositories.OrderRepository
	publisher rabbitmq.Publisher
	log       *slog.Logger

	// injectable for deterministic order numbers in tests
	now  func() time.Time
	draw func() int
}

func NewOrderService(repo repositories.OrderRepository, publisher rabbitmq.Publisher, log *slog.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		draw:      func() int { return rand.Intn(9000) + 1000 },
	}
}

// OrderNumber formats a human-readable order number from a date and a
// 4-digit draw. Uniqueness is best effort; the storage layer's unique
// index catches the rare collision.
func OrderNumber(t time.Time, draw int) string {
	return fmt.Sprintf("ORD%s%04d", t.Format("20060102"), draw)
}

// CreateOrder validates the checkout payload and persists the order
// atomically with all its line items. After a confirmed success an
// order.created event is published best effort; the caller clears the
// cart, never this method.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, fmt.Errorf("%w: user_id is required", orders.ErrValidation)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: items must not be empty", orders.ErrValidation)
	}
	if input.ShippingAddress == "" {
		return nil, fmt.Errorf("%w: shipping_address is required", orders.ErrValidation)
	}
	if input.CustomerPhone == "" {
		return nil, fmt.Errorf("%w: customer_phone is required", orders.ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order := &models.Order{
		OrderNumber:     OrderNumber(s.now(), s.draw()),
		UserID:          input.UserID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		ShippingFee:     input.ShippingFee,
		CustomerPhone:   input.CustomerPhone,
		PaymentMethod:   input.PaymentMethod,
		CouponID:        input.CouponID,
		CouponCode:      input.CouponCode,
		DiscountAmount:  input.DiscountAmount,
		TotalAmount:     input.TotalAmount,
		Status:          models.OrderStatusPending,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishOrderCreated(map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	}); err != nil {
		s.log.Error("failed to publish order.created", "order_id", order.ID, "error", err)
	}

	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OrderService) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.repo.List(ctx)
}

// UpdateStatus enforces the admin-driven order lifecycle: pending may
// move to confirmed or cancelled, confirmed to shipped, shipped to
// delivered. Everything else is rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, next models.OrderStatus) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", orders.ErrInvalidTransition, order.Status, next)
	}
	return s.repo.UpdateStatus(ctx, id, next)
}
