package repositories

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"shuttleshop/internal/models"
	"shuttleshop/internal/orders"
)

type OrderRepository interface {
	// CreateOrder persists the order header and all of its line items as
	// a single atomic unit, or nothing at all. On success the order's ID
	// and the item IDs are populated.
	CreateOrder(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error
}

type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: %v", orders.ErrTransaction, tx.Error)
	}

	items := order.Items
	order.Items = nil
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", orders.ErrDuplicateOrderNumber, order.OrderNumber)
		}
		return fmt.Errorf("%w: %v", orders.ErrDatabase, err)
	}

	// All item inserts are submitted together; completion order does not
	// matter, atomicity comes from the surrounding transaction.
	g, gctx := errgroup.WithContext(ctx)
	for i := range items {
		item := &items[i]
		item.OrderID = order.ID
		g.Go(func() error {
			return tx.WithContext(gctx).Create(item).Error
		})
	}
	if err := g.Wait(); err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %v", orders.ErrOrderItems, err)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %v", orders.ErrCommit, err)
	}

	order.Items = items
	return nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *GORMOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return orders.ErrNotFound
	}
	return nil
}
