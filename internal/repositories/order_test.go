package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shuttleshop/internal/models"
	"shuttleshop/internal/orders"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM order_items")
		db.Exec("DELETE FROM orders")
	})
	return db
}

func validOrder(number string) *models.Order {
	return &models.Order{
		OrderNumber:     number,
		UserID:          1,
		ShippingAddress: "12 Jalan Kenanga",
		CustomerPhone:   "0812345678",
		PaymentMethod:   "cod",
		TotalAmount:     175000,
		Status:          models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: 7, Quantity: 2, Price: 50000},
			{ProductID: 9, Quantity: 1, Price: 75000},
		},
	}
}

func TestCreateOrderPersistsHeaderAndItems(t *testing.T) {
	db := testDB(t)
	repo := NewGORMOrderRepository(db)
	ctx := context.Background()

	order := validOrder("ORD202406151234")
	require.NoError(t, repo.CreateOrder(ctx, order))
	require.NotZero(t, order.ID)

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD202406151234", stored.OrderNumber)
	require.Len(t, stored.Items, 2)
	for _, item := range stored.Items {
		assert.Equal(t, order.ID, item.OrderID)
	}
}

func TestCreateOrderRollsBackWhenItemInsertFails(t *testing.T) {
	db := testDB(t)
	repo := NewGORMOrderRepository(db)
	ctx := context.Background()

	order := validOrder("ORD202406159999")
	// last item violates the quantity check, after the header and the
	// first items were already submitted
	order.Items = append(order.Items, models.OrderItem{ProductID: 11, Quantity: 0, Price: 10000})

	err := repo.CreateOrder(ctx, order)
	require.ErrorIs(t, err, orders.ErrOrderItems)

	var headerCount, itemCount int64
	db.Model(&models.Order{}).Where("order_number = ?", "ORD202406159999").Count(&headerCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Zero(t, headerCount, "no header row may survive a failed item insert")
	assert.Zero(t, itemCount, "no item rows may survive a failed item insert")
}

func TestCreateOrderDuplicateNumberSurfacesDistinctError(t *testing.T) {
	db := testDB(t)
	repo := NewGORMOrderRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateOrder(ctx, validOrder("ORD202406154821")))

	err := repo.CreateOrder(ctx, validOrder("ORD202406154821"))
	require.ErrorIs(t, err, orders.ErrDuplicateOrderNumber)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	db := testDB(t)
	repo := NewGORMOrderRepository(db)

	err := repo.UpdateStatus(context.Background(), 12345, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, orders.ErrNotFound)
}
