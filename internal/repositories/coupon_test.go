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
)

func couponTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Coupon{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM coupons")
	})
	return db
}

func TestCreateCouponPersistsInactiveFlag(t *testing.T) {
	db := couponTestDB(t)
	repo := NewGORMCouponRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Coupon{
		Code:          "PAUSED10",
		DiscountType:  models.DiscountTypePercent,
		DiscountValue: 10,
		Active:        false,
	}))

	stored, err := repo.GetByCode(ctx, "PAUSED10")
	require.NoError(t, err)
	assert.False(t, stored.Active, "a coupon created as inactive must stay inactive")
}

func TestIncrementUsageStopsAtLimit(t *testing.T) {
	db := couponTestDB(t)
	repo := NewGORMCouponRepository(db)
	ctx := context.Background()

	coupon := &models.Coupon{
		Code:          "LAST2",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 25000,
		UsageLimit:    2,
		Active:        true,
	}
	require.NoError(t, repo.Create(ctx, coupon))

	require.NoError(t, repo.IncrementUsage(ctx, coupon.ID))
	require.NoError(t, repo.IncrementUsage(ctx, coupon.ID))

	err := repo.IncrementUsage(ctx, coupon.ID)
	assert.ErrorIs(t, err, ErrUsageLimitReached)

	stored, err := repo.GetByCode(ctx, "LAST2")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.UsedCount, "used count never passes the limit")
}

func TestIncrementUsageUnlimitedCoupon(t *testing.T) {
	db := couponTestDB(t)
	repo := NewGORMCouponRepository(db)
	ctx := context.Background()

	coupon := &models.Coupon{
		Code:          "FOREVER",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 10000,
		Active:        true,
	}
	require.NoError(t, repo.Create(ctx, coupon))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementUsage(ctx, coupon.ID))
	}

	stored, err := repo.GetByCode(ctx, "FOREVER")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.UsedCount)
}
