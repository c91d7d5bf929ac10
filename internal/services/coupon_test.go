package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shuttleshop/internal/models"
	"shuttleshop/internal/repositories"
)

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponRepository) IncrementUsage(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestDiscountCalculation(t *testing.T) {
	cases := []struct {
		name     string
		coupon   models.Coupon
		subtotal float64
		want     float64
	}{
		{
			name:     "percentage",
			coupon:   models.Coupon{DiscountType: models.DiscountTypePercent, DiscountValue: 10},
			subtotal: 200000,
			want:     20000,
		},
		{
			name:     "percentage capped by max discount",
			coupon:   models.Coupon{DiscountType: models.DiscountTypePercent, DiscountValue: 50, MaxDiscount: 30000},
			subtotal: 200000,
			want:     30000,
		},
		{
			name:     "fixed",
			coupon:   models.Coupon{DiscountType: models.DiscountTypeFixed, DiscountValue: 25000},
			subtotal: 200000,
			want:     25000,
		},
		{
			name:     "fixed never exceeds subtotal",
			coupon:   models.Coupon{DiscountType: models.DiscountTypeFixed, DiscountValue: 300000},
			subtotal: 200000,
			want:     200000,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Discount(&tc.coupon, tc.subtotal))
		})
	}
}

func TestApplyRejectsUnusableCoupons(t *testing.T) {
	expired := time.Now().Add(-time.Hour)

	cases := []struct {
		name    string
		coupon  models.Coupon
		wantErr error
	}{
		{"inactive", models.Coupon{Active: false}, ErrCouponInvalid},
		{"expired", models.Coupon{Active: true, ExpiresAt: &expired}, ErrCouponExpired},
		{"exhausted", models.Coupon{Active: true, UsageLimit: 5, UsedCount: 5}, ErrCouponExhausted},
		{"below minimum", models.Coupon{Active: true, MinOrderAmount: 500000}, ErrCouponMinAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockCouponRepository)
			repo.On("GetByCode", mock.Anything, "SMASH10").Return(&tc.coupon, nil)
			svc := NewCouponService(repo)

			_, _, err := svc.Apply(context.Background(), "SMASH10", 100000)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRedeemReportsExhaustion(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("IncrementUsage", mock.Anything, uint(3)).Return(repositories.ErrUsageLimitReached)
	svc := NewCouponService(repo)

	err := svc.Redeem(context.Background(), 3)
	assert.ErrorIs(t, err, ErrCouponExhausted)
}

func TestApplyRejectsCouponStoredInactive(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Coupon{}))

	repo := repositories.NewGORMCouponRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Coupon{
		Code:          "PAUSED10",
		DiscountType:  models.DiscountTypePercent,
		DiscountValue: 10,
		Active:        false,
	}))

	svc := NewCouponService(repo)
	_, _, err = svc.Apply(ctx, "PAUSED10", 100000)
	assert.ErrorIs(t, err, ErrCouponInvalid, "inactive flag must survive the round trip to the database")
}

func TestApplyReturnsDiscount(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("GetByCode", mock.Anything, "SMASH10").Return(&models.Coupon{
		ID:            3,
		Code:          "SMASH10",
		DiscountType:  models.DiscountTypePercent,
		DiscountValue: 10,
		Active:        true,
	}, nil)
	svc := NewCouponService(repo)

	coupon, discount, err := svc.Apply(context.Background(), "SMASH10", 200000)
	require.NoError(t, err)
	assert.Equal(t, uint(3), coupon.ID)
	assert.Equal(t, float64(20000), discount)
}
