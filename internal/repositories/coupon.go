package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shuttleshop/internal/models"
)

type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	IncrementUsage(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) error
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id uint) error
}

type GORMCouponRepository struct {
	db *gorm.DB
}

func NewGORMCouponRepository(db *gorm.DB) *GORMCouponRepository {
	return &GORMCouponRepository{db: db}
}

func (r *GORMCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ErrUsageLimitReached is returned by IncrementUsage when the coupon's
// usage limit has already been spent.
var ErrUsageLimitReached = errors.New("repositories: coupon usage limit reached")

// IncrementUsage burns one use of the coupon. The guard lives in the
// UPDATE itself so two concurrent redemptions cannot both pass a
// read-then-write check and push used_count past the limit.
func (r *GORMCouponRepository) IncrementUsage(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUsageLimitReached
	}
	return nil
}

func (r *GORMCouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	var list []models.Coupon
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *GORMCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *GORMCouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

func (r *GORMCouponRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Coupon{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
