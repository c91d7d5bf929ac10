package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shuttleshop/internal/models"
)

type ReviewRepository interface {
	ListByProduct(ctx context.Context, productID uint, approvedOnly bool) ([]models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	SetApproved(ctx context.Context, id uint, approved bool) error
	Delete(ctx context.Context, id uint) error
}

type GORMReviewRepository struct {
	db *gorm.DB
}

func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

func (r *GORMReviewRepository) ListByProduct(ctx context.Context, productID uint, approvedOnly bool) ([]models.Review, error) {
	q := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if approvedOnly {
		q = q.Where("approved = ?", true)
	}
	var list []models.Review
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *GORMReviewRepository) List(ctx context.Context) ([]models.Review, error) {
	var list []models.Review
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *GORMReviewRepository) SetApproved(ctx context.Context, id uint, approved bool) error {
	res := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Update("approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *GORMReviewRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type NewsRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]models.News, error)
	GetByID(ctx context.Context, id uint) (*models.News, error)
	Create(ctx context.Context, news *models.News) error
	Update(ctx context.Context, news *models.News) error
	Delete(ctx context.Context, id uint) error
}

type GORMNewsRepository struct {
	db *gorm.DB
}

func NewGORMNewsRepository(db *gorm.DB) *GORMNewsRepository {
	return &GORMNewsRepository{db: db}
}

func (r *GORMNewsRepository) List(ctx context.Context, publishedOnly bool) ([]models.News, error) {
	q := r.db.WithContext(ctx)
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	var list []models.News
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *GORMNewsRepository) GetByID(ctx context.Context, id uint) (*models.News, error) {
	var news models.News
	err := r.db.WithContext(ctx).First(&news, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &news, nil
}

func (r *GORMNewsRepository) Create(ctx context.Context, news *models.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

func (r *GORMNewsRepository) Update(ctx context.Context, news *models.News) error {
	return r.db.WithContext(ctx).Save(news).Error
}

func (r *GORMNewsRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.News{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type SlideRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Slide, error)
	Create(ctx context.Context, slide *models.Slide) error
	Update(ctx context.Context, slide *models.Slide) error
	Delete(ctx context.Context, id uint) error
}

type GORMSlideRepository struct {
	db *gorm.DB
}

func NewGORMSlideRepository(db *gorm.DB) *GORMSlideRepository {
	return &GORMSlideRepository{db: db}
}

func (r *GORMSlideRepository) List(ctx context.Context, activeOnly bool) ([]models.Slide, error) {
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var list []models.Slide
	err := q.Order("position").Find(&list).Error
	return list, err
}

func (r *GORMSlideRepository) Create(ctx context.Context, slide *models.Slide) error {
	return r.db.WithContext(ctx).Create(slide).Error
}

func (r *GORMSlideRepository) Update(ctx context.Context, slide *models.Slide) error {
	return r.db.WithContext(ctx).Save(slide).Error
}

func (r *GORMSlideRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Slide{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type SettingRepository interface {
	List(ctx context.Context) ([]models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
	Delete(ctx context.Context, key string) error
}

type GORMSettingRepository struct {
	db *gorm.DB
}

func NewGORMSettingRepository(db *gorm.DB) *GORMSettingRepository {
	return &GORMSettingRepository{db: db}
}

func (r *GORMSettingRepository) List(ctx context.Context) ([]models.Setting, error) {
	var list []models.Setting
	err := r.db.WithContext(ctx).Order("`key`").Find(&list).Error
	return list, err
}

func (r *GORMSettingRepository) Upsert(ctx context.Context, setting *models.Setting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(setting).Error
}

func (r *GORMSettingRepository) Delete(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Where("`key` = ?", key).Delete(&models.Setting{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type ContactRepository interface {
	List(ctx context.Context) ([]models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id uint) error
}

type GORMContactRepository struct {
	db *gorm.DB
}

func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{db: db}
}

func (r *GORMContactRepository) List(ctx context.Context) ([]models.Contact, error) {
	var list []models.Contact
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *GORMContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *GORMContactRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Contact{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
