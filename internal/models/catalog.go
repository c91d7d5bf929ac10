package models

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Slug        string    `gorm:"size:191;uniqueIndex" json:"slug"`
	Description string    `gorm:"size:512" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Logo      string    `gorm:"size:512" json:"logo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Price       float64       `gorm:"not null" json:"price"`
	SalePrice   float64       `json:"sale_price"`
	Image       string        `gorm:"size:512" json:"image"`
	Stock       int           `gorm:"not null;default:0" json:"stock"`
	CategoryID  uint          `gorm:"index" json:"category_id"`
	Category    *Category     `json:"category,omitempty"`
	BrandID     uint          `gorm:"index" json:"brand_id"`
	Brand       *Brand        `json:"brand,omitempty"`
	Sizes       []ProductSize `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes,omitempty"`
	Active      bool          `json:"active"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProductSize is a selectable variant of a product, e.g. racket grip
// size G4 or shoe size 42.
type ProductSize struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	Name      string `gorm:"size:64;not null" json:"name"`
	Stock     int    `gorm:"not null;default:0" json:"stock"`
}
