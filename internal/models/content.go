package models

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"size:1024" json:"comment"`
	Approved  bool      `gorm:"default:false" json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

type News struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Image     string    `gorm:"size:512" json:"image"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Slide struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:255" json:"title"`
	Image    string `gorm:"size:512;not null" json:"image"`
	Link     string `gorm:"size:512" json:"link"`
	Position int    `gorm:"default:0" json:"position"`
	Active   bool   `json:"active"`
}

// Setting is a site-wide key/value configuration row editable from the
// admin console (shop name, hotline, banner text and so on).
type Setting struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Key   string `gorm:"size:191;uniqueIndex;not null" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Subject   string    `gorm:"size:255" json:"subject"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
