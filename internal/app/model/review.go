package model

import "time"

// Review is a rated review of either a product or a blog post
type Review struct {
	ID           uint             `gorm:"primarykey" json:"id"`
	ProductID    *uint            `gorm:"index" json:"product_id,omitempty"`
	BlogID       *uint            `gorm:"index" json:"blog_id,omitempty"`
	UserID       *uint            `gorm:"index" json:"user_id,omitempty"`
	Name         string           `gorm:"size:120;not null" json:"name"`
	Email        string           `gorm:"size:200;not null" json:"email,omitempty"`
	Rating       int              `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title        string           `gorm:"size:200" json:"title"`
	Comment      string           `gorm:"type:text;not null" json:"comment"`
	Status       ModerationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	HelpfulCount int              `gorm:"default:0" json:"helpful_count"`
	Imported     bool             `gorm:"default:false" json:"imported"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Blog    *Blog    `gorm:"foreignKey:BlogID" json:"blog,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

type CreateReviewRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"max=200"`
	Comment string `json:"comment" binding:"required,min=3,max=5000"`
}

type ReviewFilter struct {
	ProductID *uint
	BlogID    *uint
	Status    ModerationStatus
	Page      int
	Limit     int
}

// RatingSummary aggregates approved reviews of one target
type RatingSummary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}
