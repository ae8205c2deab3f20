package model

import "time"

// Page is a CMS page served by slug (about, shipping, privacy...)
type Page struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Slug            string    `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	MetaTitle       string    `gorm:"size:200" json:"meta_title"`
	MetaDescription string    `gorm:"size:500" json:"meta_description"`
	IsPublished     bool      `gorm:"not null" json:"is_published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Page) TableName() string {
	return "pages"
}

type SavePageRequest struct {
	Slug            string `json:"slug" binding:"omitempty,max=120"`
	Title           string `json:"title" binding:"required,min=2,max=200"`
	Content         string `json:"content" binding:"required"`
	MetaTitle       string `json:"meta_title" binding:"max=200"`
	MetaDescription string `json:"meta_description" binding:"max=500"`
	IsPublished     *bool  `json:"is_published"`
}
