package model

import (
	"time"

	"gorm.io/gorm"
)

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

type Blog struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Slug        string         `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Excerpt     string         `gorm:"size:500" json:"excerpt"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	CoverImage  string         `gorm:"size:500" json:"cover_image"`
	Author      string         `gorm:"size:120" json:"author"`
	Tags        StringList     `json:"tags"`
	Status      BlogStatus     `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	Views       int            `gorm:"default:0" json:"views"`
	Likes       int            `gorm:"default:0" json:"likes"`
	PublishedAt *time.Time     `gorm:"index" json:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Blog) TableName() string {
	return "blogs"
}

// BlogView records that a client IP has already been counted for a blog
type BlogView struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_blog_views_blog_ip" json:"blog_id"`
	IPAddress string    `gorm:"size:64;not null;uniqueIndex:idx_blog_views_blog_ip" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (BlogView) TableName() string {
	return "blog_views"
}

// BlogLike records one like per client IP
type BlogLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_blog_likes_blog_ip" json:"blog_id"`
	IPAddress string    `gorm:"size:64;not null;uniqueIndex:idx_blog_likes_blog_ip" json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

func (BlogLike) TableName() string {
	return "blog_likes"
}

type CreateBlogRequest struct {
	Title      string     `json:"title" binding:"required,min=3,max=200"`
	Slug       string     `json:"slug" binding:"omitempty,max=220"`
	Excerpt    string     `json:"excerpt" binding:"max=500"`
	Content    string     `json:"content" binding:"required"`
	CoverImage string     `json:"cover_image" binding:"omitempty,url,max=500"`
	Author     string     `json:"author" binding:"max=120"`
	Tags       []string   `json:"tags" binding:"max=20"`
	Status     BlogStatus `json:"status" binding:"omitempty,oneof=draft published"`
}

type UpdateBlogRequest struct {
	Title      *string     `json:"title" binding:"omitempty,min=3,max=200"`
	Slug       *string     `json:"slug" binding:"omitempty,max=220"`
	Excerpt    *string     `json:"excerpt" binding:"omitempty,max=500"`
	Content    *string     `json:"content"`
	CoverImage *string     `json:"cover_image" binding:"omitempty,max=500"`
	Author     *string     `json:"author" binding:"omitempty,max=120"`
	Tags       []string    `json:"tags" binding:"omitempty,max=20"`
	Status     *BlogStatus `json:"status" binding:"omitempty,oneof=draft published"`
}

type BlogFilter struct {
	Tag       string
	Search    string
	Status    BlogStatus
	AllStatus bool
	Page      int
	Limit     int
}
