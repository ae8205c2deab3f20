package model

import "time"

// Comment is a blog comment; replies reference a top-level comment
type Comment struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	BlogID    uint             `gorm:"not null;index" json:"blog_id"`
	ParentID  *uint            `gorm:"index" json:"parent_id,omitempty"`
	UserID    *uint            `gorm:"index" json:"user_id,omitempty"`
	Name      string           `gorm:"size:120;not null" json:"name"`
	Email     string           `gorm:"size:200;not null" json:"email,omitempty"`
	Content   string           `gorm:"type:text;not null" json:"content"`
	Status    ModerationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Likes     int              `gorm:"default:0" json:"likes"`
	Imported  bool             `gorm:"default:false" json:"imported"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	Blog    *Blog     `gorm:"foreignKey:BlogID" json:"blog,omitempty"`
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

type CreateCommentRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Content  string `json:"content" binding:"required,min=2,max=3000"`
	ParentID *uint  `json:"parent_id"`
}

type CommentFilter struct {
	BlogID *uint
	Status ModerationStatus
	Page   int
	Limit  int
}
