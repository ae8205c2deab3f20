package model

import "time"

type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusRead     ContactStatus = "read"
	ContactStatusReplied  ContactStatus = "replied"
	ContactStatusArchived ContactStatus = "archived"
)

type ContactMessage struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	Name      string        `gorm:"size:120;not null" json:"name"`
	Email     string        `gorm:"size:200;not null;index" json:"email"`
	Phone     string        `gorm:"size:40" json:"phone"`
	Subject   string        `gorm:"size:200;not null" json:"subject"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    ContactStatus `gorm:"type:varchar(20);default:'new';index" json:"status"`
	Reply     string        `gorm:"type:text" json:"reply,omitempty"`
	RepliedAt *time.Time    `json:"replied_at,omitempty"`
	RepliedBy *uint         `json:"replied_by,omitempty"`
	IPAddress string        `gorm:"size:64" json:"-"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

type CreateContactMessageRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"max=40"`
	Subject string `json:"subject" binding:"required,min=2,max=200"`
	Message string `json:"message" binding:"required,min=10,max=5000"`
}

type UpdateContactStatusRequest struct {
	Status ContactStatus `json:"status" binding:"required,oneof=new read replied archived"`
}

type ReplyContactRequest struct {
	Reply     string `json:"reply" binding:"required,min=2,max=5000"`
	SendEmail *bool  `json:"send_email"`
}
