package model

import "time"

type QuestionStatus string

const (
	QuestionStatusPending  QuestionStatus = "pending"
	QuestionStatusAnswered QuestionStatus = "answered"
	QuestionStatusHidden   QuestionStatus = "hidden"
)

type ProductQuestion struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Name       string         `gorm:"size:120;not null" json:"name"`
	Email      string         `gorm:"size:200;not null" json:"email,omitempty"`
	Question   string         `gorm:"type:text;not null" json:"question"`
	Answer     string         `gorm:"type:text" json:"answer,omitempty"`
	Status     QuestionStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	AnsweredAt *time.Time     `json:"answered_at,omitempty"`
	AnsweredBy *uint          `json:"answered_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (ProductQuestion) TableName() string {
	return "product_questions"
}

type CreateQuestionRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Question string `json:"question" binding:"required,min=5,max=2000"`
}

type AnswerQuestionRequest struct {
	Answer string `json:"answer" binding:"required,min=2,max=5000"`
}

type UpdateQuestionStatusRequest struct {
	Status QuestionStatus `json:"status" binding:"required,oneof=pending answered hidden"`
}
