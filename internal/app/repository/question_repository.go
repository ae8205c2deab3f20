package repository

import (
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.ProductQuestion) error
	FindByID(id uint) (*model.ProductQuestion, error)
	FindAnsweredByProduct(productID uint) ([]model.ProductQuestion, error)
	FindWithFilter(status model.QuestionStatus, page, limit int) ([]model.ProductQuestion, int64, error)
	Update(question *model.ProductQuestion) error
	Delete(id uint) error
	CountByStatus(status model.QuestionStatus) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.ProductQuestion) error {
	if err := r.db.Omit("Product").Create(question).Error; err != nil {
		logger.Error("Failed to create product question", err, map[string]interface{}{
			"product_id": question.ProductID,
		})
		return err
	}
	return nil
}

func (r *questionRepository) FindByID(id uint) (*model.ProductQuestion, error) {
	var question model.ProductQuestion
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindAnsweredByProduct(productID uint) ([]model.ProductQuestion, error) {
	var questions []model.ProductQuestion
	err := r.db.Where("product_id = ? AND status = ?", productID, model.QuestionStatusAnswered).
		Order("answered_at DESC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) FindWithFilter(status model.QuestionStatus, page, limit int) ([]model.ProductQuestion, int64, error) {
	query := r.db.Model(&model.ProductQuestion{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []model.ProductQuestion
	err := query.Preload("Product").
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page, limit)).
		Find(&questions).Error
	if err != nil {
		logger.Error("Failed to list product questions", err)
		return nil, 0, err
	}
	return questions, total, nil
}

func (r *questionRepository) Update(question *model.ProductQuestion) error {
	if err := r.db.Omit("Product").Save(question).Error; err != nil {
		logger.Error("Failed to update product question", err, map[string]interface{}{
			"question_id": question.ID,
		})
		return err
	}
	return nil
}

func (r *questionRepository) Delete(id uint) error {
	result := r.db.Delete(&model.ProductQuestion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *questionRepository) CountByStatus(status model.QuestionStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.ProductQuestion{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
