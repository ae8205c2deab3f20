package repository

import (
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

type CommentRepository interface {
	WithTx(tx *gorm.DB) CommentRepository
	Create(comment *model.Comment) error
	CreateBatch(comments []model.Comment) error
	FindByID(id uint) (*model.Comment, error)
	FindApprovedByBlog(blogID uint) ([]model.Comment, error)
	FindWithFilter(filter model.CommentFilter) ([]model.Comment, int64, error)
	UpdateStatus(id uint, status model.ModerationStatus) error
	Delete(id uint) error
	CountByStatus(status model.ModerationStatus) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	logger.Debug("Creating comment in database", map[string]interface{}{
		"blog_id":   comment.BlogID,
		"parent_id": comment.ParentID,
	})

	if err := r.db.Omit("Blog", "Replies").Create(comment).Error; err != nil {
		logger.Error("Failed to create comment in database", err, map[string]interface{}{
			"blog_id": comment.BlogID,
		})
		return err
	}
	return nil
}

func (r *commentRepository) CreateBatch(comments []model.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	if err := r.db.Omit("Blog", "Replies").CreateInBatches(&comments, 100).Error; err != nil {
		logger.Error("Failed to create comment batch", err, map[string]interface{}{
			"count": len(comments),
		})
		return err
	}
	return nil
}

func (r *commentRepository) FindByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindApprovedByBlog returns approved top-level comments with their approved replies
func (r *commentRepository) FindApprovedByBlog(blogID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Where("blog_id = ? AND parent_id IS NULL AND status = ?", blogID, model.ModerationApproved).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", model.ModerationApproved).Order("created_at ASC")
		}).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to find comments by blog", err, map[string]interface{}{
			"blog_id": blogID,
		})
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) FindWithFilter(filter model.CommentFilter) ([]model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{})
	if filter.BlogID != nil {
		query = query.Where("blog_id = ?", *filter.BlogID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count comments", err)
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Order("created_at DESC").Order("id DESC").
		Scopes(paginate(filter.Page, filter.Limit)).
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to find comments with filter", err)
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepository) UpdateStatus(id uint, status model.ModerationStatus) error {
	result := r.db.Model(&model.Comment{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update comment status", result.Error, map[string]interface{}{
			"comment_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the comment together with its replies
func (r *commentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Comment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *commentRepository) CountByStatus(status model.ModerationStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
