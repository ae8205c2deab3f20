package repository

import (
	"strings"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlogRepository interface {
	Create(blog *model.Blog) error
	FindByID(id uint) (*model.Blog, error)
	FindBySlug(slug string) (*model.Blog, error)
	FindWithFilter(filter model.BlogFilter) ([]model.Blog, int64, error)
	Update(blog *model.Blog) error
	Delete(id uint) error
	SlugExists(slug string, excludeID uint) (bool, error)
	RecordView(view *model.BlogView) (bool, error)
	ToggleLike(blogID uint, ip string) (bool, int, error)
	CountByStatus(status model.BlogStatus) (int64, error)
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(blog *model.Blog) error {
	logger.Debug("Creating blog in database", map[string]interface{}{
		"slug": blog.Slug,
	})

	if err := r.db.Create(blog).Error; err != nil {
		logger.Error("Failed to create blog in database", err, map[string]interface{}{
			"slug": blog.Slug,
		})
		return err
	}
	return nil
}

func (r *blogRepository) FindByID(id uint) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.First(&blog, id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) FindBySlug(slug string) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.Where("slug = ?", slug).First(&blog).Error; err != nil {
		logger.Debug("Blog not found by slug", map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) FindWithFilter(filter model.BlogFilter) ([]model.Blog, int64, error) {
	query := r.db.Model(&model.Blog{})

	if !filter.AllStatus {
		status := filter.Status
		if status == "" {
			status = model.BlogStatusPublished
		}
		query = query.Where("status = ?", status)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ?", like, like)
	}
	if filter.Tag != "" {
		if r.db.Dialector.Name() == "postgres" {
			query = query.Where("? = ANY(tags)", filter.Tag)
		} else {
			query = query.Where("tags LIKE ?", "%"+filter.Tag+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count blogs", err)
		return nil, 0, err
	}

	var blogs []model.Blog
	err := query.Order("published_at DESC").Order("created_at DESC").Order("id DESC").
		Scopes(paginate(filter.Page, filter.Limit)).
		Find(&blogs).Error
	if err != nil {
		logger.Error("Failed to find blogs with filter", err)
		return nil, 0, err
	}
	return blogs, total, nil
}

func (r *blogRepository) Update(blog *model.Blog) error {
	if err := r.db.Save(blog).Error; err != nil {
		logger.Error("Failed to update blog in database", err, map[string]interface{}{
			"blog_id": blog.ID,
		})
		return err
	}
	return nil
}

func (r *blogRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Blog{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete blog from database", result.Error, map[string]interface{}{
			"blog_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *blogRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.Blog{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	return count > 0, err
}

// RecordView stores the view marker and bumps the counter only the first time an IP is seen
func (r *blogRepository) RecordView(view *model.BlogView) (bool, error) {
	counted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(view)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		counted = true
		return tx.Model(&model.Blog{}).
			Where("id = ?", view.BlogID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error
	})
	if err != nil {
		logger.Error("Failed to record blog view", err, map[string]interface{}{
			"blog_id": view.BlogID,
		})
		return false, err
	}
	return counted, nil
}

// ToggleLike likes the blog for this IP, or removes the like when one exists
func (r *blogRepository) ToggleLike(blogID uint, ip string) (bool, int, error) {
	liked := false
	var likes int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("blog_id = ? AND ip_address = ?", blogID, ip).Delete(&model.BlogLike{})
		if result.Error != nil {
			return result.Error
		}

		delta := gorm.Expr("likes - 1")
		if result.RowsAffected == 0 {
			if err := tx.Create(&model.BlogLike{BlogID: blogID, IPAddress: ip}).Error; err != nil {
				return err
			}
			liked = true
			delta = gorm.Expr("likes + 1")
		}

		if err := tx.Model(&model.Blog{}).Where("id = ?", blogID).
			UpdateColumn("likes", delta).Error; err != nil {
			return err
		}

		var blog model.Blog
		if err := tx.Select("likes").First(&blog, blogID).Error; err != nil {
			return err
		}
		likes = blog.Likes
		return nil
	})
	if err != nil {
		logger.Error("Failed to toggle blog like", err, map[string]interface{}{
			"blog_id": blogID,
		})
		return false, 0, err
	}
	return liked, likes, nil
}

func (r *blogRepository) CountByStatus(status model.BlogStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Blog{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
