package repository

import (
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistRepository interface {
	Save(userID, productID uint) (*model.WishlistItem, error)
	ListByUser(userID uint) ([]model.WishlistItem, error)
	Contains(userID, productID uint) (bool, error)
	Delete(userID, productID uint) error
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// Save is idempotent and returns the stored entry either way
func (r *wishlistRepository) Save(userID, productID uint) (*model.WishlistItem, error) {
	item := model.WishlistItem{UserID: userID, ProductID: productID}
	err := r.db.Omit("Product").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&item).Error
	if err != nil {
		logger.Error("Failed to save wishlist entry", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	var stored model.WishlistItem
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListByUser returns newest first, skipping products that were deleted
func (r *wishlistRepository) ListByUser(userID uint) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	err := r.db.InnerJoins("Product").
		Where("wishlist_items.user_id = ?", userID).
		Order("wishlist_items.created_at DESC").
		Order("wishlist_items.id DESC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to list wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return items, nil
}

func (r *wishlistRepository) Contains(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *wishlistRepository) Delete(userID, productID uint) error {
	result := r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&model.WishlistItem{})
	if result.Error != nil {
		logger.Error("Failed to delete wishlist entry", result.Error, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
