package repository

import (
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository stores cart lines. Every lookup that takes a line id is
// scoped to its owner, so a foreign id reads as not found.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	ListByUser(userID uint) ([]model.CartItem, error)
	FindLine(userID, productID uint) (*model.CartItem, error)
	FindOwned(userID, cartItemID uint) (*model.CartItem, error)
	AddQuantity(userID, productID uint, quantity int) error
	SetQuantity(userID, cartItemID uint, quantity int) error
	Delete(userID, cartItemID uint) error
	DeleteByUserID(userID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepository{db: tx}
}

// ListByUser returns lines oldest first; lines whose product was deleted drop out
func (r *cartRepository) ListByUser(userID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.InnerJoins("Product").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at ASC").
		Order("cart_items.id ASC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to list cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) FindLine(userID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindOwned(userID, cartItemID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Preload("Product").
		Where("id = ? AND user_id = ?", cartItemID, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddQuantity inserts the line or adds to the existing one in a single statement
func (r *cartRepository) AddQuantity(userID, productID uint, quantity int) error {
	item := model.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	err := r.db.Omit("Product", "User").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
				"updated_at": time.Now(),
			}),
		}).
		Create(&item).Error
	if err != nil {
		logger.Error("Failed to add to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"quantity":   quantity,
		})
		return err
	}
	return nil
}

func (r *cartRepository) SetQuantity(userID, cartItemID uint, quantity int) error {
	result := r.db.Model(&model.CartItem{}).
		Where("id = ? AND user_id = ?", cartItemID, userID).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()})
	if result.Error != nil {
		logger.Error("Failed to set cart quantity", result.Error, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cartRepository) Delete(userID, cartItemID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", cartItemID, userID).Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete cart line", result.Error, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByUserID empties the cart; checkout calls it inside its transaction
func (r *cartRepository) DeleteByUserID(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}
