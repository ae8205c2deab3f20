package service

import (
	"errors"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrProductUnavailable = errors.New("product is not available")
)

// CartSummary is the cart as the storefront renders it
type CartSummary struct {
	Items     []model.CartItem `json:"items"`
	ItemCount int              `json:"item_count"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
}

type CartService interface {
	GetUserCart(userID uint) (*CartSummary, error)
	AddToCart(userID, productID uint, quantity int) error
	UpdateCartItem(userID, cartItemID uint, quantity int) error
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetUserCart(userID uint) (*CartSummary, error) {
	cartItems, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	summary := &CartSummary{Items: cartItems, Subtotal: decimal.Zero}
	for _, item := range cartItems {
		summary.ItemCount += item.Quantity
		line := item.Product.DiscountedPrice().Mul(decimal.NewFromInt(int64(item.Quantity)))
		summary.Subtotal = summary.Subtotal.Add(line)
	}
	summary.Subtotal = summary.Subtotal.Round(2)

	logger.Debug("User cart fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return summary, nil
}

func (s *cartService) loadPurchasable(productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductUnavailable
	}
	return product, nil
}

// AddToCart merges with an existing line for the same product
func (s *cartService) AddToCart(userID, productID uint, quantity int) error {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	product, err := s.loadPurchasable(productID)
	if err != nil {
		return err
	}

	requested := quantity
	existing, err := s.cartRepo.FindLine(userID, productID)
	switch {
	case err == nil:
		requested += existing.Quantity
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}
	if product.StockQuantity < requested {
		logger.Warn("Cannot add to cart: insufficient product stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"requested":  requested,
			"available":  product.StockQuantity,
		})
		return ErrInsufficientStock
	}

	return s.cartRepo.AddQuantity(userID, productID, quantity)
}

func (s *cartService) UpdateCartItem(userID, cartItemID uint, quantity int) error {
	item, err := s.cartRepo.FindOwned(userID, cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	product, err := s.loadPurchasable(item.ProductID)
	if err != nil {
		return err
	}
	if product.StockQuantity < quantity {
		return ErrInsufficientStock
	}

	return s.cartRepo.SetQuantity(userID, cartItemID, quantity)
}

func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	if err := s.cartRepo.Delete(userID, cartItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})
	return s.cartRepo.DeleteByUserID(userID)
}
