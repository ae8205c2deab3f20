package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/events"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/noirparfum/noir-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidTransition      = errors.New("order status cannot change from a final state")
	ErrGuestCheckoutDisabled  = errors.New("guest checkout is disabled")
	ErrEmptyOrder             = errors.New("order has no items")
	ErrOrderNumberUnavailable = errors.New("could not allocate an order number")
)

const maxOrderNumberAttempts = 3

// StockError reports the line that could not be fulfilled
type StockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// Broadcaster pushes live events to connected admin dashboards
type Broadcaster interface {
	Broadcast(eventType string, data interface{})
}

// OrderNotifier is told about new orders once they are committed
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order *model.Order)
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID *uint, req model.CreateOrderRequest) (*model.Order, error)
	TrackOrder(orderNumber, email string) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetUserOrder(userID, orderID uint) (*model.Order, error)
	GetOrder(orderID uint) (*model.Order, error)
	ListOrders(filter model.OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID uint, req model.UpdateOrderStatusRequest) (*model.Order, error)
	UpdateTracking(ctx context.Context, orderID uint, req model.UpdateTrackingRequest) (*model.Order, error)
	DeleteOrder(orderID uint) error
}

type orderService struct {
	db           *gorm.DB
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	couponRepo   repository.CouponRepository
	settingsRepo repository.SettingsRepository
	cartRepo     repository.CartRepository
	events       *OrderEvents
	notifier     OrderNotifier
	now          func() time.Time
}

// OrderServiceDeps bundles the collaborators of the order service.
// Publisher, Broadcaster and Notifier are optional.
type OrderServiceDeps struct {
	DB           *gorm.DB
	OrderRepo    repository.OrderRepository
	ProductRepo  repository.ProductRepository
	CouponRepo   repository.CouponRepository
	SettingsRepo repository.SettingsRepository
	CartRepo     repository.CartRepository
	Publisher    events.Publisher
	Broadcaster  Broadcaster
	Notifier     OrderNotifier
}

func NewOrderService(deps OrderServiceDeps) OrderService {
	return &orderService{
		db:           deps.DB,
		orderRepo:    deps.OrderRepo,
		productRepo:  deps.ProductRepo,
		couponRepo:   deps.CouponRepo,
		settingsRepo: deps.SettingsRepo,
		cartRepo:     deps.CartRepo,
		events:       NewOrderEvents(deps.Publisher, deps.Broadcaster),
		notifier:     deps.Notifier,
		now:          time.Now,
	}
}

// mergeLines folds repeated products into one line, keeping first-seen order
func mergeLines(lines []model.OrderLineRequest) []model.OrderLineRequest {
	merged := make([]model.OrderLineRequest, 0, len(lines))
	index := make(map[uint]int, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// computeTotals applies coupon discount, shipping and tax to the subtotal
func computeTotals(order *model.Order, settings *model.Settings) {
	afterDiscount := order.Subtotal.Sub(order.Discount)

	shipping := settings.ShippingFee.Round(2)
	if settings.FreeShippingMin.IsPositive() && afterDiscount.GreaterThanOrEqual(settings.FreeShippingMin) {
		shipping = decimal.Zero
	}
	order.ShippingFee = shipping
	order.Tax = util.PercentOf(afterDiscount, settings.TaxRate)
	order.Total = afterDiscount.Add(shipping).Add(order.Tax).Round(2)
}

func pricingMismatch(client *model.PricingBreakdown, order *model.Order) bool {
	if client == nil {
		return false
	}
	return !client.Subtotal.Round(2).Equal(order.Subtotal) ||
		!client.Discount.Round(2).Equal(order.Discount) ||
		!client.Shipping.Round(2).Equal(order.ShippingFee) ||
		!client.Tax.Round(2).Equal(order.Tax) ||
		!client.Total.Round(2).Equal(order.Total)
}

func (s *orderService) CreateOrder(ctx context.Context, userID *uint, req model.CreateOrderRequest) (*model.Order, error) {
	logger.Info("Creating order", map[string]interface{}{
		"user_id": userID,
		"email":   req.CustomerEmail,
		"lines":   len(req.Items),
	})

	lines := mergeLines(req.Items)
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.PaymentCashOnDelivery
	}
	country := strings.TrimSpace(req.Country)
	if country == "" {
		country = "FR"
	}

	order := &model.Order{
		UserID:        userID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		AddressLine1:  strings.TrimSpace(req.AddressLine1),
		AddressLine2:  strings.TrimSpace(req.AddressLine2),
		City:          strings.TrimSpace(req.City),
		State:         strings.TrimSpace(req.State),
		PostalCode:    strings.TrimSpace(req.PostalCode),
		Country:       country,
		PaymentMethod: paymentMethod,
		Status:        model.OrderStatusPending,
		Notes:         req.Notes,
		Discount:      decimal.Zero,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		settings, err := s.settingsRepo.WithTx(tx).Get()
		if err != nil {
			return err
		}
		if userID == nil && !settings.EnableGuestCheckout {
			return ErrGuestCheckoutDisabled
		}

		subtotal := decimal.Zero
		items := make([]model.OrderItem, 0, len(lines))
		for _, line := range lines {
			product, err := productRepo.FindByID(line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %d", ErrProductNotFound, line.ProductID)
				}
				return err
			}
			if !product.IsActive {
				return fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
			}
			if product.StockQuantity < line.Quantity {
				return &StockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.StockQuantity,
				}
			}

			finalPrice := product.DiscountedPrice()
			lineTotal := finalPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
			subtotal = subtotal.Add(lineTotal)

			image := ""
			if len(product.Images) > 0 {
				image = product.Images[0]
			}
			items = append(items, model.OrderItem{
				ProductID:       product.ID,
				ProductName:     product.Name,
				ProductSlug:     product.Slug,
				ProductImage:    image,
				UnitPrice:       product.Price,
				DiscountPercent: product.DiscountPercent,
				FinalUnitPrice:  finalPrice,
				Quantity:        line.Quantity,
				LineTotal:       lineTotal,
			})
		}
		order.Subtotal = subtotal.Round(2)

		if code := strings.TrimSpace(req.CouponCode); code != "" {
			couponRepo := s.couponRepo.WithTx(tx)
			coupon, err := couponRepo.FindByCode(code)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCouponInvalid
				}
				return err
			}
			discount, err := couponDiscount(coupon, order.Subtotal, s.now())
			if err != nil {
				return err
			}
			applied, err := couponRepo.IncrementUsage(coupon.ID)
			if err != nil {
				return err
			}
			if !applied {
				return ErrCouponExhausted
			}
			order.Discount = discount
			order.CouponCode = coupon.Code
		}

		computeTotals(order, settings)
		if pricingMismatch(req.Pricing, order) {
			logger.Warn("Client pricing differs from server pricing", map[string]interface{}{
				"client_total": req.Pricing.Total.String(),
				"server_total": order.Total.String(),
				"email":        order.CustomerEmail,
			})
		}

		order.OrderItems = items
		if err := s.insertWithNumber(tx, orderRepo, order); err != nil {
			return err
		}

		for _, item := range items {
			ok, err := productRepo.DecrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &StockError{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Requested:   item.Quantity,
				}
			}
		}

		if userID != nil && s.cartRepo != nil {
			if err := s.cartRepo.WithTx(tx).DeleteByUserID(*userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("Order creation aborted", map[string]interface{}{
			"email": order.CustomerEmail,
			"error": err.Error(),
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total.String(),
	})

	created, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, err
	}
	s.events.emit(ctx, events.TypeOrderPlaced, created, "")
	if s.notifier != nil {
		s.notifier.OrderPlaced(ctx, created)
	}
	return created, nil
}

// insertWithNumber allocates ORD-NNNNNN from the counter and retries on a
// duplicate number, falling back to a timestamp-based number.
// Each insert runs in a savepoint so a collision does not abort tx.
func (s *orderService) insertWithNumber(tx *gorm.DB, orderRepo repository.OrderRepository, order *model.Order) error {
	insert := func(number string) error {
		order.OrderNumber = number
		order.ID = 0
		for i := range order.OrderItems {
			order.OrderItems[i].ID = 0
			order.OrderItems[i].OrderID = 0
		}
		return tx.Transaction(func(sp *gorm.DB) error {
			return orderRepo.WithTx(sp).Create(order)
		})
	}

	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		seq, err := orderRepo.NextSequence(model.OrderCounterName)
		if err != nil {
			return err
		}
		err = insert(fmt.Sprintf("ORD-%06d", seq))
		if err == nil {
			return nil
		}
		if !apperrors.IsDuplicateKey(err) {
			return err
		}
		logger.Warn("Order number collision, retrying", map[string]interface{}{
			"order_number": order.OrderNumber,
			"attempt":      attempt,
		})
	}

	fallback := fmt.Sprintf("ORD-T%d", s.now().UnixMilli())
	if err := insert(fallback); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return ErrOrderNumberUnavailable
		}
		return err
	}
	return nil
}

func (s *orderService) TrackOrder(orderNumber, email string) (*model.Order, error) {
	order, err := s.orderRepo.FindByOrderNumber(strings.ToUpper(strings.TrimSpace(orderNumber)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !strings.EqualFold(order.CustomerEmail, strings.TrimSpace(email)) {
		logger.Warn("Order tracking email mismatch", map[string]interface{}{
			"order_number": order.OrderNumber,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetUserOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) GetOrder(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(filter model.OrderFilter) ([]model.Order, int64, error) {
	return s.orderRepo.FindWithFilter(filter)
}

// UpdateStatus moves an order to a new status. Entering cancelled restocks
// every line exactly once.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uint, req model.UpdateOrderStatusRequest) (*model.Order, error) {
	if !req.Status.Valid() {
		return nil, ErrInvalidTransition
	}

	var previous model.OrderStatus
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.FindByID(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		previous = order.Status

		if order.Status.Terminal() && order.Status != req.Status {
			return ErrInvalidTransition
		}

		fields := map[string]interface{}{"status": req.Status}
		if req.AdminNotes != nil {
			fields["admin_notes"] = *req.AdminNotes
		}
		if order.Status != req.Status {
			now := s.now()
			switch req.Status {
			case model.OrderStatusConfirmed:
				fields["confirmed_at"] = now
			case model.OrderStatusShipped:
				fields["shipped_at"] = now
			case model.OrderStatusDelivered:
				fields["delivered_at"] = now
			case model.OrderStatusCancelled:
				fields["cancelled_at"] = now
				productRepo := s.productRepo.WithTx(tx)
				for _, item := range order.OrderItems {
					if err := productRepo.IncrementStock(item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
			}
		}
		return orderRepo.UpdateFields(orderID, fields)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"from":     previous,
		"to":       order.Status,
	})
	if previous != order.Status {
		s.events.emit(ctx, events.TypeOrderStatusChanged, order, previous)
	}
	return order, nil
}

// UpdateTracking records shipment details; an order not yet shipped moves to shipped
func (s *orderService) UpdateTracking(ctx context.Context, orderID uint, req model.UpdateTrackingRequest) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, ErrInvalidTransition
	}

	previous := order.Status
	carrier := strings.TrimSpace(req.Carrier)
	trackingNumber := strings.TrimSpace(req.TrackingNumber)
	trackingURL := strings.TrimSpace(req.TrackingURL)
	trackingChanged := carrier != order.Carrier || trackingNumber != order.TrackingNumber || trackingURL != order.TrackingURL
	fields := map[string]interface{}{
		"carrier":         carrier,
		"tracking_number": trackingNumber,
		"tracking_url":    trackingURL,
	}
	if order.Status != model.OrderStatusShipped {
		fields["status"] = model.OrderStatusShipped
		fields["shipped_at"] = s.now()
	}
	if err := s.orderRepo.UpdateFields(orderID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order, err = s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	s.events.shipmentUpdated(ctx, order, previous, trackingChanged)
	return order, nil
}

func (s *orderService) DeleteOrder(orderID uint) error {
	if err := s.orderRepo.Delete(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	logger.Info("Order deleted", map[string]interface{}{
		"order_id": orderID,
	})
	return nil
}
