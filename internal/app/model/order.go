package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string   // order lifecycle state
type PaymentMethod string // how the customer pays

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // accepted by the shop
	OrderStatusProcessing OrderStatus = "processing" // being packed
	OrderStatusShipped    OrderStatus = "shipped"    // handed to the carrier
	OrderStatusDelivered  OrderStatus = "delivered"  // received by the customer
	OrderStatusCancelled  OrderStatus = "cancelled"  // cancelled, stock restored
	OrderStatusOnHold     OrderStatus = "on_hold"    // paused by the shop

	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentCard           PaymentMethod = "card"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusOnHold,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal statuses cannot be left once reached
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusDelivered
}

type Order struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	OrderNumber   string          `gorm:"size:32;uniqueIndex;not null" json:"order_number"`    // ORD-000001
	UserID        *uint           `gorm:"index" json:"user_id,omitempty"`                      // set when placed while logged in
	CustomerName  string          `gorm:"size:120;not null" json:"customer_name"`              // guest contact
	CustomerEmail string          `gorm:"size:200;not null;index" json:"customer_email"`       // guest contact
	CustomerPhone string          `gorm:"size:40;not null" json:"customer_phone"`              // guest contact
	AddressLine1  string          `gorm:"size:255;not null" json:"address_line1"`              // shipping address
	AddressLine2  string          `gorm:"size:255" json:"address_line2"`                       // shipping address
	City          string          `gorm:"size:100;not null" json:"city"`                       // shipping address
	State         string          `gorm:"size:100" json:"state"`                               // shipping address
	PostalCode    string          `gorm:"size:20" json:"postal_code"`                          // shipping address
	Country       string          `gorm:"size:80;default:'FR'" json:"country"`                 // shipping address
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`         // sum of discounted lines
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount"`        // coupon discount
	ShippingFee   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"shipping_fee"`    // from settings
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"tax"`             // from settings
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`            // amount due
	CouponCode    string          `gorm:"size:40" json:"coupon_code,omitempty"`                // applied coupon
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);default:'cod'" json:"payment_method"` // payment choice
	Status        OrderStatus     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Notes         string          `gorm:"type:text" json:"notes"`
	AdminNotes    string          `gorm:"type:text" json:"admin_notes,omitempty"`

	ConfirmationEmailSent      bool       `gorm:"default:false" json:"confirmation_email_sent"`
	ConfirmationEmailSentAt    *time.Time `json:"confirmation_email_sent_at,omitempty"`
	ConfirmationWhatsAppSent   bool       `gorm:"column:confirmation_whatsapp_sent;default:false" json:"confirmation_whatsapp_sent"`
	ConfirmationWhatsAppSentAt *time.Time `gorm:"column:confirmation_whatsapp_sent_at" json:"confirmation_whatsapp_sent_at,omitempty"`
	TrackingEmailSent          bool       `gorm:"default:false" json:"tracking_email_sent"`
	TrackingEmailSentAt        *time.Time `json:"tracking_email_sent_at,omitempty"`
	TrackingWhatsAppSent       bool       `gorm:"column:tracking_whatsapp_sent;default:false" json:"tracking_whatsapp_sent"`
	TrackingWhatsAppSentAt     *time.Time `gorm:"column:tracking_whatsapp_sent_at" json:"tracking_whatsapp_sent_at,omitempty"`

	Carrier        string     `gorm:"size:80" json:"carrier,omitempty"`
	TrackingNumber string     `gorm:"size:80" json:"tracking_number,omitempty"`
	TrackingURL    string     `gorm:"size:500" json:"tracking_url,omitempty"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// ShippingAddress renders the address on a single line
func (o Order) ShippingAddress() string {
	addr := o.AddressLine1
	if o.AddressLine2 != "" {
		addr += ", " + o.AddressLine2
	}
	addr += ", " + o.City
	if o.State != "" {
		addr += ", " + o.State
	}
	if o.PostalCode != "" {
		addr += " " + o.PostalCode
	}
	if o.Country != "" {
		addr += ", " + o.Country
	}
	return addr
}

// OrderItem is a snapshot of the product at purchase time
type OrderItem struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	OrderID         uint            `gorm:"not null;index" json:"order_id"`
	ProductID       uint            `gorm:"not null;index" json:"product_id"`
	ProductName     string          `gorm:"size:200;not null" json:"product_name"`
	ProductSlug     string          `gorm:"size:220" json:"product_slug"`
	ProductImage    string          `gorm:"size:500" json:"product_image"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	DiscountPercent int             `gorm:"default:0" json:"discount_percent"`
	FinalUnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"final_unit_price"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderCounterName is the counters row backing order numbers
const OrderCounterName = "order"

// Counter is an atomically incremented named sequence
type Counter struct {
	Name      string    `gorm:"primaryKey;size:50" json:"name"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Counter) TableName() string {
	return "counters"
}

type OrderLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=99"`
}

// PricingBreakdown is the client's view of the totals, checked against the server's
type PricingBreakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name" binding:"required,min=2,max=120"`
	CustomerEmail string             `json:"customer_email" binding:"required,email"`
	CustomerPhone string             `json:"customer_phone" binding:"required,min=6,max=40"`
	AddressLine1  string             `json:"address_line1" binding:"required,max=255"`
	AddressLine2  string             `json:"address_line2" binding:"max=255"`
	City          string             `json:"city" binding:"required,max=100"`
	State         string             `json:"state" binding:"max=100"`
	PostalCode    string             `json:"postal_code" binding:"max=20"`
	Country       string             `json:"country" binding:"max=80"`
	Items         []OrderLineRequest `json:"items" binding:"required,min=1,max=50,dive"`
	CouponCode    string             `json:"coupon_code" binding:"max=40"`
	PaymentMethod PaymentMethod      `json:"payment_method" binding:"omitempty,oneof=cod card bank_transfer"`
	Notes         string             `json:"notes" binding:"max=1000"`
	Pricing       *PricingBreakdown  `json:"pricing"`
}

type UpdateOrderStatusRequest struct {
	Status     OrderStatus `json:"status" binding:"required,oneof=pending confirmed processing shipped delivered cancelled on_hold"`
	AdminNotes *string     `json:"admin_notes"`
}

type UpdateTrackingRequest struct {
	Carrier        string `json:"carrier" binding:"max=80"`
	TrackingNumber string `json:"tracking_number" binding:"required,max=80"`
	TrackingURL    string `json:"tracking_url" binding:"omitempty,url,max=500"`
}

type TrackOrderQuery struct {
	OrderNumber string `form:"order_number" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
}

type OrderFilter struct {
	Status OrderStatus
	Search string
	From   *time.Time
	To     *time.Time
	UserID *uint
	Page   int
	Limit  int
}
