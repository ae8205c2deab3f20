package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the fixed primary key of the only settings row
const SettingsID uint = 1

type Settings struct {
	ID                   uint            `gorm:"primarykey" json:"-"`
	SiteName             string          `gorm:"size:120;not null" json:"site_name"`
	Tagline              string          `gorm:"size:255" json:"tagline"`
	ContactEmail         string          `gorm:"size:200" json:"contact_email"`
	ContactPhone         string          `gorm:"size:40" json:"contact_phone"`
	WhatsAppNumber       string          `gorm:"size:40" json:"whatsapp_number"`
	Address              string          `gorm:"type:text" json:"address"`
	Currency             string          `gorm:"size:3;default:'EUR'" json:"currency"`
	TaxRate              decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"tax_rate"`
	ShippingFee          decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"shipping_fee"`
	FreeShippingMin      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"free_shipping_min"` // 0 disables free shipping
	LowStockThreshold    int             `gorm:"default:5" json:"low_stock_threshold"`
	InstagramURL         string          `gorm:"size:255" json:"instagram_url"`
	FacebookURL          string          `gorm:"size:255" json:"facebook_url"`
	TikTokURL            string          `gorm:"size:255" json:"tiktok_url"`
	MetaTitle            string          `gorm:"size:200" json:"meta_title"`
	MetaDescription      string          `gorm:"size:500" json:"meta_description"`
	MaintenanceMode      bool            `gorm:"default:false" json:"maintenance_mode"`
	EnableReviews        bool            `gorm:"not null" json:"enable_reviews"`
	EnableComments       bool            `gorm:"not null" json:"enable_comments"`
	EnableGuestCheckout  bool            `gorm:"not null" json:"enable_guest_checkout"`
	EnableEmailNotify    bool            `gorm:"not null" json:"enable_email_notifications"`
	EnableWhatsAppNotify bool            `gorm:"default:false" json:"enable_whatsapp_notifications"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings is the row created on first read
func DefaultSettings() Settings {
	return Settings{
		ID:                   SettingsID,
		SiteName:             "Noir Parfum",
		Currency:             "EUR",
		TaxRate:              decimal.Zero,
		ShippingFee:          decimal.NewFromInt(5),
		FreeShippingMin:      decimal.NewFromInt(100),
		LowStockThreshold:    5,
		EnableReviews:        true,
		EnableComments:       true,
		EnableGuestCheckout:  true,
		EnableEmailNotify:    true,
		EnableWhatsAppNotify: false,
	}
}

// PublicSettings is the storefront-safe subset
type PublicSettings struct {
	SiteName            string          `json:"site_name"`
	Tagline             string          `json:"tagline"`
	ContactEmail        string          `json:"contact_email"`
	ContactPhone        string          `json:"contact_phone"`
	WhatsAppNumber      string          `json:"whatsapp_number"`
	Address             string          `json:"address"`
	Currency            string          `json:"currency"`
	TaxRate             decimal.Decimal `json:"tax_rate"`
	ShippingFee         decimal.Decimal `json:"shipping_fee"`
	FreeShippingMin     decimal.Decimal `json:"free_shipping_min"`
	InstagramURL        string          `json:"instagram_url"`
	FacebookURL         string          `json:"facebook_url"`
	TikTokURL           string          `json:"tiktok_url"`
	MetaTitle           string          `json:"meta_title"`
	MetaDescription     string          `json:"meta_description"`
	MaintenanceMode     bool            `json:"maintenance_mode"`
	EnableReviews       bool            `json:"enable_reviews"`
	EnableComments      bool            `json:"enable_comments"`
	EnableGuestCheckout bool            `json:"enable_guest_checkout"`
}

func (s Settings) Public() PublicSettings {
	return PublicSettings{
		SiteName:            s.SiteName,
		Tagline:             s.Tagline,
		ContactEmail:        s.ContactEmail,
		ContactPhone:        s.ContactPhone,
		WhatsAppNumber:      s.WhatsAppNumber,
		Address:             s.Address,
		Currency:            s.Currency,
		TaxRate:             s.TaxRate,
		ShippingFee:         s.ShippingFee,
		FreeShippingMin:     s.FreeShippingMin,
		InstagramURL:        s.InstagramURL,
		FacebookURL:         s.FacebookURL,
		TikTokURL:           s.TikTokURL,
		MetaTitle:           s.MetaTitle,
		MetaDescription:     s.MetaDescription,
		MaintenanceMode:     s.MaintenanceMode,
		EnableReviews:       s.EnableReviews,
		EnableComments:      s.EnableComments,
		EnableGuestCheckout: s.EnableGuestCheckout,
	}
}

// UpdateSettingsRequest replaces the whole settings record
type UpdateSettingsRequest struct {
	SiteName             string          `json:"site_name" binding:"required,min=2,max=120"`
	Tagline              string          `json:"tagline" binding:"max=255"`
	ContactEmail         string          `json:"contact_email" binding:"omitempty,email"`
	ContactPhone         string          `json:"contact_phone" binding:"max=40"`
	WhatsAppNumber       string          `json:"whatsapp_number" binding:"max=40"`
	Address              string          `json:"address" binding:"max=1000"`
	Currency             string          `json:"currency" binding:"required,len=3,uppercase"`
	TaxRate              decimal.Decimal `json:"tax_rate"`
	ShippingFee          decimal.Decimal `json:"shipping_fee"`
	FreeShippingMin      decimal.Decimal `json:"free_shipping_min"`
	LowStockThreshold    int             `json:"low_stock_threshold" binding:"min=0,max=1000"`
	InstagramURL         string          `json:"instagram_url" binding:"omitempty,url"`
	FacebookURL          string          `json:"facebook_url" binding:"omitempty,url"`
	TikTokURL            string          `json:"tiktok_url" binding:"omitempty,url"`
	MetaTitle            string          `json:"meta_title" binding:"max=200"`
	MetaDescription      string          `json:"meta_description" binding:"max=500"`
	MaintenanceMode      bool            `json:"maintenance_mode"`
	EnableReviews        bool            `json:"enable_reviews"`
	EnableComments       bool            `json:"enable_comments"`
	EnableGuestCheckout  bool            `json:"enable_guest_checkout"`
	EnableEmailNotify    bool            `json:"enable_email_notifications"`
	EnableWhatsAppNotify bool            `json:"enable_whatsapp_notifications"`
}
