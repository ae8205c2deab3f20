package model

import (
	"time"

	"github.com/noirparfum/noir-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderWomen  Gender = "women"
	GenderMen    Gender = "men"
	GenderUnisex Gender = "unisex"
)

type Product struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	Name            string          `gorm:"size:200;not null" json:"name"`
	Slug            string          `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Description     string          `gorm:"type:text" json:"description"`
	Brand           string          `gorm:"size:100;index" json:"brand"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountPercent int             `gorm:"default:0" json:"discount_percent"`
	StockQuantity   int             `gorm:"default:0;not null" json:"stock_quantity"`
	Images          StringList      `json:"images"`
	CategoryID      *uint           `gorm:"index" json:"category_id,omitempty"`
	IsFeatured      bool            `gorm:"default:false;index" json:"is_featured"`
	IsActive        bool            `gorm:"index" json:"is_active"`
	SizeML          int             `json:"size_ml"`
	Gender          Gender          `gorm:"type:varchar(10);default:'unisex'" json:"gender"`
	Concentration   string          `gorm:"size:40" json:"concentration"`
	TopNotes        StringList      `json:"top_notes"`
	HeartNotes      StringList      `json:"heart_notes"`
	BaseNotes       StringList      `json:"base_notes"`
	ReviewCount     int             `gorm:"default:0" json:"review_count"`
	AverageRating   float64         `gorm:"default:0" json:"average_rating"`
	ViewCount       int             `gorm:"default:0" json:"view_count"`
	SoldCount       int             `gorm:"default:0" json:"sold_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	Category   *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	FinalPrice decimal.Decimal `gorm:"-" json:"final_price"`
	InStock    bool            `gorm:"-" json:"in_stock"`
}

func (Product) TableName() string {
	return "products"
}

// DiscountedPrice is the unit price a customer pays today
func (p Product) DiscountedPrice() decimal.Decimal {
	return util.DiscountedPrice(p.Price, p.DiscountPercent)
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.FinalPrice = p.DiscountedPrice()
	p.InStock = p.StockQuantity > 0
	return nil
}

type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortPopular   ProductSort = "popular"
	ProductSortRating    ProductSort = "rating"
)

type ProductFilter struct {
	CategorySlug    string
	CategoryIDs     []uint
	Search          string
	Brand           string
	Gender          Gender
	Featured        *bool
	InStock         bool
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	IncludeInactive bool
	Sort            ProductSort
	Page            int
	Limit           int
}

type CreateProductRequest struct {
	Name            string          `json:"name" binding:"required,min=2,max=200"`
	Slug            string          `json:"slug" binding:"omitempty,max=220"`
	Description     string          `json:"description"`
	Brand           string          `json:"brand" binding:"max=100"`
	Price           decimal.Decimal `json:"price" binding:"required"`
	DiscountPercent int             `json:"discount_percent" binding:"min=0,max=100"`
	StockQuantity   int             `json:"stock_quantity" binding:"min=0"`
	Images          []string        `json:"images" binding:"max=12,dive,url"`
	CategoryID      *uint           `json:"category_id"`
	IsFeatured      bool            `json:"is_featured"`
	IsActive        *bool           `json:"is_active"`
	SizeML          int             `json:"size_ml" binding:"min=0,max=5000"`
	Gender          Gender          `json:"gender" binding:"omitempty,oneof=women men unisex"`
	Concentration   string          `json:"concentration" binding:"max=40"`
	TopNotes        []string        `json:"top_notes"`
	HeartNotes      []string        `json:"heart_notes"`
	BaseNotes       []string        `json:"base_notes"`
}

type UpdateProductRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=2,max=200"`
	Slug            *string          `json:"slug" binding:"omitempty,max=220"`
	Description     *string          `json:"description"`
	Brand           *string          `json:"brand" binding:"omitempty,max=100"`
	Price           *decimal.Decimal `json:"price"`
	DiscountPercent *int             `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	StockQuantity   *int             `json:"stock_quantity" binding:"omitempty,min=0"`
	Images          []string         `json:"images" binding:"omitempty,max=12,dive,url"`
	CategoryID      *uint            `json:"category_id"`
	IsFeatured      *bool            `json:"is_featured"`
	IsActive        *bool            `json:"is_active"`
	SizeML          *int             `json:"size_ml" binding:"omitempty,min=0,max=5000"`
	Gender          *Gender          `json:"gender" binding:"omitempty,oneof=women men unisex"`
	Concentration   *string          `json:"concentration" binding:"omitempty,max=40"`
	TopNotes        []string         `json:"top_notes"`
	HeartNotes      []string         `json:"heart_notes"`
	BaseNotes       []string         `json:"base_notes"`
}

type AdjustStockRequest struct {
	// Delta is added to the current stock; Set replaces it when provided
	Delta int  `json:"delta"`
	Set   *int `json:"set" binding:"omitempty,min=0"`
}
