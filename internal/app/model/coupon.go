package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponPercent CouponType = "percent"
	CouponFixed   CouponType = "fixed"
)

type Coupon struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Code           string          `gorm:"size:40;uniqueIndex;not null" json:"code"`
	Type           CouponType      `gorm:"type:varchar(10);not null" json:"type"`
	Value          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`
	MinOrderAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"min_order_amount"`
	MaxUses        int             `gorm:"default:0" json:"max_uses"` // 0 means unlimited
	UsedCount      int             `gorm:"default:0" json:"used_count"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	IsActive       bool            `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}

type CreateCouponRequest struct {
	Code           string          `json:"code" binding:"required,min=3,max=40,alphanum"`
	Type           CouponType      `json:"type" binding:"required,oneof=percent fixed"`
	Value          decimal.Decimal `json:"value" binding:"required"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	MaxUses        int             `json:"max_uses" binding:"min=0"`
	ExpiresAt      *time.Time      `json:"expires_at"`
	IsActive       *bool           `json:"is_active"`
}

type ValidateCouponRequest struct {
	Code     string          `json:"code" binding:"required,max=40"`
	Subtotal decimal.Decimal `json:"subtotal" binding:"required"`
}
