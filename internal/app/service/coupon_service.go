package service

import (
	"errors"
	"strings"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/noirparfum/noir-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponInvalid      = errors.New("coupon is not valid")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponExhausted    = errors.New("coupon usage limit reached")
	ErrCouponMinimumSpend = errors.New("order does not reach the coupon minimum")
	ErrInvalidCouponValue = errors.New("invalid coupon value")
)

// CouponQuote is the outcome of applying a coupon to a subtotal
type CouponQuote struct {
	Code     string          `json:"code"`
	Type     string          `json:"type"`
	Discount decimal.Decimal `json:"discount"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

type CouponService interface {
	Validate(code string, subtotal decimal.Decimal) (*CouponQuote, error)
	List() ([]model.Coupon, error)
	Create(req model.CreateCouponRequest) (*model.Coupon, error)
	SetActive(id uint, active bool) (*model.Coupon, error)
	Delete(id uint) error
}

type couponService struct {
	couponRepo repository.CouponRepository
}

func NewCouponService(couponRepo repository.CouponRepository) CouponService {
	return &couponService{couponRepo: couponRepo}
}

// couponDiscount checks usability at now and returns the discount, capped at the subtotal
func couponDiscount(coupon *model.Coupon, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !coupon.IsActive {
		return decimal.Zero, ErrCouponInvalid
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return decimal.Zero, ErrCouponExpired
	}
	if coupon.MaxUses > 0 && coupon.UsedCount >= coupon.MaxUses {
		return decimal.Zero, ErrCouponExhausted
	}
	if subtotal.LessThan(coupon.MinOrderAmount) {
		return decimal.Zero, ErrCouponMinimumSpend
	}

	var discount decimal.Decimal
	switch coupon.Type {
	case model.CouponPercent:
		discount = util.PercentOf(subtotal, coupon.Value)
	case model.CouponFixed:
		discount = coupon.Value.Round(2)
	default:
		return decimal.Zero, ErrCouponInvalid
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount, nil
}

func (s *couponService) findByCode(code string) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByCode(strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponInvalid
		}
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) Validate(code string, subtotal decimal.Decimal) (*CouponQuote, error) {
	coupon, err := s.findByCode(code)
	if err != nil {
		return nil, err
	}
	discount, err := couponDiscount(coupon, subtotal, time.Now())
	if err != nil {
		logger.Debug("Coupon rejected", map[string]interface{}{
			"code":   coupon.Code,
			"reason": err.Error(),
		})
		return nil, err
	}
	return &CouponQuote{
		Code:     coupon.Code,
		Type:     string(coupon.Type),
		Discount: discount,
		Subtotal: subtotal.Round(2),
		Total:    subtotal.Sub(discount).Round(2),
	}, nil
}

func (s *couponService) List() ([]model.Coupon, error) {
	return s.couponRepo.FindAll()
}

func (s *couponService) Create(req model.CreateCouponRequest) (*model.Coupon, error) {
	if !req.Value.IsPositive() {
		return nil, ErrInvalidCouponValue
	}
	if req.Type == model.CouponPercent && req.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidCouponValue
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	coupon := &model.Coupon{
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:           req.Type,
		Value:          req.Value.Round(2),
		MinOrderAmount: req.MinOrderAmount.Round(2),
		MaxUses:        req.MaxUses,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       active,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	logger.Info("Coupon created", map[string]interface{}{
		"coupon_id": coupon.ID,
		"code":      coupon.Code,
	})
	return coupon, nil
}

func (s *couponService) SetActive(id uint, active bool) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	coupon.IsActive = active
	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) Delete(id uint) error {
	if err := s.couponRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}
	return nil
}
