package service

import (
	"testing"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCouponServiceTest(t *testing.T) CouponService {
	testDB := setupTestDB(t)
	return NewCouponService(repository.NewCouponRepository(testDB))
}

func TestCouponService_Create(t *testing.T) {
	couponService := setupCouponServiceTest(t)

	coupon, err := couponService.Create(model.CreateCouponRequest{
		Code:  "spring20",
		Type:  model.CouponPercent,
		Value: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Equal(t, "SPRING20", coupon.Code)
	assert.True(t, coupon.IsActive)

	_, err = couponService.Create(model.CreateCouponRequest{Code: "BIG", Type: model.CouponPercent, Value: decimal.NewFromInt(150)})
	assert.ErrorIs(t, err, ErrInvalidCouponValue)

	_, err = couponService.Create(model.CreateCouponRequest{Code: "NEG", Type: model.CouponFixed, Value: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, ErrInvalidCouponValue)
}

func TestCouponService_Validate(t *testing.T) {
	couponService := setupCouponServiceTest(t)
	past := time.Now().Add(-time.Hour)

	_, err := couponService.Create(model.CreateCouponRequest{
		Code:           "TENOFF",
		Type:           model.CouponFixed,
		Value:          decimal.NewFromInt(10),
		MinOrderAmount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	_, err = couponService.Create(model.CreateCouponRequest{
		Code:      "OLD",
		Type:      model.CouponPercent,
		Value:     decimal.NewFromInt(10),
		ExpiresAt: &past,
	})
	require.NoError(t, err)
	inactive := false
	paused, err := couponService.Create(model.CreateCouponRequest{
		Code:     "PAUSED",
		Type:     model.CouponPercent,
		Value:    decimal.NewFromInt(10),
		IsActive: &inactive,
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		code     string
		subtotal int64
		discount int64
		wantErr  error
	}{
		{name: "Fixed discount", code: "tenoff", subtotal: 80, discount: 10},
		{name: "Below minimum", code: "TENOFF", subtotal: 40, wantErr: ErrCouponMinimumSpend},
		{name: "Expired", code: "OLD", subtotal: 80, wantErr: ErrCouponExpired},
		{name: "Inactive", code: "PAUSED", subtotal: 80, wantErr: ErrCouponInvalid},
		{name: "Unknown", code: "NOPE", subtotal: 80, wantErr: ErrCouponInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := couponService.Validate(tt.code, decimal.NewFromInt(tt.subtotal))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.discount).Equal(quote.Discount))
			assert.True(t, decimal.NewFromInt(tt.subtotal-tt.discount).Equal(quote.Total))
		})
	}

	_, err = couponService.SetActive(paused.ID, true)
	require.NoError(t, err)
	_, err = couponService.Validate("PAUSED", decimal.NewFromInt(80))
	assert.NoError(t, err)
}

func TestCouponDiscount_CappedAtSubtotal(t *testing.T) {
	coupon := &model.Coupon{Type: model.CouponFixed, Value: decimal.NewFromInt(30), IsActive: true}

	discount, err := couponDiscount(coupon, decimal.NewFromInt(20), time.Now())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(discount))

	coupon.MaxUses = 2
	coupon.UsedCount = 2
	_, err = couponDiscount(coupon, decimal.NewFromInt(20), time.Now())
	assert.ErrorIs(t, err, ErrCouponExhausted)
}

func TestCouponService_Delete(t *testing.T) {
	couponService := setupCouponServiceTest(t)
	coupon, err := couponService.Create(model.CreateCouponRequest{Code: "GONE", Type: model.CouponFixed, Value: decimal.NewFromInt(5)})
	require.NoError(t, err)

	require.NoError(t, couponService.Delete(coupon.ID))
	assert.ErrorIs(t, couponService.Delete(coupon.ID), ErrCouponNotFound)

	coupons, err := couponService.List()
	require.NoError(t, err)
	assert.Empty(t, coupons)
}
