package cache

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/eliteshop/internal/models"
)

func TestCouponBook_Defaults(t *testing.T) {
	book := NewCouponBook()
	book.Load(DefaultCoupons())

	amt, ok := book.Get("ELITE500")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(500).Equal(amt))

	amt, ok = book.Get(" ELITE1000 ")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(1000).Equal(amt))

	_, ok = book.Get("elite500")
	assert.False(t, ok)
	assert.Equal(t, []string{"ELITE1000", "ELITE500"}, book.Codes())
}

func TestCouponBook_SetOverrides(t *testing.T) {
	book := NewCouponBook()
	book.Set(models.Coupon{Code: "X", Amount: decimal.NewFromInt(1)})
	book.Set(models.Coupon{Code: "X", Amount: decimal.NewFromInt(2)})

	amt, ok := book.Get("X")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(2).Equal(amt))
}

func TestParseCoupons(t *testing.T) {
	coupons, err := ParseCoupons("ELITE500:500, SPRING:12.50,")
	require.NoError(t, err)
	require.Len(t, coupons, 2)
	assert.Equal(t, "SPRING", coupons[1].Code)
	assert.Equal(t, "12.50", coupons[1].Amount.StringFixed(2))

	for _, bad := range []string{"NOAMOUNT", ":5", "X:abc", "X:-1", "X:0", "X:0.005"} {
		_, err := ParseCoupons(bad)
		assert.Error(t, err, bad)
	}
}
