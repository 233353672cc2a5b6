package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/eliteshop/internal/models"
)

// CouponBook is the fixed code -> credit table consulted on redemption.
type CouponBook struct {
	mu    sync.RWMutex
	store map[string]decimal.Decimal
}

func NewCouponBook() *CouponBook {
	return &CouponBook{
		store: make(map[string]decimal.Decimal),
	}
}

// DefaultCoupons are the codes the shop has always honoured.
func DefaultCoupons() []models.Coupon {
	return []models.Coupon{
		{Code: "ELITE500", Amount: decimal.NewFromInt(500)},
		{Code: "ELITE1000", Amount: decimal.NewFromInt(1000)},
	}
}

// ParseCoupons reads "CODE:amount,CODE:amount".
func ParseCoupons(raw string) ([]models.Coupon, error) {
	var out []models.Coupon
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, amount, ok := strings.Cut(part, ":")
		code = strings.TrimSpace(code)
		if !ok || code == "" {
			return nil, fmt.Errorf("coupon %q: want CODE:amount", part)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil || !d.IsPositive() {
			return nil, fmt.Errorf("coupon %q: amount must be a positive number", part)
		}
		if !models.Cents(d) {
			return nil, fmt.Errorf("coupon %q: amount has more than two decimal places", part)
		}
		out = append(out, models.Coupon{Code: code, Amount: d})
	}
	return out, nil
}

func (c *CouponBook) Get(code string) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.store[strings.TrimSpace(code)]
	return val, ok
}

func (c *CouponBook) Set(coupon models.Coupon) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[coupon.Code] = coupon.Amount
}

func (c *CouponBook) Load(coupons []models.Coupon) {
	for _, cp := range coupons {
		c.Set(cp)
	}
}

func (c *CouponBook) Codes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	codes := make([]string, 0, len(c.store))
	for code := range c.store {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
