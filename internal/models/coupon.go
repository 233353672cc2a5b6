package models

import "github.com/shopspring/decimal"

// Coupon credits a fixed Amount to the redeeming user's balance.
type Coupon struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
}

type Redemption struct {
	Code       string          `json:"code"`
	Credited   decimal.Decimal `json:"credited"`
	NewBalance decimal.Decimal `json:"balance"`
}
