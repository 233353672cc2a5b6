package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStock is applied when a manager creates a product without a stock count.
const DefaultStock = 10

// Column limits: price is NUMERIC(12,2), stock is INTEGER.
const MaxStock = math.MaxInt32

var MaxPrice = decimal.RequireFromString("9999999999.99")

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImageRef    string          `json:"image,omitempty"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
}
