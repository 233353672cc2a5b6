package models

import "github.com/shopspring/decimal"

// CartEntry is one (user, product) row of a cart. There is at most one
// entry per pair; repeat adds bump Quantity.
type CartEntry struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartLine is a cart entry joined with the live product it points at.
type CartLine struct {
	Entry    CartEntry       `json:"entry"`
	Product  Product         `json:"product"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Lines   []CartLine      `json:"lines"`
	Total   decimal.Decimal `json:"total"`
	Balance decimal.Decimal `json:"balance"`
}
