package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleManager
}

type User struct {
	ID           int64           `json:"id"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"`
	Role         Role            `json:"role"`
	Balance      decimal.Decimal `json:"balance"`
	Address      string          `json:"address,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
